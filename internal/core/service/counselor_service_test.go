package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/ports"
	"github.com/carevillage/admin-api/internal/core/query"
	"github.com/carevillage/admin-api/internal/infrastructure/db/memory"
)

func newCounselorService(cache PageCache) (*CounselorService, *memory.Store) {
	store := seededStore()
	svc := NewCounselorService(store.Counselors, store.Accounts, store.Audit, cache, zerolog.Nop())
	svc.now = clock
	return svc, store
}

func TestCounselorService_ApproveSetsApprovalDate(t *testing.T) {
	svc, store := newCounselorService(nil)

	c, err := svc.Transition(context.Background(), ports.TransitionInput{ID: "cvc-3", Status: "approved", Actor: actor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Status != domain.CounselorApproved {
		t.Fatalf("expected approved, got %s", c.Status)
	}
	if c.ApprovalDate == nil || !c.ApprovalDate.Equal(fixedNow) {
		t.Fatalf("expected approval date %v, got %v", fixedNow, c.ApprovalDate)
	}

	stored, _ := store.Counselors.FindByID(context.Background(), "cvc-3")
	if stored.Status != domain.CounselorApproved {
		t.Errorf("status not persisted: %s", stored.Status)
	}
	if store.Audit.Len() != 1 {
		t.Errorf("expected one audit entry, got %d", store.Audit.Len())
	}
}

func TestCounselorService_IllegalTransitionLeavesRecord(t *testing.T) {
	svc, store := newCounselorService(nil)
	ctx := context.Background()
	before, _ := store.Counselors.FindByID(ctx, "cvc-5")

	_, err := svc.Transition(ctx, ports.TransitionInput{ID: "cvc-5", Status: "approved", Actor: actor})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	var te *domain.TransitionError
	if !errors.As(err, &te) || te.From != "rejected" || te.To != "approved" {
		t.Fatalf("expected rejected -> approved in error, got %v", err)
	}

	after, _ := store.Counselors.FindByID(ctx, "cvc-5")
	if !reflect.DeepEqual(before, after) {
		t.Errorf("record changed: %+v -> %+v", before, after)
	}
	if store.Audit.Len() != 0 {
		t.Errorf("refused transitions must not be audited")
	}
}

func TestCounselorService_SuspendReinstateKeepsApprovalDate(t *testing.T) {
	svc, store := newCounselorService(nil)
	ctx := context.Background()
	original, _ := store.Counselors.FindByID(ctx, "cvc-1")

	for _, status := range []string{"suspended", "approved"} {
		if _, err := svc.Transition(ctx, ports.TransitionInput{ID: "cvc-1", Status: status, Actor: actor}); err != nil {
			t.Fatalf("%s: %v", status, err)
		}
	}

	c, _ := store.Counselors.FindByID(ctx, "cvc-1")
	if !c.ApprovalDate.Equal(*original.ApprovalDate) {
		t.Errorf("approval date changed from %v to %v", original.ApprovalDate, c.ApprovalDate)
	}
}

func TestCounselorService_UnknownStatusAndMissingRecord(t *testing.T) {
	svc, _ := newCounselorService(nil)
	ctx := context.Background()

	if _, err := svc.Transition(ctx, ports.TransitionInput{ID: "cvc-1", Status: "archived"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Transition(ctx, ports.TransitionInput{ID: "nope", Status: "approved"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCounselorService_CreateStartsPendingAndLinksAccount(t *testing.T) {
	svc, _ := newCounselorService(nil)

	c, err := svc.Create(context.Background(), ports.CreateCounselorInput{
		Email:       "Emily.R@example.com",
		Name:        "Emily Rivera",
		Specialties: []string{"Anxiety", " anxiety ", "Sleep"},
		Actor:       actor,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Status != domain.CounselorPending || c.ApprovalDate != nil {
		t.Errorf("new applications must be pending without approval date: %+v", c)
	}
	if c.AccountID != "9" {
		t.Errorf("expected account 9 linked by e-mail, got %q", c.AccountID)
	}
	if !reflect.DeepEqual(c.Specialties, []string{"Anxiety", "Sleep"}) {
		t.Errorf("unexpected specialties %v", c.Specialties)
	}
}

func TestCounselorService_CreateRejectsUnknownAccount(t *testing.T) {
	svc, _ := newCounselorService(nil)

	_, err := svc.Create(context.Background(), ports.CreateCounselorInput{AccountID: "404", Email: "x@example.com", Name: "X"})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestCounselorService_ListCachesUntilMutation(t *testing.T) {
	cache := newRecordingCache()
	svc, _ := newCounselorService(cache)
	ctx := context.Background()
	d := query.Descriptor{Filters: map[string]string{domain.CounselorFilterStatus: "pending"}, PageSize: 25}

	first, err := svc.List(ctx, d)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if first.Total != 2 {
		t.Fatalf("expected 2 pending, got %d", first.Total)
	}
	if _, err := svc.List(ctx, d); err != nil {
		t.Fatalf("list: %v", err)
	}
	if cache.hits != 1 {
		t.Fatalf("expected second list to hit the cache, hits=%d", cache.hits)
	}

	if _, err := svc.Transition(ctx, ports.TransitionInput{ID: "cvc-3", Status: "approved", Actor: actor}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if cache.invalidated[domain.CounselorQuery.Name] != 1 {
		t.Fatalf("expected one invalidation, got %d", cache.invalidated[domain.CounselorQuery.Name])
	}

	after, err := svc.List(ctx, d)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if after.Total != 1 {
		t.Errorf("stale page served: total %d", after.Total)
	}
}

// racingCounselors runs onList once, after the first repository read has
// taken its snapshot and before that snapshot is returned.
type racingCounselors struct {
	ports.CounselorRepository
	onList func()
}

func (r *racingCounselors) List(ctx context.Context, d query.Descriptor) (*query.Page[domain.Counselor], error) {
	page, err := r.CounselorRepository.List(ctx, d)
	if r.onList != nil {
		hook := r.onList
		r.onList = nil
		hook()
	}
	return page, err
}

func TestCounselorService_ListDoesNotCacheAcrossConcurrentWrite(t *testing.T) {
	cache := newRecordingCache()
	store := seededStore()
	repo := &racingCounselors{CounselorRepository: store.Counselors}
	svc := NewCounselorService(repo, store.Accounts, store.Audit, cache, zerolog.Nop())
	svc.now = clock
	ctx := context.Background()
	d := query.Descriptor{Filters: map[string]string{domain.CounselorFilterStatus: "pending"}, PageSize: 25}

	repo.onList = func() {
		if _, err := svc.Transition(ctx, ports.TransitionInput{ID: "cvc-3", Status: "approved", Actor: actor}); err != nil {
			t.Errorf("approve: %v", err)
		}
	}

	first, err := svc.List(ctx, d)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if first.Total != 2 {
		t.Fatalf("expected the pre-write snapshot of 2 pending, got %d", first.Total)
	}

	after, err := svc.List(ctx, d)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if after.Total != 1 {
		t.Errorf("page read before the approval was served after it: total %d", after.Total)
	}
	if cache.hits != 0 {
		t.Errorf("expected no cache hit, got %d", cache.hits)
	}
}

func TestCounselorService_CacheAndAuditFailuresAreNotFatal(t *testing.T) {
	store := seededStore()
	svc := NewCounselorService(store.Counselors, store.Accounts, failingAudit{}, brokenCache{}, zerolog.Nop())

	page, err := svc.List(context.Background(), query.Descriptor{PageSize: 10})
	if err != nil || page.Total != 5 {
		t.Fatalf("expected 5 counselors despite cache failure, got %v, %v", page, err)
	}
	if _, err := svc.Transition(context.Background(), ports.TransitionInput{ID: "cvc-4", Status: "rejected"}); err != nil {
		t.Fatalf("transition must survive audit failure: %v", err)
	}
}

func TestCounselorService_ListRejectsInvalidQuery(t *testing.T) {
	svc, _ := newCounselorService(nil)
	if _, err := svc.List(context.Background(), query.Descriptor{Page: -1, PageSize: 10}); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}
