package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/query"
)

func seeded(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	s.Seed()
	return s
}

func TestCounselors_PendingFilter(t *testing.T) {
	s := seeded(t)

	page, err := s.Counselors.List(context.Background(), query.Descriptor{
		Filters:  map[string]string{domain.CounselorFilterStatus: "pending", domain.CounselorFilterSpecialty: query.All},
		PageSize: 25,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "cvc-3", page.Items[0].ID)
	assert.Equal(t, "cvc-4", page.Items[1].ID)
}

func TestCollection_ReadsAreIsolated(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	c, err := s.Counselors.FindByID(ctx, "cvc-1")
	require.NoError(t, err)
	c.Specialties[0] = "mutated"
	*c.ApprovalDate = time.Time{}

	again, err := s.Counselors.FindByID(ctx, "cvc-1")
	require.NoError(t, err)
	assert.Equal(t, "Anxiety", again.Specialties[0])
	assert.False(t, again.ApprovalDate.IsZero())
}

func TestCollection_NotFoundAndDuplicate(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	_, err := s.Meetings.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrMeetingNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = s.Payouts.Update(ctx, &domain.Payout{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	m, err := s.Meetings.FindByID(ctx, "meeting-1")
	require.NoError(t, err)
	assert.ErrorIs(t, s.Meetings.Create(ctx, m), domain.ErrDuplicate)
}

func TestAccounts_EmailIsUniqueIgnoringCase(t *testing.T) {
	s := seeded(t)
	err := s.Accounts.Create(context.Background(), &domain.Account{ID: "new", Email: "Dr.Smith@CareVillage.io", Role: domain.RoleUser})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	a, err := s.Accounts.FindByEmail(context.Background(), " MARIA.garcia@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "3", a.ID)
}

func TestMeetings_ScheduledBetweenIsInclusive(t *testing.T) {
	s := seeded(t)
	r := domain.DateRange{Start: ts("2024-01-22T10:00:00Z"), End: ts("2024-01-22T14:30:00Z")}

	got, err := s.Meetings.ScheduledBetween(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "meeting-1", got[0].ID)
	assert.Equal(t, "meeting-2", got[1].ID)
}

func TestAuditLog_NewestFirst(t *testing.T) {
	log := NewAuditLog()
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, log.Insert(ctx, &domain.AuditEntry{ID: id, Action: domain.ActionAccountUpdated}))
	}

	page, err := log.List(ctx, query.Descriptor{PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "c", page.Items[0].ID)
	assert.Equal(t, "b", page.Items[1].ID)
}

func TestCredentials_Upsert(t *testing.T) {
	repo := NewCredentialRepository()
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &domain.Credential{Email: "CVC@carevillage.io", PasswordHash: "one"}))
	require.NoError(t, repo.Upsert(ctx, &domain.Credential{Email: "cvc@carevillage.io", PasswordHash: "two"}))

	c, err := repo.FindByEmail(ctx, "cvc@CAREVILLAGE.io")
	require.NoError(t, err)
	assert.Equal(t, "two", c.PasswordHash)
	assert.Equal(t, 1, repo.Len())
}

func TestList_CancelledContext(t *testing.T) {
	s := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Accounts.List(ctx, query.Descriptor{PageSize: 10})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSeed_RecordsPassDomainValidation(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	all := query.Descriptor{PageSize: 100}

	accounts, err := s.Accounts.List(ctx, all)
	require.NoError(t, err)
	require.NotEmpty(t, accounts.Items)
	for _, a := range accounts.Items {
		assert.NoError(t, a.Validate(), "account %s", a.ID)
	}

	counselors, err := s.Counselors.List(ctx, all)
	require.NoError(t, err)
	require.NotEmpty(t, counselors.Items)
	for _, c := range counselors.Items {
		assert.NoError(t, c.Validate(), "counselor %s", c.ID)
	}

	meetings, err := s.Meetings.List(ctx, all)
	require.NoError(t, err)
	require.NotEmpty(t, meetings.Items)
	for _, m := range meetings.Items {
		assert.NoError(t, m.Validate(), "meeting %s", m.ID)
	}

	payouts, err := s.Payouts.List(ctx, all)
	require.NoError(t, err)
	require.NotEmpty(t, payouts.Items)
	for _, p := range payouts.Items {
		assert.NoError(t, p.Validate(), "payout %s", p.ID)
	}

	interviews, err := s.Interviews.List(ctx, all)
	require.NoError(t, err)
	require.NotEmpty(t, interviews.Items)
	for _, i := range interviews.Items {
		assert.NoError(t, i.Validate(), "interview %s", i.ID)
	}
}
