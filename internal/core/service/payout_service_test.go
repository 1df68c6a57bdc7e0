package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/ports"
)

func TestPayoutService_CreateCopiesCounselorContact(t *testing.T) {
	store := seededStore()
	svc := NewPayoutService(store.Payouts, store.Counselors, &stubQueue{}, store.Audit, nil, zerolog.Nop())
	svc.now = clock

	p, err := svc.Create(context.Background(), ports.CreatePayoutInput{
		CounselorID:   "cvc-2",
		Amount:        150000,
		Period:        "June 2024",
		ScheduledDate: time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
		Actor:         actor,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != domain.PayoutPending || !p.RequestDate.Equal(fixedNow) {
		t.Errorf("unexpected payout: %+v", p)
	}
	if p.CounselorEmail != "maria.garcia@example.com" {
		t.Errorf("counselor e-mail not copied: %q", p.CounselorEmail)
	}
}

func TestPayoutService_Transitions(t *testing.T) {
	store := seededStore()
	svc := NewPayoutService(store.Payouts, store.Counselors, &stubQueue{}, store.Audit, nil, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Transition(ctx, ports.TransitionInput{ID: "payout-2", Status: "completed"}); err != nil {
		t.Fatalf("processing -> completed: %v", err)
	}
	if _, err := svc.Transition(ctx, ports.TransitionInput{ID: "payout-3", Status: "failed"}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("completed is terminal, got %v", err)
	}
	if _, err := svc.Transition(ctx, ports.TransitionInput{ID: "payout-1", Status: "completed"}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("pending cannot skip processing, got %v", err)
	}
}

func TestPayoutService_EnqueueBatch(t *testing.T) {
	store := seededStore()
	q := &stubQueue{}
	svc := NewPayoutService(store.Payouts, store.Counselors, q, store.Audit, nil, zerolog.Nop())
	date := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	res, err := svc.EnqueueBatch(context.Background(), ports.BatchPayoutInput{
		PayoutIDs:      []string{"payout-1", "payout-1", " "},
		ProcessingDate: date,
		Actor:          actor,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Accepted != 1 || len(q.jobs) != 1 {
		t.Fatalf("expected one job, got %d accepted / %d queued", res.Accepted, len(q.jobs))
	}

	if err := svc.Process(context.Background(), q.jobs[0]); err != nil {
		t.Fatalf("process: %v", err)
	}
	p, _ := store.Payouts.FindByID(context.Background(), "payout-1")
	if p.Status != domain.PayoutProcessing || !p.ScheduledDate.Equal(date) {
		t.Errorf("unexpected payout after processing: %+v", p)
	}
}

func TestPayoutService_EnqueueBatchIsAllOrNothing(t *testing.T) {
	store := seededStore()
	q := &stubQueue{}
	svc := NewPayoutService(store.Payouts, store.Counselors, q, store.Audit, nil, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.EnqueueBatch(ctx, ports.BatchPayoutInput{PayoutIDs: []string{"payout-1", "payout-3"}})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for completed payout, got %v", err)
	}
	_, err = svc.EnqueueBatch(ctx, ports.BatchPayoutInput{PayoutIDs: []string{"payout-1", "payout-404"}})
	if !errors.Is(err, domain.ErrPayoutNotFound) {
		t.Fatalf("expected ErrPayoutNotFound, got %v", err)
	}
	_, err = svc.EnqueueBatch(ctx, ports.BatchPayoutInput{})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty batch, got %v", err)
	}
	if len(q.jobs) != 0 {
		t.Errorf("rejected batches must not enqueue anything, got %d jobs", len(q.jobs))
	}
}

func TestPayoutService_EnqueueBatchQueueFailure(t *testing.T) {
	store := seededStore()
	boom := errors.New("queue closed")
	svc := NewPayoutService(store.Payouts, store.Counselors, &stubQueue{err: boom}, store.Audit, nil, zerolog.Nop())

	if _, err := svc.EnqueueBatch(context.Background(), ports.BatchPayoutInput{PayoutIDs: []string{"payout-1"}}); !errors.Is(err, boom) {
		t.Fatalf("expected queue error, got %v", err)
	}
}
