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

func TestInterviewService_Schedule(t *testing.T) {
	store := seededStore()
	svc := NewInterviewService(store.Interviews, store.Counselors, store.Audit, zerolog.Nop())
	at := time.Date(2024, 1, 24, 9, 0, 0, 0, time.UTC)

	iv, err := svc.Schedule(context.Background(), ports.ScheduleInterviewInput{
		CounselorID:     "cvc-4",
		ScheduledAt:     at,
		DurationMinutes: 30,
		Type:            "phone",
		Actor:           actor,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iv.Interviewer != actor {
		t.Errorf("interviewer should default to the actor, got %q", iv.Interviewer)
	}
	if iv.CounselorName != "David Chen" || iv.Status != domain.InterviewScheduled {
		t.Errorf("unexpected interview: %+v", iv)
	}

	events, err := NewCalendarService(store.Meetings, store.Interviews).Events(context.Background(), domain.DateRange{Start: at, End: at})
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(events) != 1 || events[0].ID != iv.ID {
		t.Errorf("scheduled interview not on the calendar: %+v", events)
	}
}

func TestInterviewService_ScheduleValidation(t *testing.T) {
	store := seededStore()
	svc := NewInterviewService(store.Interviews, store.Counselors, store.Audit, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Schedule(ctx, ports.ScheduleInterviewInput{CounselorID: "cvc-3", ScheduledAt: time.Now(), DurationMinutes: 30, Type: "carrier-pigeon"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Schedule(ctx, ports.ScheduleInterviewInput{CounselorID: "cvc-404", ScheduledAt: time.Now(), DurationMinutes: 30, Type: "video"}); !errors.Is(err, domain.ErrCounselorNotFound) {
		t.Errorf("expected ErrCounselorNotFound, got %v", err)
	}
}
