package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/ports"
)

type CalendarService struct {
	meetings   ports.MeetingRepository
	interviews ports.InterviewRepository
}

func NewCalendarService(meetings ports.MeetingRepository, interviews ports.InterviewRepository) *CalendarService {
	return &CalendarService{meetings: meetings, interviews: interviews}
}

// Events projects meetings and interviews starting inside r, ordered by start
// time. An unbounded range returns everything.
func (s *CalendarService) Events(ctx context.Context, r domain.DateRange) ([]domain.CalendarEvent, error) {
	var (
		meetings   []domain.Meeting
		interviews []domain.Interview
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		meetings, err = s.meetings.ScheduledBetween(gctx, r)
		return err
	})
	g.Go(func() error {
		var err error
		interviews, err = s.interviews.ScheduledBetween(gctx, r)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("calendar events: %w", err)
	}

	events := make([]domain.CalendarEvent, 0, len(meetings)+len(interviews))
	for _, m := range meetings {
		if r.Contains(m.ScheduledAt) {
			events = append(events, domain.MeetingEvent(m))
		}
	}
	for _, iv := range interviews {
		if r.Contains(iv.ScheduledAt) {
			events = append(events, domain.InterviewEvent(iv))
		}
	}
	domain.SortEvents(events)
	return events, nil
}
