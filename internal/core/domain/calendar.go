package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// EventTypeInterview marks calendar entries projected from interviews.
const EventTypeInterview = "interview"

// CalendarEvent is a read-only projection of a meeting or an interview.
type CalendarEvent struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	DurationMinutes int       `json:"duration"`
	Type            string    `json:"type"`
	Status          string    `json:"status"`
	CounselorName   string    `json:"counselorName"`
	ClientName      string    `json:"clientName"`
}

func MeetingEvent(m Meeting) CalendarEvent {
	return CalendarEvent{
		ID:              m.ID,
		Title:           m.Title,
		ScheduledAt:     m.ScheduledAt,
		DurationMinutes: m.DurationMinutes,
		Type:            string(m.Type),
		Status:          string(m.Status),
		CounselorName:   m.CounselorName,
		ClientName:      m.ClientName,
	}
}

// InterviewEvent lists the interviewer as host and the applicant as guest.
func InterviewEvent(i Interview) CalendarEvent {
	return CalendarEvent{
		ID:              i.ID,
		Title:           "CVC Interview",
		ScheduledAt:     i.ScheduledAt,
		DurationMinutes: i.DurationMinutes,
		Type:            EventTypeInterview,
		Status:          i.Status,
		CounselorName:   i.Interviewer,
		ClientName:      i.CounselorName,
	}
}

// SortEvents orders events by start time, then by id.
func SortEvents(events []CalendarEvent) {
	sort.SliceStable(events, func(a, b int) bool {
		if !events[a].ScheduledAt.Equal(events[b].ScheduledAt) {
			return events[a].ScheduledAt.Before(events[b].ScheduledAt)
		}
		return events[a].ID < events[b].ID
	})
}

// DateRange is an inclusive [Start, End] window. The zero value is unbounded.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Bounded reports whether the range restricts anything.
func (r DateRange) Bounded() bool { return !r.Start.IsZero() }

// Contains is inclusive on both ends.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Bounded() {
		return true
	}
	return !t.Before(r.Start) && !t.After(r.End)
}

// ParseDateRange accepts RFC 3339 timestamps or plain dates. A plain end date
// covers that whole day. Both bounds or neither must be given.
func ParseDateRange(start, end string) (DateRange, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return DateRange{}, nil
	}
	if start == "" || end == "" {
		return DateRange{}, fmt.Errorf("%w: start and end must be given together", ErrInvalidQuery)
	}
	s, _, err := parseInstant(start)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: start: %v", ErrInvalidQuery, err)
	}
	e, dateOnly, err := parseInstant(end)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: end: %v", ErrInvalidQuery, err)
	}
	if dateOnly {
		e = e.Add(24*time.Hour - time.Nanosecond)
	}
	if e.Before(s) {
		return DateRange{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidQuery, start, end)
	}
	return DateRange{Start: s, End: e}, nil
}

func parseInstant(v string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("unparseable timestamp %q", v)
	}
	return t.UTC(), true, nil
}

// ParseTimestamp reads an RFC 3339 timestamp or a plain date (midnight UTC).
// An empty value yields the zero time.
func ParseTimestamp(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	t, _, err := parseInstant(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return t, nil
}
