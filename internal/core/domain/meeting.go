package domain

import (
	"strings"
	"time"

	"github.com/carevillage/admin-api/internal/core/query"
)

// MeetingStatus is the lifecycle state of a counseling session.
type MeetingStatus string

const (
	MeetingScheduled MeetingStatus = "scheduled"
	MeetingCompleted MeetingStatus = "completed"
	MeetingCancelled MeetingStatus = "cancelled"
	MeetingNoShow    MeetingStatus = "no-show"
)

// Only scheduled meetings move; every other status is terminal.
var meetingTransitions = transitions[MeetingStatus]{
	MeetingScheduled: {MeetingCompleted, MeetingCancelled, MeetingNoShow},
}

func ParseMeetingStatus(raw string) (MeetingStatus, error) {
	s, ok := parseStatus(raw, MeetingScheduled, MeetingCompleted, MeetingCancelled, MeetingNoShow)
	if !ok {
		return "", invalidf("unknown meeting status %q", raw)
	}
	return s, nil
}

func (s MeetingStatus) CanTransitionTo(next MeetingStatus) bool {
	return meetingTransitions.allows(s, next)
}

func (s MeetingStatus) Terminal() bool { return meetingTransitions.terminal(s) }

// MeetingType distinguishes one-to-one from group sessions.
type MeetingType string

const (
	MeetingIndividual MeetingType = "individual"
	MeetingGroup      MeetingType = "group"
)

func ParseMeetingType(raw string) (MeetingType, error) {
	t, ok := parseStatus(raw, MeetingIndividual, MeetingGroup)
	if !ok {
		return "", invalidf("unknown meeting type %q", raw)
	}
	return t, nil
}

// Meeting is a booked session between a counselor and a client. Display
// names are denormalized at booking time so lists never need a join.
type Meeting struct {
	ID              string        `json:"id" bson:"_id"`
	CounselorID     string        `json:"counselorId" bson:"counselor_id"`
	CounselorName   string        `json:"counselorName" bson:"counselor_name"`
	ClientID        string        `json:"clientId" bson:"client_id"`
	ClientName      string        `json:"clientName" bson:"client_name"`
	Title           string        `json:"title" bson:"title"`
	ScheduledAt     time.Time     `json:"scheduledAt" bson:"scheduled_at"`
	DurationMinutes int           `json:"duration" bson:"duration_minutes"`
	Type            MeetingType   `json:"type" bson:"type"`
	Status          MeetingStatus `json:"status" bson:"status"`
	Revenue         int64         `json:"revenue" bson:"revenue"` // minor units
	CreatedAt       time.Time     `json:"createdAt" bson:"created_at"`
}

// TransitionTo applies a status change. Revenue is the amount booked at
// scheduling time; sessions that never happened earn nothing.
func (m *Meeting) TransitionTo(next MeetingStatus) error {
	if !m.Status.CanTransitionTo(next) {
		return &TransitionError{Resource: "meeting", From: string(m.Status), To: string(next)}
	}
	m.Status = next
	if next == MeetingCancelled || next == MeetingNoShow {
		m.Revenue = 0
	}
	return nil
}

func (m *Meeting) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return invalidf("title is required")
	}
	if m.CounselorID == "" || m.ClientID == "" {
		return invalidf("counselor and client are required")
	}
	if m.ScheduledAt.IsZero() {
		return invalidf("scheduledAt is required")
	}
	if m.DurationMinutes <= 0 {
		return invalidf("duration must be positive (got %d)", m.DurationMinutes)
	}
	if _, err := ParseMeetingType(string(m.Type)); err != nil {
		return err
	}
	if m.Revenue < 0 {
		return invalidf("revenue must not be negative")
	}
	return nil
}

// End is the scheduled finish time.
func (m Meeting) End() time.Time {
	return m.ScheduledAt.Add(time.Duration(m.DurationMinutes) * time.Minute)
}

const (
	MeetingFilterStatus = "status"
	MeetingFilterType   = "type"
)

var MeetingQuery = query.Resource[Meeting]{
	Name: "meetings",
	Search: []query.Text[Meeting]{
		query.Field(func(m Meeting) string { return m.Title }),
		query.Field(func(m Meeting) string { return m.CounselorName }),
		query.Field(func(m Meeting) string { return m.ClientName }),
	},
	Filters: map[string]query.Match[Meeting]{
		MeetingFilterStatus: func(m Meeting, v string) bool { return string(m.Status) == v },
		MeetingFilterType:   func(m Meeting, v string) bool { return string(m.Type) == v },
	},
}
