package domain

import "time"

// InterviewType is the medium of an applicant interview.
type InterviewType string

const (
	InterviewVideo    InterviewType = "video"
	InterviewPhone    InterviewType = "phone"
	InterviewInPerson InterviewType = "in-person"
)

func ParseInterviewType(raw string) (InterviewType, error) {
	t, ok := parseStatus(raw, InterviewVideo, InterviewPhone, InterviewInPerson)
	if !ok {
		return "", invalidf("unknown interview type %q", raw)
	}
	return t, nil
}

// InterviewScheduled is the only status an interview is created with.
const InterviewScheduled = "scheduled"

// Interview is a screening call with a counselor applicant.
type Interview struct {
	ID              string        `json:"id" bson:"_id"`
	CounselorID     string        `json:"counselorId" bson:"counselor_id"`
	CounselorName   string        `json:"counselorName" bson:"counselor_name"`
	ScheduledAt     time.Time     `json:"scheduledAt" bson:"scheduled_at"`
	DurationMinutes int           `json:"duration" bson:"duration_minutes"`
	Type            InterviewType `json:"type" bson:"type"`
	Notes           string        `json:"notes,omitempty" bson:"notes,omitempty"`
	Interviewer     string        `json:"interviewer" bson:"interviewer"`
	Status          string        `json:"status" bson:"status"`
	CreatedAt       time.Time     `json:"createdAt" bson:"created_at"`
}

func (i *Interview) Validate() error {
	if i.CounselorID == "" {
		return invalidf("counselor is required")
	}
	if i.ScheduledAt.IsZero() {
		return invalidf("scheduledAt is required")
	}
	if i.DurationMinutes <= 0 {
		return invalidf("duration must be positive (got %d)", i.DurationMinutes)
	}
	if _, err := ParseInterviewType(string(i.Type)); err != nil {
		return err
	}
	return nil
}
