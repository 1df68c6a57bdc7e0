package domain

import (
	"strings"
	"time"

	"github.com/carevillage/admin-api/internal/core/query"
)

// PayoutStatus is the settlement state of a counselor payout.
type PayoutStatus string

const (
	PayoutPending    PayoutStatus = "pending"
	PayoutProcessing PayoutStatus = "processing"
	PayoutCompleted  PayoutStatus = "completed"
	PayoutFailed     PayoutStatus = "failed"
)

// Payouts only move forward; failed is reachable from any non-terminal state.
var payoutTransitions = transitions[PayoutStatus]{
	PayoutPending:    {PayoutProcessing, PayoutFailed},
	PayoutProcessing: {PayoutCompleted, PayoutFailed},
}

func ParsePayoutStatus(raw string) (PayoutStatus, error) {
	s, ok := parseStatus(raw, PayoutPending, PayoutProcessing, PayoutCompleted, PayoutFailed)
	if !ok {
		return "", invalidf("unknown payout status %q", raw)
	}
	return s, nil
}

func (s PayoutStatus) CanTransitionTo(next PayoutStatus) bool {
	return payoutTransitions.allows(s, next)
}

func (s PayoutStatus) Terminal() bool { return payoutTransitions.terminal(s) }

// Outstanding reports whether money is still owed to the counselor.
func (s PayoutStatus) Outstanding() bool {
	return s == PayoutPending || s == PayoutProcessing
}

// Payout is the amount owed to a counselor for one payment period.
type Payout struct {
	ID             string       `json:"id" bson:"_id"`
	CounselorID    string       `json:"counselorId" bson:"counselor_id"`
	CounselorName  string       `json:"counselorName" bson:"counselor_name"`
	CounselorEmail string       `json:"counselorEmail" bson:"counselor_email"`
	Amount         int64        `json:"amount" bson:"amount"` // minor units
	Period         string       `json:"period" bson:"period"`
	Status         PayoutStatus `json:"status" bson:"status"`
	RequestDate    time.Time    `json:"requestDate" bson:"request_date"`
	ScheduledDate  time.Time    `json:"scheduledDate" bson:"scheduled_date"`
}

func (p *Payout) TransitionTo(next PayoutStatus) error {
	if !p.Status.CanTransitionTo(next) {
		return &TransitionError{Resource: "payout", From: string(p.Status), To: string(next)}
	}
	p.Status = next
	return nil
}

func (p *Payout) Validate() error {
	if p.CounselorID == "" {
		return invalidf("counselor is required")
	}
	if p.Amount <= 0 {
		return invalidf("amount must be positive (got %d)", p.Amount)
	}
	if strings.TrimSpace(p.Period) == "" {
		return invalidf("period is required")
	}
	if p.ScheduledDate.IsZero() {
		return invalidf("scheduledDate is required")
	}
	return nil
}

const PayoutFilterStatus = "status"

var PayoutQuery = query.Resource[Payout]{
	Name: "payouts",
	Search: []query.Text[Payout]{
		query.Field(func(p Payout) string { return p.CounselorName }),
		query.Field(func(p Payout) string { return p.CounselorEmail }),
		query.Field(func(p Payout) string { return p.Period }),
	},
	Filters: map[string]query.Match[Payout]{
		PayoutFilterStatus: func(p Payout, v string) bool { return string(p.Status) == v },
	},
}
