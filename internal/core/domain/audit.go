package domain

import (
	"time"

	"github.com/carevillage/admin-api/internal/core/query"
)

// Audit actions recorded for admin mutations.
const (
	ActionAccountCreated     = "account.created"
	ActionAccountUpdated     = "account.updated"
	ActionAccountActivated   = "account.activated"
	ActionAccountDeactivated = "account.deactivated"
	ActionCounselorCreated   = "counselor.created"
	ActionCounselorStatus    = "counselor.status_changed"
	ActionMeetingCreated     = "meeting.created"
	ActionMeetingStatus      = "meeting.status_changed"
	ActionPayoutCreated      = "payout.created"
	ActionPayoutStatus       = "payout.status_changed"
	ActionPayoutBatch        = "payout.batch_enqueued"
	ActionInterviewScheduled = "interview.scheduled"
	ActionAdminLogin         = "admin.login"
)

// AuditEntry records who changed what.
type AuditEntry struct {
	ID         string         `json:"id" bson:"_id"`
	ActorEmail string         `json:"actorEmail" bson:"actor_email"`
	Action     string         `json:"action" bson:"action"`
	Target     string         `json:"target" bson:"target"`
	CreatedAt  time.Time      `json:"createdAt" bson:"created_at"`
	Details    map[string]any `json:"details,omitempty" bson:"details,omitempty"`
}

const AuditFilterAction = "action"

var AuditQuery = query.Resource[AuditEntry]{
	Name: "audit",
	Search: []query.Text[AuditEntry]{
		query.Field(func(e AuditEntry) string { return e.ActorEmail }),
		query.Field(func(e AuditEntry) string { return e.Action }),
		query.Field(func(e AuditEntry) string { return e.Target }),
	},
	Filters: map[string]query.Match[AuditEntry]{
		AuditFilterAction: func(e AuditEntry, v string) bool { return e.Action == v },
	},
}
