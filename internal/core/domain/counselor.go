package domain

import (
	"math"
	"strings"
	"time"

	"github.com/carevillage/admin-api/internal/core/query"
)

// CounselorStatus is the lifecycle state of a counselor (CVC) application.
type CounselorStatus string

const (
	CounselorPending   CounselorStatus = "pending"
	CounselorApproved  CounselorStatus = "approved"
	CounselorRejected  CounselorStatus = "rejected"
	CounselorSuspended CounselorStatus = "suspended"
)

var counselorTransitions = transitions[CounselorStatus]{
	CounselorPending:   {CounselorApproved, CounselorRejected},
	CounselorApproved:  {CounselorSuspended},
	CounselorSuspended: {CounselorApproved},
}

// ParseCounselorStatus rejects values outside the closed status set.
func ParseCounselorStatus(raw string) (CounselorStatus, error) {
	s, ok := parseStatus(raw, CounselorPending, CounselorApproved, CounselorRejected, CounselorSuspended)
	if !ok {
		return "", invalidf("unknown counselor status %q", raw)
	}
	return s, nil
}

// CanTransitionTo reports whether the edge s -> next is allowed.
func (s CounselorStatus) CanTransitionTo(next CounselorStatus) bool {
	return counselorTransitions.allows(s, next)
}

// Terminal reports whether no edge leaves s.
func (s CounselorStatus) Terminal() bool { return counselorTransitions.terminal(s) }

// Counselor is a CareVillage counselor application and its running totals.
// Rating, sessions and earnings accrue outside this service.
type Counselor struct {
	ID              string          `json:"id" bson:"_id"`
	AccountID       string          `json:"userId" bson:"account_id"`
	Email           string          `json:"email" bson:"email"`
	Name            string          `json:"name" bson:"name"`
	Specialties     []string        `json:"specialties" bson:"specialties"`
	Status          CounselorStatus `json:"status" bson:"status"`
	ApplicationDate time.Time       `json:"applicationDate" bson:"application_date"`
	ApprovalDate    *time.Time      `json:"approvalDate,omitempty" bson:"approval_date,omitempty"`
	Rating          *float64        `json:"rating,omitempty" bson:"rating,omitempty"`
	TotalSessions   int             `json:"totalSessions" bson:"total_sessions"`
	TotalEarnings   int64           `json:"totalEarnings" bson:"total_earnings"` // minor units
}

// TransitionTo moves the application to next. The approval date is stamped
// the first time the application is approved and is never cleared. On error
// the counselor is left untouched.
func (c *Counselor) TransitionTo(next CounselorStatus, now time.Time) error {
	if !c.Status.CanTransitionTo(next) {
		return &TransitionError{Resource: "counselor", From: string(c.Status), To: string(next)}
	}
	c.Status = next
	if next == CounselorApproved && c.ApprovalDate == nil {
		t := now.UTC()
		c.ApprovalDate = &t
	}
	return nil
}

// Clone returns a deep copy.
func (c Counselor) Clone() Counselor {
	c.Specialties = append([]string(nil), c.Specialties...)
	if c.ApprovalDate != nil {
		t := *c.ApprovalDate
		c.ApprovalDate = &t
	}
	if c.Rating != nil {
		r := *c.Rating
		c.Rating = &r
	}
	return c
}

// Validate checks field-level invariants.
func (c *Counselor) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalidf("name is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		return invalidf("email is required")
	}
	for _, s := range c.Specialties {
		if strings.TrimSpace(s) == "" {
			return invalidf("specialties must not contain empty tags")
		}
	}
	if c.Rating != nil && !ValidRating(*c.Rating) {
		return invalidf("rating %v must be within 0-5 in half-point steps", *c.Rating)
	}
	if c.TotalSessions < 0 || c.TotalEarnings < 0 {
		return invalidf("session and earning totals must not be negative")
	}
	if (c.ApprovalDate != nil) != (c.Status != CounselorPending && c.Status != CounselorRejected) {
		return invalidf("approval date must be set exactly when the application has been approved")
	}
	return nil
}

// ValidRating accepts 0 through 5 in steps of 0.5.
func ValidRating(r float64) bool {
	if r < 0 || r > 5 {
		return false
	}
	return math.Mod(r*2, 1) == 0
}

// NormalizeSpecialties trims tags and drops empty and case-insensitive
// duplicate entries, keeping the first spelling seen.
func NormalizeSpecialties(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		k := strings.ToLower(t)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}

const (
	CounselorFilterStatus    = "status"
	CounselorFilterSpecialty = "specialty"
)

// CounselorQuery searches name, e-mail and every specialty tag.
var CounselorQuery = query.Resource[Counselor]{
	Name: "counselors",
	Search: []query.Text[Counselor]{
		query.Field(func(c Counselor) string { return c.Name }),
		query.Field(func(c Counselor) string { return c.Email }),
		func(c Counselor) []string { return c.Specialties },
	},
	Filters: map[string]query.Match[Counselor]{
		CounselorFilterStatus: func(c Counselor, v string) bool { return string(c.Status) == v },
		CounselorFilterSpecialty: func(c Counselor, v string) bool {
			for _, s := range c.Specialties {
				if strings.EqualFold(s, v) {
					return true
				}
			}
			return false
		},
	},
}
