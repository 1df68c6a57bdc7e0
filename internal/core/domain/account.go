package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/carevillage/admin-api/internal/core/query"
)

// Role is the kind of actor an account represents.
type Role string

const (
	RoleUser  Role = "user"
	RoleCVC   Role = "cvc"
	RoleAdmin Role = "admin"
)

// ParseRole rejects anything outside the closed role set.
func ParseRole(raw string) (Role, error) {
	r, ok := parseStatus(raw, RoleUser, RoleCVC, RoleAdmin)
	if !ok {
		return "", invalidf("unknown role %q", raw)
	}
	return r, nil
}

// Account is a platform identity. Accounts are deactivated, never deleted.
type Account struct {
	ID                string     `json:"id" bson:"_id"`
	Email             string     `json:"email" bson:"email"`
	Name              string     `json:"name,omitempty" bson:"name,omitempty"`
	Role              Role       `json:"role" bson:"role"`
	Active            bool       `json:"active" bson:"active"`
	CalendarConnected bool       `json:"calendarConnected" bson:"calendar_connected"`
	CreatedAt         time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt         time.Time  `json:"updatedAt" bson:"updated_at"`
	LastSignIn        *time.Time `json:"lastSignIn" bson:"last_sign_in,omitempty"`
}

// Validate checks the invariants a stored account must satisfy.
func (a *Account) Validate() error {
	if _, err := mail.ParseAddress(a.Email); err != nil {
		return invalidf("email %q is not a valid address", a.Email)
	}
	if _, err := ParseRole(string(a.Role)); err != nil {
		return err
	}
	return nil
}

// NormalizeEmail is the canonical form used for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const (
	AccountFilterStatus   = "status"
	AccountFilterRole     = "role"
	AccountFilterCalendar = "calendar"

	AccountStatusActive   = "active"
	AccountStatusInactive = "inactive"

	CalendarStatusConnected    = "connected"
	CalendarStatusDisconnected = "disconnected"
)

// AccountQuery searches name and e-mail; "status" filters on the active flag
// and "calendar" on the calendar integration.
var AccountQuery = query.Resource[Account]{
	Name: "accounts",
	Search: []query.Text[Account]{
		query.Field(func(a Account) string { return a.Name }),
		query.Field(func(a Account) string { return a.Email }),
	},
	Filters: map[string]query.Match[Account]{
		AccountFilterStatus: func(a Account, v string) bool {
			switch v {
			case AccountStatusActive:
				return a.Active
			case AccountStatusInactive:
				return !a.Active
			}
			return false
		},
		AccountFilterRole: func(a Account, v string) bool { return string(a.Role) == v },
		AccountFilterCalendar: func(a Account, v string) bool {
			switch v {
			case CalendarStatusConnected:
				return a.CalendarConnected
			case CalendarStatusDisconnected:
				return !a.CalendarConnected
			}
			return false
		},
	},
}
