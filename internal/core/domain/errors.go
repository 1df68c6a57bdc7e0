package domain

import (
	"errors"
	"fmt"

	"github.com/carevillage/admin-api/internal/core/query"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("illegal status transition")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicate          = errors.New("already exists")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidQuery is re-exported so transport code only needs domain errors.
	ErrInvalidQuery = query.ErrInvalidQuery
)

var (
	ErrAccountNotFound    = fmt.Errorf("account %w", ErrNotFound)
	ErrCounselorNotFound  = fmt.Errorf("counselor %w", ErrNotFound)
	ErrMeetingNotFound    = fmt.Errorf("meeting %w", ErrNotFound)
	ErrPayoutNotFound     = fmt.Errorf("payout %w", ErrNotFound)
	ErrInterviewNotFound  = fmt.Errorf("interview %w", ErrNotFound)
	ErrCredentialNotFound = fmt.Errorf("credential %w", ErrNotFound)
	ErrEmailTaken         = fmt.Errorf("email %w", ErrDuplicate)
)

// TransitionError reports the exact edge that was refused.
type TransitionError struct {
	Resource string
	From     string
	To       string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %v (from %s to %s)", e.Resource, ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
