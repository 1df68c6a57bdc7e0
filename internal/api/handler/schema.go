package handler

import (
	"time"

	"github.com/carevillage/admin-api/internal/core/domain"
)

type idParam struct {
	ID string `param:"id" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type createAccountRequest struct {
	Email  string `json:"email"  validate:"required,email"`
	Name   string `json:"name"`
	Role   string `json:"role"   validate:"required,oneof=user cvc admin"`
	Active *bool  `json:"active"`
}

type updateAccountRequest struct {
	ID     string  `param:"id"    validate:"required"`
	Name   *string `json:"name"`
	Role   *string `json:"role"  validate:"omitempty,oneof=user cvc admin"`
	Active *bool   `json:"active"`
}

type toggleActiveRequest struct {
	ID     string `param:"id"     validate:"required"`
	Active *bool  `json:"active" validate:"required"`
}

type createCounselorRequest struct {
	UserID      string   `json:"userId"`
	Email       string   `json:"email"       validate:"required,email"`
	Name        string   `json:"name"        validate:"required"`
	Specialties []string `json:"specialties" validate:"max=20"`
}

type statusRequest struct {
	ID     string `param:"id"     validate:"required"`
	Status string `json:"status" validate:"required"`
}

type createMeetingRequest struct {
	Title       string    `json:"title"       validate:"required"`
	CounselorID string    `json:"cvcId"       validate:"required"`
	ClientID    string    `json:"clientId"    validate:"required"`
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
	Duration    int       `json:"duration"    validate:"gt=0"`
	Type        string    `json:"type"        validate:"required,oneof=individual group"`
	Revenue     int64     `json:"revenue"     validate:"gte=0"`
}

type createPayoutRequest struct {
	CounselorID   string `json:"cvcId"         validate:"required"`
	Amount        int64  `json:"amount"        validate:"gt=0"`
	Period        string `json:"period"        validate:"required"`
	ScheduledDate string `json:"scheduledDate" validate:"required"`
}

type batchPayoutRequest struct {
	PayoutIDs      []string `json:"payoutIds"      validate:"required,min=1"`
	ProcessingDate string   `json:"processingDate"`
}

type batchPayoutResponse struct {
	Success        bool `json:"success"`
	ProcessedCount int  `json:"processedCount"`
}

type scheduleInterviewRequest struct {
	CounselorID string    `json:"cvcId"       validate:"required"`
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
	Duration    int       `json:"duration"    validate:"gt=0"`
	Type        string    `json:"type"        validate:"required,oneof=video phone in-person"`
	Notes       string    `json:"notes"`
	Interviewer string    `json:"interviewer"`
}

type calendarRequest struct {
	Start string `query:"start"`
	End   string `query:"end"`
}

type calendarResponse struct {
	Events []domain.CalendarEvent `json:"events"`
}
