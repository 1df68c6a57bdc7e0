package ports

import (
	"context"
	"time"

	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/query"
)

// CreateAccountInput carries the fields an admin may set on a new account.
type CreateAccountInput struct {
	Email  string
	Name   string
	Role   string
	Active *bool // nil = active
	Actor  string
}

// UpdateAccountInput changes only the non-nil fields.
type UpdateAccountInput struct {
	ID     string
	Name   *string
	Role   *string
	Active *bool
	Actor  string
}

type AccountService interface {
	List(ctx context.Context, d query.Descriptor) (*query.Page[domain.Account], error)
	Create(ctx context.Context, in CreateAccountInput) (*domain.Account, error)
	Update(ctx context.Context, in UpdateAccountInput) (*domain.Account, error)
	SetActive(ctx context.Context, id string, active bool, actor string) (*domain.Account, error)
}

// CreateCounselorInput opens a new application. AccountID is optional; when
// empty the account is looked up by e-mail.
type CreateCounselorInput struct {
	AccountID   string
	Email       string
	Name        string
	Specialties []string
	Actor       string
}

// TransitionInput requests a status change on a single record.
type TransitionInput struct {
	ID     string
	Status string
	Actor  string
}

type CounselorService interface {
	List(ctx context.Context, d query.Descriptor) (*query.Page[domain.Counselor], error)
	Create(ctx context.Context, in CreateCounselorInput) (*domain.Counselor, error)
	Transition(ctx context.Context, in TransitionInput) (*domain.Counselor, error)
}

type CreateMeetingInput struct {
	CounselorID     string
	ClientID        string
	Title           string
	ScheduledAt     time.Time
	DurationMinutes int
	Type            string
	Revenue         int64
	Actor           string
}

type MeetingService interface {
	List(ctx context.Context, d query.Descriptor) (*query.Page[domain.Meeting], error)
	Create(ctx context.Context, in CreateMeetingInput) (*domain.Meeting, error)
	Transition(ctx context.Context, in TransitionInput) (*domain.Meeting, error)
}

type CreatePayoutInput struct {
	CounselorID   string
	Amount        int64
	Period        string
	ScheduledDate time.Time
	Actor         string
}

// BatchPayoutInput moves pending payouts into processing. A zero
// ProcessingDate keeps each payout's scheduled date.
type BatchPayoutInput struct {
	PayoutIDs      []string
	ProcessingDate time.Time
	Actor          string
}

// BatchResult reports how many jobs were accepted by the dispatcher.
type BatchResult struct {
	Accepted int `json:"processedCount"`
}

// PayoutJob asks a worker to start processing one payout.
type PayoutJob struct {
	PayoutID      string
	ScheduledDate time.Time // zero = keep
	Actor         string
}

// PayoutQueue hands jobs to background workers.
type PayoutQueue interface {
	Enqueue(ctx context.Context, job PayoutJob) error
}

// PayoutProcessor is the worker-side entry point.
type PayoutProcessor interface {
	Process(ctx context.Context, job PayoutJob) error
}

type PayoutService interface {
	List(ctx context.Context, d query.Descriptor) (*query.Page[domain.Payout], error)
	Create(ctx context.Context, in CreatePayoutInput) (*domain.Payout, error)
	Transition(ctx context.Context, in TransitionInput) (*domain.Payout, error)
	EnqueueBatch(ctx context.Context, in BatchPayoutInput) (*BatchResult, error)
}

type ScheduleInterviewInput struct {
	CounselorID     string
	ScheduledAt     time.Time
	DurationMinutes int
	Type            string
	Notes           string
	Interviewer     string
	Actor           string
}

type InterviewService interface {
	Schedule(ctx context.Context, in ScheduleInterviewInput) (*domain.Interview, error)
}

type CalendarService interface {
	Events(ctx context.Context, r domain.DateRange) ([]domain.CalendarEvent, error)
}

type ReportService interface {
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	Financials(ctx context.Context) (*domain.Financials, error)
}

type AuditService interface {
	List(ctx context.Context, d query.Descriptor) (*query.Page[domain.AuditEntry], error)
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
}
