package ports

import (
	"context"

	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/query"
)

// Store is the capability every admin collection offers: list under a query
// descriptor, fetch by id and write whole records. Writes are last-write-wins.
type Store[T any] interface {
	List(ctx context.Context, d query.Descriptor) (*query.Page[T], error)
	FindByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
}

// AccountRepository persists platform accounts. E-mails are unique.
type AccountRepository interface {
	Store[domain.Account]
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
}

type CounselorRepository interface {
	Store[domain.Counselor]
}

type MeetingRepository interface {
	Store[domain.Meeting]
	// ScheduledBetween returns meetings whose start falls inside r, inclusive.
	ScheduledBetween(ctx context.Context, r domain.DateRange) ([]domain.Meeting, error)
}

type PayoutRepository interface {
	Store[domain.Payout]
}

type InterviewRepository interface {
	Create(ctx context.Context, iv *domain.Interview) error
	FindByID(ctx context.Context, id string) (*domain.Interview, error)
	ScheduledBetween(ctx context.Context, r domain.DateRange) ([]domain.Interview, error)
}

// AuditRepository is append-only; List returns the newest entries first.
type AuditRepository interface {
	Insert(ctx context.Context, e *domain.AuditEntry) error
	List(ctx context.Context, d query.Descriptor) (*query.Page[domain.AuditEntry], error)
}

// CredentialRepository stores admin password hashes keyed by e-mail.
type CredentialRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Credential, error)
	Upsert(ctx context.Context, c *domain.Credential) error
}
