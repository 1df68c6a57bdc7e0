package memory

import (
	"context"
	"maps"
	"slices"

	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/query"
)

type AccountRepository struct {
	*collection[domain.Account]
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{newCollection(domain.AccountQuery, domain.ErrAccountNotFound,
		func(a domain.Account) string { return a.ID },
		func(a domain.Account) domain.Account {
			if a.LastSignIn != nil {
				t := *a.LastSignIn
				a.LastSignIn = &t
			}
			return a
		},
	)}
}

// Create enforces case-insensitive e-mail uniqueness.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	email := domain.NormalizeEmail(a.Email)
	for _, existing := range r.items {
		if domain.NormalizeEmail(existing.Email) == email {
			return domain.ErrEmailTaken
		}
	}
	return r.insertLocked(*a)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	email = domain.NormalizeEmail(email)
	found, err := r.where(ctx, func(a domain.Account) bool { return domain.NormalizeEmail(a.Email) == email })
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return &found[0], nil
}

type CounselorRepository struct {
	*collection[domain.Counselor]
}

func NewCounselorRepository() *CounselorRepository {
	return &CounselorRepository{newCollection(domain.CounselorQuery, domain.ErrCounselorNotFound,
		func(c domain.Counselor) string { return c.ID },
		domain.Counselor.Clone,
	)}
}

type MeetingRepository struct {
	*collection[domain.Meeting]
}

func NewMeetingRepository() *MeetingRepository {
	return &MeetingRepository{newCollection(domain.MeetingQuery, domain.ErrMeetingNotFound,
		func(m domain.Meeting) string { return m.ID }, nil)}
}

func (r *MeetingRepository) ScheduledBetween(ctx context.Context, rng domain.DateRange) ([]domain.Meeting, error) {
	return r.where(ctx, func(m domain.Meeting) bool { return rng.Contains(m.ScheduledAt) })
}

type PayoutRepository struct {
	*collection[domain.Payout]
}

func NewPayoutRepository() *PayoutRepository {
	return &PayoutRepository{newCollection(domain.PayoutQuery, domain.ErrPayoutNotFound,
		func(p domain.Payout) string { return p.ID }, nil)}
}

type InterviewRepository struct {
	*collection[domain.Interview]
}

func NewInterviewRepository() *InterviewRepository {
	return &InterviewRepository{newCollection(query.Resource[domain.Interview]{Name: "interviews"}, domain.ErrInterviewNotFound,
		func(i domain.Interview) string { return i.ID }, nil)}
}

func (r *InterviewRepository) ScheduledBetween(ctx context.Context, rng domain.DateRange) ([]domain.Interview, error) {
	return r.where(ctx, func(i domain.Interview) bool { return rng.Contains(i.ScheduledAt) })
}

// AuditLog lists newest entries first.
type AuditLog struct {
	entries *collection[domain.AuditEntry]
}

func NewAuditLog() *AuditLog {
	return &AuditLog{newCollection(domain.AuditQuery, domain.ErrNotFound,
		func(e domain.AuditEntry) string { return e.ID },
		func(e domain.AuditEntry) domain.AuditEntry {
			e.Details = maps.Clone(e.Details)
			return e
		},
	)}
}

func (l *AuditLog) Insert(ctx context.Context, e *domain.AuditEntry) error {
	return l.entries.Create(ctx, e)
}

func (l *AuditLog) List(ctx context.Context, d query.Descriptor) (*query.Page[domain.AuditEntry], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all := l.entries.snapshot()
	slices.Reverse(all)
	return query.Apply(all, l.entries.resource, d)
}

func (l *AuditLog) Len() int { return l.entries.Len() }

type CredentialRepository struct {
	*collection[domain.Credential]
}

func NewCredentialRepository() *CredentialRepository {
	return &CredentialRepository{newCollection(query.Resource[domain.Credential]{Name: "credentials"}, domain.ErrCredentialNotFound,
		func(c domain.Credential) string { return domain.NormalizeEmail(c.Email) }, nil)}
}

func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	return r.FindByID(ctx, domain.NormalizeEmail(email))
}

func (r *CredentialRepository) Upsert(ctx context.Context, c *domain.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.id(*c)
	if _, ok := r.items[key]; ok {
		r.items[key] = *c
		return nil
	}
	return r.insertLocked(*c)
}
