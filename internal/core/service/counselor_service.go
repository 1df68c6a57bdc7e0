package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/ports"
	"github.com/carevillage/admin-api/internal/core/query"
)

type CounselorService struct {
	repo     ports.CounselorRepository
	accounts ports.AccountRepository
	cache    PageCache
	audit    auditor
	logger   zerolog.Logger
	now      func() time.Time
}

func NewCounselorService(
	repo ports.CounselorRepository,
	accounts ports.AccountRepository,
	audit ports.AuditRepository,
	cache PageCache,
	logger zerolog.Logger,
) *CounselorService {
	return &CounselorService{
		repo:     repo,
		accounts: accounts,
		cache:    orNop(cache),
		audit:    auditor{repo: audit, log: logger, now: time.Now},
		logger:   logger,
		now:      time.Now,
	}
}

func (s *CounselorService) List(ctx context.Context, d query.Descriptor) (*query.Page[domain.Counselor], error) {
	return cachedList(ctx, s.cache, s.logger, domain.CounselorQuery.Name, d, s.repo.List)
}

// Create files a new application. Applications always start pending; the
// linked account is taken from AccountID or, failing that, found by e-mail.
func (s *CounselorService) Create(ctx context.Context, in ports.CreateCounselorInput) (*domain.Counselor, error) {
	c := &domain.Counselor{
		ID:              newID(),
		Email:           domain.NormalizeEmail(in.Email),
		Name:            strings.TrimSpace(in.Name),
		Specialties:     domain.NormalizeSpecialties(in.Specialties),
		Status:          domain.CounselorPending,
		ApplicationDate: s.now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	accountID, err := s.resolveAccount(ctx, in.AccountID, c.Email)
	if err != nil {
		return nil, fmt.Errorf("create counselor: %w", err)
	}
	c.AccountID = accountID

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("email", c.Email).Msg("failed to create counselor")
		return nil, fmt.Errorf("create counselor: %w", err)
	}

	s.audit.record(ctx, in.Actor, domain.ActionCounselorCreated, c.ID, map[string]any{"email": c.Email})
	mutated(ctx, s.cache, s.logger, domain.CounselorQuery.Name)
	s.logger.Info().Str("counselor_id", c.ID).Str("account_id", c.AccountID).Msg("counselor application created")
	return c, nil
}

func (s *CounselorService) resolveAccount(ctx context.Context, accountID, email string) (string, error) {
	if accountID != "" {
		a, err := s.accounts.FindByID(ctx, accountID)
		if err != nil {
			return "", err
		}
		return a.ID, nil
	}
	a, err := s.accounts.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return a.ID, nil
}

// Transition applies an admin decision. The stored record is untouched when
// the edge is refused.
func (s *CounselorService) Transition(ctx context.Context, in ports.TransitionInput) (*domain.Counselor, error) {
	next, err := domain.ParseCounselorStatus(in.Status)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("transition counselor: %w", err)
	}
	from := c.Status

	if err := c.TransitionTo(next, s.now()); err != nil {
		s.logger.Warn().Str("counselor_id", in.ID).Str("from", string(from)).Str("to", string(next)).Msg("illegal counselor transition")
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("transition counselor: %w", err)
	}

	s.audit.record(ctx, in.Actor, domain.ActionCounselorStatus, c.ID, map[string]any{"from": string(from), "to": string(next)})
	mutated(ctx, s.cache, s.logger, domain.CounselorQuery.Name)
	s.logger.Info().Str("counselor_id", c.ID).Str("from", string(from)).Str("to", string(next)).Msg("counselor status changed")
	return c, nil
}
