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

type AccountService struct {
	repo   ports.AccountRepository
	cache  PageCache
	audit  auditor
	logger zerolog.Logger
	now    func() time.Time
}

func NewAccountService(repo ports.AccountRepository, audit ports.AuditRepository, cache PageCache, logger zerolog.Logger) *AccountService {
	return &AccountService{
		repo:   repo,
		cache:  orNop(cache),
		audit:  auditor{repo: audit, log: logger, now: time.Now},
		logger: logger,
		now:    time.Now,
	}
}

func (s *AccountService) List(ctx context.Context, d query.Descriptor) (*query.Page[domain.Account], error) {
	return cachedList(ctx, s.cache, s.logger, domain.AccountQuery.Name, d, s.repo.List)
}

// Create registers an account on behalf of an admin. E-mails are unique
// regardless of case.
func (s *AccountService) Create(ctx context.Context, in ports.CreateAccountInput) (*domain.Account, error) {
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	account := &domain.Account{
		ID:        newID(),
		Email:     domain.NormalizeEmail(in.Email),
		Name:      strings.TrimSpace(in.Name),
		Role:      role,
		Active:    in.Active == nil || *in.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, account.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("create account: %w", err)
	}

	if err := s.repo.Create(ctx, account); err != nil {
		s.logger.Error().Err(err).Str("email", account.Email).Msg("failed to create account")
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.audit.record(ctx, in.Actor, domain.ActionAccountCreated, account.ID, map[string]any{"email": account.Email, "role": string(account.Role)})
	mutated(ctx, s.cache, s.logger, domain.AccountQuery.Name)
	s.logger.Info().Str("account_id", account.ID).Str("role", string(role)).Msg("account created")
	return account, nil
}

// Update applies the non-nil fields of in.
func (s *AccountService) Update(ctx context.Context, in ports.UpdateAccountInput) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	changes := map[string]any{}
	if in.Name != nil {
		account.Name = strings.TrimSpace(*in.Name)
		changes["name"] = account.Name
	}
	if in.Role != nil {
		role, err := domain.ParseRole(*in.Role)
		if err != nil {
			return nil, err
		}
		account.Role = role
		changes["role"] = string(role)
	}
	if in.Active != nil {
		account.Active = *in.Active
		changes["active"] = account.Active
	}
	account.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	s.audit.record(ctx, in.Actor, domain.ActionAccountUpdated, account.ID, changes)
	mutated(ctx, s.cache, s.logger, domain.AccountQuery.Name)
	s.logger.Info().Str("account_id", account.ID).Msg("account updated")
	return account, nil
}

// SetActive is the activation toggle. Accounts are never deleted.
func (s *AccountService) SetActive(ctx context.Context, id string, active bool, actor string) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("set account active: %w", err)
	}
	account.Active = active
	account.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("set account active: %w", err)
	}

	action := domain.ActionAccountDeactivated
	if active {
		action = domain.ActionAccountActivated
	}
	s.audit.record(ctx, actor, action, account.ID, nil)
	mutated(ctx, s.cache, s.logger, domain.AccountQuery.Name)
	s.logger.Info().Str("account_id", id).Bool("active", active).Msg("account activation changed")
	return account, nil
}
