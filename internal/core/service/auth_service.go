package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/ports"
)

// AuthService issues admin session tokens. Only allowlisted e-mails can log
// in, whatever credentials are on file.
type AuthService struct {
	repo      ports.CredentialRepository
	allowlist domain.Allowlist
	audit     auditor
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

func NewAuthService(
	repo ports.CredentialRepository,
	allowlist domain.Allowlist,
	audit ports.AuditRepository,
	jwtSecret string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		allowlist: allowlist,
		audit:     auditor{repo: audit, log: logger, now: time.Now},
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// Bootstrap makes sure every allowlisted admin can log in with password.
// Existing credentials are left alone.
func (s *AuthService) Bootstrap(ctx context.Context, password string) (int, error) {
	if password == "" {
		return 0, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("bootstrap credentials: %w", err)
	}

	created := 0
	for _, email := range s.allowlist.Emails() {
		_, err := s.repo.FindByEmail(ctx, email)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return created, fmt.Errorf("bootstrap credentials: %w", err)
		}

		now := s.now().UTC()
		cred := &domain.Credential{
			ID:           newID(),
			Email:        email,
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.repo.Upsert(ctx, cred); err != nil {
			return created, fmt.Errorf("bootstrap credentials: %w", err)
		}
		created++
		s.logger.Info().Str("email", email).Msg("admin credential bootstrapped")
	}
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}
	if !s.allowlist.Allows(email) {
		s.logger.Warn().Str("email", email).Msg("login attempt from non-admin")
		return "", domain.ErrInvalidCredentials
	}

	cred, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(email)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	s.audit.record(ctx, email, domain.ActionAdminLogin, email, nil)
	return token, nil
}

func (s *AuthService) generateToken(email string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
