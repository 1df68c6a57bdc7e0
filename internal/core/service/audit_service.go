package service

import (
	"context"
	"fmt"

	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/ports"
	"github.com/carevillage/admin-api/internal/core/query"
)

type AuditService struct {
	repo ports.AuditRepository
}

func NewAuditService(repo ports.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// List is never cached; the log changes on every mutation.
func (s *AuditService) List(ctx context.Context, d query.Descriptor) (*query.Page[domain.AuditEntry], error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	page, err := s.repo.List(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	return page, nil
}
