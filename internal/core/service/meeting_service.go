package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/ports"
	"github.com/carevillage/admin-api/internal/core/query"
)

type MeetingService struct {
	repo       ports.MeetingRepository
	counselors ports.CounselorRepository
	accounts   ports.AccountRepository
	cache      PageCache
	audit      auditor
	logger     zerolog.Logger
	now        func() time.Time
}

func NewMeetingService(
	repo ports.MeetingRepository,
	counselors ports.CounselorRepository,
	accounts ports.AccountRepository,
	audit ports.AuditRepository,
	cache PageCache,
	logger zerolog.Logger,
) *MeetingService {
	return &MeetingService{
		repo:       repo,
		counselors: counselors,
		accounts:   accounts,
		cache:      orNop(cache),
		audit:      auditor{repo: audit, log: logger, now: time.Now},
		logger:     logger,
		now:        time.Now,
	}
}

func (s *MeetingService) List(ctx context.Context, d query.Descriptor) (*query.Page[domain.Meeting], error) {
	return cachedList(ctx, s.cache, s.logger, domain.MeetingQuery.Name, d, s.repo.List)
}

// Create books a session. The caller-supplied revenue is what the session
// earns if it completes.
func (s *MeetingService) Create(ctx context.Context, in ports.CreateMeetingInput) (*domain.Meeting, error) {
	mtype, err := domain.ParseMeetingType(in.Type)
	if err != nil {
		return nil, err
	}
	m := &domain.Meeting{
		ID:              newID(),
		CounselorID:     in.CounselorID,
		ClientID:        in.ClientID,
		Title:           strings.TrimSpace(in.Title),
		ScheduledAt:     in.ScheduledAt.UTC(),
		DurationMinutes: in.DurationMinutes,
		Type:            mtype,
		Status:          domain.MeetingScheduled,
		Revenue:         in.Revenue,
		CreatedAt:       s.now().UTC(),
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	counselor, err := s.counselors.FindByID(ctx, in.CounselorID)
	if err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}
	client, err := s.accounts.FindByID(ctx, in.ClientID)
	if err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}
	m.CounselorName = counselor.Name
	m.ClientName = client.Name
	if m.ClientName == "" {
		m.ClientName = client.Email
	}

	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.Error().Err(err).Msg("failed to create meeting")
		return nil, fmt.Errorf("create meeting: %w", err)
	}

	s.audit.record(ctx, in.Actor, domain.ActionMeetingCreated, m.ID, map[string]any{"counselorId": m.CounselorID, "revenue": m.Revenue})
	mutated(ctx, s.cache, s.logger, domain.MeetingQuery.Name)
	s.logger.Info().Str("meeting_id", m.ID).Str("counselor_id", m.CounselorID).Msg("meeting scheduled")
	return m, nil
}

func (s *MeetingService) Transition(ctx context.Context, in ports.TransitionInput) (*domain.Meeting, error) {
	next, err := domain.ParseMeetingStatus(in.Status)
	if err != nil {
		return nil, err
	}

	m, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("transition meeting: %w", err)
	}
	from := m.Status

	if err := m.TransitionTo(next); err != nil {
		s.logger.Warn().Str("meeting_id", in.ID).Str("from", string(from)).Str("to", string(next)).Msg("illegal meeting transition")
		return nil, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("transition meeting: %w", err)
	}

	s.audit.record(ctx, in.Actor, domain.ActionMeetingStatus, m.ID, map[string]any{"from": string(from), "to": string(next)})
	mutated(ctx, s.cache, s.logger, domain.MeetingQuery.Name)
	s.logger.Info().Str("meeting_id", m.ID).Str("from", string(from)).Str("to", string(next)).Msg("meeting status changed")
	return m, nil
}
