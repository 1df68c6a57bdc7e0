package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/ports"
)

type InterviewService struct {
	repo       ports.InterviewRepository
	counselors ports.CounselorRepository
	audit      auditor
	logger     zerolog.Logger
	now        func() time.Time
}

func NewInterviewService(
	repo ports.InterviewRepository,
	counselors ports.CounselorRepository,
	audit ports.AuditRepository,
	logger zerolog.Logger,
) *InterviewService {
	return &InterviewService{
		repo:       repo,
		counselors: counselors,
		audit:      auditor{repo: audit, log: logger, now: time.Now},
		logger:     logger,
		now:        time.Now,
	}
}

// Schedule books a screening interview with an applicant. The interviewer
// defaults to the admin making the request.
func (s *InterviewService) Schedule(ctx context.Context, in ports.ScheduleInterviewInput) (*domain.Interview, error) {
	itype, err := domain.ParseInterviewType(in.Type)
	if err != nil {
		return nil, err
	}
	interviewer := strings.TrimSpace(in.Interviewer)
	if interviewer == "" {
		interviewer = in.Actor
	}

	iv := &domain.Interview{
		ID:              newID(),
		CounselorID:     in.CounselorID,
		ScheduledAt:     in.ScheduledAt.UTC(),
		DurationMinutes: in.DurationMinutes,
		Type:            itype,
		Notes:           strings.TrimSpace(in.Notes),
		Interviewer:     interviewer,
		Status:          domain.InterviewScheduled,
		CreatedAt:       s.now().UTC(),
	}
	if err := iv.Validate(); err != nil {
		return nil, err
	}

	counselor, err := s.counselors.FindByID(ctx, in.CounselorID)
	if err != nil {
		return nil, fmt.Errorf("schedule interview: %w", err)
	}
	iv.CounselorName = counselor.Name

	if err := s.repo.Create(ctx, iv); err != nil {
		s.logger.Error().Err(err).Str("counselor_id", in.CounselorID).Msg("failed to schedule interview")
		return nil, fmt.Errorf("schedule interview: %w", err)
	}

	s.audit.record(ctx, in.Actor, domain.ActionInterviewScheduled, iv.ID, map[string]any{"counselorId": iv.CounselorID, "type": string(iv.Type)})
	s.logger.Info().Str("interview_id", iv.ID).Str("counselor_id", iv.CounselorID).Time("scheduled_at", iv.ScheduledAt).Msg("interview scheduled")
	return iv, nil
}
