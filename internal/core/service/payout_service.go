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

type PayoutService struct {
	repo       ports.PayoutRepository
	counselors ports.CounselorRepository
	queue      ports.PayoutQueue
	cache      PageCache
	audit      auditor
	logger     zerolog.Logger
	now        func() time.Time
}

func NewPayoutService(
	repo ports.PayoutRepository,
	counselors ports.CounselorRepository,
	queue ports.PayoutQueue,
	audit ports.AuditRepository,
	cache PageCache,
	logger zerolog.Logger,
) *PayoutService {
	return &PayoutService{
		repo:       repo,
		counselors: counselors,
		queue:      queue,
		cache:      orNop(cache),
		audit:      auditor{repo: audit, log: logger, now: time.Now},
		logger:     logger,
		now:        time.Now,
	}
}

func (s *PayoutService) List(ctx context.Context, d query.Descriptor) (*query.Page[domain.Payout], error) {
	return cachedList(ctx, s.cache, s.logger, domain.PayoutQuery.Name, d, s.repo.List)
}

func (s *PayoutService) Create(ctx context.Context, in ports.CreatePayoutInput) (*domain.Payout, error) {
	p := &domain.Payout{
		ID:            newID(),
		CounselorID:   in.CounselorID,
		Amount:        in.Amount,
		Period:        strings.TrimSpace(in.Period),
		Status:        domain.PayoutPending,
		RequestDate:   s.now().UTC(),
		ScheduledDate: in.ScheduledDate.UTC(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	counselor, err := s.counselors.FindByID(ctx, in.CounselorID)
	if err != nil {
		return nil, fmt.Errorf("create payout: %w", err)
	}
	p.CounselorName = counselor.Name
	p.CounselorEmail = counselor.Email

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Msg("failed to create payout")
		return nil, fmt.Errorf("create payout: %w", err)
	}

	s.audit.record(ctx, in.Actor, domain.ActionPayoutCreated, p.ID, map[string]any{"amount": p.Amount, "period": p.Period})
	mutated(ctx, s.cache, s.logger, domain.PayoutQuery.Name)
	s.logger.Info().Str("payout_id", p.ID).Int64("amount", p.Amount).Msg("payout created")
	return p, nil
}

func (s *PayoutService) Transition(ctx context.Context, in ports.TransitionInput) (*domain.Payout, error) {
	next, err := domain.ParsePayoutStatus(in.Status)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, in.ID, next, time.Time{}, in.Actor)
}

func (s *PayoutService) transition(ctx context.Context, id string, next domain.PayoutStatus, scheduled time.Time, actor string) (*domain.Payout, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("transition payout: %w", err)
	}
	from := p.Status

	if err := p.TransitionTo(next); err != nil {
		s.logger.Warn().Str("payout_id", id).Str("from", string(from)).Str("to", string(next)).Msg("illegal payout transition")
		return nil, err
	}
	if !scheduled.IsZero() {
		p.ScheduledDate = scheduled.UTC()
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("transition payout: %w", err)
	}

	s.audit.record(ctx, actor, domain.ActionPayoutStatus, p.ID, map[string]any{"from": string(from), "to": string(next)})
	mutated(ctx, s.cache, s.logger, domain.PayoutQuery.Name)
	s.logger.Info().Str("payout_id", p.ID).Str("from", string(from)).Str("to", string(next)).Msg("payout status changed")
	return p, nil
}

// EnqueueBatch checks every payout up front and only then hands the batch to
// the workers, so a bad id rejects the whole request. Duplicate ids are
// collapsed.
func (s *PayoutService) EnqueueBatch(ctx context.Context, in ports.BatchPayoutInput) (*ports.BatchResult, error) {
	ids := uniqueIDs(in.PayoutIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: payoutIds must not be empty", domain.ErrInvalidInput)
	}

	for _, id := range ids {
		p, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("enqueue payout batch: %w", err)
		}
		if !p.Status.CanTransitionTo(domain.PayoutProcessing) {
			return nil, &domain.TransitionError{Resource: "payout", From: string(p.Status), To: string(domain.PayoutProcessing)}
		}
	}

	accepted := 0
	for _, id := range ids {
		job := ports.PayoutJob{PayoutID: id, ScheduledDate: in.ProcessingDate, Actor: in.Actor}
		if err := s.queue.Enqueue(ctx, job); err != nil {
			s.logger.Error().Err(err).Str("payout_id", id).Int("accepted", accepted).Msg("payout batch interrupted")
			return nil, fmt.Errorf("enqueue payout batch: %w", err)
		}
		accepted++
	}

	s.audit.record(ctx, in.Actor, domain.ActionPayoutBatch, strings.Join(ids, ","), map[string]any{"count": accepted})
	s.logger.Info().Int("count", accepted).Msg("payout batch enqueued")
	return &ports.BatchResult{Accepted: accepted}, nil
}

// Process is run by the dispatcher workers.
func (s *PayoutService) Process(ctx context.Context, job ports.PayoutJob) error {
	_, err := s.transition(ctx, job.PayoutID, domain.PayoutProcessing, job.ScheduledDate, job.Actor)
	return err
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
