package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/ports"
	"github.com/carevillage/admin-api/internal/core/query"
)

// PageCache holds list pages per resource. It is advisory: a miss or an
// error only costs a trip to the repository.
type PageCache interface {
	// Load reports the generation it read alongside the page. Store writes
	// under that generation, so a page fetched before a write is never
	// served after it.
	Load(ctx context.Context, resource, key string, dst any) (gen int64, hit bool, err error)
	Store(ctx context.Context, resource, key string, gen int64, page any) error
	// Invalidate drops every cached page of resource.
	Invalidate(ctx context.Context, resource string) error
}

// NopCache disables page caching.
type NopCache struct{}

func (NopCache) Load(context.Context, string, string, any) (int64, bool, error) { return 0, false, nil }
func (NopCache) Store(context.Context, string, string, int64, any) error        { return nil }
func (NopCache) Invalidate(context.Context, string) error                       { return nil }

func orNop(c PageCache) PageCache {
	if c == nil {
		return NopCache{}
	}
	return c
}

func newID() string { return uuid.NewString() }

// cachedList serves d from the cache when possible and stores fresh pages.
func cachedList[T any](
	ctx context.Context,
	cache PageCache,
	log zerolog.Logger,
	resource string,
	d query.Descriptor,
	list func(context.Context, query.Descriptor) (*query.Page[T], error),
) (*query.Page[T], error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	key := d.Key()
	var cached query.Page[T]
	gen, hit, loadErr := cache.Load(ctx, resource, key, &cached)
	if loadErr != nil {
		log.Warn().Err(loadErr).Str("resource", resource).Msg("page cache read failed")
	} else if hit {
		return &cached, nil
	}

	page, err := list(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", resource, err)
	}

	// The generation is unknown after a failed read; skip the store.
	if loadErr == nil {
		if err := cache.Store(ctx, resource, key, gen, page); err != nil {
			log.Warn().Err(err).Str("resource", resource).Msg("page cache write failed")
		}
	}
	return page, nil
}

// mutated drops stale pages after a write. Failure is logged only; the
// generation bump is retried by the next mutation.
func mutated(ctx context.Context, cache PageCache, log zerolog.Logger, resource string) {
	if err := cache.Invalidate(ctx, resource); err != nil {
		log.Warn().Err(err).Str("resource", resource).Msg("page cache invalidation failed")
	}
}

// auditor appends audit entries. Write failures never fail the mutation.
type auditor struct {
	repo ports.AuditRepository
	log  zerolog.Logger
	now  func() time.Time
}

func (a auditor) record(ctx context.Context, actor, action, target string, details map[string]any) {
	if a.repo == nil {
		return
	}
	entry := &domain.AuditEntry{
		ID:         newID(),
		ActorEmail: actor,
		Action:     action,
		Target:     target,
		CreatedAt:  a.now().UTC(),
		Details:    details,
	}
	if err := a.repo.Insert(ctx, entry); err != nil {
		a.log.Warn().Err(err).Str("action", action).Str("target", target).Msg("failed to insert audit entry")
	}
}
