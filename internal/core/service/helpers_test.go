package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/ports"
	"github.com/carevillage/admin-api/internal/core/query"
	"github.com/carevillage/admin-api/internal/infrastructure/db/memory"
)

const actor = "cvc@carevillage.io"

var fixedNow = time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func seededStore() *memory.Store {
	s := memory.NewStore()
	s.Seed()
	return s
}

// recordingCache is an in-memory PageCache that counts traffic. Pages are
// keyed by a per-resource generation the same way the Redis cache keys them.
type recordingCache struct {
	mu          sync.Mutex
	pages       map[string]any
	gens        map[string]int64
	loads       int
	hits        int
	invalidated map[string]int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{pages: map[string]any{}, gens: map[string]int64{}, invalidated: map[string]int{}}
}

func pageKey(resource string, gen int64, key string) string {
	return fmt.Sprintf("%s/%d/%s", resource, gen, key)
}

func (c *recordingCache) Load(_ context.Context, resource, key string, dst any) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loads++
	gen := c.gens[resource]
	v, ok := c.pages[pageKey(resource, gen, key)]
	if !ok {
		return gen, false, nil
	}
	c.hits++
	switch d := dst.(type) {
	case *query.Page[domain.Counselor]:
		*d = *v.(*query.Page[domain.Counselor])
	case *query.Page[domain.Account]:
		*d = *v.(*query.Page[domain.Account])
	default:
		return gen, false, nil
	}
	return gen, true, nil
}

func (c *recordingCache) Store(_ context.Context, resource, key string, gen int64, page any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[pageKey(resource, gen, key)] = page
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, resource string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated[resource]++
	c.gens[resource]++
	return nil
}

// brokenCache fails every call.
type brokenCache struct{}

var errCacheDown = errors.New("cache down")

func (brokenCache) Load(context.Context, string, string, any) (int64, bool, error) {
	return 0, false, errCacheDown
}
func (brokenCache) Store(context.Context, string, string, int64, any) error { return errCacheDown }
func (brokenCache) Invalidate(context.Context, string) error               { return errCacheDown }

// failingAudit rejects every insert.
type failingAudit struct{}

func (failingAudit) Insert(context.Context, *domain.AuditEntry) error { return errors.New("audit down") }
func (failingAudit) List(context.Context, query.Descriptor) (*query.Page[domain.AuditEntry], error) {
	return nil, errors.New("audit down")
}

// stubQueue records jobs instead of running them.
type stubQueue struct {
	jobs []ports.PayoutJob
	err  error
}

func (q *stubQueue) Enqueue(_ context.Context, job ports.PayoutJob) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

// stubCredentialRepo is a map-backed CredentialRepository.
type stubCredentialRepo struct {
	creds map[string]*domain.Credential
	err   error
}

func newStubCredentialRepo() *stubCredentialRepo {
	return &stubCredentialRepo{creds: make(map[string]*domain.Credential)}
}

func (r *stubCredentialRepo) FindByEmail(_ context.Context, email string) (*domain.Credential, error) {
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.creds[email]
	if !ok {
		return nil, domain.ErrCredentialNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCredentialRepo) Upsert(_ context.Context, c *domain.Credential) error {
	clone := *c
	r.creds[c.Email] = &clone
	return nil
}
