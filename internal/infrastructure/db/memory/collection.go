// Package memory is an in-process implementation of the repositories. It
// backs the demo mode and the tests; records are cloned on the way in and
// out so callers never share state with the store.
package memory

import (
	"context"
	"sync"

	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/query"
)

// collection keeps records in insertion order.
type collection[T any] struct {
	mu       sync.RWMutex
	order    []string
	items    map[string]T
	id       func(T) string
	clone    func(T) T
	resource query.Resource[T]
	notFound error
}

func newCollection[T any](resource query.Resource[T], notFound error, id func(T) string, clone func(T) T) *collection[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &collection[T]{
		items:    make(map[string]T),
		id:       id,
		clone:    clone,
		resource: resource,
		notFound: notFound,
	}
}

func (c *collection[T]) List(ctx context.Context, d query.Descriptor) (*query.Page[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return query.Apply(c.snapshot(), c.resource, d)
}

func (c *collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.items[id]
	if !ok {
		return nil, c.notFound
	}
	out := c.clone(v)
	return &out, nil
}

func (c *collection[T]) Create(ctx context.Context, item *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insertLocked(*item)
}

func (c *collection[T]) insertLocked(item T) error {
	id := c.id(item)
	if _, exists := c.items[id]; exists {
		return domain.ErrDuplicate
	}
	c.items[id] = c.clone(item)
	c.order = append(c.order, id)
	return nil
}

func (c *collection[T]) Update(ctx context.Context, item *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.id(*item)
	if _, ok := c.items[id]; !ok {
		return c.notFound
	}
	c.items[id] = c.clone(*item)
	return nil
}

// snapshot returns clones of every record in insertion order.
func (c *collection[T]) snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.clone(c.items[id]))
	}
	return out
}

// where returns the records accepted by keep, in insertion order.
func (c *collection[T]) where(ctx context.Context, keep func(T) bool) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all := c.snapshot()
	out := make([]T, 0, len(all))
	for _, v := range all {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// load inserts items, skipping ids that are already present.
func (c *collection[T]) load(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range items {
		_ = c.insertLocked(v)
	}
}

// Len is the number of stored records.
func (c *collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
