// Package query implements the list contract shared by every admin resource:
// a free-text term, exact-match field filters and zero-based pagination.
//
// A Resource describes which fields of a record are searchable and which
// filter keys it understands. Apply runs a Descriptor against an in-memory
// collection; storage backends that push filtering down to the database use
// the same Descriptor accessors so both paths agree on semantics.
package query

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strings"
)

// All is the filter value that disables filtering on a field.
const All = "all"

// ErrInvalidQuery is returned for descriptors that cannot be evaluated.
var ErrInvalidQuery = errors.New("invalid query")

// Descriptor carries the parameters of a single list request.
type Descriptor struct {
	Term     string
	Filters  map[string]string
	Page     int // zero-based
	PageSize int
}

// Validate rejects negative pages and non-positive page sizes.
func (d Descriptor) Validate() error {
	if d.Page < 0 {
		return fmt.Errorf("%w: page must not be negative (got %d)", ErrInvalidQuery, d.Page)
	}
	if d.PageSize <= 0 {
		return fmt.Errorf("%w: pageSize must be positive (got %d)", ErrInvalidQuery, d.PageSize)
	}
	return nil
}

// Filter returns the value of an active filter. Missing keys, empty values
// and the All sentinel all report ok=false.
func (d Descriptor) Filter(key string) (string, bool) {
	v, ok := d.Filters[key]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, All) {
		return "", false
	}
	return v, true
}

// NormalizedTerm is the lower-cased, trimmed search term.
func (d Descriptor) NormalizedTerm() string {
	return strings.ToLower(strings.TrimSpace(d.Term))
}

// Offset is the index of the first item of the requested page. It saturates
// instead of overflowing for absurd page numbers.
func (d Descriptor) Offset() int {
	if d.PageSize > 0 && d.Page > math.MaxInt/d.PageSize {
		return math.MaxInt
	}
	return d.Page * d.PageSize
}

// Key returns a deterministic fingerprint of the descriptor. Filters are
// hashed in key order so map iteration order never changes the result.
func (d Descriptor) Key() string {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "t=%s|p=%d|s=%d", d.NormalizedTerm(), d.Page, d.PageSize)

	keys := make([]string, 0, len(d.Filters))
	for k := range d.Filters {
		if _, ok := d.Filter(k); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, _ := d.Filter(k)
		_, _ = fmt.Fprintf(h, "|%s=%s", k, v)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// Page is one window of a filtered collection.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Text extracts the searchable values of a record. Returning no values, or
// only empty strings, means the record never matches a non-empty term.
type Text[T any] func(T) []string

// Match reports whether a record satisfies an exact filter value.
type Match[T any] func(item T, value string) bool

// Field adapts a single-valued accessor to Text.
func Field[T any](get func(T) string) Text[T] {
	return func(item T) []string { return []string{get(item)} }
}

// Resource is the per-entity configuration of the engine.
type Resource[T any] struct {
	Name    string
	Search  []Text[T]
	Filters map[string]Match[T]
}

// FilterKeys lists the filter keys this resource understands, sorted.
func (r Resource[T]) FilterKeys() []string {
	keys := make([]string, 0, len(r.Filters))
	for k := range r.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Matches applies the term (OR across search fields) and every active exact
// filter (AND). Filter keys the resource does not know are ignored.
func (r Resource[T]) Matches(item T, d Descriptor) bool {
	if term := d.NormalizedTerm(); term != "" && !r.matchesTerm(item, term) {
		return false
	}
	for key, match := range r.Filters {
		v, ok := d.Filter(key)
		if !ok {
			continue
		}
		if !match(item, v) {
			return false
		}
	}
	return true
}

func (r Resource[T]) matchesTerm(item T, term string) bool {
	for _, text := range r.Search {
		for _, v := range text(item) {
			if v != "" && strings.Contains(strings.ToLower(v), term) {
				return true
			}
		}
	}
	return false
}

// Apply filters items under d and returns the requested page. The relative
// order of items is preserved.
func Apply[T any](items []T, r Resource[T], d Descriptor) (*Page[T], error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	matched := make([]T, 0, len(items))
	for _, item := range items {
		if r.Matches(item, d) {
			matched = append(matched, item)
		}
	}

	return &Page[T]{
		Items:    Window(matched, d),
		Total:    len(matched),
		Page:     d.Page,
		PageSize: d.PageSize,
	}, nil
}

// Window slices the page described by d out of an already filtered slice.
// A page past the end yields an empty, non-nil slice.
func Window[T any](matched []T, d Descriptor) []T {
	start := d.Offset()
	if start >= len(matched) {
		return []T{}
	}
	end := len(matched)
	if d.PageSize < end-start {
		end = start + d.PageSize
	}
	return matched[start:end]
}

// Fetcher returns one page of a paginated source.
type Fetcher[T any] func(ctx context.Context, d Descriptor) (*Page[T], error)

// Collect walks every page of fetch for the term and filters in d, starting
// at page zero, and returns the concatenated items.
func Collect[T any](ctx context.Context, d Descriptor, fetch Fetcher[T]) ([]T, error) {
	d.Page = 0
	if d.PageSize <= 0 {
		d.PageSize = 500
	}

	var out []T
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := fetch(ctx, d)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Items...)
		if len(page.Items) == 0 || len(out) >= page.Total {
			return out, nil
		}
		d.Page++
	}
}
