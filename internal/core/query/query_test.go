package query

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID     string
	Name   string
	Email  string
	Tags   []string
	Status string
}

var records = Resource[record]{
	Name: "records",
	Search: []Text[record]{
		Field(func(r record) string { return r.Name }),
		Field(func(r record) string { return r.Email }),
		func(r record) []string { return r.Tags },
	},
	Filters: map[string]Match[record]{
		"status": func(r record, v string) bool { return r.Status == v },
		"tag": func(r record, v string) bool {
			for _, t := range r.Tags {
				if strings.EqualFold(t, v) {
					return true
				}
			}
			return false
		},
	},
}

func fixture() []record {
	return []record{
		{ID: "1", Name: "Dr. Michael Smith", Email: "dr.smith@carevillage.io", Tags: []string{"Anxiety", "Trauma"}, Status: "approved"},
		{ID: "2", Name: "Maria Garcia", Email: "maria.garcia@example.com", Tags: []string{"Relationships"}, Status: "approved"},
		{ID: "3", Name: "Dr. Sarah Johnson", Email: "dr.johnson@example.com", Tags: []string{"Grief & Loss", "Trauma"}, Status: "pending"},
		{ID: "4", Name: "David Chen", Email: "therapist.chen@example.com", Tags: []string{"Addiction"}, Status: "pending"},
		{ID: "5", Name: "", Email: "rejected.therapist@example.com", Tags: nil, Status: "rejected"},
	}
}

func ids(items []record) []string {
	out := make([]string, len(items))
	for i, r := range items {
		out[i] = r.ID
	}
	return out
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		d    Descriptor
		ok   bool
	}{
		{"valid", Descriptor{Page: 0, PageSize: 10}, true},
		{"negative page", Descriptor{Page: -1, PageSize: 10}, false},
		{"zero page size", Descriptor{Page: 0, PageSize: 0}, false},
		{"negative page size", Descriptor{Page: 0, PageSize: -5}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.d.Validate()
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidQuery), "got %v", err)
		})
	}
}

func TestApply_IdentityQueryReturnsCollectionUnchanged(t *testing.T) {
	items := fixture()
	page, err := Apply(items, records, Descriptor{
		Filters:  map[string]string{"status": All, "tag": All},
		PageSize: len(items),
	})
	require.NoError(t, err)
	assert.Equal(t, items, page.Items)
	assert.Equal(t, len(items), page.Total)
}

func TestApply_TermMatchesAnyConfiguredField(t *testing.T) {
	cases := []struct {
		term string
		want []string
	}{
		{"smith", []string{"1"}},
		{"EXAMPLE.COM", []string{"2", "3", "4", "5"}},
		{"trauma", []string{"1", "3"}},
		{"  garcia ", []string{"2"}},
		{"nobody", []string{}},
	}
	for _, tc := range cases {
		page, err := Apply(fixture(), records, Descriptor{Term: tc.term, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, tc.want, ids(page.Items), "term %q", tc.term)
		assert.Equal(t, len(tc.want), page.Total)
	}
}

func TestApply_MissingFieldsNeverMatch(t *testing.T) {
	page, err := Apply(fixture(), records, Descriptor{Term: "rejected", PageSize: 10})
	require.NoError(t, err)
	// record 5 has no name or tags; it matches only through its e-mail.
	assert.Equal(t, []string{"5"}, ids(page.Items))
}

func TestApply_ExactFiltersAreConjunctive(t *testing.T) {
	page, err := Apply(fixture(), records, Descriptor{
		Filters:  map[string]string{"status": "pending", "tag": "trauma"},
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(page.Items))
}

func TestApply_UnknownFilterIgnored(t *testing.T) {
	page, err := Apply(fixture(), records, Descriptor{
		Filters:  map[string]string{"colour": "blue"},
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
}

func TestApply_PendingScenarioIndependentOfPagination(t *testing.T) {
	for _, size := range []int{2, 3, 10, 1000} {
		page, err := Apply(fixture(), records, Descriptor{
			Filters:  map[string]string{"status": "pending"},
			PageSize: size,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
		assert.Equal(t, []string{"3", "4"}, ids(page.Items))
	}
}

func TestApply_PagesConcatenateToFilteredSubset(t *testing.T) {
	items := fixture()
	full, err := Apply(items, records, Descriptor{Term: "example", PageSize: len(items)})
	require.NoError(t, err)

	for size := 1; size <= len(items)+1; size++ {
		var got []record
		pages := (full.Total + size - 1) / size
		for p := 0; p < pages; p++ {
			page, err := Apply(items, records, Descriptor{Term: "example", Page: p, PageSize: size})
			require.NoError(t, err)
			assert.Equal(t, full.Total, page.Total, "total must not depend on page")
			assert.LessOrEqual(t, len(page.Items), size)
			got = append(got, page.Items...)
		}
		assert.Equal(t, ids(full.Items), ids(got), "pageSize %d", size)
	}
}

func TestApply_PagePastEndIsEmptyButCounts(t *testing.T) {
	page, err := Apply(fixture(), records, Descriptor{Page: 7, PageSize: 2})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 7, page.Page)
}

func TestApply_HugePageDoesNotOverflow(t *testing.T) {
	page, err := Apply(fixture(), records, Descriptor{Page: 1 << 62, PageSize: 1 << 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestApply_InvalidDescriptor(t *testing.T) {
	_, err := Apply(fixture(), records, Descriptor{Page: -1, PageSize: 10})
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = Apply(fixture(), records, Descriptor{PageSize: 0})
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestFilter_Sentinels(t *testing.T) {
	d := Descriptor{Filters: map[string]string{"a": "all", "b": "ALL", "c": " ", "d": "x"}}
	for _, k := range []string{"a", "b", "c", "missing"} {
		_, ok := d.Filter(k)
		assert.False(t, ok, k)
	}
	v, ok := d.Filter("d")
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestKey_Deterministic(t *testing.T) {
	a := Descriptor{Term: "Smith", Filters: map[string]string{"status": "approved", "tag": "all"}, PageSize: 25}
	b := Descriptor{Term: " smith", Filters: map[string]string{"status": "approved"}, PageSize: 25}
	c := Descriptor{Term: "smith", Filters: map[string]string{"status": "pending"}, PageSize: 25}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestCollect_WalksAllPages(t *testing.T) {
	items := fixture()
	calls := 0
	fetch := func(_ context.Context, d Descriptor) (*Page[record], error) {
		calls++
		return Apply(items, records, d)
	}

	got, err := Collect(context.Background(), Descriptor{PageSize: 2}, fetch)
	require.NoError(t, err)
	assert.Equal(t, ids(items), ids(got))
	assert.Equal(t, 3, calls)
}

func TestCollect_PropagatesErrors(t *testing.T) {
	boom := errors.New("store down")
	_, err := Collect(context.Background(), Descriptor{PageSize: 2}, func(context.Context, Descriptor) (*Page[record], error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestCollect_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Collect(ctx, Descriptor{PageSize: 2}, func(context.Context, Descriptor) (*Page[record], error) {
		t.Fatal("fetch must not be called")
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
