package query_test

import (
	"net/url"
	"testing"
	"time"

	"go-gin-airport/internal/query"
	apperrors "go-gin-airport/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var routeSpec = query.Spec{
	Filters: []query.Filter{
		{Param: "source", Column: "r.source_id", Kind: query.Int},
		{Param: "destination", Column: "r.destination_id", Kind: query.Int},
		{Param: "name", Column: "s.name", Kind: query.String},
		{Param: "departure_date", Column: "f.departure_time", Kind: query.Date},
	},
	Orderings:    map[string]string{"distance": "r.distance", "id": "r.id"},
	DefaultOrder: "r.id ASC",
	TieBreaker:   "r.id",
}

func TestParse_NoFilters(t *testing.T) {
	q, err := query.Parse(routeSpec, url.Values{})

	require.NoError(t, err)
	where, args := q.Where(1)
	assert.Empty(t, where)
	assert.Empty(t, args)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, "ORDER BY r.id ASC, r.id", q.OrderClause())
}

func TestParse_FiltersComposeWithAnd(t *testing.T) {
	values := url.Values{
		"source":      {"3"},
		"destination": {"5"},
		"unknown":     {"ignored"},
	}

	q, err := query.Parse(routeSpec, values)

	require.NoError(t, err)
	where, args := q.Where(1)
	assert.Equal(t, "WHERE r.source_id = $1 AND r.destination_id = $2", where)
	assert.Equal(t, []any{3, 5}, args)
	assert.NotContains(t, q.CacheKey(), "unknown")
}

func TestParse_DateFilter(t *testing.T) {
	q, err := query.Parse(routeSpec, url.Values{"departure_date": {"2026-10-20"}})

	require.NoError(t, err)
	where, args := q.Where(3)
	assert.Equal(t, "WHERE (f.departure_time)::date = $3", where)
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), args[0])
}

func TestParse_InvalidValues(t *testing.T) {
	_, err := query.Parse(routeSpec, url.Values{
		"source":         {"abc"},
		"departure_date": {"20-10-2026"},
		"page":           {"0"},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	verr, ok := err.(*apperrors.ValidationError)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "source")
	assert.Contains(t, verr.Fields, "departure_date")
	assert.Contains(t, verr.Fields, "page")
}

func TestParse_Ordering(t *testing.T) {
	q, err := query.Parse(routeSpec, url.Values{"ordering": {"-distance,bogus"}})

	require.NoError(t, err)
	assert.Equal(t, "ORDER BY r.distance DESC, r.id", q.OrderClause())
	assert.Equal(t, "ordering=-distance", q.CacheKey())
}

func TestParse_Pagination(t *testing.T) {
	q, err := query.Parse(routeSpec, url.Values{"page": {"3"}})

	require.NoError(t, err)
	assert.Equal(t, query.PageSize, q.Limit())
	assert.Equal(t, 2*query.PageSize, q.Offset())
}

func TestNewPage(t *testing.T) {
	t.Run("First page with more", func(t *testing.T) {
		q := query.Query{Page: 1}
		p := query.NewPage([]int{1, 2, 3, 4}, 6, q)

		assert.Nil(t, p.Previous)
		require.NotNil(t, p.Next)
		assert.Equal(t, 2, *p.Next)
		assert.Equal(t, 6, p.Count)
	})

	t.Run("Last page", func(t *testing.T) {
		q := query.Query{Page: 2}
		p := query.NewPage([]int{5, 6}, 6, q)

		assert.Nil(t, p.Next)
		require.NotNil(t, p.Previous)
		assert.Equal(t, 1, *p.Previous)
	})

	t.Run("Out of range page is empty, not nil", func(t *testing.T) {
		q := query.Query{Page: 9}
		p := query.NewPage[int](nil, 6, q)

		assert.NotNil(t, p.Results)
		assert.Empty(t, p.Results)
		assert.Nil(t, p.Next)
	})
}

func TestMap(t *testing.T) {
	p := query.NewPage([]int{1, 2}, 2, query.Query{Page: 1})

	mapped := query.Map(p, func(n int) string { return string(rune('a' + n - 1)) })

	assert.Equal(t, []string{"a", "b"}, mapped.Results)
	assert.Equal(t, 2, mapped.Count)
}
