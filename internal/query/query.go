// Package query turns declared filter and ordering keys plus a page number
// into SQL fragments and a bounded result page. Filters AND-compose, absent
// filters impose nothing, unknown filter and ordering keys are ignored.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "go-gin-airport/pkg/app_errors"
)

// PageSize is fixed for every collection.
const PageSize = 4

const (
	PageParam     = "page"
	OrderingParam = "ordering"
	dateLayout    = "2006-01-02"
)

type Kind int

const (
	String Kind = iota
	Int
	// Date matches the calendar day of a timestamp column (YYYY-MM-DD).
	Date
)

// Filter declares one exact-match query parameter.
type Filter struct {
	Param  string
	Column string
	Kind   Kind
}

// Spec is what a collection allows to be filtered and sorted on.
type Spec struct {
	Filters []Filter
	// Orderings maps an ordering key to its SQL column.
	Orderings map[string]string
	// DefaultOrder is used when no valid ordering key is given, e.g. "created_at DESC".
	DefaultOrder string
	// TieBreaker keeps pagination stable, e.g. "id".
	TieBreaker string
}

type Condition struct {
	Column string
	Kind   Kind
	Value  any
}

// Query is a parsed list request.
type Query struct {
	Conditions []Condition
	OrderBy    []string
	Page       int
	Raw        url.Values
}

// Parse validates values against spec. Only malformed values of declared
// filters are rejected; everything undeclared is dropped.
func Parse(spec Spec, values url.Values) (Query, error) {
	q := Query{Page: 1, Raw: url.Values{}}
	verr := apperrors.NewValidationError(apperrors.ErrInvalidInput)

	for _, f := range spec.Filters {
		raw := strings.TrimSpace(values.Get(f.Param))
		if raw == "" {
			continue
		}
		q.Raw.Set(f.Param, raw)

		switch f.Kind {
		case Int:
			n, err := strconv.Atoi(raw)
			if err != nil {
				verr.Add(f.Param, "a valid integer is required")
				continue
			}
			q.Conditions = append(q.Conditions, Condition{Column: f.Column, Kind: Int, Value: n})
		case Date:
			d, err := time.Parse(dateLayout, raw)
			if err != nil {
				verr.Add(f.Param, "enter a valid date in YYYY-MM-DD format")
				continue
			}
			q.Conditions = append(q.Conditions, Condition{Column: f.Column, Kind: Date, Value: d})
		default:
			q.Conditions = append(q.Conditions, Condition{Column: f.Column, Kind: String, Value: raw})
		}
	}

	if raw := values.Get(PageParam); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			verr.Add(PageParam, "invalid page")
		} else {
			q.Page = page
			q.Raw.Set(PageParam, raw)
		}
	}

	if raw := values.Get(OrderingParam); raw != "" {
		var kept []string
		for _, key := range strings.Split(raw, ",") {
			key = strings.TrimSpace(key)
			desc := strings.HasPrefix(key, "-")
			column, ok := spec.Orderings[strings.TrimPrefix(key, "-")]
			if !ok {
				continue
			}
			kept = append(kept, key)
			if desc {
				q.OrderBy = append(q.OrderBy, column+" DESC")
			} else {
				q.OrderBy = append(q.OrderBy, column+" ASC")
			}
		}
		if len(kept) > 0 {
			q.Raw.Set(OrderingParam, strings.Join(kept, ","))
		}
	}
	if len(q.OrderBy) == 0 && spec.DefaultOrder != "" {
		q.OrderBy = append(q.OrderBy, spec.DefaultOrder)
	}
	if spec.TieBreaker != "" {
		q.OrderBy = append(q.OrderBy, spec.TieBreaker)
	}

	if err := verr.OrNil(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// Where renders the AND-composed conditions starting at placeholder $startArg.
// It returns an empty clause when there are no conditions.
func (q Query) Where(startArg int) (string, []any) {
	if len(q.Conditions) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(q.Conditions))
	args := make([]any, 0, len(q.Conditions))
	for i, c := range q.Conditions {
		pos := startArg + i
		switch c.Kind {
		case Date:
			parts = append(parts, fmt.Sprintf("(%s)::date = $%d", c.Column, pos))
		default:
			parts = append(parts, fmt.Sprintf("%s = $%d", c.Column, pos))
		}
		args = append(args, c.Value)
	}
	return "WHERE " + strings.Join(parts, " AND "), args
}

func (q Query) OrderClause() string {
	if len(q.OrderBy) == 0 {
		return ""
	}
	return "ORDER BY " + strings.Join(q.OrderBy, ", ")
}

func (q Query) Limit() int {
	return PageSize
}

func (q Query) Offset() int {
	return (q.Page - 1) * PageSize
}

// CacheKey is a normalized form of the request used to key cached pages.
func (q Query) CacheKey() string {
	return q.Raw.Encode()
}

// Page is one page of a collection.
type Page[T any] struct {
	Count    int  `json:"count"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Next     *int `json:"next"`
	Previous *int `json:"previous"`
	Results  []T  `json:"results"`
}

func NewPage[T any](results []T, count int, q Query) Page[T] {
	if results == nil {
		results = make([]T, 0)
	}
	p := Page[T]{
		Count:    count,
		Page:     q.Page,
		PageSize: PageSize,
		Results:  results,
	}
	if q.Page > 1 {
		prev := q.Page - 1
		p.Previous = &prev
	}
	if q.Offset()+len(results) < count {
		next := q.Page + 1
		p.Next = &next
	}
	return p
}

// Map converts the results of a page, keeping its metadata.
func Map[T, R any](p Page[T], fn func(T) R) Page[R] {
	out := Page[R]{
		Count:    p.Count,
		Page:     p.Page,
		PageSize: p.PageSize,
		Next:     p.Next,
		Previous: p.Previous,
		Results:  make([]R, 0, len(p.Results)),
	}
	for _, r := range p.Results {
		out.Results = append(out.Results, fn(r))
	}
	return out
}
