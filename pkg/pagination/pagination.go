package pagination

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// DefaultParams returns the first page at the default size.
func DefaultParams() Params {
	return Params{Page: 1, Limit: defaultLimit}
}

// FromRequest reads page and limit from the query string. per_page is
// accepted as an alias for limit. Out-of-range values fall back to defaults.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()
	q := r.URL.Query()

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}

	limit := q.Get("limit")
	if limit == "" {
		limit = q.Get("per_page")
	}
	if v, err := strconv.Atoi(limit); err == nil && v > 0 && v <= maxLimit {
		p.Limit = v
	}
	return p
}

// Offset is the zero-based index of the first item on the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Values encodes the params the way the platform API expects them.
func (p Params) Values() url.Values {
	return url.Values{
		"page":  {strconv.Itoa(p.Page)},
		"limit": {strconv.Itoa(p.Limit)},
	}
}

// Result wraps a paginated response.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewResult creates a paginated result.
func NewResult[T any](data []T, totalCount int, params Params) Result[T] {
	totalPages := 0
	if params.Limit > 0 {
		totalPages = totalCount / params.Limit
		if totalCount%params.Limit > 0 {
			totalPages++
		}
	}
	if data == nil {
		data = []T{}
	}

	return Result[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       params.Page,
		PerPage:    params.Limit,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
