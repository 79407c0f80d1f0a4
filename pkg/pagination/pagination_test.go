package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Page: 1, Limit: 20}},
		{"custom", "?page=3&limit=50", Params{Page: 3, Limit: 50}},
		{"per_page alias", "?per_page=15", Params{Page: 1, Limit: 15}},
		{"limit wins over alias", "?limit=30&per_page=15", Params{Page: 1, Limit: 30}},
		{"negative page", "?page=-2", Params{Page: 1, Limit: 20}},
		{"zero page", "?page=0", Params{Page: 1, Limit: 20}},
		{"garbage page", "?page=abc", Params{Page: 1, Limit: 20}},
		{"limit over cap", "?limit=101", Params{Page: 1, Limit: 20}},
		{"limit at cap", "?limit=100", Params{Page: 1, Limit: 100}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/users"+tc.query, nil)
			assert.Equal(t, tc.want, FromRequest(r))
		})
	}
}

func TestParams_OffsetAndValues(t *testing.T) {
	p := Params{Page: 3, Limit: 25}
	assert.Equal(t, 50, p.Offset())
	assert.Equal(t, "limit=25&page=3", p.Values().Encode())
}

func TestNewResult(t *testing.T) {
	r := NewResult([]string{"u1", "u2"}, 45, Params{Page: 2, Limit: 20})
	assert.Equal(t, 3, r.TotalPages)
	assert.True(t, r.HasNext)
	assert.True(t, r.HasPrev)
	assert.Equal(t, 20, r.PerPage)

	last := NewResult([]string{"u41"}, 41, Params{Page: 3, Limit: 20})
	assert.False(t, last.HasNext)

	first := NewResult([]string{"u1"}, 40, Params{Page: 1, Limit: 20})
	assert.False(t, first.HasPrev)
	assert.Equal(t, 2, first.TotalPages)
}

func TestNewResult_EmptyData(t *testing.T) {
	r := NewResult[string](nil, 0, DefaultParams())
	assert.NotNil(t, r.Data)
	assert.Empty(t, r.Data)
	assert.Equal(t, 0, r.TotalPages)
	assert.False(t, r.HasNext)
}
