package params

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    Pagination
		enabled bool
	}{
		{"no params", "", Pagination{Limit: 15, Page: 1, Offset: 0}, false},
		{"page and limit", "page=2&limit=30", Pagination{Limit: 30, Page: 2, Offset: 30}, true},
		{"limit capped", "limit=500", Pagination{Limit: 50, Page: 1, Offset: 0}, true},
		{"negative limit", "limit=-3&page=3", Pagination{Limit: 15, Page: 3, Offset: 30}, true},
		{"garbage page", "page=abc", Pagination{Limit: 15, Page: 1, Offset: 0}, true},
		{"zero page", "page=0&limit=10", Pagination{Limit: 10, Page: 1, Offset: 0}, true},
		{"huge page", "page=9223372036854775807&limit=50", Pagination{Limit: 50, Page: 42949672, Offset: 2147483550}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)

			got := ParsePagination(q)
			assert.Equal(t, tt.want.Limit, got.Limit)
			assert.Equal(t, tt.want.Page, got.Page)
			assert.Equal(t, tt.want.Offset, got.Offset)
			assert.Equal(t, tt.enabled, got.Enabled)
		})
	}
}

func TestComputeMeta(t *testing.T) {
	p := Pagination{Limit: 10, Page: 2, Offset: 10}
	p.ComputeMeta(25)

	assert.Equal(t, 25, p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)

	p = Pagination{Limit: 10, Page: 3, Offset: 20}
	p.ComputeMeta(25)
	assert.False(t, p.HasNext)
}
