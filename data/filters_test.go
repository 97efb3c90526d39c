package data

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReviewQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  ReviewQuery
	}{
		{"defaults", "", ReviewQuery{Page: 1, Limit: 5, Tags: []string{}}},
		{"explicit", "page=3&limit=10", ReviewQuery{Page: 3, Limit: 10, Tags: []string{}}},
		{"malformed page and limit", "page=abc&limit=-4", ReviewQuery{Page: 1, Limit: 5, Tags: []string{}}},
		{"zero limit", "limit=0", ReviewQuery{Page: 1, Limit: 5, Tags: []string{}}},
		{"limit is capped", "limit=5000", ReviewQuery{Page: 1, Limit: MaxLimit, Tags: []string{}}},
		{"search is trimmed", "search=%20dune%20", ReviewQuery{Page: 1, Limit: 5, Search: "dune", Tags: []string{}}},
		{"tags", "tags=sci-fi,%20classic,,", ReviewQuery{Page: 1, Limit: 5, Tags: []string{"sci-fi", "classic"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ParseReviewQuery(qs))
		})
	}
}

func TestReviewQueryOffset(t *testing.T) {
	assert.Equal(t, 0, ReviewQuery{Page: 1, Limit: 5}.Offset())
	assert.Equal(t, 10, ReviewQuery{Page: 3, Limit: 5}.Offset())
}

func TestReviewQueryHasFilters(t *testing.T) {
	assert.False(t, ReviewQuery{Page: 1, Limit: 5, Tags: []string{}}.HasFilters())
	assert.True(t, ReviewQuery{Search: "x"}.HasFilters())
	assert.True(t, ReviewQuery{Tags: []string{"x"}}.HasFilters())
}

func TestCalculateMetadata(t *testing.T) {
	tests := []struct {
		total, page, limit int
		want               Metadata
	}{
		{0, 1, 5, Metadata{CurrentPage: 1, TotalRecords: 0, TotalPages: 0}},
		{12, 1, 5, Metadata{CurrentPage: 1, TotalRecords: 12, TotalPages: 3}},
		{10, 2, 5, Metadata{CurrentPage: 2, TotalRecords: 10, TotalPages: 2}},
		{3, 7, 5, Metadata{CurrentPage: 7, TotalRecords: 3, TotalPages: 1}},
		{7, 1, 0, Metadata{CurrentPage: 1, TotalRecords: 7, TotalPages: 2}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CalculateMetadata(tt.total, tt.page, tt.limit))
	}
}
