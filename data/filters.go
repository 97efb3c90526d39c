package data

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 100
)

// ReviewQuery is the parsed form of a review listing request: which page to
// return and which search and tag filters narrow the collection.
type ReviewQuery struct {
	Page   int
	Limit  int
	Search string
	Tags   []string
}

// ParseReviewQuery reads page, limit, search and tags from a query string.
// Malformed or non-positive page and limit values fall back to their defaults
// instead of failing the request.
func ParseReviewQuery(qs url.Values) ReviewQuery {
	return ReviewQuery{
		Page:   positiveInt(qs.Get("page"), DefaultPage, math.MaxInt32),
		Limit:  positiveInt(qs.Get("limit"), DefaultLimit, MaxLimit),
		Search: strings.TrimSpace(qs.Get("search")),
		Tags:   SplitTags(qs.Get("tags")),
	}
}

// SplitTags splits a comma separated tag list, trimming each entry and
// discarding the empty ones.
func SplitTags(csv string) []string {
	if csv == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(csv, ","))
}

// Offset returns the number of records to skip for the current page.
func (q ReviewQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// HasFilters reports whether the query narrows the collection at all.
func (q ReviewQuery) HasFilters() bool {
	return q.Search != "" || len(q.Tags) > 0
}

func positiveInt(s string, defaultValue, max int) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || i < 1 {
		return defaultValue
	}
	if i > max {
		return max
	}
	return i
}

// Metadata holds the pagination numbers returned alongside a page of reviews.
type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	TotalRecords int `json:"totalBooks"`
	TotalPages   int `json:"totalPages"`
}

// CalculateMetadata computes the pagination metadata for a page of results.
func CalculateMetadata(totalRecords, page, limit int) Metadata {
	if limit < 1 {
		limit = DefaultLimit
	}
	return Metadata{
		CurrentPage:  page,
		TotalRecords: totalRecords,
		TotalPages:   int(math.Ceil(float64(totalRecords) / float64(limit))),
	}
}
