package repository

import (
	"fmt"
	"strings"

	"github.com/emzola/bookworm/data"
	"github.com/lib/pq"
)

// reviewFilter is the WHERE clause and bound arguments for a review listing.
// Building it performs no I/O; the listing and count statements embed it.
type reviewFilter struct {
	clause string
	args   []interface{}
}

// newReviewFilter translates the search and tag filters of a query into SQL.
//
// search is matched as a literal, case-insensitive substring of the title or the
// caption. tags match when any review tag equals any requested tag, ignoring case.
// Both filters are ANDed; with neither the clause selects every row.
func newReviewFilter(q data.ReviewQuery) reviewFilter {
	var (
		conditions []string
		args       []interface{}
	)
	if q.Search != "" {
		args = append(args, strings.ToLower(q.Search))
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(strpos(lower(reviews.title), $%d) > 0 OR strpos(lower(reviews.caption), $%d) > 0)", n, n))
	}
	if len(q.Tags) > 0 {
		lowered := make([]string, len(q.Tags))
		for i, tag := range q.Tags {
			lowered[i] = strings.ToLower(tag)
		}
		args = append(args, pq.Array(lowered))
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(reviews.tags) AS tag WHERE lower(tag) = ANY($%d))", len(args)))
	}
	if len(conditions) == 0 {
		return reviewFilter{clause: "TRUE"}
	}
	return reviewFilter{clause: strings.Join(conditions, " AND "), args: args}
}

// next returns the placeholder number following the filter's own arguments.
func (f reviewFilter) next() int {
	return len(f.args) + 1
}
