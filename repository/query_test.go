package repository

import (
	"testing"

	"github.com/emzola/bookworm/data"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReviewFilter(t *testing.T) {
	t.Run("no filters selects everything", func(t *testing.T) {
		f := newReviewFilter(data.ReviewQuery{Page: 1, Limit: 5})
		assert.Equal(t, "TRUE", f.clause)
		assert.Empty(t, f.args)
		assert.Equal(t, 1, f.next())
	})

	t.Run("search matches title or caption", func(t *testing.T) {
		f := newReviewFilter(data.ReviewQuery{Search: "DuNe"})
		assert.Equal(t, "(strpos(lower(reviews.title), $1) > 0 OR strpos(lower(reviews.caption), $1) > 0)", f.clause)
		assert.Equal(t, []interface{}{"dune"}, f.args)
		assert.Equal(t, 2, f.next())
	})

	t.Run("tags are lowered and matched exactly", func(t *testing.T) {
		f := newReviewFilter(data.ReviewQuery{Tags: []string{"Sci-Fi", "classic"}})
		assert.Equal(t, "EXISTS (SELECT 1 FROM unnest(reviews.tags) AS tag WHERE lower(tag) = ANY($1))", f.clause)
		require.Len(t, f.args, 1)
		assert.Equal(t, pq.Array([]string{"sci-fi", "classic"}), f.args[0])
	})

	t.Run("search and tags are combined with AND", func(t *testing.T) {
		f := newReviewFilter(data.ReviewQuery{Search: "dune", Tags: []string{"classic"}})
		assert.Contains(t, f.clause, ") AND EXISTS")
		assert.Contains(t, f.clause, "ANY($2)")
		assert.Len(t, f.args, 2)
		assert.Equal(t, 3, f.next())
	})
}
