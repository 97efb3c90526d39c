package feed

import (
	"math/rand"
	"testing"
	"time"

	"github.com/emzola/bookworm/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func review(id int64, title string, rating int, minutes int, tags ...string) *data.Review {
	if tags == nil {
		tags = []string{}
	}
	return &data.Review{
		ID:           id,
		Title:        title,
		Caption:      "caption " + title,
		Rating:       rating,
		Tags:         tags,
		User:         data.Author{ID: id, Username: "user"},
		CreatedAt:    epoch.Add(time.Duration(minutes) * time.Minute),
		PurchaseLink: data.PurchaseLink(title),
	}
}

func TestAggregateEmpty(t *testing.T) {
	groups := Aggregate(nil)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestAggregateFoldsTitles(t *testing.T) {
	reviews := []*data.Review{
		review(3, "dune", 4, 30, "classic", "Space"),
		review(1, "Dune", 5, 10, "sci-fi"),
		review(2, "Emma", 2, 20),
		review(4, "DUNE", 3, 20, "sci-fi", "classic"),
	}
	groups := Aggregate(reviews)
	require.Len(t, groups, 2)

	dune := groups[0]
	assert.Equal(t, "dune", dune.Key)
	assert.Equal(t, "dune-1", dune.ID)
	assert.Equal(t, "Dune", dune.Title, "presentation comes from the earliest review")
	assert.Equal(t, epoch.Add(10*time.Minute), dune.CreatedAt)
	assert.Equal(t, data.PurchaseLink("Dune"), dune.PurchaseLink)
	assert.Equal(t, 12, dune.TotalRating)
	assert.Equal(t, 3, dune.ReviewCount)
	assert.InDelta(t, 4.0, dune.AverageRating, 1e-9)
	assert.Equal(t, []string{"sci-fi", "classic", "Space"}, dune.Tags)

	var ids []int64
	for _, r := range dune.Reviews {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int64{3, 4, 1}, ids, "members are newest first")

	assert.Equal(t, "Emma", groups[1].Title)
	assert.Equal(t, 1, groups[1].ReviewCount)
	assert.InDelta(t, 2.0, groups[1].AverageRating, 1e-9)
}

func TestAggregateTagsAreCaseSensitive(t *testing.T) {
	groups := Aggregate([]*data.Review{
		review(1, "Emma", 4, 0, "Classic"),
		review(2, "emma", 4, 1, "classic", "Classic"),
	})
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"Classic", "classic"}, groups[0].Tags)
}

func TestAggregateTiesBreakOnID(t *testing.T) {
	groups := Aggregate([]*data.Review{
		review(9, "Solaris", 2, 0),
		review(5, "solaris", 4, 0),
	})
	require.Len(t, groups, 1)
	assert.Equal(t, "solaris", groups[0].Title)
	assert.Equal(t, "solaris-5", groups[0].ID)
	assert.Equal(t, int64(9), groups[0].Reviews[0].ID)
}

func TestAggregateIsOrderIndependent(t *testing.T) {
	reviews := []*data.Review{
		review(1, "Dune", 5, 0, "a"),
		review(2, "Emma", 3, 1, "b"),
		review(3, "dune", 3, 2, "c"),
		review(4, "Hyperion", 4, 2, "a"),
		review(5, "EMMA", 1, 3),
		review(6, "Dune", 4, 4, "a", "d"),
		review(7, "Neuromancer", 5, 4),
	}
	want := Aggregate(reviews)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 25; i++ {
		shuffled := append([]*data.Review(nil), reviews...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, Aggregate(shuffled))
	}
}

func TestAggregateDoesNotModifyInput(t *testing.T) {
	reviews := []*data.Review{
		review(2, "Emma", 3, 5, "b"),
		review(1, "emma", 4, 0, "a"),
	}
	Aggregate(reviews)
	assert.Equal(t, int64(2), reviews[0].ID)
	assert.Equal(t, []string{"a"}, reviews[1].Tags)
}
