package feed

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/emzola/bookworm/data"
)

// Group is every accumulated review of one book title, folded together. The
// presentation fields come from the earliest review of the title.
type Group struct {
	ID            string
	Key           string
	Title         string
	Image         *string
	User          data.Author
	CreatedAt     time.Time
	PurchaseLink  string
	Tags          []string
	Reviews       []GroupReview
	TotalRating   int
	ReviewCount   int
	AverageRating float64
}

// GroupReview is one member review of a Group.
type GroupReview struct {
	ID        int64
	Rating    int
	Caption   string
	User      data.Author
	CreatedAt time.Time
}

// Aggregate folds reviews into one Group per title, compared case-insensitively.
// Groups are returned in order of their earliest review; member reviews are
// newest first. The result does not depend on the order of the input.
func Aggregate(reviews []*data.Review) []Group {
	if len(reviews) == 0 {
		return []Group{}
	}
	sorted := append([]*data.Review(nil), reviews...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	index := make(map[string]int)
	groups := []Group{}
	for _, review := range sorted {
		key := strings.ToLower(review.Title)
		member := GroupReview{
			ID:        review.ID,
			Rating:    review.Rating,
			Caption:   review.Caption,
			User:      review.User,
			CreatedAt: review.CreatedAt,
		}
		i, ok := index[key]
		if !ok {
			index[key] = len(groups)
			groups = append(groups, Group{
				ID:           fmt.Sprintf("%s-%d", key, review.ID),
				Key:          key,
				Title:        review.Title,
				Image:        review.Image,
				User:         review.User,
				CreatedAt:    review.CreatedAt,
				PurchaseLink: review.PurchaseLink,
				Tags:         append([]string{}, review.Tags...),
				Reviews:      []GroupReview{member},
				TotalRating:  review.Rating,
				ReviewCount:  1,
			})
			continue
		}
		g := &groups[i]
		g.Reviews = append(g.Reviews, member)
		g.TotalRating += review.Rating
		g.ReviewCount++
		for _, tag := range review.Tags {
			if !slices.Contains(g.Tags, tag) {
				g.Tags = append(g.Tags, tag)
			}
		}
	}

	for i := range groups {
		g := &groups[i]
		g.AverageRating = float64(g.TotalRating) / float64(g.ReviewCount)
		sort.SliceStable(g.Reviews, func(a, b int) bool {
			ra, rb := g.Reviews[a], g.Reviews[b]
			if !ra.CreatedAt.Equal(rb.CreatedAt) {
				return ra.CreatedAt.After(rb.CreatedAt)
			}
			return ra.ID > rb.ID
		})
	}
	return groups
}
