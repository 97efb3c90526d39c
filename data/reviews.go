package data

import (
	"net/url"
	"strings"
	"time"

	"github.com/emzola/bookworm/internal/validator"
)

const (
	MinRating = 1
	MaxRating = 5
	MaxTags   = 20
)

// purchaseSearchURL is the external store search the purchase link points at.
const purchaseSearchURL = "https://www.amazon.com/s?k="

// Review defines one user's review of a book title.
type Review struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Caption      string    `json:"caption"`
	Rating       int       `json:"rating"`
	Image        *string   `json:"image"`
	Tags         []string  `json:"tags"`
	User         Author    `json:"user"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	PurchaseLink string    `json:"purchaseLink,omitempty"`
}

// Author is the public projection of a user attached to a review.
type Author struct {
	ID           int64  `json:"id"`
	Username     string `json:"username,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// PurchaseLink derives the external search URL for a book title.
func PurchaseLink(title string) string {
	return purchaseSearchURL + url.QueryEscape(title)
}

// WithPurchaseLink sets the derived purchase link on every review in place.
func WithPurchaseLink(reviews []*Review) {
	for _, review := range reviews {
		review.PurchaseLink = PurchaseLink(review.Title)
	}
}

// NormalizeTags trims every tag and drops empty ones, keeping the original order.
func NormalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			normalized = append(normalized, tag)
		}
	}
	return normalized
}

// ValidateRating reports whether rating is an accepted star value.
func ValidateRating(v *validator.Validator, rating int) {
	v.Check(rating != 0, "rating", "must be provided")
	v.Check(rating >= MinRating && rating <= MaxRating, "rating", "must be an integer between 1 and 5")
}

func ValidateReview(v *validator.Validator, review *Review) {
	v.Check(strings.TrimSpace(review.Title) != "", "title", "must be provided")
	v.Check(len(review.Title) <= 500, "title", "must not be more than 500 bytes long")
	v.Check(strings.TrimSpace(review.Caption) != "", "caption", "must be provided")
	v.Check(len(review.Caption) <= 2000, "caption", "must not be more than 2000 bytes long")
	ValidateRating(v, review.Rating)
	v.Check(len(review.Tags) <= MaxTags, "tags", "must not contain more than 20 tags")
}
