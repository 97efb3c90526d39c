package dto

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/emzola/bookworm/data"
)

// StarRating is a rating that accepts both a JSON number and a quoted integer,
// since mobile clients submit the create form with the rating as a string.
type StarRating int

// UnmarshalJSON implements json.Unmarshaler.
func (r *StarRating) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*r = StarRating(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.New("rating must be an integer")
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("rating must be an integer")
	}
	*r = StarRating(n)
	return nil
}

// CreateReviewRequestBody defines a request body for CreateReview service.
type CreateReviewRequestBody struct {
	Title   string     `json:"title" validate:"required,max=500"`
	Caption string     `json:"caption" validate:"required,max=2000"`
	Rating  StarRating `json:"rating" validate:"required,gte=1,lte=5"`
	Image   *string    `json:"image"`
	Tags    []string   `json:"tags" validate:"max=20"`
}

// UpdateReviewRequestBody defines a request body for UpdateReview service.
// Absent fields are left untouched.
type UpdateReviewRequestBody struct {
	Caption *string   `json:"caption"`
	Rating  *int      `json:"rating"`
	Tags    *[]string `json:"tags"`
}

// Empty reports whether no updatable field was supplied.
func (b UpdateReviewRequestBody) Empty() bool {
	return b.Caption == nil && b.Rating == nil && b.Tags == nil
}

// ListReviewsResponse is the paginated listing returned by GET /books.
type ListReviewsResponse struct {
	Books []*data.Review `json:"books"`
	data.Metadata
}

// TitleExistsResponse is returned by GET /books/check.
type TitleExistsResponse struct {
	Exists bool `json:"exists"`
}

// MessageResponse carries a human readable message, used for errors and deletions.
type MessageResponse struct {
	Message string `json:"message"`
}
