package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/emzola/bookworm/data"
	"github.com/emzola/bookworm/data/dto"
	"github.com/emzola/bookworm/internal/metrics"
	"github.com/emzola/bookworm/internal/validator"
	"github.com/jellydator/ttlcache/v3"
)

const (
	DefaultSuggestionLimit = 5
	MaxSuggestionLimit     = 20
)

type reviews interface {
	CreateReview(ctx context.Context, user *data.User, input dto.CreateReviewRequestBody) (*data.Review, error)
	UpdateReview(ctx context.Context, user *data.User, reviewID int64, input dto.UpdateReviewRequestBody) (*data.Review, error)
	DeleteReview(ctx context.Context, user *data.User, reviewID int64) error
	ListReviews(ctx context.Context, query data.ReviewQuery) ([]*data.Review, data.Metadata, error)
	ListUserReviews(ctx context.Context, userID int64) ([]*data.Review, error)
	ReviewTitleExists(ctx context.Context, title string) (bool, error)
	SuggestTitles(ctx context.Context, search string, limit int) ([]string, error)
}

// CreateReview service validates and stores a new review written by user.
// A user may review a title only once, ignoring case. A cover image that cannot
// be stored does not fail the request; the review is saved without one.
func (s *service) CreateReview(ctx context.Context, user *data.User, input dto.CreateReviewRequestBody) (*data.Review, error) {
	review := &data.Review{
		Title:   strings.TrimSpace(input.Title),
		Caption: strings.TrimSpace(input.Caption),
		Rating:  int(input.Rating),
		Tags:    data.NormalizeTags(input.Tags),
		User:    user.Author(),
	}
	v := validator.New()
	v.Struct(input)
	if data.ValidateReview(v, review); !v.Valid() {
		return nil, failedValidation(v)
	}
	exists, err := s.repo.ReviewTitleExistsForUser(ctx, user.ID, review.Title)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateRecord
	}
	if input.Image != nil && strings.TrimSpace(*input.Image) != "" {
		review.Image = s.storeImage(ctx, *input.Image, user.ID)
	}
	err = s.repo.CreateReview(ctx, review)
	if err != nil {
		// Lost a race against a concurrent create of the same title.
		s.removeImage(review.Image)
		return nil, translate(err)
	}
	s.suggestions.DeleteAll()
	return review, nil
}

// UpdateReview service changes the caption, rating or tags of a review. Only
// the author may edit a review; concurrent edits are last-write-wins.
func (s *service) UpdateReview(ctx context.Context, user *data.User, reviewID int64, input dto.UpdateReviewRequestBody) (*data.Review, error) {
	if input.Empty() {
		return nil, invalid("at least one of caption, rating or tags must be provided")
	}
	if input.Rating != nil && (*input.Rating < data.MinRating || *input.Rating > data.MaxRating) {
		return nil, invalid("rating must be a number between 1 and 5")
	}
	review, err := s.repo.GetReview(ctx, reviewID)
	if err != nil {
		return nil, translate(err)
	}
	if review.User.ID != user.ID {
		return nil, ErrNotPermitted
	}
	if input.Caption != nil {
		review.Caption = strings.TrimSpace(*input.Caption)
	}
	if input.Rating != nil {
		review.Rating = *input.Rating
	}
	if input.Tags != nil {
		review.Tags = data.NormalizeTags(*input.Tags)
	}
	v := validator.New()
	if data.ValidateReview(v, review); !v.Valid() {
		return nil, failedValidation(v)
	}
	err = s.repo.UpdateReview(ctx, review)
	if err != nil {
		return nil, translate(err)
	}
	return review, nil
}

// DeleteReview service removes a review owned by user together with its
// stored cover image. Image deletion is best effort.
func (s *service) DeleteReview(ctx context.Context, user *data.User, reviewID int64) error {
	review, err := s.repo.GetReview(ctx, reviewID)
	if err != nil {
		return translate(err)
	}
	if review.User.ID != user.ID {
		return ErrNotPermitted
	}
	err = s.repo.DeleteReview(ctx, reviewID)
	if err != nil {
		return translate(err)
	}
	s.removeImage(review.Image)
	s.suggestions.DeleteAll()
	return nil
}

// ListReviews service retrieves a paginated, filtered list of all reviews,
// newest first, each carrying its purchase link.
func (s *service) ListReviews(ctx context.Context, query data.ReviewQuery) ([]*data.Review, data.Metadata, error) {
	reviews, totalRecords, err := s.repo.GetAllReviews(ctx, query)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	data.WithPurchaseLink(reviews)
	return reviews, data.CalculateMetadata(totalRecords, query.Page, query.Limit), nil
}

// ListUserReviews service retrieves every review written by a user.
func (s *service) ListUserReviews(ctx context.Context, userID int64) ([]*data.Review, error) {
	return s.repo.GetAllReviewsForUser(ctx, userID)
}

// ReviewTitleExists service checks whether any user has reviewed title.
// Unlike the duplicate check on creation, this is not scoped to one author.
func (s *service) ReviewTitleExists(ctx context.Context, title string) (bool, error) {
	title = strings.TrimSpace(title)
	v := validator.New()
	if v.Check(title != "", "title", "must be provided"); !v.Valid() {
		return false, failedValidation(v)
	}
	return s.repo.ReviewTitleExists(ctx, title)
}

// SuggestTitles service returns up to limit distinct review titles containing
// search. Results are cached briefly and concurrent misses for the same key
// share one database query.
func (s *service) SuggestTitles(ctx context.Context, search string, limit int) ([]string, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return []string{}, nil
	}
	switch {
	case limit < 1:
		limit = DefaultSuggestionLimit
	case limit > MaxSuggestionLimit:
		limit = MaxSuggestionLimit
	}
	key := fmt.Sprintf("%d:%s", limit, strings.ToLower(search))
	if item := s.suggestions.Get(key); item != nil {
		metrics.RecordSuggestionCache(true)
		return append([]string{}, item.Value()...), nil
	}
	metrics.RecordSuggestionCache(false)
	v, err, _ := s.inflight.Do(key, func() (interface{}, error) {
		titles, err := s.repo.GetTitleSuggestions(context.WithoutCancel(ctx), search, limit)
		if err != nil {
			return nil, err
		}
		s.suggestions.Set(key, titles, ttlcache.DefaultTTL)
		return titles, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]string{}, v.([]string)...), nil
}
