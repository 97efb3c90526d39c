package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emzola/bookworm/config"
	"github.com/emzola/bookworm/data"
	"github.com/emzola/bookworm/internal/jsonlog"
	"github.com/emzola/bookworm/repository"
	"github.com/jellydator/ttlcache/v3"
)

// fakeRepository is an in-memory repository.Repository.
type fakeRepository struct {
	mu              sync.Mutex
	nextID          int64
	reviews         map[int64]*data.Review
	users           map[int64]*data.User
	suggestionCalls int
	failWith        error
}

func newFakeRepository(users ...*data.User) *fakeRepository {
	r := &fakeRepository{reviews: map[int64]*data.Review{}, users: map[int64]*data.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func clone(r *data.Review) *data.Review {
	c := *r
	c.Tags = append([]string{}, r.Tags...)
	return &c
}

func (r *fakeRepository) CreateReview(_ context.Context, review *data.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	for _, existing := range r.reviews {
		if existing.User.ID == review.User.ID && strings.EqualFold(existing.Title, review.Title) {
			return repository.ErrDuplicateRecord
		}
	}
	r.nextID++
	review.ID = r.nextID
	review.CreatedAt = time.Unix(r.nextID, 0)
	review.UpdatedAt = review.CreatedAt
	r.reviews[review.ID] = clone(review)
	return nil
}

func (r *fakeRepository) GetReview(_ context.Context, reviewID int64) (*data.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[reviewID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return clone(review), nil
}

func (r *fakeRepository) UpdateReview(_ context.Context, review *data.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[review.ID]; !ok {
		return repository.ErrRecordNotFound
	}
	review.UpdatedAt = review.UpdatedAt.Add(time.Second)
	r.reviews[review.ID] = clone(review)
	return nil
}

func (r *fakeRepository) DeleteReview(_ context.Context, reviewID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[reviewID]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(r.reviews, reviewID)
	return nil
}

func (r *fakeRepository) ReviewTitleExistsForUser(_ context.Context, userID int64, title string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, review := range r.reviews {
		if review.User.ID == userID && strings.EqualFold(review.Title, title) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepository) ReviewTitleExists(_ context.Context, title string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, review := range r.reviews {
		if strings.EqualFold(review.Title, title) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepository) sorted() []*data.Review {
	all := make([]*data.Review, 0, len(r.reviews))
	for _, review := range r.reviews {
		all = append(all, clone(review))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return all
}

func (r *fakeRepository) GetAllReviews(_ context.Context, q data.ReviewQuery) ([]*data.Review, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, 0, r.failWith
	}
	all := r.sorted()
	page := []*data.Review{}
	for i := q.Offset(); i < len(all) && len(page) < q.Limit; i++ {
		page = append(page, all[i])
	}
	return page, len(all), nil
}

func (r *fakeRepository) GetAllReviewsForUser(_ context.Context, userID int64) ([]*data.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mine := []*data.Review{}
	for _, review := range r.sorted() {
		if review.User.ID == userID {
			mine = append(mine, review)
		}
	}
	return mine, nil
}

func (r *fakeRepository) GetTitleSuggestions(_ context.Context, search string, limit int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suggestionCalls++
	seen := map[string]bool{}
	titles := []string{}
	for _, review := range r.reviews {
		if strings.Contains(strings.ToLower(review.Title), strings.ToLower(search)) && !seen[review.Title] {
			seen[review.Title] = true
			titles = append(titles, review.Title)
		}
	}
	sort.Strings(titles)
	if len(titles) > limit {
		titles = titles[:limit]
	}
	return titles, nil
}

func (r *fakeRepository) GetUser(_ context.Context, userID int64) (*data.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return user, nil
}

// fakeImageStore records uploads and deletions.
type fakeImageStore struct {
	mu          sync.Mutex
	uploads     []string
	deleted     []string
	uploadErr   error
	deleteErr   error
	contentType string
}

const fakeImageHost = "https://images.test/"

func (s *fakeImageStore) Upload(_ context.Context, body []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.contentType = contentType
	url := fakeImageHost + strings.Repeat("x", len(s.uploads)+1)
	s.uploads = append(s.uploads, url)
	return url, nil
}

func (s *fakeImageStore) Delete(_ context.Context, imageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, imageURL)
	return nil
}

func (s *fakeImageStore) Owns(imageURL string) bool {
	return strings.HasPrefix(imageURL, fakeImageHost)
}

var errBoom = errors.New("boom")

type fixture struct {
	svc    *service
	repo   *fakeRepository
	images *fakeImageStore
	wg     *sync.WaitGroup
}

func newFixture(t *testing.T, users ...*data.User) fixture {
	t.Helper()
	repo := newFakeRepository(users...)
	images := &fakeImageStore{}
	wg := &sync.WaitGroup{}
	cache := ttlcache.New[string, []string](ttlcache.WithTTL[string, []string](30 * time.Second))
	logger := jsonlog.New(io.Discard, jsonlog.LevelInfo)
	return fixture{
		svc:    New(config.Config{}, wg, logger, repo, images, cache),
		repo:   repo,
		images: images,
		wg:     wg,
	}
}
