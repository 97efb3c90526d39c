// Package feed is the client side of Bookworm: an API client, the incremental
// fetch controller that pages through the review feed, input debouncing and
// the per-title aggregation shown to readers.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/emzola/bookworm/data"
	"github.com/emzola/bookworm/data/dto"
	"github.com/sony/gobreaker/v2"
)

const (
	// breakerFailures is the number of consecutive failures that opens the breaker.
	breakerFailures = 5
	breakerTimeout  = 30 * time.Second
)

// maxResponseBytes bounds the size of a decoded API response.
const maxResponseBytes = 16 << 20

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("bookworm api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("bookworm api: %s (status %d)", e.Message, e.StatusCode)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// Client calls the Bookworm API on behalf of one user. Calls go through a
// circuit breaker that fails fast while the API keeps failing; nothing is retried.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewClient creates a client for the API at baseURL authenticating with token.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    "bookworm-api",
			Timeout: breakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerFailures
			},
			IsSuccessful: func(err error) bool {
				// Client errors say nothing about the API's health.
				var apiErr *APIError
				if errors.As(err, &apiErr) {
					return apiErr.StatusCode < http.StatusInternalServerError
				}
				return err == nil || errors.Is(err, context.Canceled)
			},
		}),
	}
}

// ListReviews fetches one page of the review feed.
func (c *Client) ListReviews(ctx context.Context, q data.ReviewQuery) (*dto.ListReviewsResponse, error) {
	qs := url.Values{}
	qs.Set("page", strconv.Itoa(q.Page))
	qs.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		qs.Set("search", q.Search)
	}
	if len(q.Tags) > 0 {
		qs.Set("tags", strings.Join(q.Tags, ","))
	}
	var page dto.ListReviewsResponse
	if err := c.do(ctx, http.MethodGet, "/books", qs, nil, &page); err != nil {
		return nil, err
	}
	if page.Books == nil {
		page.Books = []*data.Review{}
	}
	return &page, nil
}

// UserReviews fetches every review written by the caller.
func (c *Client) UserReviews(ctx context.Context) ([]*data.Review, error) {
	var reviews []*data.Review
	err := c.do(ctx, http.MethodGet, "/books/user", nil, nil, &reviews)
	return reviews, err
}

// CreateReview posts a new review.
func (c *Client) CreateReview(ctx context.Context, input dto.CreateReviewRequestBody) (*data.Review, error) {
	var review data.Review
	if err := c.do(ctx, http.MethodPost, "/books", nil, input, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview edits the caption, rating or tags of one of the caller's reviews.
func (c *Client) UpdateReview(ctx context.Context, id int64, input dto.UpdateReviewRequestBody) (*data.Review, error) {
	var review data.Review
	if err := c.do(ctx, http.MethodPut, "/books/"+strconv.FormatInt(id, 10), nil, input, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview deletes one of the caller's reviews.
func (c *Client) DeleteReview(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/books/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// TitleExists reports whether anyone has reviewed title.
func (c *Client) TitleExists(ctx context.Context, title string) (bool, error) {
	var res dto.TitleExistsResponse
	err := c.do(ctx, http.MethodGet, "/books/check", url.Values{"title": {title}}, nil, &res)
	return res.Exists, err
}

// Suggestions fetches up to limit titles containing q.
func (c *Client) Suggestions(ctx context.Context, q string, limit int) ([]string, error) {
	titles := []string{}
	qs := url.Values{"q": {q}, "limit": {strconv.Itoa(limit)}}
	err := c.do(ctx, http.MethodGet, "/books/suggestions", qs, nil, &titles)
	return titles, err
}

// do sends one request through the breaker and decodes a successful JSON
// answer into dst, when dst is not nil.
func (c *Client) do(ctx context.Context, method, path string, qs url.Values, body, dst interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}
	target := c.baseURL + path
	if len(qs) > 0 {
		target += "?" + qs.Encode()
	}
	raw, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, target, payload)
	})
	if err != nil {
		return err
	}
	if dst == nil {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func (c *Client) roundTrip(ctx context.Context, method, target string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{StatusCode: res.StatusCode}
		var msg dto.MessageResponse
		if json.Unmarshal(raw, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return nil, apiErr
	}
	return raw, nil
}
