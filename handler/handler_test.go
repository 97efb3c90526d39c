package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/emzola/bookworm/config"
	"github.com/emzola/bookworm/data"
	"github.com/emzola/bookworm/data/dto"
	"github.com/emzola/bookworm/internal/jsonlog"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jellydator/ttlcache/v3"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// fakeService stubs service.Service. Nil funcs panic when called.
type fakeService struct {
	getUserCalls  atomic.Int32
	createReview  func(user *data.User, input dto.CreateReviewRequestBody) (*data.Review, error)
	updateReview  func(user *data.User, id int64, input dto.UpdateReviewRequestBody) (*data.Review, error)
	deleteReview  func(user *data.User, id int64) error
	listReviews   func(q data.ReviewQuery) ([]*data.Review, data.Metadata, error)
	listUser      func(userID int64) ([]*data.Review, error)
	titleExists   func(title string) (bool, error)
	suggestTitles func(search string, limit int) ([]string, error)
}

var testUser = &data.User{ID: 7, Username: "reader"}

func (f *fakeService) CreateReview(_ context.Context, user *data.User, input dto.CreateReviewRequestBody) (*data.Review, error) {
	return f.createReview(user, input)
}

func (f *fakeService) UpdateReview(_ context.Context, user *data.User, id int64, input dto.UpdateReviewRequestBody) (*data.Review, error) {
	return f.updateReview(user, id, input)
}

func (f *fakeService) DeleteReview(_ context.Context, user *data.User, id int64) error {
	return f.deleteReview(user, id)
}

func (f *fakeService) ListReviews(_ context.Context, q data.ReviewQuery) ([]*data.Review, data.Metadata, error) {
	return f.listReviews(q)
}

func (f *fakeService) ListUserReviews(_ context.Context, userID int64) ([]*data.Review, error) {
	return f.listUser(userID)
}

func (f *fakeService) ReviewTitleExists(_ context.Context, title string) (bool, error) {
	return f.titleExists(title)
}

func (f *fakeService) SuggestTitles(_ context.Context, search string, limit int) ([]string, error) {
	return f.suggestTitles(search, limit)
}

func (f *fakeService) GetUser(_ context.Context, userID int64) (*data.User, error) {
	f.getUserCalls.Add(1)
	if userID == testUser.ID {
		return testUser, nil
	}
	return nil, errNotFound
}

func testConfig() config.Config {
	var cfg config.Config
	cfg.Server.Env = "testing"
	cfg.JWT.Secret = testSecret
	cfg.Metrics.Enabled = true
	cfg.BasicAuth.Username = "admin"
	cfg.BasicAuth.Password = "s3cret"
	return cfg
}

func newTestServer(t *testing.T, cfg config.Config, svc *fakeService) *httptest.Server {
	t.Helper()
	users := ttlcache.New[int64, *data.User](ttlcache.WithTTL[int64, *data.User](time.Minute))
	h := New(cfg, jsonlog.New(io.Discard, jsonlog.LevelInfo), users, svc)
	ts := httptest.NewServer(h.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func signToken(t *testing.T, secret string, userID interface{}) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (r response) message(t *testing.T) string {
	t.Helper()
	var m dto.MessageResponse
	require.NoError(t, json.Unmarshal(r.body, &m))
	return m.Message
}

func do(t *testing.T, ts *httptest.Server, method, path, token, body string) response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return response{status: res.StatusCode, header: res.Header, body: b}
}
