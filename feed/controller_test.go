package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/emzola/bookworm/data"
	"github.com/emzola/bookworm/data/dto"
	"github.com/emzola/bookworm/internal/jsonlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls []data.ReviewQuery
	fn    func(q data.ReviewQuery) (*dto.ListReviewsResponse, error)
}

func (f *fakeFetcher) ListReviews(_ context.Context, q data.ReviewQuery) (*dto.ListReviewsResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	fn := f.fn
	f.mu.Unlock()
	return fn(q)
}

func (f *fakeFetcher) set(fn func(q data.ReviewQuery) (*dto.ListReviewsResponse, error)) {
	f.mu.Lock()
	f.fn = fn
	f.mu.Unlock()
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type recorder struct {
	mu       sync.Mutex
	changes  []Snapshot
	failures []error
}

func (r *recorder) FeedChanged(s Snapshot) {
	r.mu.Lock()
	r.changes = append(r.changes, s)
	r.mu.Unlock()
}

func (r *recorder) FeedFailed(err error) {
	r.mu.Lock()
	r.failures = append(r.failures, err)
	r.mu.Unlock()
}

func (r *recorder) last() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.changes[len(r.changes)-1]
}

func pageOf(page, totalPages int, ids ...int64) *dto.ListReviewsResponse {
	books := make([]*data.Review, 0, len(ids))
	for _, id := range ids {
		books = append(books, review(id, fmt.Sprintf("Book %d", id), 3, int(id)))
	}
	return &dto.ListReviewsResponse{
		Books:    books,
		Metadata: data.Metadata{CurrentPage: page, TotalRecords: totalPages * 5, TotalPages: totalPages},
	}
}

// numbered serves pages of five reviews with consecutive ids.
func numbered(totalPages int) func(q data.ReviewQuery) (*dto.ListReviewsResponse, error) {
	return func(q data.ReviewQuery) (*dto.ListReviewsResponse, error) {
		first := int64((q.Page-1)*5 + 1)
		return pageOf(q.Page, totalPages, idRange(first, first+4)...), nil
	}
}

func idRange(from, to int64) []int64 {
	ids := []int64{}
	for id := from; id <= to; id++ {
		ids = append(ids, id)
	}
	return ids
}

func idsOf(reviews []*data.Review) []int64 {
	ids := []int64{}
	for _, r := range reviews {
		ids = append(ids, r.ID)
	}
	return ids
}

func newTestController(fetcher Fetcher, opts ...Option) *Controller {
	return NewController(fetcher, jsonlog.New(io.Discard, jsonlog.LevelInfo), opts...)
}

func TestControllerBootstrap(t *testing.T) {
	fetcher := &fakeFetcher{fn: numbered(2)}
	c := newTestController(fetcher)
	ctx := context.Background()

	assert.Equal(t, Loading, c.Snapshot().State)
	assert.ErrorIs(t, c.Refresh(ctx), ErrBusy)
	assert.ErrorIs(t, c.LoadMore(ctx), ErrBusy)
	assert.Zero(t, fetcher.callCount())

	require.NoError(t, c.Mount(ctx))
	snap := c.Snapshot()
	assert.Equal(t, Idle, snap.State)
	assert.Equal(t, 1, snap.Page)
	assert.True(t, snap.HasMore)
	assert.Equal(t, idRange(1, 5), idsOf(snap.Reviews))
	assert.Equal(t, data.ReviewQuery{Page: 1, Limit: data.DefaultLimit, Tags: []string{}}, fetcher.calls[0])
}

func TestControllerAccumulatesPages(t *testing.T) {
	fetcher := &fakeFetcher{fn: numbered(3)}
	c := newTestController(fetcher)
	ctx := context.Background()

	require.NoError(t, c.Mount(ctx))
	require.NoError(t, c.LoadMore(ctx))
	snap := c.Snapshot()
	assert.Equal(t, idRange(1, 10), idsOf(snap.Reviews))
	assert.Equal(t, 2, snap.Page)
	assert.True(t, snap.HasMore)

	// A retried page 2 answer must not grow the list.
	fetcher.set(func(q data.ReviewQuery) (*dto.ListReviewsResponse, error) {
		return pageOf(q.Page, 3, idRange(6, 10)...), nil
	})
	require.NoError(t, c.LoadMore(ctx))
	snap = c.Snapshot()
	assert.Len(t, snap.Reviews, 10)
	assert.Equal(t, 3, snap.Page)
	assert.False(t, snap.HasMore)

	assert.ErrorIs(t, c.LoadMore(ctx), ErrNoMore)
	assert.Equal(t, 3, fetcher.callCount())
}

func TestControllerMergeSkipsDuplicatesWithinPage(t *testing.T) {
	fetcher := &fakeFetcher{fn: func(q data.ReviewQuery) (*dto.ListReviewsResponse, error) {
		return pageOf(1, 1, 1, 2, 2, 3), nil
	}}
	c := newTestController(fetcher)
	require.NoError(t, c.Mount(context.Background()))
	assert.Equal(t, []int64{1, 2, 3}, idsOf(c.Snapshot().Reviews))
}

func TestControllerFilterChangeStartsOver(t *testing.T) {
	fetcher := &fakeFetcher{fn: numbered(3)}
	c := newTestController(fetcher, WithLimit(5))
	ctx := context.Background()

	require.NoError(t, c.Mount(ctx))
	require.NoError(t, c.LoadMore(ctx))
	require.Len(t, c.Snapshot().Reviews, 10)

	fetcher.set(func(q data.ReviewQuery) (*dto.ListReviewsResponse, error) {
		return pageOf(q.Page, 1, 40, 41), nil
	})
	require.NoError(t, c.SetFilter(ctx, Filter{Search: "  dune ", Tags: []string{" classic", ""}}))
	snap := c.Snapshot()
	assert.Equal(t, []int64{40, 41}, idsOf(snap.Reviews))
	assert.Equal(t, 1, snap.Page)
	assert.False(t, snap.HasMore)
	assert.Equal(t, Filter{Search: "dune", Tags: []string{"classic"}}, snap.Filter)
	assert.Equal(t, data.ReviewQuery{Page: 1, Limit: 5, Search: "dune", Tags: []string{"classic"}}, fetcher.calls[2])

	require.NoError(t, c.SetFilter(ctx, Filter{Search: "dune", Tags: []string{"classic"}}))
	assert.Equal(t, 3, fetcher.callCount(), "an unchanged filter does not refetch")
}

func TestControllerFilterChangeClearsBeforeFetching(t *testing.T) {
	obs := &recorder{}
	fetcher := &fakeFetcher{fn: numbered(2)}
	c := newTestController(fetcher, WithObserver(obs))
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx))

	fetcher.set(func(q data.ReviewQuery) (*dto.ListReviewsResponse, error) {
		// The observer has already seen the cleared list.
		snap := obs.last()
		assert.Empty(t, snap.Reviews)
		assert.Empty(t, snap.Groups)
		assert.Equal(t, Loading, snap.State)
		return pageOf(1, 1, 99), nil
	})
	require.NoError(t, c.SetFilter(ctx, Filter{Search: "emma"}))
	assert.Equal(t, []int64{99}, idsOf(obs.last().Reviews))
}

func TestControllerRefreshReplaces(t *testing.T) {
	fetcher := &fakeFetcher{fn: numbered(3)}
	c := newTestController(fetcher)
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx))
	require.NoError(t, c.LoadMore(ctx))

	fetcher.set(func(q data.ReviewQuery) (*dto.ListReviewsResponse, error) {
		assert.Equal(t, 1, q.Page)
		return pageOf(1, 4, idRange(11, 15)...), nil
	})
	require.NoError(t, c.Refresh(ctx))
	snap := c.Snapshot()
	assert.Equal(t, idRange(11, 15), idsOf(snap.Reviews))
	assert.Equal(t, 1, snap.Page)
	assert.True(t, snap.HasMore)
	assert.Equal(t, Idle, snap.State)
}

func TestControllerFailureKeepsState(t *testing.T) {
	obs := &recorder{}
	fetcher := &fakeFetcher{fn: numbered(3)}
	c := newTestController(fetcher, WithObserver(obs))
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx))
	before := c.Snapshot()

	errDown := errors.New("api down")
	fetcher.set(func(q data.ReviewQuery) (*dto.ListReviewsResponse, error) {
		return nil, errDown
	})
	assert.ErrorIs(t, c.LoadMore(ctx), errDown)
	assert.ErrorIs(t, c.Refresh(ctx), errDown)

	after := c.Snapshot()
	assert.Equal(t, Idle, after.State)
	assert.Equal(t, before.Page, after.Page)
	assert.Equal(t, before.HasMore, after.HasMore)
	assert.Equal(t, idsOf(before.Reviews), idsOf(after.Reviews))
	assert.Equal(t, []error{errDown, errDown}, obs.failures)

	fetcher.set(numbered(3))
	require.NoError(t, c.LoadMore(ctx))
	assert.Len(t, c.Snapshot().Reviews, 10)
}

func TestControllerDiscardsStaleResponse(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fetcher := &fakeFetcher{fn: func(q data.ReviewQuery) (*dto.ListReviewsResponse, error) {
		if q.Search == "old" {
			close(started)
			<-release
			return pageOf(1, 1, 1, 2), nil
		}
		return pageOf(1, 1, 10, 11), nil
	}}
	c := newTestController(fetcher, WithFilter(Filter{Search: "old"}))
	ctx := context.Background()

	errc := make(chan error, 1)
	go func() { errc <- c.Mount(ctx) }()
	<-started

	require.NoError(t, c.SetFilter(ctx, Filter{Search: "new"}))
	close(release)
	assert.ErrorIs(t, <-errc, ErrStale)

	snap := c.Snapshot()
	assert.Equal(t, "new", snap.Filter.Search)
	assert.Equal(t, []int64{10, 11}, idsOf(snap.Reviews))
	assert.Equal(t, Idle, snap.State)
}

func TestControllerSingleFlight(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	fetcher := &fakeFetcher{fn: func(q data.ReviewQuery) (*dto.ListReviewsResponse, error) {
		if q.Page == 2 {
			started <- struct{}{}
			<-release
		}
		return numbered(3)(q)
	}}
	c := newTestController(fetcher)
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx))

	errc := make(chan error, 1)
	go func() { errc <- c.LoadMore(ctx) }()
	<-started

	assert.Equal(t, Loading, c.Snapshot().State)
	assert.ErrorIs(t, c.LoadMore(ctx), ErrBusy)
	assert.ErrorIs(t, c.Refresh(ctx), ErrBusy)
	assert.Equal(t, 2, fetcher.callCount())

	// A filter change is never dropped; the pending page is discarded instead.
	require.NoError(t, c.SetFilter(ctx, Filter{Tags: []string{"classic"}}))
	close(release)
	assert.ErrorIs(t, <-errc, ErrStale)

	snap := c.Snapshot()
	assert.Equal(t, 1, snap.Page)
	assert.Equal(t, idRange(1, 5), idsOf(snap.Reviews))
	assert.Equal(t, Idle, snap.State)
}

func TestControllerObserverSeesGroups(t *testing.T) {
	obs := &recorder{}
	fetcher := &fakeFetcher{fn: func(q data.ReviewQuery) (*dto.ListReviewsResponse, error) {
		res := pageOf(1, 1)
		res.Books = []*data.Review{
			review(1, "Dune", 5, 0),
			review(2, "dune", 3, 1),
			review(3, "Dune", 4, 2),
		}
		return res, nil
	}}
	c := newTestController(fetcher, WithObserver(obs))
	require.NoError(t, c.Mount(context.Background()))

	groups := obs.last().Groups
	require.Len(t, groups, 1)
	assert.Equal(t, 3, groups[0].ReviewCount)
	assert.InDelta(t, 4.0, groups[0].AverageRating, 1e-9)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "refreshing", Refreshing.String())
	assert.Equal(t, "state(9)", State(9).String())
}
