package feed

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/emzola/bookworm/data"
	"github.com/emzola/bookworm/data/dto"
	"github.com/emzola/bookworm/internal/jsonlog"
)

var (
	// ErrBusy is returned when a fetch is already in flight.
	ErrBusy = errors.New("feed: a fetch is already in flight")
	// ErrNoMore is returned by LoadMore once the last page has been fetched.
	ErrNoMore = errors.New("feed: no more pages")
	// ErrStale is returned when a response arrives for a superseded fetch.
	ErrStale = errors.New("feed: response discarded for a superseded fetch")
)

// State is the fetch state of a Controller.
type State int

const (
	Idle State = iota
	Loading
	Refreshing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Refreshing:
		return "refreshing"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

// Fetcher retrieves one page of the review feed. *Client implements it.
type Fetcher interface {
	ListReviews(ctx context.Context, q data.ReviewQuery) (*dto.ListReviewsResponse, error)
}

// Observer is told about every change of the accumulated reviews and about
// every failed fetch. It is called without the controller's lock held.
type Observer interface {
	FeedChanged(s Snapshot)
	FeedFailed(err error)
}

// Filter is the query context of a feed: a search term and a tag filter.
type Filter struct {
	Search string
	Tags   []string
}

func (f Filter) normalize() Filter {
	return Filter{Search: strings.TrimSpace(f.Search), Tags: data.NormalizeTags(f.Tags)}
}

func (f Filter) equal(other Filter) bool {
	return f.Search == other.Search && slices.Equal(f.Tags, other.Tags)
}

// Snapshot is a consistent copy of the controller's state.
type Snapshot struct {
	State   State
	Filter  Filter
	Page    int
	HasMore bool
	Reviews []*data.Review
	Groups  []Group
}

// Option configures a Controller.
type Option func(*Controller)

// WithLimit sets the page size requested from the API.
func WithLimit(limit int) Option {
	return func(c *Controller) {
		if limit > 0 {
			c.limit = limit
		}
	}
}

// WithObserver registers the observer of feed changes.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observer = o
	}
}

// WithFilter sets the query context used by the first Mount.
func WithFilter(f Filter) Option {
	return func(c *Controller) {
		c.filter = f.normalize()
	}
}

// Controller pages through the review feed for one query context at a time,
// accumulating the fetched reviews. At most one fetch is in flight, except
// that a context change (Mount or SetFilter) always goes through and
// supersedes whatever was in flight.
type Controller struct {
	fetcher  Fetcher
	logger   *jsonlog.Logger
	observer Observer
	limit    int

	mu         sync.Mutex
	state      State
	filter     Filter
	page       int
	hasMore    bool
	reviews    []*data.Review
	generation uint64
	seq        uint64
	pending    uint64
}

// ticket identifies one fetch.
type ticket struct {
	generation uint64
	seq        uint64
	query      data.ReviewQuery
}

// NewController creates a controller in the Loading state, waiting for Mount.
func NewController(fetcher Fetcher, logger *jsonlog.Logger, opts ...Option) *Controller {
	c := &Controller{
		fetcher: fetcher,
		logger:  logger,
		limit:   data.DefaultLimit,
		state:   Loading,
		filter:  Filter{Tags: []string{}},
		reviews: []*data.Review{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount performs the initial page-1 fetch for the current filter. It is
// honoured even though the controller starts out Loading.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	t := c.startContext()
	snap := c.snapshot()
	c.mu.Unlock()
	c.notify(snap)
	return c.fetch(ctx, t)
}

// SetFilter switches to a new query context, discarding the accumulated
// reviews and fetching page 1. Setting the current filter again does nothing.
func (c *Controller) SetFilter(ctx context.Context, f Filter) error {
	f = f.normalize()
	c.mu.Lock()
	if c.generation > 0 && c.filter.equal(f) {
		c.mu.Unlock()
		return nil
	}
	c.filter = f
	t := c.startContext()
	snap := c.snapshot()
	c.mu.Unlock()
	c.notify(snap)
	return c.fetch(ctx, t)
}

// Refresh fetches page 1 again and replaces the accumulated reviews with it.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Idle {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = Refreshing
	t := c.issue(1)
	c.mu.Unlock()
	return c.fetch(ctx, t)
}

// LoadMore fetches the page after the last one fetched and appends its
// reviews, skipping any already accumulated.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Idle {
		c.mu.Unlock()
		return ErrBusy
	}
	if !c.hasMore {
		c.mu.Unlock()
		return ErrNoMore
	}
	c.state = Loading
	t := c.issue(c.page + 1)
	c.mu.Unlock()
	return c.fetch(ctx, t)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// startContext begins a new generation. Callers hold c.mu.
func (c *Controller) startContext() ticket {
	c.generation++
	c.state = Loading
	c.page = 0
	c.hasMore = false
	c.reviews = []*data.Review{}
	return c.issue(1)
}

// issue tags a fetch of page with the current generation. Callers hold c.mu.
func (c *Controller) issue(page int) ticket {
	c.seq++
	c.pending = c.seq
	return ticket{
		generation: c.generation,
		seq:        c.seq,
		query: data.ReviewQuery{
			Page:   page,
			Limit:  c.limit,
			Search: c.filter.Search,
			Tags:   slices.Clone(c.filter.Tags),
		},
	}
}

func (c *Controller) fetch(ctx context.Context, t ticket) error {
	res, err := c.fetcher.ListReviews(ctx, t.query)

	c.mu.Lock()
	if t.generation != c.generation || t.seq != c.pending {
		c.mu.Unlock()
		c.logger.PrintInfo("discarding superseded feed response", map[string]string{
			"page":   strconv.Itoa(t.query.Page),
			"search": t.query.Search,
		})
		return ErrStale
	}
	c.state = Idle
	if err != nil {
		c.mu.Unlock()
		c.logger.PrintWarn(err, map[string]string{
			"page":   strconv.Itoa(t.query.Page),
			"search": t.query.Search,
		})
		if c.observer != nil {
			c.observer.FeedFailed(err)
		}
		return err
	}
	if t.query.Page == 1 {
		c.reviews = merge(nil, res.Books)
	} else {
		c.reviews = merge(c.reviews, res.Books)
	}
	c.page = t.query.Page
	c.hasMore = c.page < res.TotalPages
	snap := c.snapshot()
	c.mu.Unlock()
	c.notify(snap)
	return nil
}

// snapshot copies the state. Callers hold c.mu.
func (c *Controller) snapshot() Snapshot {
	reviews := slices.Clone(c.reviews)
	return Snapshot{
		State:   c.state,
		Filter:  Filter{Search: c.filter.Search, Tags: slices.Clone(c.filter.Tags)},
		Page:    c.page,
		HasMore: c.hasMore,
		Reviews: reviews,
		Groups:  Aggregate(reviews),
	}
}

func (c *Controller) notify(s Snapshot) {
	if c.observer != nil {
		c.observer.FeedChanged(s)
	}
}

// merge appends the reviews of page to acc, skipping ids acc already holds.
func merge(acc, page []*data.Review) []*data.Review {
	out := make([]*data.Review, 0, len(acc)+len(page))
	seen := make(map[int64]struct{}, len(acc)+len(page))
	for _, list := range [][]*data.Review{acc, page} {
		for _, r := range list {
			if r == nil {
				continue
			}
			if _, ok := seen[r.ID]; ok {
				continue
			}
			seen[r.ID] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}
