package feed

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/emzola/bookworm/data"
)

// DefaultDebounce is the quiet period after the last keystroke before a
// search or tag input is applied.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer runs the most recently scheduled function once no call to
// Trigger has happened for the configured delay.
type Debouncer struct {
	delay time.Duration
	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a trailing-edge debouncer.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, replacing any call still waiting.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels a pending call. It reports whether one was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}

// FilterInput turns raw search and tag keystrokes into controller filter
// changes. The two inputs are debounced independently.
type FilterInput struct {
	ctx        context.Context
	controller *Controller
	search     *Debouncer
	tags       *Debouncer

	mu      sync.Mutex
	rawText string
	rawTags string
}

// NewFilterInput binds raw inputs to controller. Filter fetches started by
// the input use ctx.
func NewFilterInput(ctx context.Context, controller *Controller, delay time.Duration) *FilterInput {
	current := controller.Snapshot().Filter
	return &FilterInput{
		ctx:        ctx,
		controller: controller,
		search:     NewDebouncer(delay),
		tags:       NewDebouncer(delay),
		rawText:    current.Search,
		rawTags:    strings.Join(current.Tags, ","),
	}
}

// Search records the raw search box content.
func (in *FilterInput) Search(text string) {
	in.mu.Lock()
	in.rawText = text
	in.mu.Unlock()
	in.search.Trigger(in.apply)
}

// Tags records the raw comma separated tag input.
func (in *FilterInput) Tags(csv string) {
	in.mu.Lock()
	in.rawTags = csv
	in.mu.Unlock()
	in.tags.Trigger(in.apply)
}

// Stop drops any pending input.
func (in *FilterInput) Stop() {
	in.search.Stop()
	in.tags.Stop()
}

func (in *FilterInput) apply() {
	in.mu.Lock()
	f := Filter{Search: in.rawText, Tags: data.SplitTags(in.rawTags)}
	in.mu.Unlock()
	// Failures reach the controller's observer.
	_ = in.controller.SetFilter(in.ctx, f)
}
