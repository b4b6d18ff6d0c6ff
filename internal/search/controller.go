package search

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/nurye/shop/internal/catalog"
	"github.com/nurye/shop/internal/debounce"
	"github.com/nurye/shop/internal/route"
)

const (
	// DefaultDelay is the pause after the last keystroke before a fetch.
	DefaultDelay = 300 * time.Millisecond
	// DefaultMinChars is the shortest trimmed input that is searched.
	DefaultMinChars = 2
	// DefaultFetchTimeout bounds a single suggestion request.
	DefaultFetchTimeout = 5 * time.Second
)

// Searcher fetches suggestions for a trimmed query. catalog.Source
// implementations satisfy it.
type Searcher interface {
	Search(ctx context.Context, query string) ([]catalog.Suggestion, error)
}

// Timer is a resettable one-shot timer. Reset returns a non-zero arm id
// that is passed to the callback when that arming expires.
type Timer interface {
	Reset() uint64
	Cancel() bool
}

// TimerFunc builds the debounce timer. fn must run on its own goroutine.
type TimerFunc func(delay time.Duration, fn func(arm uint64)) Timer

func newDebounceTimer(delay time.Duration, fn func(arm uint64)) Timer {
	return debounce.New(delay, fn)
}

// Options configures a Controller. Zero values select the defaults.
type Options struct {
	Delay        time.Duration
	MinChars     int
	FetchTimeout time.Duration
	NewTimer     TimerFunc
	// OnChange receives a snapshot after every state change. It is called
	// without the controller lock held, possibly from the timer goroutine.
	OnChange func(State)
	Logger   *zap.Logger
}

// Controller drives the search dropdown. It is safe for concurrent use.
type Controller struct {
	searcher     Searcher
	minChars     int
	fetchTimeout time.Duration
	logger       *zap.Logger

	mu       sync.Mutex
	state    State
	gen      uint64
	cancel   context.CancelFunc
	timer    Timer
	arm      uint64
	onChange func(State)
	closed   bool
}

// NewController creates an idle controller.
func NewController(searcher Searcher, opts Options) *Controller {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.MinChars <= 0 {
		opts.MinChars = DefaultMinChars
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.NewTimer == nil {
		opts.NewTimer = newDebounceTimer
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	c := &Controller{
		searcher:     searcher,
		minChars:     opts.MinChars,
		fetchTimeout: opts.FetchTimeout,
		logger:       opts.Logger,
		state:        State{Selected: -1},
		onChange:     opts.OnChange,
	}
	c.timer = opts.NewTimer(opts.Delay, c.fire)
	return c
}

// SetOnChange replaces the change callback. The UI installs it once the
// program that receives the snapshots exists.
func (c *Controller) SetOnChange(fn func(State)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// State returns a snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Input records new text from the search field and opens the panel.
// Unchanged text is ignored.
func (c *Controller) Input(raw string) {
	c.update(func() bool {
		if c.closed || raw == c.state.Input {
			return false
		}
		c.state.Input = raw
		c.state.Open = true
		c.supersedeLocked()

		if utf8.RuneCountInString(strings.TrimSpace(raw)) < c.minChars {
			c.timer.Cancel()
			c.arm = 0
			c.state.Results = nil
			c.state.Selected = -1
			c.state.Phase = Idle
			return true
		}
		c.state.Phase = Debouncing
		c.arm = c.timer.Reset()
		return true
	})
}

// Down highlights the next suggestion, stopping at the last one.
func (c *Controller) Down() {
	c.update(func() bool {
		n := len(c.state.Results)
		if n == 0 {
			return false
		}
		next := min(n-1, c.state.Selected+1)
		if next == c.state.Selected {
			return false
		}
		c.state.Selected = next
		return true
	})
}

// Up moves the highlight back, down to none (-1).
func (c *Controller) Up() {
	c.update(func() bool {
		next := max(-1, c.state.Selected-1)
		if next == c.state.Selected {
			return false
		}
		c.state.Selected = next
		return true
	})
}

// Enter returns the destination for the current state and closes the panel.
// A highlighted suggestion opens its product; otherwise non-blank input
// opens the search results page. ok is false when there is nowhere to go.
func (c *Controller) Enter() (dest route.Route, ok bool) {
	c.update(func() bool {
		if s, hit := c.state.Highlighted(); hit {
			dest, ok = s.Route(), true
		} else if q := strings.TrimSpace(c.state.Input); q != "" {
			dest, ok = route.ToSearch(q), true
		}
		changed := c.state.Open
		c.state.Open = false
		return changed
	})
	return dest, ok
}

// Escape closes the panel and keeps the input.
func (c *Controller) Escape() {
	c.update(func() bool {
		if !c.state.Open {
			return false
		}
		c.state.Open = false
		return true
	})
}

// Dismiss closes the panel because focus moved elsewhere and clears the
// highlight. Input and results are kept for when the field is refocused.
func (c *Controller) Dismiss() {
	c.update(func() bool {
		if !c.state.Open && c.state.Selected == -1 {
			return false
		}
		c.state.Open = false
		c.state.Selected = -1
		return true
	})
}

// Open shows the panel again, e.g. when the field regains focus.
func (c *Controller) Open() {
	c.update(func() bool {
		if c.state.Open {
			return false
		}
		c.state.Open = true
		return true
	})
}

// Close stops the timer and cancels any request in flight. The controller
// ignores input afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.timer.Cancel()
	c.arm = 0
	c.supersedeLocked()
}

// supersedeLocked invalidates the request in flight, if any.
func (c *Controller) supersedeLocked() {
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// fire runs when the debounce window for arm elapses. A fire from an
// arming that a later Input replaced is dropped.
func (c *Controller) fire(arm uint64) {
	c.mu.Lock()
	query := strings.TrimSpace(c.state.Input)
	if c.closed || arm == 0 || arm != c.arm || c.state.Phase != Debouncing ||
		utf8.RuneCountInString(query) < c.minChars {
		c.mu.Unlock()
		return
	}
	c.arm = 0
	c.gen++
	gen := c.gen
	ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
	c.cancel = cancel
	c.state.Phase = Fetching
	c.state.Version++
	snap, notify := c.state.clone(), c.onChange
	c.mu.Unlock()

	if notify != nil {
		notify(snap)
	}

	results, err := c.searcher.Search(ctx, query)
	cancel()

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.logger.Debug("discarding superseded search", zap.String("query", query))
		return
	}
	c.cancel = nil
	if err != nil {
		c.logger.Debug("search failed", zap.String("query", query), zap.Error(err))
		c.state.Results = nil
		c.state.Phase = Failed
	} else {
		c.state.Results = append([]catalog.Suggestion(nil), results...)
		c.state.Phase = Settled
	}
	c.state.Selected = -1
	c.state.Version++
	snap, notify = c.state.clone(), c.onChange
	c.mu.Unlock()

	if notify != nil {
		notify(snap)
	}
}

// update applies fn under the lock and publishes a snapshot when fn
// reports a change.
func (c *Controller) update(fn func() bool) {
	c.mu.Lock()
	if !fn() {
		c.mu.Unlock()
		return
	}
	c.state.Version++
	snap, notify := c.state.clone(), c.onChange
	c.mu.Unlock()

	if notify != nil {
		notify(snap)
	}
}
