package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nurye/shop/internal/catalog"
	"github.com/nurye/shop/internal/state"
)

const (
	defaultRefreshInterval = 60 * time.Second
	retryBase              = 2 * time.Second
	maxBackoff             = 30 * time.Second
	refreshTimeout         = 10 * time.Second
)

// Poller refreshes the landing-page data in the background.
type Poller struct {
	trigger chan struct{}
	done    chan struct{}
}

// StartPoller launches a background goroutine that refreshes the store
// every interval, retrying failures with exponential backoff. It returns
// immediately; the goroutine exits when ctx is cancelled.
func StartPoller(ctx context.Context, store *state.Store, src catalog.Source, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Poller{
		trigger: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go p.run(ctx, store, src, interval, logger)
	return p
}

// Trigger requests an immediate refresh.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Done is closed when the poller has stopped.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

func (p *Poller) run(ctx context.Context, store *state.Store, src catalog.Source, interval time.Duration, logger *zap.Logger) {
	defer close(p.done)

	failures := 0
	for {
		if err := refresh(ctx, store, src); err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			logger.Warn("catalog refresh failed",
				zap.Int("consecutive_failures", failures),
				zap.Error(err),
			)
		} else {
			if failures > 0 {
				logger.Info("catalog refresh recovered", zap.Int("after_failures", failures))
			}
			failures = 0
		}

		wait := interval
		if failures > 0 {
			wait = min(calculateBackoff(failures-1, retryBase), interval)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-p.trigger:
			timer.Stop()
		case <-timer.C:
		}
	}
}

func refresh(ctx context.Context, store *state.Store, src catalog.Source) error {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	home, err := catalog.LoadHome(ctx, src)
	if err != nil {
		store.Update(catalog.Home{}, err)
		return err
	}
	store.Update(home, nil)
	return nil
}

// calculateBackoff doubles base for every failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return min(base, maxBackoff)
	}
	if failures > 16 {
		return maxBackoff
	}
	d := base << failures
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}
