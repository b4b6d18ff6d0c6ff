// Package debounce provides a resettable, cancelable one-shot timer used to
// delay work until input pauses.
package debounce

import (
	"sync"
	"time"
)

// Timer runs fn once the delay elapses without an intervening Reset.
// fn receives the arm id returned by the Reset that scheduled it.
// The zero value is not usable; construct with New.
type Timer struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func(arm uint64)
	timer *time.Timer
	seq   uint64
}

// New creates a stopped timer. Call Reset to arm it.
func New(delay time.Duration, fn func(arm uint64)) *Timer {
	if delay < 0 {
		delay = 0
	}
	return &Timer{delay: delay, fn: fn}
}

// Reset (re)starts the delay window and returns its arm id, never zero.
// A pending fire is superseded.
func (t *Timer) Reset() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	seq := t.seq
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.delay, func() { t.fire(seq) })
	return seq
}

// Cancel stops a pending fire. It reports whether one was pending.
func (t *Timer) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	if t.timer == nil {
		return false
	}
	t.timer.Stop()
	t.timer = nil
	return true
}

// Pending reports whether the timer is armed.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

// Delay returns the configured window.
func (t *Timer) Delay() time.Duration {
	return t.delay
}

func (t *Timer) fire(seq uint64) {
	t.mu.Lock()
	// time.Timer.Stop cannot recall a callback that already started, so a
	// superseded fire is filtered here.
	if seq != t.seq {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	fn := t.fn
	t.mu.Unlock()

	if fn != nil {
		fn(seq)
	}
}
