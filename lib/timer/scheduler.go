// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timer

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/uiframe/lib/safecall"
	"github.com/bureau-foundation/uiframe/lib/view"
)

// ErrInvalidDelay is returned when a timer is created with a delay
// that is not positive.
var ErrInvalidDelay = errors.New("timer delay must be positive")

// Timer is a scheduled callback. Safe for concurrent use.
type Timer struct {
	delay    time.Duration
	loop     bool
	owner    view.NodeID
	callback func()

	// progress is only touched by Scheduler.Tick, which is serialized.
	progress time.Duration

	cancelled atomic.Bool
}

// Cancel stops the timer. Idempotent. A cancelled timer never fires
// again, even if it loops and its tick is in progress.
func (t *Timer) Cancel() { t.cancelled.Store(true) }

// Cancelled reports whether the timer has been cancelled or, for a
// one-shot timer, has fired.
func (t *Timer) Cancelled() bool { return t.cancelled.Load() }

// Delay returns the configured delay.
func (t *Timer) Delay() time.Duration { return t.delay }

// Loop reports whether the timer repeats.
func (t *Timer) Loop() bool { return t.loop }

// Owner returns the node the timer belongs to, or zero.
func (t *Timer) Owner() view.NodeID { return t.owner }

// Option configures a timer at creation.
type Option func(*Timer)

// Looping makes the timer fire every delay until cancelled.
func Looping() Option {
	return func(t *Timer) { t.loop = true }
}

// OwnedBy ties the timer to a node for [Scheduler.CancelOwner].
func OwnedBy(owner view.NodeID) Option {
	return func(t *Timer) { t.owner = owner }
}

// Scheduler holds live timers and advances them on Tick.
type Scheduler struct {
	logger *slog.Logger

	mu     sync.Mutex
	timers []*Timer

	tickMu sync.Mutex
}

// NewScheduler returns an empty scheduler. A nil logger discards.
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{logger: logger}
}

// Create schedules callback after delay.
func (s *Scheduler) Create(delay time.Duration, callback func(), options ...Option) (*Timer, error) {
	if delay <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidDelay, delay)
	}
	if callback == nil {
		return nil, errors.New("timer callback is nil")
	}
	t := &Timer{delay: delay, callback: callback}
	for _, option := range options {
		option(t)
	}

	s.mu.Lock()
	s.timers = append(s.timers, t)
	s.mu.Unlock()
	return t, nil
}

// Tick advances every live timer by dt and fires those that are due.
// Concurrent Tick calls are serialized.
func (s *Scheduler) Tick(dt time.Duration) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	s.mu.Lock()
	live := slices.Clone(s.timers)
	s.mu.Unlock()

	for _, t := range live {
		if t.cancelled.Load() {
			continue
		}
		t.progress += dt
		if t.progress < t.delay {
			continue
		}
		t.progress = 0
		if err := safecall.Do(t.callback); err != nil {
			s.logger.Error("timer callback failed",
				"owner", t.owner.String(),
				"delay", t.delay,
				"error", err,
			)
		}
		if !t.loop {
			t.Cancel()
		}
	}

	s.sweep()
}

// sweep drops cancelled timers from the live set.
func (s *Scheduler) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers = slices.DeleteFunc(s.timers, (*Timer).Cancelled)
}

// CancelOwner cancels every timer owned by owner and returns how many
// were live.
func (s *Scheduler) CancelOwner(owner view.NodeID) int {
	if owner.IsZero() {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, t := range s.timers {
		if t.owner == owner && !t.Cancelled() {
			t.Cancel()
			count++
		}
	}
	return count
}

// CancelAll cancels every live timer.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers {
		t.Cancel()
	}
}

// Len returns the number of live, uncancelled timers.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, t := range s.timers {
		if !t.Cancelled() {
			count++
		}
	}
	return count
}
