// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bureau-foundation/uiframe/lib/clock"
)

// Tickable is anything advanced by frame time.
type Tickable interface {
	Tick(dt time.Duration)
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithInterval sets the frame interval. The default is 16ms.
func WithInterval(d time.Duration) DriverOption {
	return func(driver *Driver) { driver.interval = d }
}

// WithClock sets the time source. The default is clock.Real().
func WithClock(c clock.Clock) DriverOption {
	return func(driver *Driver) { driver.clock = c }
}

// WithLogger sets the logger. The default discards.
func WithLogger(logger *slog.Logger) DriverOption {
	return func(driver *Driver) { driver.logger = logger }
}

// Driver ticks a Tickable on a fixed interval in a background
// goroutine.
type Driver struct {
	target   Tickable
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewDriver returns a stopped driver for target.
func NewDriver(target Tickable, options ...DriverOption) *Driver {
	driver := &Driver{
		target:   target,
		clock:    clock.Real(),
		interval: 16 * time.Millisecond,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(driver)
	}
	return driver
}

// Start begins ticking. Non-blocking. Calling Start on a running
// driver logs a warning and does nothing.
func (d *Driver) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		d.logger.Warn("frame driver already running")
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.running = true

	// Armed before Start returns so a fake clock can be advanced
	// immediately.
	ticker := d.clock.NewTicker(d.interval)
	go d.loop(loopCtx, ticker, d.clock.Now(), d.done)

	d.logger.Debug("frame driver started", "interval", d.interval)
}

// Stop halts ticking and waits for an in-progress tick to finish.
func (d *Driver) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.cancel()
	d.running = false
	done := d.done
	d.mu.Unlock()

	<-done
	d.logger.Debug("frame driver stopped")
}

func (d *Driver) loop(ctx context.Context, ticker *clock.Ticker, last time.Time, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if dt <= 0 {
				continue
			}
			d.target.Tick(dt)
		}
	}
}
