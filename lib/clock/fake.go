// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"slices"
	"sync"
	"time"
)

// FakeClock is a Clock whose time moves only when Advance is called.
// Safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	changed *sync.Cond
	current time.Time
	pending []*fakeEntry
}

// fakeEntry is one armed AfterFunc or ticker.
type fakeEntry struct {
	deadline time.Time
	callback func()

	// Ticker entries carry ticks and a non-zero interval.
	ticks    chan time.Time
	interval time.Duration

	stopped bool
}

// Fake returns a FakeClock reading initial until advanced.
func Fake(initial time.Time) *FakeClock {
	c := &FakeClock{current: initial}
	c.changed = sync.NewCond(&c.mu)
	return c
}

// Now returns the fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// AfterFunc arms f to run when the clock is advanced past d. With
// d <= 0, f runs before AfterFunc returns.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	if d <= 0 {
		f()
		return &Timer{stop: func() bool { return false }}
	}

	c.mu.Lock()
	entry := &fakeEntry{deadline: c.current.Add(d), callback: f}
	c.pending = append(c.pending, entry)
	c.changed.Broadcast()
	c.mu.Unlock()

	return &Timer{stop: func() bool { return c.stopEntry(entry) }}
}

// NewTicker returns a ticker firing every d of fake time.
func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive ticker interval")
	}

	ticks := make(chan time.Time, 1)

	c.mu.Lock()
	entry := &fakeEntry{deadline: c.current.Add(d), ticks: ticks, interval: d}
	c.pending = append(c.pending, entry)
	c.changed.Broadcast()
	c.mu.Unlock()

	return &Ticker{C: ticks, stop: func() { c.stopEntry(entry) }}
}

func (c *FakeClock) stopEntry(entry *fakeEntry) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	index := slices.Index(c.pending, entry)
	if index < 0 || entry.stopped {
		return false
	}
	entry.stopped = true
	c.pending = slices.Delete(c.pending, index, index+1)
	return true
}

// Advance moves the clock forward by d, firing every entry whose
// deadline is reached in deadline order. A ticker spanning several
// intervals fires once per interval; ticks the consumer has not read
// are dropped.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.current.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.earliestLocked(target)
		if next == nil {
			c.current = target
			c.mu.Unlock()
			return
		}
		c.current = next.deadline
		if next.interval > 0 {
			next.deadline = next.deadline.Add(next.interval)
		} else {
			c.pending = slices.DeleteFunc(c.pending, func(e *fakeEntry) bool { return e == next })
		}
		now := c.current
		c.mu.Unlock()

		if next.callback != nil {
			next.callback()
			continue
		}
		select {
		case next.ticks <- now:
		default:
		}
	}
}

// earliestLocked returns the pending entry with the earliest deadline
// not after target, or nil.
func (c *FakeClock) earliestLocked(target time.Time) *fakeEntry {
	var earliest *fakeEntry
	for _, entry := range c.pending {
		if entry.deadline.After(target) {
			continue
		}
		if earliest == nil || entry.deadline.Before(earliest.deadline) {
			earliest = entry
		}
	}
	return earliest
}

// WaitForTimers blocks until at least n AfterFunc calls or tickers are
// armed. Tests call it before Advance so that a goroutine's timer is
// registered before time moves.
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.pending) < n {
		c.changed.Wait()
	}
}

// Pending returns the number of armed AfterFunc calls and tickers.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
