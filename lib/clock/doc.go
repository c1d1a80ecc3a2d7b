// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the passage of time for the engine.
//
// The stuck watch and the frame driver never call the time package
// directly. They hold a [Clock], which is [Real] in production and a
// [FakeClock] in tests:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	engine, _ := frame.New(frame.Config{Clock: c, ...})
//	go engine.Show(ctx, "settings", nil)
//	c.WaitForTimers(1)      // the stuck watch has armed
//	c.Advance(time.Second)  // crosses the stuck threshold
//
// AfterFunc callbacks registered on a FakeClock run synchronously in
// the goroutine that calls Advance, in deadline order. Ticker ticks are
// delivered without blocking and dropped when the consumer lags, the
// same way time.Ticker behaves.
package clock
