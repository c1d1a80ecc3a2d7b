// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package timer schedules per-view callbacks against frame ticks.
//
// A [Scheduler] holds live timers. Each call to [Scheduler.Tick] adds
// the frame delta to every live timer's progress; a timer whose
// progress reaches its delay fires once, has its progress reset, and,
// unless it loops, cancels itself. A timer fires at most once per tick
// no matter how large the delta. Timers cancelled during a tick are
// removed after the tick finishes.
//
// Timers may be owned by a view node. The engine cancels every timer
// a node owns when the node unbinds or dies.
//
// Callbacks run outside the scheduler's lock, so a callback may create
// or cancel timers or call back into the engine. A panicking callback
// is logged and the tick continues.
//
// A [Driver] calls Tick on a [Tickable] from a clock ticker, passing
// the measured time since the previous tick.
package timer
