// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"slices"
	"sync"

	"github.com/bureau-foundation/uiframe/lib/clock"
	"github.com/bureau-foundation/uiframe/lib/safecall"
	"github.com/bureau-foundation/uiframe/lib/view"
)

// StuckPhase distinguishes the two stuck notifications.
type StuckPhase int

const (
	// StuckStart: the operation has run past the threshold.
	StuckStart StuckPhase = iota
	// StuckEnd: an operation that was reported stuck has finished.
	StuckEnd
)

func (p StuckPhase) String() string {
	if p == StuckStart {
		return "stuck-start"
	}
	return "stuck-end"
}

// StuckEvent reports a slow Show or Hide.
type StuckEvent struct {
	Phase StuckPhase
	Kind  view.Kind
}

// ObserveStuck registers fn for stuck notifications and returns its
// remover. StuckStart is delivered from the clock's goroutine, so fn
// must not block.
func (e *Engine) ObserveStuck(fn func(StuckEvent)) (remove func()) {
	e.hooksMu.Lock()
	defer e.hooksMu.Unlock()
	id := e.nextHook
	e.nextHook++
	e.stuckObservers[id] = fn
	return func() {
		e.hooksMu.Lock()
		defer e.hooksMu.Unlock()
		delete(e.stuckObservers, id)
	}
}

func (e *Engine) emitStuck(event StuckEvent) {
	e.hooksMu.RLock()
	ids := make([]int, 0, len(e.stuckObservers))
	for id := range e.stuckObservers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	observers := make([]func(StuckEvent), len(ids))
	for i, id := range ids {
		observers[i] = e.stuckObservers[id]
	}
	e.hooksMu.RUnlock()

	for _, observer := range observers {
		if err := safecall.Do(func() { observer(event) }); err != nil {
			e.logger.Error("stuck observer failed", "kind", event.Kind, "phase", event.Phase.String(), "error", err)
		}
	}
}

// stuckWatch times one operation.
type stuckWatch struct {
	engine *Engine
	kind   view.Kind
	timer  *clock.Timer

	mu    sync.Mutex
	stuck bool
	done  bool
}

// watchStuck starts timing an operation on kind. The caller must call
// finish exactly once.
func (e *Engine) watchStuck(kind view.Kind) *stuckWatch {
	w := &stuckWatch{engine: e, kind: kind}
	if e.stuckThreshold > 0 {
		w.timer = e.clock.AfterFunc(e.stuckThreshold, w.fire)
	}
	return w
}

func (w *stuckWatch) fire() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		return
	}
	w.stuck = true
	w.engine.logger.Warn("view operation stuck", "kind", w.kind, "threshold", w.engine.stuckThreshold)
	w.engine.emitStuck(StuckEvent{Phase: StuckStart, Kind: w.kind})
}

func (w *stuckWatch) finish() {
	w.mu.Lock()
	w.done = true
	stuck := w.stuck
	w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	if stuck {
		w.engine.logger.Info("view operation recovered", "kind", w.kind)
		w.engine.emitStuck(StuckEvent{Phase: StuckEnd, Kind: w.kind})
	}
}
