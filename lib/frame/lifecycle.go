// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"context"
	"slices"

	"github.com/bureau-foundation/uiframe/lib/safecall"
	"github.com/bureau-foundation/uiframe/lib/view"
)

// Phase is a lifecycle step.
type Phase int

const (
	PhaseCreate Phase = iota
	PhaseRefresh
	PhaseBind
	PhaseUnbind
	PhaseShow
	PhaseHide
	PhaseDied
)

func (p Phase) String() string {
	switch p {
	case PhaseCreate:
		return "create"
	case PhaseRefresh:
		return "refresh"
	case PhaseBind:
		return "bind"
	case PhaseUnbind:
		return "unbind"
	case PhaseShow:
		return "show"
	case PhaseHide:
		return "hide"
	case PhaseDied:
		return "died"
	default:
		return "unknown"
	}
}

// reversed reports whether the phase visits nodes deepest first.
func (p Phase) reversed() bool {
	return p == PhaseUnbind || p == PhaseHide
}

// Event is delivered to lifecycle observers before the view's own
// handler runs.
type Event struct {
	Phase Phase
	Node  view.NodeID
	Kind  view.Kind
	View  view.View
}

// Observe registers fn for every lifecycle event and returns its
// remover. fn runs with the engine locked.
func (e *Engine) Observe(fn func(Event)) (remove func()) {
	e.hooksMu.Lock()
	defer e.hooksMu.Unlock()
	id := e.nextHook
	e.nextHook++
	e.observers[id] = fn
	return func() {
		e.hooksMu.Lock()
		defer e.hooksMu.Unlock()
		delete(e.observers, id)
	}
}

func (e *Engine) lifecycleObservers() []func(Event) {
	e.hooksMu.RLock()
	defer e.hooksMu.RUnlock()
	ids := make([]int, 0, len(e.observers))
	for id := range e.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	observers := make([]func(Event), len(ids))
	for i, id := range ids {
		observers[i] = e.observers[id]
	}
	return observers
}

// propagationOrder lists root and its active descendants
// breadth-first. The root is included whatever its flag.
func (e *Engine) propagationOrder(root view.NodeID) []view.NodeID {
	subtree := e.arena.Subtree(root)
	order := subtree[:0:0]
	for i, id := range subtree {
		if i == 0 || e.arena.Node(id).Active() {
			order = append(order, id)
		}
	}
	return order
}

// propagate runs phase over the tree under root.
func (e *Engine) propagate(ctx context.Context, root view.NodeID, phase Phase) {
	order := e.propagationOrder(root)
	if phase.reversed() {
		slices.Reverse(order)
	}
	e.dispatchAll(ctx, order, phase)
}

// dispatchAll runs phase on every node of ids in order.
func (e *Engine) dispatchAll(ctx context.Context, ids []view.NodeID, phase Phase) {
	for _, id := range ids {
		e.dispatch(ctx, id, phase)
	}
}

// dispatch runs phase on one node: the binder, then observers, then
// the view's handler, each isolated from the others.
func (e *Engine) dispatch(ctx context.Context, id view.NodeID, phase Phase) {
	node := e.arena.Node(id)
	if node == nil {
		return
	}
	event := Event{Phase: phase, Node: id, Kind: node.Kind(), View: node.View}

	switch phase {
	case PhaseCreate:
		e.isolate(event, "binder", func() error { e.binder.Created(node); return nil })
	case PhaseBind:
		e.isolate(event, "binder", func() error { e.binder.Bound(id); return nil })
	case PhaseUnbind:
		e.isolate(event, "binder", func() error { e.binder.Unbound(id); return nil })
	case PhaseDied:
		e.isolate(event, "binder", func() error { e.binder.Died(id); return nil })
	}

	for _, observer := range e.lifecycleObservers() {
		e.isolate(event, "observer", func() error { observer(event); return nil })
	}

	e.isolate(event, "handler", func() error { return runHandler(ctx, node.View, phase) })
}

// isolate is the one place lifecycle callbacks are run. Errors and
// panics are logged and never reach the caller.
func (e *Engine) isolate(event Event, source string, fn func() error) {
	err := safecall.Call(fn)
	if err == nil {
		return
	}
	args := []any{
		"phase", event.Phase.String(),
		"kind", event.Kind,
		"node", event.Node.String(),
		"source", source,
		"error", err,
	}
	if stack, ok := safecall.StackOf(err); ok {
		args = append(args, "stack", string(stack))
	}
	e.logger.Error("lifecycle callback failed", args...)
}

func runHandler(ctx context.Context, v view.View, phase Phase) error {
	switch phase {
	case PhaseCreate:
		if handler, ok := v.(view.CreateHandler); ok {
			return handler.OnCreate(ctx)
		}
	case PhaseRefresh:
		if handler, ok := v.(view.RefreshHandler); ok {
			return handler.OnRefresh(ctx)
		}
	case PhaseBind:
		if handler, ok := v.(view.BindHandler); ok {
			handler.OnBind()
		}
	case PhaseUnbind:
		if handler, ok := v.(view.UnbindHandler); ok {
			handler.OnUnbind()
		}
	case PhaseShow:
		if handler, ok := v.(view.ShowHandler); ok {
			handler.OnShow()
		}
	case PhaseHide:
		if handler, ok := v.(view.HideHandler); ok {
			handler.OnHide()
		}
	case PhaseDied:
		if handler, ok := v.(view.DiedHandler); ok {
			handler.OnDied()
		}
	}
	return nil
}
