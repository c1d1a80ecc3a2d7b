// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/uiframe/lib/navstack"
	"github.com/bureau-foundation/uiframe/lib/view"
)

// HideOption adjusts a Hide.
type HideOption func(*hideOptions)

type hideOptions struct {
	force bool
}

// Force releases the instance even when it would otherwise be kept
// cached.
func Force() HideOption {
	return func(o *hideOptions) { o.force = true }
}

// classify returns the descriptor of a panel or window kind.
func (e *Engine) classify(kind view.Kind) (Descriptor, error) {
	if e.closed {
		return Descriptor{}, ErrClosed
	}
	descriptor, ok := e.descriptors[kind]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: kind %s is not registered", ErrUnknownView, kind)
	}
	if !descriptor.Panel && descriptor.Window == nil {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnclassified, kind)
	}
	return descriptor, nil
}

// Show displays the panel or window of kind, loading it if needed.
// For a panel, data is recorded on the navigation stack and delivered
// again when navigation returns to it. Showing the current panel does
// nothing.
func (e *Engine) Show(ctx context.Context, kind view.Kind, data view.Data) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	descriptor, err := e.classify(kind)
	if err != nil {
		return err
	}
	if descriptor.Panel {
		return e.showPanelLocked(ctx, kind, data)
	}
	return e.showWindowLocked(ctx, kind, data)
}

func (e *Engine) showPanelLocked(ctx context.Context, kind view.Kind, data view.Data) error {
	end, err := e.beginTransitionLocked(ctx)
	if err != nil {
		return err
	}
	defer end()

	previousKind, previousID, hasPrevious := e.currentPanelLocked()
	if hasPrevious && previousKind == kind {
		return nil
	}

	watch := e.watchStuck(kind)
	defer watch.finish()
	e.logger.Debug("showing panel", "kind", kind)

	if hasPrevious {
		e.propagate(ctx, previousID, PhaseUnbind)
	}

	id, _, err := e.registry.Request(ctx, kind, e.loader)
	if err != nil {
		if _, current, ok := e.currentPanelLocked(); ok && hasPrevious && current == previousID {
			e.propagate(ctx, current, PhaseBind)
		}
		return fmt.Errorf("showing %s: %w", kind, err)
	}
	node := e.arena.Node(id)

	// The engine was unlocked during the load; take the current panel
	// afresh.
	oldKind, oldID, hasOld := e.currentPanelLocked()
	if hasOld && oldID == id {
		// The top entry is this kind but its instance had been
		// destroyed; the load just replaced it.
		hasOld = false
	}
	if hasOld && !(hasPrevious && oldID == previousID) {
		e.propagate(ctx, oldID, PhaseUnbind)
	}

	if data != nil && hasOld {
		data.SetSender(oldKind)
	}
	view.TrySetData(node.View, data)
	e.propagate(ctx, id, PhaseRefresh)

	if hasOld {
		e.retireLocked(ctx, oldKind, oldID, false)
	}

	node.Visual.SetActive(true)
	if top, ok := e.stack.Peek(); ok && top.Kind == kind {
		e.stack.SetTopData(data)
	} else {
		e.stack.Push(navstack.Entry{Kind: kind, Data: data})
	}
	e.propagate(ctx, id, PhaseBind)
	e.propagate(ctx, id, PhaseShow)
	return nil
}

func (e *Engine) showWindowLocked(ctx context.Context, kind view.Kind, data view.Data) error {
	watch := e.watchStuck(kind)
	defer watch.finish()
	e.logger.Debug("showing window", "kind", kind)

	id, _, err := e.registry.Request(ctx, kind, e.loader)
	if err != nil {
		return fmt.Errorf("showing %s: %w", kind, err)
	}
	node := e.arena.Node(id)

	if node.Active() {
		e.propagate(ctx, id, PhaseUnbind)
	}
	if data != nil {
		if currentKind, _, ok := e.currentPanelLocked(); ok {
			data.SetSender(currentKind)
		}
	}
	view.TrySetData(node.View, data)
	e.propagate(ctx, id, PhaseRefresh)

	node.Visual.SetActive(true)
	if container, ok := node.Visual.Parent().(view.Container); ok {
		container.Raise(node.Visual)
	}
	e.propagate(ctx, id, PhaseBind)
	e.propagate(ctx, id, PhaseShow)
	return nil
}

// HideCurrent leaves the current panel and returns to the previous
// one, which receives its stack data with Sender set to the panel
// being left. With no previous panel, the current one is just hidden.
// A top entry whose instance was destroyed is popped the same way.
// Does nothing when the stack is empty.
func (e *Engine) HideCurrent(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.hidePanelLocked(ctx, "", false)
}

// hidePanelLocked runs hideCurrentLocked as a panel transition. A
// non-empty kind must still be the current panel once the transition
// starts.
func (e *Engine) hidePanelLocked(ctx context.Context, kind view.Kind, force bool) error {
	end, err := e.beginTransitionLocked(ctx)
	if err != nil {
		return err
	}
	defer end()

	if kind != "" {
		currentKind, _, ok := e.currentPanelLocked()
		if !ok || currentKind != kind {
			return fmt.Errorf("%w: %s", ErrNotCurrentPanel, kind)
		}
	}
	return e.hideCurrentLocked(ctx, force)
}

func (e *Engine) hideCurrentLocked(ctx context.Context, force bool) error {
	top, ok := e.stack.Peek()
	if !ok {
		return nil
	}

	watch := e.watchStuck(top.Kind)
	defer watch.finish()
	e.logger.Debug("hiding panel", "kind", top.Kind)

	e.stack.Pop()
	currentID, hasCurrent := e.registry.Get(top.Kind)
	if hasCurrent {
		e.propagate(ctx, currentID, PhaseUnbind)
	}

	previous, hasPrevious := e.stack.Peek()
	if !hasPrevious {
		if hasCurrent {
			e.retireLocked(ctx, top.Kind, currentID, force)
		}
		return nil
	}

	previousID, _, err := e.registry.Request(ctx, previous.Kind, e.loader)
	if err != nil {
		if !e.closed {
			e.stack.Push(top)
			if id, ok := e.registry.Get(top.Kind); ok && hasCurrent && id == currentID {
				e.propagate(ctx, id, PhaseBind)
			}
		}
		return fmt.Errorf("returning to %s: %w", previous.Kind, err)
	}

	// The engine was unlocked during the load.
	currentID, hasCurrent = e.registry.Get(top.Kind)

	if previous.Data != nil {
		previous.Data.SetSender(top.Kind)
	}

	node := e.arena.Node(previousID)
	view.TrySetData(node.View, previous.Data)
	e.propagate(ctx, previousID, PhaseRefresh)

	if hasCurrent && currentID != previousID {
		e.retireLocked(ctx, top.Kind, currentID, force)
	}

	node.Visual.SetActive(true)
	e.propagate(ctx, previousID, PhaseBind)
	e.propagate(ctx, previousID, PhaseShow)
	return nil
}

// Hide hides the window of kind and releases it unless its instance is
// retained. Hiding a panel kind is HideCurrent, allowed only for the
// current panel.
func (e *Engine) Hide(ctx context.Context, kind view.Kind, options ...HideOption) error {
	var opts hideOptions
	for _, option := range options {
		option(&opts)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	descriptor, err := e.classify(kind)
	if err != nil {
		return err
	}
	if descriptor.Panel {
		return e.hidePanelLocked(ctx, kind, opts.force)
	}
	return e.hideWindowLocked(ctx, kind, opts.force)
}

func (e *Engine) hideWindowLocked(ctx context.Context, kind view.Kind, force bool) error {
	id, ok := e.registry.Get(kind)
	if !ok {
		return nil
	}

	watch := e.watchStuck(kind)
	defer watch.finish()
	e.logger.Debug("hiding window", "kind", kind)

	node := e.arena.Node(id)
	if node.Active() {
		e.propagate(ctx, id, PhaseUnbind)
		e.propagate(ctx, id, PhaseHide)
		node.Visual.SetActive(false)
	}
	e.releaseLocked(kind, force)
	return nil
}

// retireLocked hides an unbound instance, deactivates it and releases
// it.
func (e *Engine) retireLocked(ctx context.Context, kind view.Kind, id view.NodeID, force bool) {
	e.propagate(ctx, id, PhaseHide)
	e.arena.Node(id).Visual.SetActive(false)
	e.releaseLocked(kind, force)
}

// lookupLocked returns the node of a view the engine built.
func (e *Engine) lookupLocked(v view.View) (*view.Node, error) {
	if e.closed {
		return nil, ErrClosed
	}
	id, ok := e.arena.Lookup(v)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnknownView, v)
	}
	return e.arena.Node(id), nil
}

// instanceKind returns the kind when node is the live instance of a
// panel or window.
func (e *Engine) instanceKind(node *view.Node) (Descriptor, bool) {
	descriptor, ok := e.descriptors[node.Kind()]
	if !ok || (!descriptor.Panel && descriptor.Window == nil) {
		return Descriptor{}, false
	}
	root, ok := e.registry.Get(node.Kind())
	return descriptor, ok && root == node.ID
}

// ShowView shows a sub-view by reference. The enclosing view is
// unbound while the sub-view is refreshed and activated, then bound
// again together with it. Does nothing if v is already active. A panel
// or window instance is shown as Show would.
func (e *Engine) ShowView(ctx context.Context, v view.View, data view.Data) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	node, err := e.lookupLocked(v)
	if err != nil {
		return err
	}
	if descriptor, ok := e.instanceKind(node); ok {
		if descriptor.Panel {
			return e.showPanelLocked(ctx, node.Kind(), data)
		}
		return e.showWindowLocked(ctx, node.Kind(), data)
	}
	if node.Active() {
		return nil
	}

	watch := e.watchStuck(node.Kind())
	defer watch.finish()
	e.logger.Debug("showing sub-view", "kind", node.Kind())

	parent := e.arena.Node(node.Parent)
	if parent != nil {
		e.propagate(ctx, parent.ID, PhaseUnbind)
	}
	view.TrySetData(node.View, data)
	e.propagate(ctx, node.ID, PhaseRefresh)
	node.Visual.SetActive(true)
	if parent != nil {
		e.propagate(ctx, parent.ID, PhaseBind)
	} else {
		e.propagate(ctx, node.ID, PhaseBind)
	}
	e.propagate(ctx, node.ID, PhaseShow)
	return nil
}

// HideView hides a sub-view by reference. Does nothing if v is
// inactive. A panel or window instance is hidden as Hide would.
func (e *Engine) HideView(ctx context.Context, v view.View) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	node, err := e.lookupLocked(v)
	if err != nil {
		return err
	}
	if descriptor, ok := e.instanceKind(node); ok {
		if descriptor.Panel {
			return e.hidePanelLocked(ctx, node.Kind(), false)
		}
		return e.hideWindowLocked(ctx, node.Kind(), false)
	}
	if !node.Active() {
		return nil
	}

	watch := e.watchStuck(node.Kind())
	defer watch.finish()
	e.logger.Debug("hiding sub-view", "kind", node.Kind())

	e.propagate(ctx, node.ID, PhaseUnbind)
	e.propagate(ctx, node.ID, PhaseHide)
	node.Visual.SetActive(false)
	return nil
}

// Refresh reruns refresh on the live instance of kind. Non-nil data is
// delivered first and, for the current panel, replaces its stack data.
// Does nothing when there is no instance or it is inactive; data is
// not delivered in that case.
func (e *Engine) Refresh(ctx context.Context, kind view.Kind, data view.Data) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if _, ok := e.descriptors[kind]; !ok {
		return fmt.Errorf("%w: kind %s is not registered", ErrUnknownView, kind)
	}
	id, ok := e.registry.Get(kind)
	if !ok {
		return nil
	}
	e.refreshLocked(ctx, e.arena.Node(id), data)
	return nil
}

// RefreshView is Refresh for any view the engine built.
func (e *Engine) RefreshView(ctx context.Context, v view.View, data view.Data) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	node, err := e.lookupLocked(v)
	if err != nil {
		return err
	}
	e.refreshLocked(ctx, node, data)
	return nil
}

func (e *Engine) refreshLocked(ctx context.Context, node *view.Node, data view.Data) {
	if !node.Active() {
		return
	}
	if data != nil && view.TrySetData(node.View, data) {
		if _, current, ok := e.currentPanelLocked(); ok && current == node.ID {
			e.stack.SetTopData(data)
		}
	}
	e.propagate(ctx, node.ID, PhaseRefresh)
}
