// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"context"
	"math"

	"github.com/bureau-foundation/uiframe/lib/registry"
	"github.com/bureau-foundation/uiframe/lib/safecall"
	"github.com/bureau-foundation/uiframe/lib/view"
)

// Instantiate builds template under parent outside the navigation
// model and runs create on the new tree. The result is not registered
// by kind; show it with ShowView and destroy it with Destroy. A nil
// parent leaves the tree detached.
func (e *Engine) Instantiate(ctx context.Context, template view.Template, parent view.Container) (view.View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}

	root := template.Instantiate()
	if root.View() == nil {
		root.Destroy()
		return nil, ErrNoView
	}
	if parent != nil {
		parent.Insert(math.MaxInt, root)
	}
	ids := e.arena.Build(root)
	e.dispatchAll(ctx, ids, PhaseCreate)
	return root.View(), nil
}

// Destroy tears down v and every view under it. Died runs now; the
// visual tree is released on the next Tick. Destroying a panel or
// window instance also unregisters it.
func (e *Engine) Destroy(v view.View) error {
	return e.destroy(v, true)
}

// DestroyImmediate is Destroy without waiting for the next Tick.
func (e *Engine) DestroyImmediate(v view.View) error {
	return e.destroy(v, false)
}

func (e *Engine) destroy(v view.View, deferred bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	node, err := e.lookupLocked(v)
	if err != nil {
		return err
	}
	e.destroyLocked(node.ID, deferred)
	return nil
}

// Release destroys every cached instance that is not active, retained
// or not, and returns how many it destroyed.
func (e *Engine) Release() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return 0
	}

	removed := e.registry.Sweep(func(entry registry.Entry) bool {
		return e.arena.Node(entry.Root).Active()
	})
	for _, entry := range removed {
		e.destroyTreeLocked(entry.Root, true)
		e.assets.ReleaseAsset(entry.Kind)
	}
	if len(removed) > 0 {
		e.logger.Debug("released cached instances", "count", len(removed))
	}
	return len(removed)
}

// releaseLocked destroys the instance of kind unless it is retained
// and force is false.
func (e *Engine) releaseLocked(kind view.Kind, force bool) {
	id, ok := e.registry.Get(kind)
	if !ok {
		return
	}
	if !e.arena.Node(id).AutoDestroy && !force {
		return
	}
	e.destroyLocked(id, true)
}

// destroyLocked destroys the tree under id, unregistering it and
// releasing its asset when it is an instance.
func (e *Engine) destroyLocked(id view.NodeID, deferred bool) {
	kind, instance := e.registry.RemoveRoot(id)
	e.destroyTreeLocked(id, deferred)
	if instance {
		e.assets.ReleaseAsset(kind)
	}
}

// destroyTreeLocked runs died on the tree under id, cancels the
// timers it owns and frees its nodes. The visual is destroyed now or
// queued for the next Tick.
func (e *Engine) destroyTreeLocked(id view.NodeID, deferred bool) {
	node := e.arena.Node(id)
	if node == nil {
		return
	}
	visual := node.Visual
	kind := node.Kind()

	subtree := e.arena.Subtree(id)
	e.arena.Detach(id)
	ctx := context.Background()
	for _, nodeID := range subtree {
		e.dispatch(ctx, nodeID, PhaseDied)
		e.scheduler.CancelOwner(nodeID)
	}
	for _, nodeID := range subtree {
		e.arena.Free(nodeID)
	}

	if deferred {
		e.deferred = append(e.deferred, visual)
	} else {
		visual.Destroy()
	}
	e.logger.Debug("view destroyed", "kind", kind, "nodes", len(subtree), "deferred", deferred)
}

// flushDeferredLocked destroys the visuals queued by deferred
// destroys.
func (e *Engine) flushDeferredLocked() {
	if len(e.deferred) == 0 {
		return
	}
	for _, visual := range e.deferred {
		if err := safecall.Do(visual.Destroy); err != nil {
			e.logger.Error("destroying visual failed", "name", visual.Name(), "error", err)
		}
	}
	clear(e.deferred)
	e.deferred = e.deferred[:0]
}
