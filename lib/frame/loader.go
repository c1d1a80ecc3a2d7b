// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"context"
	"fmt"
	"math"

	"github.com/bureau-foundation/uiframe/lib/layer"
	"github.com/bureau-foundation/uiframe/lib/view"
)

// engineLoader loads instances for the registry. Every method is
// called with e.mu held and returns with it held.
type engineLoader struct {
	engine *Engine
}

// suspend runs wait with the engine unlocked.
func (e *Engine) suspend(wait func()) {
	e.mu.Unlock()
	defer e.mu.Lock()
	wait()
}

// beginTransitionLocked waits until no panel transition is in flight
// and claims the next one. The caller must call end with e.mu held.
func (e *Engine) beginTransitionLocked(ctx context.Context) (end func(), err error) {
	for e.transition != nil {
		pending := e.transition
		e.suspend(func() {
			select {
			case <-pending:
			case <-ctx.Done():
				err = ctx.Err()
			}
		})
		if err != nil {
			return nil, err
		}
		if e.closed {
			return nil, ErrClosed
		}
	}
	done := make(chan struct{})
	e.transition = done
	return func() {
		close(done)
		e.transition = nil
	}, nil
}

func (l engineLoader) Await(ctx context.Context, done <-chan struct{}) error {
	e := l.engine
	var err error
	e.suspend(func() {
		select {
		case <-done:
		case <-ctx.Done():
			err = ctx.Err()
		}
	})
	if err != nil {
		return err
	}
	if e.closed {
		return ErrClosed
	}
	return nil
}

func (l engineLoader) Load(ctx context.Context, kind view.Kind) (view.NodeID, error) {
	e := l.engine
	descriptor := e.descriptors[kind]

	var (
		template view.Template
		err      error
	)
	e.suspend(func() {
		template, err = e.assets.RequestAsset(ctx, kind)
	})
	if err != nil {
		return view.NodeID{}, fmt.Errorf("requesting asset for %s: %w", kind, err)
	}
	if e.closed {
		e.assets.ReleaseAsset(kind)
		return view.NodeID{}, ErrClosed
	}

	spec := layer.Named(layer.Panel)
	if descriptor.Window != nil {
		spec = *descriptor.Window
	}
	container, err := e.layers.Ensure(spec)
	if err != nil {
		e.assets.ReleaseAsset(kind)
		return view.NodeID{}, fmt.Errorf("layer for %s: %w", kind, err)
	}

	root := template.Instantiate()
	rootView := root.View()
	if rootView == nil {
		root.Destroy()
		e.assets.ReleaseAsset(kind)
		return view.NodeID{}, fmt.Errorf("%w: %s", ErrNoView, kind)
	}
	if rootView.Kind() != kind {
		root.Destroy()
		e.assets.ReleaseAsset(kind)
		return view.NodeID{}, fmt.Errorf("%w: template for %s built %s", ErrKindMismatch, kind, rootView.Kind())
	}

	root.SetActive(false)
	container.Insert(math.MaxInt, root)

	ids := e.arena.Build(root)
	node := e.arena.Node(ids[0])
	node.AutoDestroy = !descriptor.Retain
	if override, ok := rootView.(view.AutoDestroyer); ok {
		node.AutoDestroy = override.AutoDestroy()
	}

	e.dispatchAll(ctx, ids, PhaseCreate)
	e.logger.Debug("view instantiated", "kind", kind, "nodes", len(ids))
	return ids[0], nil
}
