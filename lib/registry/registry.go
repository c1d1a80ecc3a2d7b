// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package registry maps view kinds to their single live instance.
//
// At most one instance of a kind exists at a time. A request for a
// kind that is already loading waits for that load instead of starting
// another, so concurrent requests for the same kind all receive the
// same instance.
//
// The registry does no locking of its own. The engine serializes every
// call; a [Loader] releases the engine's lock while it waits on an
// asset or on another request's load, and reacquires it before
// returning.
package registry

import (
	"context"
	"maps"
	"slices"

	"github.com/bureau-foundation/uiframe/lib/view"
)

// Loader produces instances and waits on in-flight loads.
type Loader interface {
	// Load requests the asset for kind, builds its tree and runs
	// create, returning the root node.
	Load(ctx context.Context, kind view.Kind) (view.NodeID, error)

	// Await blocks until done is closed or ctx ends.
	Await(ctx context.Context, done <-chan struct{}) error
}

// Entry is one live instance.
type Entry struct {
	Kind view.Kind
	Root view.NodeID
}

type load struct {
	done chan struct{}
	err  error
}

// Registry is the kind to instance map.
type Registry struct {
	entries map[view.Kind]view.NodeID
	pending map[view.Kind]*load
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[view.Kind]view.NodeID),
		pending: make(map[view.Kind]*load),
	}
}

// Request returns the live instance of kind, loading it through
// loader when there is none. created reports whether this call
// performed the load. A load error is returned to every request that
// was waiting on it, and no entry is stored.
func (r *Registry) Request(ctx context.Context, kind view.Kind, loader Loader) (root view.NodeID, created bool, err error) {
	for {
		if id, ok := r.entries[kind]; ok {
			return id, false, nil
		}
		inflight, ok := r.pending[kind]
		if !ok {
			break
		}
		if err := loader.Await(ctx, inflight.done); err != nil {
			return view.NodeID{}, false, err
		}
		if inflight.err != nil {
			return view.NodeID{}, false, inflight.err
		}
		// The leader stored its entry; loop to pick it up, or to load
		// again if it was released while this request was waiting.
	}

	inflight := &load{done: make(chan struct{})}
	r.pending[kind] = inflight
	defer func() {
		delete(r.pending, kind)
		inflight.err = err
		close(inflight.done)
	}()

	root, err = loader.Load(ctx, kind)
	if err != nil {
		return view.NodeID{}, false, err
	}
	r.entries[kind] = root
	return root, true, nil
}

// Get returns the live instance of kind.
func (r *Registry) Get(kind view.Kind) (view.NodeID, bool) {
	id, ok := r.entries[kind]
	return id, ok
}

// Loading reports whether a load of kind is in flight.
func (r *Registry) Loading(kind view.Kind) bool {
	_, ok := r.pending[kind]
	return ok
}

// Remove drops the entry for kind and returns its root.
func (r *Registry) Remove(kind view.Kind) (view.NodeID, bool) {
	id, ok := r.entries[kind]
	if ok {
		delete(r.entries, kind)
	}
	return id, ok
}

// RemoveRoot drops the entry whose root is id and returns its kind.
func (r *Registry) RemoveRoot(id view.NodeID) (view.Kind, bool) {
	for kind, root := range r.entries {
		if root == id {
			delete(r.entries, kind)
			return kind, true
		}
	}
	return "", false
}

// Sweep removes every entry for which keep returns false and returns
// the removed entries sorted by kind.
func (r *Registry) Sweep(keep func(Entry) bool) []Entry {
	var removed []Entry
	for _, entry := range r.Entries() {
		if keep(entry) {
			continue
		}
		delete(r.entries, entry.Kind)
		removed = append(removed, entry)
	}
	return removed
}

// Entries returns the live entries sorted by kind.
func (r *Registry) Entries() []Entry {
	kinds := slices.Sorted(maps.Keys(r.entries))
	entries := make([]Entry, len(kinds))
	for i, kind := range kinds {
		entries[i] = Entry{Kind: kind, Root: r.entries[kind]}
	}
	return entries
}

// Len returns the number of live entries.
func (r *Registry) Len() int { return len(r.entries) }
