// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"time"

	"github.com/bureau-foundation/uiframe/lib/view"
)

// State is a point-in-time description of an engine, for diagnostics.
type State struct {
	TakenAt         time.Time       `json:"taken_at" cbor:"taken_at"`
	Closed          bool            `json:"closed,omitempty" cbor:"closed,omitempty"`
	Current         view.Kind       `json:"current,omitempty" cbor:"current,omitempty"`
	Stack           []StackEntry    `json:"stack" cbor:"stack"`
	Instances       []InstanceState `json:"instances" cbor:"instances"`
	Layers          []LayerState    `json:"layers" cbor:"layers"`
	Nodes           int             `json:"nodes" cbor:"nodes"`
	Timers          int             `json:"timers" cbor:"timers"`
	PendingDestroys int             `json:"pending_destroys" cbor:"pending_destroys"`
}

// StackEntry is one navigation stack entry, bottom first.
type StackEntry struct {
	Kind    view.Kind `json:"kind" cbor:"kind"`
	HasData bool      `json:"has_data,omitempty" cbor:"has_data,omitempty"`
	Sender  view.Kind `json:"sender,omitempty" cbor:"sender,omitempty"`
}

// InstanceState describes one live panel or window instance.
type InstanceState struct {
	Kind        view.Kind `json:"kind" cbor:"kind"`
	Active      bool      `json:"active" cbor:"active"`
	AutoDestroy bool      `json:"auto_destroy" cbor:"auto_destroy"`
	Nodes       int       `json:"nodes" cbor:"nodes"`
}

// LayerState is one created layer.
type LayerState struct {
	Name  string `json:"name" cbor:"name"`
	Order int    `json:"order" cbor:"order"`
}

// Snapshot describes the engine's current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	state := State{
		TakenAt:         e.clock.Now().UTC(),
		Closed:          e.closed,
		Stack:           []StackEntry{},
		Instances:       []InstanceState{},
		Layers:          []LayerState{},
		Nodes:           e.arena.Len(),
		Timers:          e.scheduler.Len(),
		PendingDestroys: len(e.deferred),
	}
	if kind, _, ok := e.currentPanelLocked(); ok {
		state.Current = kind
	}
	for _, entry := range e.stack.Entries() {
		stackEntry := StackEntry{Kind: entry.Kind, HasData: entry.Data != nil}
		if entry.Data != nil {
			stackEntry.Sender = entry.Data.Sender()
		}
		state.Stack = append(state.Stack, stackEntry)
	}
	for _, entry := range e.registry.Entries() {
		node := e.arena.Node(entry.Root)
		state.Instances = append(state.Instances, InstanceState{
			Kind:        entry.Kind,
			Active:      node.Active(),
			AutoDestroy: node.AutoDestroy,
			Nodes:       len(e.arena.Subtree(entry.Root)),
		})
	}
	for _, spec := range e.layers.Layers() {
		state.Layers = append(state.Layers, LayerState{Name: spec.Name, Order: spec.Order})
	}
	return state
}

// TrySetData delivers data to v if v has a data slot accepting it.
func TrySetData(v view.View, data view.Data) bool {
	return view.TrySetData(v, data)
}
