// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package view defines the node model the engine operates on.
//
// The host (a scene graph, a terminal widget tree, a test fake) owns
// the raw visual hierarchy and exposes it through [Visual]. Some
// visuals carry a [View]: the application object whose lifecycle the
// engine drives. [Arena.Build] walks a visual hierarchy breadth-first,
// allocates a [Node] for every visual that carries a view, and links
// each node to its nearest view-carrying ancestor. Visuals without a
// view are skipped when linking, so a button nested three containers
// deep inside a panel still belongs to that panel.
//
// Nodes are addressed by [NodeID], a generational handle into the
// arena. Parent and child links are handles, never pointers, and a
// handle to a freed node stops resolving once its slot is reused.
//
// A view opts into lifecycle phases by implementing the matching
// handler interface ([CreateHandler], [RefreshHandler], [BindHandler],
// [UnbindHandler], [ShowHandler], [HideHandler], [DiedHandler]). A
// view accepts show data by implementing [DataSlot], usually by
// embedding [Component]:
//
//	type SettingsData struct {
//		view.Payload
//		Volume int
//	}
//
//	type Settings struct {
//		view.Component[*SettingsData]
//	}
//
//	func (s *Settings) Kind() view.Kind { return "settings" }
//
// The arena is not safe for concurrent use. The engine serializes all
// access to it.
package view
