// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package frame is the lifecycle orchestrator: it shows, hides,
// refreshes and destroys views, keeps panel navigation history, and
// reports loads that take too long.
//
// An [Engine] is constructed with [New] and torn down with
// [Engine.Close]. Every view kind that is shown by kind is registered
// first with a [Descriptor] that classifies it as a panel, a window
// (with a layer), or neither:
//
//	engine.Register(frame.Descriptor{Kind: "home", Panel: true})
//	engine.Register(frame.Descriptor{
//		Kind:    "confirm",
//		Window:  &layer.Spec{Name: "window", Order: 100},
//		Buttons: []autobind.Button{autobind.OnClick("OnOk", (*Confirm).OnOk)},
//	})
//
//	engine.Show(ctx, "home", nil)
//	engine.Show(ctx, "confirm", &ConfirmData{Question: "Quit?"})
//
// Panels form a stack: showing a panel hides the current one, and
// [Engine.HideCurrent] returns to the previous panel with the data it
// was shown with, its Sender set to the panel being left. Windows are
// overlays in their own layers, independent of the stack. Other views
// are sub-views of a panel or window and are shown and hidden by
// reference with [Engine.ShowView] and [Engine.HideView].
//
// Lifecycle phases propagate breadth-first from the root of the
// affected tree. The root is always visited; other nodes only while
// their own active flag is set. Unbind and hide visit the same nodes
// in reverse, so children stop reacting before their parents. Create
// and died visit every node. A failing or panicking handler is logged
// and the remaining nodes are still visited.
//
// The engine holds one lock for the duration of each operation and
// releases it only while waiting for an asset, so operations never
// observe each other half done. View lifecycle handlers, observers and
// the asset provider run with that lock held and must not call back
// into the engine; click handlers and timer callbacks run without it
// and may.
//
// Every Show and Hide is timed. If it is still running after the
// configured threshold, stuck observers receive [StuckStart] once, and
// [StuckEnd] when it finishes. The operation itself is never aborted.
package frame
