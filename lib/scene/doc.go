// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package scene is an in-memory visual hierarchy that the engine can
// drive without a renderer.
//
// An [Element] implements view.Visual and view.Container. It carries
// an optional view, optional text, and an optional [Button] that
// records click handlers and fires them on [Element.Click]. The
// terminal renderer in lib/tui draws a scene; tests build scenes by
// hand and click through them.
//
// Templates describe a hierarchy declaratively and are authored as
// YAML, JSON, or JSONC (JSON with comments and trailing commas):
//
//	kind: settings
//	root:
//	  name: Settings
//	  view: settings
//	  children:
//	    - name: "@Confirm"
//	      button: true
//	      text: Apply
//
// Every template carries a BLAKE3 digest of its canonical form so a
// reload can tell whether anything changed. A [Library] holds templates
// by kind, instantiates views through a [Factory], and implements the
// engine's asset provider, optionally delaying each request to mimic a
// slow load.
//
// All elements share one lock. Structure and flags may be read from a
// render goroutine while the engine mutates them.
package scene
