// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui draws scene hierarchies in a terminal. Built on
// bubbletea and lipgloss, it supplies the pieces a host needs to show
// what the engine is doing: an outline renderer for panel and window
// layers, ANSI-aware overlay splicing for windows, a fuzzy kind picker,
// a decaying highlight for recently changed views, and a slog handler
// that routes records into the program's status line.
//
// The package only reads scene trees. Every change goes through the
// engine; the host owns the bubbletea model.
package tui
