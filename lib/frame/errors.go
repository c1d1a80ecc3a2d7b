// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"errors"

	"github.com/bureau-foundation/uiframe/lib/layer"
	"github.com/bureau-foundation/uiframe/lib/safecall"
	"github.com/bureau-foundation/uiframe/lib/timer"
)

var (
	// ErrDualClassification is returned when a descriptor classifies
	// a kind as both a panel and a window.
	ErrDualClassification = errors.New("view kind cannot be both panel and window")

	// ErrUnclassified is returned when Show or Hide by kind targets a
	// kind that is neither a panel nor a window.
	ErrUnclassified = errors.New("view kind is neither panel nor window")

	// ErrNotCurrentPanel is returned when hiding a panel kind that is
	// not on top of the navigation stack.
	ErrNotCurrentPanel = errors.New("panel is not the current panel")

	// ErrDuplicateKind is returned when a kind is registered twice.
	ErrDuplicateKind = errors.New("view kind already registered")

	// ErrUnknownView is returned for a kind that was never registered,
	// or a view the engine did not build.
	ErrUnknownView = errors.New("unknown view")

	// ErrNoView is returned when an instantiated template has no view
	// at its root.
	ErrNoView = errors.New("template root has no view")

	// ErrKindMismatch is returned when the template for a kind
	// produces a root view of another kind.
	ErrKindMismatch = errors.New("template root view has the wrong kind")

	// ErrClosed is returned by operations on a closed engine.
	ErrClosed = errors.New("engine closed")

	// ErrInvalidDelay is returned by CreateTimer for a delay that is
	// not positive.
	ErrInvalidDelay = timer.ErrInvalidDelay

	// ErrLayerConflict is returned when two descriptors, or a
	// descriptor and the configuration, give one layer two orders.
	ErrLayerConflict = layer.ErrLayerConflict

	// ErrCallbackPanic wraps panics recovered from lifecycle handlers,
	// observers, click handlers and timer callbacks.
	ErrCallbackPanic = safecall.ErrPanic
)
