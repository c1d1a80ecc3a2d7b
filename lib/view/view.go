// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package view

import "context"

// Kind identifies a view type. It keys the instance registry, the
// navigation stack and the registration table.
type Kind string

// View is an application object attached to a visual.
type View interface {
	Kind() Kind
}

// CreateHandler runs once per node after its tree is built.
type CreateHandler interface {
	OnCreate(ctx context.Context) error
}

// RefreshHandler runs before a node is shown and on explicit refresh.
// Refresh runs node by node in tree order; a slow refresh delays the
// next node.
type RefreshHandler interface {
	OnRefresh(ctx context.Context) error
}

// BindHandler runs when a node starts reacting to input.
type BindHandler interface {
	OnBind()
}

// UnbindHandler runs when a node stops reacting to input.
type UnbindHandler interface {
	OnUnbind()
}

// ShowHandler runs after a node is activated.
type ShowHandler interface {
	OnShow()
}

// HideHandler runs before a node is deactivated.
type HideHandler interface {
	OnHide()
}

// DiedHandler runs once when a node is destroyed.
type DiedHandler interface {
	OnDied()
}

// AutoDestroyer overrides the registration default for whether a
// released view is destroyed (true) or only deactivated and kept
// cached (false).
type AutoDestroyer interface {
	AutoDestroy() bool
}
