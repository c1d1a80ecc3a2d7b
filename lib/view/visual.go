// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package view

// Visual is one element of the host's raw visual hierarchy.
// Implementations must be comparable (typically a pointer).
type Visual interface {
	// Name is the element name used for widget lookup.
	Name() string

	// Parent returns the enclosing visual, or nil at the top.
	Parent() Visual

	// Children returns the direct children in order.
	Children() []Visual

	// Active reports the element's own active flag, independent of
	// its ancestors.
	Active() bool

	// SetActive toggles the element's own active flag.
	SetActive(active bool)

	// View returns the view attached to this element, or nil.
	View() View

	// Destroy releases the element and its descendants.
	Destroy()
}

// Container is a visual that accepts children. Layers and the layer
// root are containers.
type Container interface {
	Visual

	// Insert attaches child at index, clamped to [0, len(children)].
	// A child attached elsewhere is moved.
	Insert(index int, child Visual)

	// Remove detaches child. No-op if child is not attached here.
	Remove(child Visual)

	// Raise moves child to the end of the children so it draws last.
	Raise(child Visual)
}

// Clickable is a widget that reports clicks.
type Clickable interface {
	// OnClick registers fn and returns a function that unregisters it.
	OnClick(fn func()) (remove func())
}

// ClickableOf returns the Clickable behind v: v itself, or the
// component returned by a Clickable() method when v has one.
func ClickableOf(v Visual) (Clickable, bool) {
	if provider, ok := v.(interface{ Clickable() Clickable }); ok {
		if clickable := provider.Clickable(); clickable != nil {
			return clickable, true
		}
	}
	clickable, ok := v.(Clickable)
	return clickable, ok
}

// Template produces fresh visual hierarchies for one view kind.
type Template interface {
	// Instantiate returns a new, detached copy of the hierarchy.
	Instantiate() Visual
}
