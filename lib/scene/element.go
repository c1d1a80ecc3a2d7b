// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scene

import (
	"fmt"
	"slices"
	"sync"

	"github.com/bureau-foundation/uiframe/lib/view"
)

// tree guards the fields of every Element.
var tree sync.RWMutex

// Element is a node of the visual hierarchy.
type Element struct {
	name string

	parent    *Element
	children  []*Element
	active    bool
	destroyed bool
	text      string
	view      view.View
	button    *Button
}

// ElementOption configures a new element.
type ElementOption func(*Element)

// WithView attaches v.
func WithView(v view.View) ElementOption {
	return func(e *Element) { e.view = v }
}

// WithText sets the element's text.
func WithText(text string) ElementOption {
	return func(e *Element) { e.text = text }
}

// WithButton makes the element clickable.
func WithButton() ElementOption {
	return func(e *Element) { e.button = &Button{} }
}

// Inactive creates the element deactivated.
func Inactive() ElementOption {
	return func(e *Element) { e.active = false }
}

// WithChildren appends children. Each child must be detached.
func WithChildren(children ...*Element) ElementOption {
	return func(e *Element) {
		for _, child := range children {
			child.parent = e
			e.children = append(e.children, child)
		}
	}
}

// NewElement returns an active, detached element.
func NewElement(name string, options ...ElementOption) *Element {
	element := &Element{name: name, active: true}
	for _, option := range options {
		option(element)
	}
	return element
}

func (e *Element) String() string { return fmt.Sprintf("element(%s)", e.name) }

// Name returns the element name.
func (e *Element) Name() string { return e.name }

// Parent returns the parent element or nil.
func (e *Element) Parent() view.Visual {
	tree.RLock()
	defer tree.RUnlock()
	if e.parent == nil {
		return nil
	}
	return e.parent
}

// Children returns a copy of the child list.
func (e *Element) Children() []view.Visual {
	tree.RLock()
	defer tree.RUnlock()
	children := make([]view.Visual, len(e.children))
	for i, child := range e.children {
		children[i] = child
	}
	return children
}

// Elements is Children typed as elements.
func (e *Element) Elements() []*Element {
	tree.RLock()
	defer tree.RUnlock()
	return slices.Clone(e.children)
}

// Active reports the element's own flag.
func (e *Element) Active() bool {
	tree.RLock()
	defer tree.RUnlock()
	return e.active
}

// SetActive sets the element's own flag.
func (e *Element) SetActive(active bool) {
	tree.Lock()
	defer tree.Unlock()
	e.active = active
}

// ActiveInHierarchy reports whether the element and all of its
// ancestors are active.
func (e *Element) ActiveInHierarchy() bool {
	tree.RLock()
	defer tree.RUnlock()
	for current := e; current != nil; current = current.parent {
		if !current.active {
			return false
		}
	}
	return true
}

// View returns the attached view or nil.
func (e *Element) View() view.View {
	tree.RLock()
	defer tree.RUnlock()
	return e.view
}

// Text returns the element's text.
func (e *Element) Text() string {
	tree.RLock()
	defer tree.RUnlock()
	return e.text
}

// SetText replaces the element's text.
func (e *Element) SetText(text string) {
	tree.Lock()
	defer tree.Unlock()
	e.text = text
}

// Clickable returns the element's button, or nil.
func (e *Element) Clickable() view.Clickable {
	if e.button == nil {
		return nil
	}
	return e.button
}

// Button returns the element's button, or nil.
func (e *Element) Button() *Button { return e.button }

// Click fires the element's click handlers. Reports false when the
// element has no button, is destroyed, or is not active in the
// hierarchy.
func (e *Element) Click() bool {
	if e.button == nil || e.Destroyed() || !e.ActiveInHierarchy() {
		return false
	}
	e.button.Click()
	return true
}

// Destroyed reports whether Destroy has been called on the element or
// an ancestor.
func (e *Element) Destroyed() bool {
	tree.RLock()
	defer tree.RUnlock()
	return e.destroyed
}

// Destroy detaches the element and marks it and its descendants
// destroyed. Click handlers are dropped.
func (e *Element) Destroy() {
	tree.Lock()
	defer tree.Unlock()
	if e.parent != nil {
		e.parent.removeLocked(e)
	}
	e.destroyLocked()
}

func (e *Element) destroyLocked() {
	e.destroyed = true
	e.active = false
	if e.button != nil {
		e.button.reset()
	}
	for _, child := range e.children {
		child.destroyLocked()
	}
}

// Insert attaches child at index, clamped to the child count. A child
// attached elsewhere is moved first.
func (e *Element) Insert(index int, child view.Visual) {
	element := mustElement(child)
	tree.Lock()
	defer tree.Unlock()
	if element.parent != nil {
		element.parent.removeLocked(element)
	}
	index = max(0, min(index, len(e.children)))
	e.children = slices.Insert(e.children, index, element)
	element.parent = e
}

// Append attaches child last.
func (e *Element) Append(child view.Visual) {
	e.Insert(int(^uint(0)>>1), child)
}

// Remove detaches child if it is attached here.
func (e *Element) Remove(child view.Visual) {
	element := mustElement(child)
	tree.Lock()
	defer tree.Unlock()
	if element.parent == e {
		e.removeLocked(element)
	}
}

func (e *Element) removeLocked(child *Element) {
	e.children = slices.DeleteFunc(e.children, func(c *Element) bool { return c == child })
	child.parent = nil
}

// Raise moves child to the end of the child list.
func (e *Element) Raise(child view.Visual) {
	element := mustElement(child)
	tree.Lock()
	defer tree.Unlock()
	index := slices.Index(e.children, element)
	if index < 0 {
		return
	}
	e.children = append(slices.Delete(e.children, index, index+1), element)
}

// Find returns the first element named name in breadth-first order
// below and including e.
func (e *Element) Find(name string) *Element {
	tree.RLock()
	defer tree.RUnlock()
	queue := []*Element{e}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current.name == name {
			return current
		}
		queue = append(queue, current.children...)
	}
	return nil
}

// Row is one element in an [Element.Outline].
type Row struct {
	Element *Element
	Depth   int
	Name    string
	Text    string
	Kind    view.Kind
	Button  bool
}

// Outline lists e and its active descendants depth-first. Inactive
// elements and everything below them are omitted, so the outline is
// what a renderer would draw. Returns nil when e itself is inactive.
func (e *Element) Outline() []Row {
	tree.RLock()
	defer tree.RUnlock()
	var rows []Row
	e.outlineLocked(0, &rows)
	return rows
}

func (e *Element) outlineLocked(depth int, rows *[]Row) {
	if !e.active {
		return
	}
	row := Row{
		Element: e,
		Depth:   depth,
		Name:    e.name,
		Text:    e.text,
		Button:  e.button != nil,
	}
	if e.view != nil {
		row.Kind = e.view.Kind()
	}
	*rows = append(*rows, row)
	for _, child := range e.children {
		child.outlineLocked(depth+1, rows)
	}
}

func mustElement(v view.Visual) *Element {
	element, ok := v.(*Element)
	if !ok {
		panic(fmt.Sprintf("scene: %T is not a *scene.Element", v))
	}
	return element
}
