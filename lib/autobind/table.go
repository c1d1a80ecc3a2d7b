// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package autobind

import (
	"strings"
	"time"

	"github.com/bureau-foundation/uiframe/lib/view"
)

// Table lists the handlers of one view kind.
type Table struct {
	Buttons []Button
	Timers  []Timer
}

// Empty reports whether the table declares nothing.
func (t Table) Empty() bool {
	return len(t.Buttons) == 0 && len(t.Timers) == 0
}

// Button binds a click handler to a widget.
type Button struct {
	// Handler is the handler name, conventionally OnSomething.
	Handler string

	// Target, when set, is the exact widget name to bind to.
	Target string

	// Invoke calls the handler on the view instance.
	Invoke func(view.View)
}

// WithTarget returns a copy of b bound to the widget named target.
func (b Button) WithTarget(target string) Button {
	b.Target = target
	return b
}

// WidgetName returns the widget name b binds to.
func (b Button) WidgetName() string {
	if b.Target != "" {
		return b.Target
	}
	return "@" + strings.TrimPrefix(b.Handler, "On")
}

// matches reports whether a widget named name satisfies b.
func (b Button) matches(name string) bool {
	if b.Target != "" {
		return name == b.Target
	}
	return strings.EqualFold(name, b.WidgetName())
}

// Timer starts a scheduled handler while the view is bound.
type Timer struct {
	// Name identifies the handler in logs.
	Name string

	Delay time.Duration
	Loop  bool

	// Invoke calls the handler on the view instance.
	Invoke func(view.View)
}

// OnClick declares a click handler on views of type T.
func OnClick[T view.View](handler string, fn func(T)) Button {
	return Button{Handler: handler, Invoke: adapt(fn)}
}

// Every declares a handler called every delay while the view is bound.
func Every[T view.View](name string, delay time.Duration, fn func(T)) Timer {
	return Timer{Name: name, Delay: delay, Loop: true, Invoke: adapt(fn)}
}

// After declares a handler called once, delay after each bind.
func After[T view.View](name string, delay time.Duration, fn func(T)) Timer {
	return Timer{Name: name, Delay: delay, Invoke: adapt(fn)}
}

// adapt turns a typed handler into one taking a view.View. The handler
// is not called for views of another type.
func adapt[T view.View](fn func(T)) func(view.View) {
	return func(v view.View) {
		if typed, ok := v.(T); ok {
			fn(typed)
		}
	}
}
