// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/uiframe/lib/autobind"
	"github.com/bureau-foundation/uiframe/lib/layer"
	"github.com/bureau-foundation/uiframe/lib/scene"
	"github.com/bureau-foundation/uiframe/lib/view"
)

type testData struct {
	view.Payload
	Value string
}

type testView struct {
	view.Component[*testData]
	kind    view.Kind
	element *scene.Element

	panicOnRefresh bool
	// blockRefresh, when set, holds OnRefresh until it is closed.
	blockRefresh chan struct{}
	refreshes    int
	clicks         int
	ticks          int
}

func (v *testView) Kind() view.Kind { return v.kind }

func (v *testView) Mount(element *scene.Element) { v.element = element }

func (v *testView) OnRefresh(context.Context) error {
	v.refreshes++
	if v.blockRefresh != nil {
		<-v.blockRefresh
	}
	if v.panicOnRefresh {
		panic("refresh exploded")
	}
	return nil
}

var testFiles = []scene.File{
	{Kind: "home", Root: scene.Node{Name: "Home", View: "home", Children: []scene.Node{
		{Name: "@Open", Button: true},
		{Name: "Body", Children: []scene.Node{
			{Name: "Header", View: "header"},
			{Name: "Footer", View: "footer", Inactive: true},
		}},
	}}},
	{Kind: "settings", Root: scene.Node{Name: "Settings", View: "settings", Children: []scene.Node{
		{Name: "@Apply", Button: true},
		{Name: "Volume", View: "volume"},
	}}},
	{Kind: "profile", Root: scene.Node{Name: "Profile", View: "profile"}},
	{Kind: "confirm", Root: scene.Node{Name: "Confirm", View: "confirm", Children: []scene.Node{
		{Name: "@Ok", Button: true},
	}}},
	{Kind: "toast", Root: scene.Node{Name: "Toast", View: "toast"}},
	{Kind: "row", Root: scene.Node{Name: "Row", View: "row", Children: []scene.Node{
		{Name: "Broken", View: "broken"},
		{Name: "Sibling", View: "sibling"},
	}}},
}

func testLibrary(t *testing.T, options ...scene.LibraryOption) *scene.Library {
	t.Helper()
	factory := scene.Factory{}
	for _, kind := range []view.Kind{
		"home", "header", "footer", "settings", "volume", "profile",
		"confirm", "toast", "row", "sibling",
	} {
		factory[kind] = func() view.View { return &testView{kind: kind} }
	}
	factory["broken"] = func() view.View { return &testView{kind: "broken", panicOnRefresh: true} }

	library := scene.NewLibrary(factory, options...)
	for _, file := range testFiles {
		if _, _, err := library.Add(file); err != nil {
			t.Fatalf("adding template %s: %v", file.Kind, err)
		}
	}
	return library
}

// recorder collects lifecycle events as "phase kind" strings.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) record(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf("%s %s", event.Phase, event.Kind))
}

// take returns the events recorded since the last take.
func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := r.events
	r.events = nil
	return events
}

type harness struct {
	t       *testing.T
	engine  *Engine
	library *scene.Library
	root    *scene.Element
	events  *recorder
	logs    *lockedWriter
}

func newHarness(t *testing.T) *harness {
	return newHarnessWith(t, testLibrary(t), nil)
}

// newHarnessWith builds an engine over library with the test kinds
// registered. configure, if set, adjusts the configuration first.
func newHarnessWith(t *testing.T, library *scene.Library, configure func(*Config)) *harness {
	t.Helper()
	logs := &lockedWriter{}
	root := scene.NewElement("root")
	config := Config{
		Root:     root,
		NewLayer: func(spec layer.Spec) view.Container { return scene.NewElement(spec.Name) },
		Assets:   library,
		Logger:   slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
		Layers:   map[string]int{"window": 100},
	}
	if configure != nil {
		configure(&config)
	}
	engine, err := New(config)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { engine.Close() })

	h := &harness{t: t, engine: engine, library: library, root: root, events: &recorder{}, logs: logs}
	engine.Observe(h.events.record)

	window := layer.Named("window")
	for _, descriptor := range []Descriptor{
		{Kind: "home", Panel: true, Buttons: []autobind.Button{
			autobind.OnClick("OnOpen", func(v *testView) { v.clicks++ }),
		}},
		{Kind: "settings", Panel: true},
		{Kind: "profile", Panel: true, Timers: []autobind.Timer{
			autobind.Every("Tick", 10*time.Millisecond, func(v *testView) { v.ticks++ }),
		}},
		{Kind: "row", Panel: true},
		{Kind: "confirm", Window: &window},
		{Kind: "toast", Window: &window, Retain: true},
		{Kind: "header"},
	} {
		if err := engine.Register(descriptor); err != nil {
			t.Fatalf("Register(%s): %v", descriptor.Kind, err)
		}
	}
	return h
}

func (h *harness) show(kind view.Kind, data view.Data) {
	h.t.Helper()
	if err := h.engine.Show(context.Background(), kind, data); err != nil {
		h.t.Fatalf("Show(%s): %v", kind, err)
	}
}

// instance returns the live instance of kind.
func (h *harness) instance(kind view.Kind) *testView {
	h.t.Helper()
	v, ok := GetAs[*testView](h.engine, kind)
	if !ok {
		h.t.Fatalf("no live instance of %s", kind)
	}
	return v
}

// child returns the view of kind directly under parent.
func (h *harness) child(parent view.View, kind view.Kind) *testView {
	h.t.Helper()
	for _, child := range h.engine.Children(parent) {
		if child.Kind() == kind {
			return child.(*testView)
		}
	}
	h.t.Fatalf("%s has no child %s", parent.Kind(), kind)
	return nil
}

func (h *harness) current() view.Kind {
	h.t.Helper()
	v, ok := h.engine.CurrentPanel()
	if !ok {
		return ""
	}
	return v.Kind()
}

func requireEvents(t *testing.T, got []string, want ...string) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Fatalf("events:\n  got  %s\n  want %s", strings.Join(got, ", "), strings.Join(want, ", "))
	}
}

// lockedWriter serializes writes from the engine and the clock
// goroutine.
type lockedWriter struct {
	mu     sync.Mutex
	buffer bytes.Buffer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buffer.Write(p)
}

func (w *lockedWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buffer.String()
}
