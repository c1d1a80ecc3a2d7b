// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/bureau-foundation/uiframe/lib/clock"
	"github.com/bureau-foundation/uiframe/lib/layer"
	"github.com/bureau-foundation/uiframe/lib/scene"
	"github.com/bureau-foundation/uiframe/lib/testutil"
	"github.com/bureau-foundation/uiframe/lib/view"
)

func TestNewValidatesConfig(t *testing.T) {
	library := testLibrary(t)
	newLayer := func(spec layer.Spec) view.Container { return scene.NewElement(spec.Name) }

	if _, err := New(Config{NewLayer: newLayer, Assets: library}); err == nil {
		t.Fatal("New without Root succeeded")
	}
	if _, err := New(Config{Root: scene.NewElement("root"), NewLayer: newLayer, Assets: library, StuckThreshold: -time.Second}); err == nil {
		t.Fatal("New with a negative threshold succeeded")
	}
	engine, err := New(Config{
		Root:     scene.NewElement("root"),
		NewLayer: newLayer,
		Assets:   library,
		Layers:   map[string]int{layer.Panel: 10, "window": 20},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer engine.Close()
	if err := engine.Register(Descriptor{Kind: "home", Panel: true}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := engine.Show(context.Background(), "home", nil); err != nil {
		t.Fatalf("Show: %v", err)
	}
	layers := engine.Snapshot().Layers
	if len(layers) != 1 || layers[0] != (LayerState{Name: layer.Panel, Order: 10}) {
		t.Fatalf("layers = %+v, want panel at the configured order", layers)
	}
}

func TestConcurrentShowSharesOneLoad(t *testing.T) {
	fake := clock.Fake(time.Unix(0, 0))
	library := testLibrary(t, scene.WithClock(fake), scene.WithLatency(50*time.Millisecond))
	h := newHarnessWith(t, library, nil)
	ctx := context.Background()

	results := make(chan error, 2)
	go func() { results <- h.engine.Show(ctx, "settings", nil) }()
	fake.WaitForTimers(1)
	go func() { results <- h.engine.Show(ctx, "settings", nil) }()
	fake.Advance(50 * time.Millisecond)

	for i := range 2 {
		if err := testutil.RequireReceive(t, results, 5*time.Second, "show %d", i); err != nil {
			t.Fatalf("Show %d: %v", i, err)
		}
	}
	if got := library.Requests("settings"); got != 1 {
		t.Fatalf("settings requests = %d, want 1", got)
	}
	instances := h.engine.GetAll(func(kind view.Kind) bool { return kind == "settings" })
	if len(instances) != 1 {
		t.Fatalf("settings instances = %d, want 1", len(instances))
	}
	if depth := len(h.engine.Stack()); depth != 1 {
		t.Fatalf("stack depth = %d, want 1", depth)
	}
}

func TestOverlappingPanelShowsRunInTurn(t *testing.T) {
	fake := clock.Fake(time.Unix(0, 0))
	library := testLibrary(t, scene.WithClock(fake))
	h := newHarnessWith(t, library, nil)
	ctx := context.Background()
	h.show("home", nil)
	h.events.take()
	library.SetLatency(50 * time.Millisecond)

	results := make(chan error, 2)
	go func() { results <- h.engine.Show(ctx, "settings", nil) }()
	fake.WaitForTimers(1)
	go func() { results <- h.engine.Show(ctx, "profile", nil) }()
	fake.Advance(50 * time.Millisecond)
	fake.WaitForTimers(1)
	fake.Advance(50 * time.Millisecond)

	for i := range 2 {
		if err := testutil.RequireReceive(t, results, 5*time.Second, "show %d", i); err != nil {
			t.Fatalf("Show %d: %v", i, err)
		}
	}

	var unbinds, binds int
	for _, event := range h.events.take() {
		switch event {
		case "unbind home":
			unbinds++
		case "bind home":
			binds++
		}
	}
	if unbinds != 1 || binds != 0 {
		t.Fatalf("home unbinds = %d, binds = %d; want 1 and 0", unbinds, binds)
	}

	var kinds []view.Kind
	for _, entry := range h.engine.Stack() {
		kinds = append(kinds, entry.Kind)
	}
	if want := []view.Kind{"home", "settings", "profile"}; !slices.Equal(kinds, want) {
		t.Fatalf("stack = %v, want %v", kinds, want)
	}
	if got := h.current(); got != "profile" {
		t.Fatalf("current panel = %q, want profile", got)
	}
}

func TestPanelShowWaitingItsTurnHonorsContext(t *testing.T) {
	fake := clock.Fake(time.Unix(0, 0))
	library := testLibrary(t, scene.WithClock(fake), scene.WithLatency(50*time.Millisecond))
	h := newHarnessWith(t, library, nil)

	first := make(chan error, 1)
	go func() { first <- h.engine.Show(context.Background(), "settings", nil) }()
	fake.WaitForTimers(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.engine.Show(ctx, "profile", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("Show behind a transition with a cancelled context = %v, want context.Canceled", err)
	}

	fake.Advance(50 * time.Millisecond)
	if err := testutil.RequireReceive(t, first, 5*time.Second, "first show"); err != nil {
		t.Fatalf("Show(settings): %v", err)
	}
	if got := library.Requests("profile"); got != 0 {
		t.Fatalf("profile requests = %d, want 0", got)
	}
}

func TestSubViewShowIsWatchedForStuck(t *testing.T) {
	fake := clock.Fake(time.Unix(0, 0))
	h := newHarnessWith(t, testLibrary(t), func(config *Config) {
		config.Clock = fake
		config.StuckThreshold = time.Second
	})
	h.show("home", nil)
	footer := h.child(h.instance("home"), "footer")
	footer.blockRefresh = make(chan struct{})

	events := make(chan StuckEvent, 4)
	h.engine.ObserveStuck(func(event StuckEvent) { events <- event })

	result := make(chan error, 1)
	go func() { result <- h.engine.ShowView(context.Background(), footer, nil) }()
	fake.WaitForTimers(1)
	fake.Advance(time.Second)

	start := testutil.RequireReceive(t, events, 5*time.Second, "stuck start")
	if start != (StuckEvent{Phase: StuckStart, Kind: "footer"}) {
		t.Fatalf("first event = %+v, want StuckStart for footer", start)
	}
	close(footer.blockRefresh)
	if err := testutil.RequireReceive(t, result, 5*time.Second, "sub-view show"); err != nil {
		t.Fatalf("ShowView: %v", err)
	}
	end := testutil.RequireReceive(t, events, 5*time.Second, "stuck end")
	if end != (StuckEvent{Phase: StuckEnd, Kind: "footer"}) {
		t.Fatalf("second event = %+v, want StuckEnd for footer", end)
	}
}

func TestCloseWhileLoading(t *testing.T) {
	fake := clock.Fake(time.Unix(0, 0))
	library := testLibrary(t, scene.WithClock(fake), scene.WithLatency(time.Second))
	h := newHarnessWith(t, library, nil)

	result := make(chan error, 1)
	go func() { result <- h.engine.Show(context.Background(), "settings", nil) }()
	fake.WaitForTimers(1)
	if err := h.engine.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	fake.Advance(time.Second)

	err := testutil.RequireReceive(t, result, 5*time.Second, "show after close")
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("Show interrupted by Close = %v, want ErrClosed", err)
	}
	if got := library.Releases("settings"); got != 1 {
		t.Fatalf("settings releases = %d, want the loaded asset released", got)
	}
}

func TestCancelledContextAbandonsShow(t *testing.T) {
	fake := clock.Fake(time.Unix(0, 0))
	library := testLibrary(t, scene.WithClock(fake), scene.WithLatency(time.Second))
	h := newHarnessWith(t, library, nil)
	ctx, cancel := context.WithCancel(context.Background())

	result := make(chan error, 1)
	go func() { result <- h.engine.Show(ctx, "settings", nil) }()
	fake.WaitForTimers(1)
	cancel()

	err := testutil.RequireReceive(t, result, 5*time.Second, "cancelled show")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled Show = %v, want context.Canceled", err)
	}
	if _, ok := h.engine.TryGet("settings"); ok {
		t.Fatal("cancelled Show left an instance")
	}
	if len(h.engine.Stack()) != 0 {
		t.Fatalf("cancelled Show touched the stack: %v", h.engine.Stack())
	}
}

func TestStuckNotifications(t *testing.T) {
	cases := []struct {
		name    string
		latency time.Duration
		stuck   bool
	}{
		{name: "slow load", latency: 2 * time.Second, stuck: true},
		{name: "fast load", latency: 500 * time.Millisecond, stuck: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := clock.Fake(time.Unix(0, 0))
			library := testLibrary(t, scene.WithClock(fake), scene.WithLatency(tc.latency))
			h := newHarnessWith(t, library, func(config *Config) {
				config.Clock = fake
				config.StuckThreshold = time.Second
			})
			events := make(chan StuckEvent, 4)
			h.engine.ObserveStuck(func(event StuckEvent) { events <- event })

			result := make(chan error, 1)
			go func() { result <- h.engine.Show(context.Background(), "settings", nil) }()
			fake.WaitForTimers(2)

			if tc.stuck {
				fake.Advance(time.Second)
				start := testutil.RequireReceive(t, events, 5*time.Second, "stuck start")
				if start != (StuckEvent{Phase: StuckStart, Kind: "settings"}) {
					t.Fatalf("first event = %+v, want StuckStart for settings", start)
				}
			}
			fake.Advance(tc.latency)
			if err := testutil.RequireReceive(t, result, 5*time.Second, "show result"); err != nil {
				t.Fatalf("Show: %v", err)
			}
			if tc.stuck {
				end := testutil.RequireReceive(t, events, 5*time.Second, "stuck end")
				if end != (StuckEvent{Phase: StuckEnd, Kind: "settings"}) {
					t.Fatalf("second event = %+v, want StuckEnd for settings", end)
				}
			}

			fake.Advance(5 * time.Second)
			testutil.RequireNoReceive(t, events, 20*time.Millisecond, "unexpected stuck event")
		})
	}
}

func TestAutobindThroughEngine(t *testing.T) {
	h := newHarness(t)
	h.show("home", nil)
	home := h.instance("home")

	if !home.element.Find("@Open").Click() {
		t.Fatal("bound button did not accept the click")
	}
	if home.clicks != 1 {
		t.Fatalf("clicks = %d, want 1", home.clicks)
	}

	h.show("profile", nil)
	profile := h.instance("profile")
	for range 3 {
		h.engine.Tick(10 * time.Millisecond)
	}
	if profile.ticks != 3 {
		t.Fatalf("profile ticks = %d, want 3", profile.ticks)
	}
	if timers := h.engine.Snapshot().Timers; timers != 1 {
		t.Fatalf("live timers = %d, want 1", timers)
	}

	if err := h.engine.HideCurrent(context.Background()); err != nil {
		t.Fatalf("HideCurrent: %v", err)
	}
	for range 3 {
		h.engine.Tick(10 * time.Millisecond)
	}
	if profile.ticks != 3 {
		t.Fatalf("profile ticks after hide = %d, want 3", profile.ticks)
	}
	if timers := h.engine.Snapshot().Timers; timers != 0 {
		t.Fatalf("live timers after hide = %d, want 0", timers)
	}
}

func TestCreateTimer(t *testing.T) {
	h := newHarness(t)
	if _, err := h.engine.CreateTimer(0, func() {}, false); !errors.Is(err, ErrInvalidDelay) {
		t.Fatalf("CreateTimer(0) = %v, want ErrInvalidDelay", err)
	}

	fired := 0
	timer, err := h.engine.CreateTimer(time.Millisecond, func() { fired++ }, true)
	if err != nil {
		t.Fatalf("CreateTimer: %v", err)
	}
	for range 4 {
		h.engine.Tick(time.Millisecond)
	}
	if fired != 4 {
		t.Fatalf("fired = %d, want 4", fired)
	}
	timer.Cancel()
	h.engine.Tick(time.Millisecond)
	if fired != 4 {
		t.Fatalf("fired after cancel = %d, want 4", fired)
	}
}

func TestTimerCallbackMayCallEngine(t *testing.T) {
	h := newHarness(t)
	var showErr error
	_, err := h.engine.CreateTimer(time.Millisecond, func() {
		showErr = h.engine.Show(context.Background(), "home", nil)
	}, false)
	if err != nil {
		t.Fatalf("CreateTimer: %v", err)
	}
	h.engine.Tick(time.Millisecond)
	if showErr != nil {
		t.Fatalf("Show from timer: %v", showErr)
	}
	if got := h.current(); got != "home" {
		t.Fatalf("current panel = %q, want home", got)
	}
}

func TestSnapshot(t *testing.T) {
	fake := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	h := newHarnessWith(t, testLibrary(t), func(config *Config) { config.Clock = fake })
	h.show("home", &testData{Value: "h"})
	h.show("settings", &testData{Value: "s"})
	h.show("confirm", nil)

	state := h.engine.Snapshot()
	if !state.TakenAt.Equal(fake.Now()) {
		t.Fatalf("taken at %v, want %v", state.TakenAt, fake.Now())
	}
	if state.Current != "settings" {
		t.Fatalf("current = %q, want settings", state.Current)
	}
	wantStack := []StackEntry{
		{Kind: "home", HasData: true},
		{Kind: "settings", HasData: true, Sender: "home"},
	}
	if len(state.Stack) != len(wantStack) {
		t.Fatalf("stack = %+v, want %+v", state.Stack, wantStack)
	}
	for i := range wantStack {
		if state.Stack[i] != wantStack[i] {
			t.Fatalf("stack[%d] = %+v, want %+v", i, state.Stack[i], wantStack[i])
		}
	}
	wantInstances := []InstanceState{
		{Kind: "confirm", Active: true, AutoDestroy: true, Nodes: 1},
		{Kind: "settings", Active: true, AutoDestroy: true, Nodes: 2},
	}
	if len(state.Instances) != len(wantInstances) {
		t.Fatalf("instances = %+v, want %+v", state.Instances, wantInstances)
	}
	for i := range wantInstances {
		if state.Instances[i] != wantInstances[i] {
			t.Fatalf("instances[%d] = %+v, want %+v", i, state.Instances[i], wantInstances[i])
		}
	}
	if len(state.Layers) != 2 || state.Layers[1] != (LayerState{Name: "window", Order: 100}) {
		t.Fatalf("layers = %+v", state.Layers)
	}
}
