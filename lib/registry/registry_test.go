// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/uiframe/lib/testutil"
	"github.com/bureau-foundation/uiframe/lib/view"
)

type kindView view.Kind

func (k kindView) Kind() view.Kind { return view.Kind(k) }

type visual struct{ v view.View }

func (*visual) Name() string              { return "root" }
func (*visual) Parent() view.Visual       { return nil }
func (*visual) Children() []view.Visual   { return nil }
func (*visual) Active() bool              { return true }
func (*visual) SetActive(bool)            {}
func (v *visual) View() view.View         { return v.v }
func (*visual) Destroy()                  {}

// batonLoader mimics the engine: callers hold baton around every
// registry call, and Load and Await release it while they block.
type batonLoader struct {
	baton   *sync.Mutex
	arena   *view.Arena
	gate    chan struct{}
	started chan view.Kind
	err     error

	mu    sync.Mutex
	loads int
}

func (l *batonLoader) Load(ctx context.Context, kind view.Kind) (view.NodeID, error) {
	l.mu.Lock()
	l.loads++
	l.mu.Unlock()

	if l.gate != nil {
		l.baton.Unlock()
		l.started <- kind
		<-l.gate
		l.baton.Lock()
	}
	if l.err != nil {
		return view.NodeID{}, l.err
	}
	return l.arena.Build(&visual{v: kindView(kind)})[0], nil
}

func (l *batonLoader) Await(ctx context.Context, done <-chan struct{}) error {
	l.baton.Unlock()
	defer l.baton.Lock()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *batonLoader) loadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}

func newLoader() *batonLoader {
	return &batonLoader{baton: &sync.Mutex{}, arena: view.NewArena()}
}

func TestRequestLoadsOnceThenCaches(t *testing.T) {
	loader := newLoader()
	registry := New()
	ctx := context.Background()

	loader.baton.Lock()
	defer loader.baton.Unlock()

	first, created, err := registry.Request(ctx, "settings", loader)
	if err != nil || !created {
		t.Fatalf("first Request = %v, created %v, err %v", first, created, err)
	}
	second, created, err := registry.Request(ctx, "settings", loader)
	if err != nil || created || second != first {
		t.Fatalf("second Request = %v, created %v, err %v", second, created, err)
	}
	if loader.loadCount() != 1 {
		t.Fatalf("loads = %d, want 1", loader.loadCount())
	}
}

func TestConcurrentRequestsShareOneLoad(t *testing.T) {
	loader := newLoader()
	loader.gate = make(chan struct{})
	loader.started = make(chan view.Kind, 1)
	registry := New()
	ctx := context.Background()

	type result struct {
		id      view.NodeID
		created bool
		err     error
	}
	results := make(chan result, 2)
	request := func() {
		loader.baton.Lock()
		defer loader.baton.Unlock()
		id, created, err := registry.Request(ctx, "inventory", loader)
		results <- result{id, created, err}
	}

	go request()
	testutil.RequireReceive(t, loader.started, 5*time.Second, "leader load started")

	loader.baton.Lock()
	loading := registry.Loading("inventory")
	loader.baton.Unlock()
	if !loading {
		t.Fatal("Loading() = false while the leader is blocked")
	}

	go request()
	// The follower parks in Await; give it a moment to get there.
	testutil.RequireNoReceive(t, results, 20*time.Millisecond, "follower returned before leader finished")
	close(loader.gate)

	first := testutil.RequireReceive(t, results, 5*time.Second, "first result")
	second := testutil.RequireReceive(t, results, 5*time.Second, "second result")
	if first.err != nil || second.err != nil {
		t.Fatalf("errors: %v, %v", first.err, second.err)
	}
	if first.id != second.id {
		t.Fatalf("requests got different instances: %v, %v", first.id, second.id)
	}
	if first.created == second.created {
		t.Fatal("exactly one request should report created")
	}
	if loader.loadCount() != 1 {
		t.Fatalf("loads = %d, want 1", loader.loadCount())
	}
}

func TestLoadErrorLeavesNoEntry(t *testing.T) {
	loader := newLoader()
	loader.err = errors.New("asset missing")
	registry := New()

	loader.baton.Lock()
	defer loader.baton.Unlock()
	if _, _, err := registry.Request(context.Background(), "broken", loader); !errors.Is(err, loader.err) {
		t.Fatalf("Request error = %v, want %v", err, loader.err)
	}
	if _, ok := registry.Get("broken"); ok {
		t.Fatal("failed load left an entry")
	}
	if registry.Loading("broken") {
		t.Fatal("failed load left a pending marker")
	}
}

func TestRemoveAndSweep(t *testing.T) {
	loader := newLoader()
	registry := New()
	ctx := context.Background()

	loader.baton.Lock()
	defer loader.baton.Unlock()
	for _, kind := range []view.Kind{"c", "a", "b"} {
		if _, _, err := registry.Request(ctx, kind, loader); err != nil {
			t.Fatalf("Request(%s): %v", kind, err)
		}
	}

	aRoot, _ := registry.Get("a")
	if kind, ok := registry.RemoveRoot(aRoot); !ok || kind != "a" {
		t.Fatalf("RemoveRoot = %q, %v", kind, ok)
	}
	if _, ok := registry.Remove("a"); ok {
		t.Fatal("Remove found an entry already removed")
	}

	removed := registry.Sweep(func(entry Entry) bool { return entry.Kind == "b" })
	if len(removed) != 1 || removed[0].Kind != "c" {
		t.Fatalf("Sweep removed %v, want [c]", removed)
	}
	if registry.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", registry.Len())
	}
	entries := registry.Entries()
	if len(entries) != 1 || entries[0].Kind != "b" {
		t.Fatalf("Entries() = %v", entries)
	}
}
