// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timer

import (
	"errors"
	"testing"
	"time"

	"github.com/bureau-foundation/uiframe/lib/view"
)

func TestCreateRejectsNonPositiveDelay(t *testing.T) {
	scheduler := NewScheduler(nil)
	for _, delay := range []time.Duration{0, -time.Second} {
		if _, err := scheduler.Create(delay, func() {}); !errors.Is(err, ErrInvalidDelay) {
			t.Errorf("Create(%v) error = %v, want ErrInvalidDelay", delay, err)
		}
	}
	if scheduler.Len() != 0 {
		t.Fatalf("Len() = %d after rejected creates", scheduler.Len())
	}
}

func TestOneShotFiresOnceAndIsSwept(t *testing.T) {
	scheduler := NewScheduler(nil)
	fired := 0
	timer, err := scheduler.Create(time.Second, func() { fired++ })
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	scheduler.Tick(600 * time.Millisecond)
	if fired != 0 {
		t.Fatal("fired before delay")
	}
	scheduler.Tick(400 * time.Millisecond)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	if !timer.Cancelled() {
		t.Fatal("one-shot timer not cancelled after firing")
	}
	if scheduler.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 after sweep", scheduler.Len())
	}

	scheduler.Tick(5 * time.Second)
	if fired != 1 {
		t.Fatalf("one-shot fired again: %d", fired)
	}
}

func TestLoopingFiresEveryInterval(t *testing.T) {
	scheduler := NewScheduler(nil)
	fired := 0
	timer, err := scheduler.Create(time.Second, func() { fired++ }, Looping())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for range 5 {
		scheduler.Tick(time.Second)
	}
	if fired != 5 {
		t.Fatalf("fired = %d, want 5", fired)
	}

	timer.Cancel()
	timer.Cancel()
	scheduler.Tick(time.Second)
	if fired != 5 {
		t.Fatalf("cancelled looping timer fired: %d", fired)
	}
}

func TestFiresAtMostOncePerTick(t *testing.T) {
	scheduler := NewScheduler(nil)
	fired := 0
	if _, err := scheduler.Create(time.Second, func() { fired++ }, Looping()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	scheduler.Tick(10 * time.Second)
	if fired != 1 {
		t.Fatalf("fired = %d in one large tick, want 1", fired)
	}
}

func TestCancelBeforeFire(t *testing.T) {
	scheduler := NewScheduler(nil)
	fired := false
	timer, _ := scheduler.Create(time.Second, func() { fired = true }, Looping())
	scheduler.Tick(500 * time.Millisecond)
	timer.Cancel()
	scheduler.Tick(time.Second)
	if fired {
		t.Fatal("timer cancelled before its deadline fired")
	}
}

func TestCallbackMayCancelLaterTimer(t *testing.T) {
	scheduler := NewScheduler(nil)
	var second *Timer
	secondFired := false
	if _, err := scheduler.Create(time.Second, func() { second.Cancel() }); err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, _ = scheduler.Create(time.Second, func() { secondFired = true })

	scheduler.Tick(time.Second)
	if secondFired {
		t.Fatal("timer cancelled earlier in the same tick still fired")
	}
}

func TestCallbackMayCreateTimers(t *testing.T) {
	scheduler := NewScheduler(nil)
	created := 0
	if _, err := scheduler.Create(time.Second, func() {
		if _, err := scheduler.Create(time.Second, func() { created++ }); err != nil {
			t.Errorf("nested Create: %v", err)
		}
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	scheduler.Tick(time.Second)
	if created != 0 {
		t.Fatal("timer created during a tick fired in the same tick")
	}
	scheduler.Tick(time.Second)
	if created != 1 {
		t.Fatalf("created = %d, want 1", created)
	}
}

func TestPanickingCallbackDoesNotStopTick(t *testing.T) {
	scheduler := NewScheduler(nil)
	scheduler.Create(time.Second, func() { panic("broken timer") })
	ran := false
	scheduler.Create(time.Second, func() { ran = true })

	scheduler.Tick(time.Second)
	if !ran {
		t.Fatal("timer after a panicking one did not fire")
	}
}

func TestCancelOwner(t *testing.T) {
	scheduler := NewScheduler(nil)
	arena := view.NewArena()
	ids := arena.Build(ownerVisual("owner", ownerVisual("other")))
	owner, other := ids[0], ids[1]

	ownedFired, otherFired := false, false
	scheduler.Create(time.Second, func() { ownedFired = true }, OwnedBy(owner), Looping())
	scheduler.Create(time.Second, func() { otherFired = true }, OwnedBy(other))

	if got := scheduler.CancelOwner(owner); got != 1 {
		t.Fatalf("CancelOwner() = %d, want 1", got)
	}
	if got := scheduler.CancelOwner(view.NodeID{}); got != 0 {
		t.Fatalf("CancelOwner(zero) = %d, want 0", got)
	}

	scheduler.Tick(time.Second)
	if ownedFired {
		t.Fatal("owned timer fired after CancelOwner")
	}
	if !otherFired {
		t.Fatal("unrelated timer was cancelled")
	}
}

func TestCancelAll(t *testing.T) {
	scheduler := NewScheduler(nil)
	for range 3 {
		scheduler.Create(time.Second, func() { t.Error("timer fired after CancelAll") }, Looping())
	}
	scheduler.CancelAll()
	scheduler.Tick(time.Second)
	if scheduler.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", scheduler.Len())
	}
}

// ownerVisual is a minimal visual carrying a view, enough to allocate
// node handles.
type ownerNode struct {
	name     string
	parent   *ownerNode
	children []*ownerNode
}

func ownerVisual(name string, children ...*ownerNode) *ownerNode {
	node := &ownerNode{name: name}
	for _, child := range children {
		child.parent = node
		node.children = append(node.children, child)
	}
	return node
}

func (n *ownerNode) Kind() view.Kind { return view.Kind(n.name) }
func (n *ownerNode) Name() string    { return n.name }
func (n *ownerNode) Parent() view.Visual {
	if n.parent == nil {
		return nil
	}
	return n.parent
}
func (n *ownerNode) Children() []view.Visual {
	children := make([]view.Visual, len(n.children))
	for i, child := range n.children {
		children[i] = child
	}
	return children
}
func (n *ownerNode) Active() bool     { return true }
func (n *ownerNode) SetActive(bool)   {}
func (n *ownerNode) View() view.View  { return n }
func (n *ownerNode) Destroy()         {}
