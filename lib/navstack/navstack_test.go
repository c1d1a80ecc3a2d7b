// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package navstack

import (
	"testing"

	"github.com/bureau-foundation/uiframe/lib/view"
)

type profileData struct {
	view.Payload
	User string
}

func TestPushPopOrder(t *testing.T) {
	var stack Stack
	if _, ok := stack.Pop(); ok {
		t.Fatal("Pop on empty stack succeeded")
	}
	if _, ok := stack.Peek(); ok {
		t.Fatal("Peek on empty stack succeeded")
	}

	stack.Push(Entry{Kind: "home"})
	stack.Push(Entry{Kind: "settings"})
	if top, _ := stack.Peek(); top.Kind != "settings" {
		t.Fatalf("Peek() = %q, want settings", top.Kind)
	}
	if stack.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", stack.Len())
	}

	popped, ok := stack.Pop()
	if !ok || popped.Kind != "settings" {
		t.Fatalf("Pop() = %q, %v", popped.Kind, ok)
	}
	if top, _ := stack.Peek(); top.Kind != "home" {
		t.Fatalf("Peek() after Pop = %q, want home", top.Kind)
	}
}

func TestSetTopData(t *testing.T) {
	var stack Stack
	if stack.SetTopData(&profileData{}) {
		t.Fatal("SetTopData on empty stack succeeded")
	}

	stack.Push(Entry{Kind: "home"})
	stack.Push(Entry{Kind: "profile", Data: &profileData{User: "old"}})
	fresh := &profileData{User: "new"}
	if !stack.SetTopData(fresh) {
		t.Fatal("SetTopData failed")
	}
	top, _ := stack.Peek()
	if top.Data != view.Data(fresh) {
		t.Fatal("top entry data not replaced")
	}
	if bottom := stack.Entries()[0]; bottom.Data != nil {
		t.Fatal("SetTopData touched a lower entry")
	}
}

func TestEntriesIsACopy(t *testing.T) {
	var stack Stack
	stack.Push(Entry{Kind: "home"})
	entries := stack.Entries()
	entries[0].Kind = "mutated"
	if top, _ := stack.Peek(); top.Kind != "home" {
		t.Fatal("Entries() exposed internal storage")
	}
	stack.Clear()
	if stack.Len() != 0 {
		t.Fatal("Clear left entries")
	}
}
