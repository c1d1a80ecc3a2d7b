// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package view

import "testing"

type volumeData struct {
	Payload
	Volume int
}

type otherData struct {
	Payload
}

type slotView struct {
	Component[*volumeData]
}

func (*slotView) Kind() Kind { return "slot" }

func TestComponentAcceptsMatchingType(t *testing.T) {
	v := &slotView{}
	data := &volumeData{Volume: 7}
	if !TrySetData(v, data) {
		t.Fatal("TrySetData refused matching data")
	}
	if v.Data != data {
		t.Fatal("Data not stored")
	}
}

func TestComponentRefusesOtherTypes(t *testing.T) {
	v := &slotView{}
	original := &volumeData{Volume: 1}
	v.Data = original

	if TrySetData(v, &otherData{}) {
		t.Fatal("TrySetData accepted a foreign payload")
	}
	if TrySetData(v, nil) {
		t.Fatal("TrySetData accepted nil")
	}
	if v.Data != original {
		t.Fatal("refused data overwrote the slot")
	}
}

func TestTrySetDataWithoutSlot(t *testing.T) {
	if TrySetData(&testView{"plain"}, &volumeData{}) {
		t.Fatal("view without a data slot accepted data")
	}
}

func TestPayloadSender(t *testing.T) {
	data := &volumeData{}
	data.SetSender("settings")
	if data.Sender() != "settings" {
		t.Fatalf("Sender() = %q", data.Sender())
	}
}

type clickWidget struct {
	testVisual
	handlers int
}

func (w *clickWidget) OnClick(fn func()) func() {
	w.handlers++
	return func() { w.handlers-- }
}

type buttonHost struct {
	testVisual
	button *clickWidget
}

func (h *buttonHost) Clickable() Clickable { return h.button }

func TestClickableOf(t *testing.T) {
	direct := &clickWidget{}
	if _, ok := ClickableOf(direct); !ok {
		t.Fatal("direct Clickable not found")
	}

	host := &buttonHost{button: &clickWidget{}}
	clickable, ok := ClickableOf(host)
	if !ok {
		t.Fatal("component Clickable not found")
	}
	remove := clickable.OnClick(func() {})
	if host.button.handlers != 1 {
		t.Fatal("handler not registered on the component")
	}
	remove()

	if _, ok := ClickableOf(&testVisual{}); ok {
		t.Fatal("plain visual reported as clickable")
	}
}
