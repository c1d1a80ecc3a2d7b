// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package view

// Data is a show payload. The engine stamps Sender with the kind of
// the panel that was current when the payload was delivered, and with
// the kind of the hidden panel when navigation returns to a previous
// panel.
type Data interface {
	Sender() Kind
	SetSender(Kind)
}

// Payload implements Data. Embed it in payload structs and pass them
// by pointer.
type Payload struct {
	sender Kind
}

// Sender returns the kind of the view that caused this delivery.
func (p *Payload) Sender() Kind { return p.sender }

// SetSender records the kind of the view that caused this delivery.
func (p *Payload) SetSender(kind Kind) { p.sender = kind }

// DataSlot is implemented by views that accept show data.
type DataSlot interface {
	// SetData stores data and reports whether the view accepted it.
	SetData(data Data) bool
}

// Component is a typed DataSlot. A view embeds Component[T] and reads
// the last delivered payload from Data.
type Component[T Data] struct {
	Data T
}

// SetData stores data when it is a T. Anything else, nil included, is
// refused and leaves Data unchanged.
func (c *Component[T]) SetData(data Data) bool {
	typed, ok := data.(T)
	if !ok {
		return false
	}
	c.Data = typed
	return true
}

// TrySetData delivers data to v if v has a data slot that accepts it.
func TrySetData(v View, data Data) bool {
	if data == nil {
		return false
	}
	slot, ok := v.(DataSlot)
	if !ok {
		return false
	}
	return slot.SetData(data)
}
