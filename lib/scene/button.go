// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scene

import (
	"slices"
	"sync"
)

// Button records click handlers. Safe for concurrent use.
type Button struct {
	mu       sync.Mutex
	next     int
	handlers map[int]func()
}

// OnClick registers fn and returns its remover.
func (b *Button) OnClick(fn func()) (remove func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = make(map[int]func())
	}
	id := b.next
	b.next++
	b.handlers[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
	}
}

// Handlers returns the number of registered handlers.
func (b *Button) Handlers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}

// Click calls every handler in registration order. Handlers run
// outside the button's lock.
func (b *Button) Click() {
	b.mu.Lock()
	ids := make([]int, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	handlers := make([]func(), len(ids))
	for i, id := range ids {
		handlers[i] = b.handlers[id]
	}
	b.mu.Unlock()

	for _, handler := range handlers {
		handler()
	}
}

func (b *Button) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = nil
}
