// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package navstack is the panel navigation history.
//
// Each entry records a panel kind and the data it was shown with, so
// that returning to a panel can show it again with the same data.
// The stack is not safe for concurrent use.
package navstack

import (
	"slices"

	"github.com/bureau-foundation/uiframe/lib/view"
)

// Entry is one navigation step.
type Entry struct {
	Kind view.Kind
	Data view.Data
}

// Stack is a LIFO of entries.
type Stack struct {
	entries []Entry
}

// Push adds entry on top.
func (s *Stack) Push(entry Entry) {
	s.entries = append(s.entries, entry)
}

// Pop removes and returns the top entry.
func (s *Stack) Pop() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	top := s.entries[len(s.entries)-1]
	s.entries[len(s.entries)-1] = Entry{}
	s.entries = s.entries[:len(s.entries)-1]
	return top, true
}

// Peek returns the top entry without removing it.
func (s *Stack) Peek() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// SetTopData replaces the data of the top entry. Reports false on an
// empty stack.
func (s *Stack) SetTopData(data view.Data) bool {
	if len(s.entries) == 0 {
		return false
	}
	s.entries[len(s.entries)-1].Data = data
	return true
}

// Len returns the depth.
func (s *Stack) Len() int { return len(s.entries) }

// Entries returns a copy, bottom first.
func (s *Stack) Entries() []Entry { return slices.Clone(s.entries) }

// Clear drops every entry.
func (s *Stack) Clear() { s.entries = nil }
