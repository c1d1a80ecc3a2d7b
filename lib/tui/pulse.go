// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"time"

	"github.com/bureau-foundation/uiframe/lib/view"
)

// PulseDuration is how long a view stays highlighted after a
// lifecycle change. Intensity decays linearly from 1 to 0.
const PulseDuration = 2 * time.Second

// PulseTickInterval is the re-render interval while anything pulses.
const PulseTickInterval = 100 * time.Millisecond

// PulseKind selects the highlight color.
type PulseKind int

const (
	// PulseShown marks a view that was shown or refreshed.
	PulseShown PulseKind = iota
	// PulseHidden marks a view that was hidden or died.
	PulseHidden
)

type pulseEntry struct {
	ignition time.Time
	kind     PulseKind
}

// Pulse tracks recent lifecycle changes per view kind. Not safe for
// concurrent use; the bubbletea model owns it.
type Pulse struct {
	entries map[view.Kind]pulseEntry
}

// NewPulse returns an empty tracker.
func NewPulse() *Pulse {
	return &Pulse{entries: make(map[view.Kind]pulseEntry)}
}

// Ignite starts or restarts the pulse of kind.
func (p *Pulse) Ignite(kind view.Kind, pulseKind PulseKind, now time.Time) {
	p.entries[kind] = pulseEntry{ignition: now, kind: pulseKind}
}

// Intensity returns the current strength of kind's pulse in [0, 1]
// and its color kind.
func (p *Pulse) Intensity(kind view.Kind, now time.Time) (float64, PulseKind) {
	entry, ok := p.entries[kind]
	if !ok {
		return 0, PulseShown
	}
	elapsed := now.Sub(entry.ignition)
	if elapsed >= PulseDuration || elapsed < 0 {
		return 0, entry.kind
	}
	return 1 - float64(elapsed)/float64(PulseDuration), entry.kind
}

// Active reports whether any pulse is still visible, dropping the
// ones that have faded.
func (p *Pulse) Active(now time.Time) bool {
	active := false
	for kind, entry := range p.entries {
		if now.Sub(entry.ignition) < PulseDuration {
			active = true
			continue
		}
		delete(p.entries, kind)
	}
	return active
}
