// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// StatusFadeDelay is how long a status record stays on screen.
const StatusFadeDelay = 5 * time.Second

// StatusMsg carries one log record to the bubbletea model for the
// status line.
type StatusMsg struct {
	Summary string
	Level   slog.Level
}

// StatusHandler is a slog.Handler that turns records into StatusMsg
// values for a bubbletea model. Records below its level are dropped,
// as are records arriving while the buffer is full, so logging never
// waits on the event loop. Handlers derived with WithAttrs and
// WithGroup share the buffer.
type StatusHandler struct {
	level   slog.Level
	records chan StatusMsg
	attrs   []slog.Attr
	group   string
}

// NewStatusHandler returns a handler for records at or above level
// buffering up to size records.
func NewStatusHandler(level slog.Level, size int) *StatusHandler {
	return &StatusHandler{level: level, records: make(chan StatusMsg, size)}
}

// Listen returns a command that waits for the next record. The model
// issues it again after each StatusMsg.
func (h *StatusHandler) Listen() tea.Cmd {
	records := h.records
	return func() tea.Msg {
		return <-records
	}
}

func (h *StatusHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats the record as "message (key=value, ...)" and queues
// it.
func (h *StatusHandler) Handle(_ context.Context, record slog.Record) error {
	var parts []string
	for _, attr := range h.attrs {
		parts = append(parts, h.format(attr))
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, h.format(attr))
		return true
	})

	summary := record.Message
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}
	select {
	case h.records <- StatusMsg{Summary: summary, Level: record.Level}:
	default:
	}
	return nil
}

func (h *StatusHandler) format(attr slog.Attr) string {
	key := attr.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	return key + "=" + attr.Value.String()
}

func (h *StatusHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *h
	derived.attrs = append(slices.Clone(h.attrs), attrs...)
	return &derived
}

func (h *StatusHandler) WithGroup(name string) slog.Handler {
	derived := *h
	if h.group != "" {
		name = h.group + "." + name
	}
	derived.group = name
	return &derived
}
