// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestFuzzyMatch(t *testing.T) {
	if result := FuzzyMatch("Settings", []rune("stg"), nil); result.Score <= 0 || len(result.Positions) != 3 {
		t.Fatalf("non-contiguous match = %+v", result)
	}
	if result := FuzzyMatch("PROFILE", []rune("prof"), nil); result.Score <= 0 {
		t.Fatalf("case-insensitive match = %+v", result)
	}
	if result := FuzzyMatch("Settings", []rune("xyz"), nil); result.Score != 0 || len(result.Positions) != 0 {
		t.Fatalf("mismatch = %+v", result)
	}
	if result := FuzzyMatch("Settings", nil, nil); result.Score != 0 {
		t.Fatalf("empty pattern = %+v", result)
	}
	result := FuzzyMatch("Confirm", []rune("cf"), NewSlab())
	if len(result.Positions) != 2 || result.Positions[0] != 0 || result.Positions[1] != 3 {
		t.Fatalf("positions = %v, want [0 3]", result.Positions)
	}
}

func TestPicker(t *testing.T) {
	picker := NewPicker([]PickerOption{
		{Label: "Home", Kind: "home"},
		{Label: "Settings", Kind: "settings"},
		{Label: "Profile", Kind: "profile"},
		{Label: "Confirm", Kind: "confirm"},
	})
	if got := len(picker.Matches()); got != 4 {
		t.Fatalf("empty query matches %d options, want 4", got)
	}
	if selected, _ := picker.Selected(); selected.Kind != "home" {
		t.Fatalf("initial selection = %q, want home", selected.Kind)
	}
	picker.MoveUp()
	if selected, _ := picker.Selected(); selected.Kind != "confirm" {
		t.Fatalf("MoveUp from the top = %q, want confirm", selected.Kind)
	}
	picker.MoveDown()
	if selected, _ := picker.Selected(); selected.Kind != "home" {
		t.Fatalf("MoveDown from the bottom = %q, want home", selected.Kind)
	}

	picker.SetQuery("set")
	if selected, ok := picker.Selected(); !ok || selected.Kind != "settings" {
		t.Fatalf("query set selects %q, want settings", selected.Kind)
	}

	picker.SetQuery("qqq")
	if _, ok := picker.Selected(); ok {
		t.Fatal("selection present with no matches")
	}
	picker.MoveDown()
	if lines := picker.Render(DefaultTheme, 5); len(lines) != 1 || !strings.Contains(ansi.Strip(lines[0]), "no matching") {
		t.Fatalf("empty render = %q", lines)
	}
}

func TestPickerRenderKeepsCursorVisible(t *testing.T) {
	picker := NewPicker([]PickerOption{
		{Label: "Alpha"}, {Label: "Beta"}, {Label: "Gamma"}, {Label: "Delta"}, {Label: "Epsilon"},
	})
	for range 4 {
		picker.MoveDown()
	}
	lines := picker.Render(DefaultTheme, 2)
	if len(lines) != 2 {
		t.Fatalf("rendered %d lines, want 2", len(lines))
	}
	if !strings.HasPrefix(ansi.Strip(lines[1]), "> Epsilon") {
		t.Fatalf("cursor line = %q", ansi.Strip(lines[1]))
	}
	if ansi.StringWidth(lines[0]) != ansi.StringWidth(lines[1]) {
		t.Fatalf("line widths differ: %d and %d", ansi.StringWidth(lines[0]), ansi.StringWidth(lines[1]))
	}
}

func TestStatusHandler(t *testing.T) {
	handler := NewStatusHandler(slog.LevelWarn, 1)
	logger := slog.New(handler).With("kind", "settings")

	logger.Info("not shown")
	logger.Warn("view operation stuck", "threshold", "1s")
	logger.Error("dropped while the buffer is full")

	msg, ok := handler.Listen()().(StatusMsg)
	if !ok {
		t.Fatal("Listen did not return a StatusMsg")
	}
	if msg.Summary != "view operation stuck (kind=settings, threshold=1s)" || msg.Level != slog.LevelWarn {
		t.Fatalf("status = %+v", msg)
	}

	grouped := slog.New(handler.WithGroup("frame"))
	grouped.Warn("grouped", "node", "3")
	if msg := handler.Listen()().(StatusMsg); msg.Summary != "grouped (frame.node=3)" {
		t.Fatalf("grouped summary = %q", msg.Summary)
	}
}
