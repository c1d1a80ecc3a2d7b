// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the color palette of the terminal host. Colors are ANSI
// 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Focused button.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Element decorations in the outline.
	ViewForeground   lipgloss.Color // Elements carrying a view.
	ButtonForeground lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Window overlays.
	WindowForeground lipgloss.Color
	WindowBackground lipgloss.Color

	// Pulse tints for views whose lifecycle changed recently.
	PulseShown  lipgloss.Color
	PulseHidden lipgloss.Color

	// Fuzzy match highlighting in the picker.
	MatchForeground lipgloss.Color

	// Status line.
	StuckForeground lipgloss.Color
	WarnForeground  lipgloss.Color
	ErrorForeground lipgloss.Color
}

// DefaultTheme suits 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	ViewForeground:   lipgloss.Color("75"),  // blue
	ButtonForeground: lipgloss.Color("114"), // green

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	WindowForeground: lipgloss.Color("252"),
	WindowBackground: lipgloss.Color("237"),

	PulseShown:  lipgloss.Color("58"), // dark amber
	PulseHidden: lipgloss.Color("52"), // dark red

	MatchForeground: lipgloss.Color("220"),

	StuckForeground: lipgloss.Color("220"),
	WarnForeground:  lipgloss.Color("208"),
	ErrorForeground: lipgloss.Color("196"),
}
