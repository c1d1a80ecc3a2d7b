// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the demo's key bindings.
type KeyMap struct {
	// Button focus within the topmost instance.
	Next     key.Binding
	Previous key.Binding
	Click    key.Binding

	// Navigation.
	Back key.Binding
	GoTo key.Binding

	// Maintenance.
	Release key.Binding
	Dump    key.Binding
	Help    key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Next: key.NewBinding(
		key.WithKeys("tab", "down", "j"),
		key.WithHelp("tab/↓", "next button"),
	),
	Previous: key.NewBinding(
		key.WithKeys("shift+tab", "up", "k"),
		key.WithHelp("S-tab/↑", "previous button"),
	),
	Click: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "click"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "b", "backspace"),
		key.WithHelp("esc/b", "back"),
	),
	GoTo: key.NewBinding(
		key.WithKeys("g", "/"),
		key.WithHelp("g", "go to view"),
	),
	Release: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "release hidden"),
	),
	Dump: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "dump state"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Click, k.Back, k.GoTo, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Previous, k.Click},
		{k.Back, k.GoTo},
		{k.Release, k.Dump},
		{k.Help, k.Quit},
	}
}

// PickerKeyMap holds the bindings active while the go-to picker is
// open. Other keys go to the query input.
type PickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

// DefaultPickerKeyMap is the built-in picker binding set.
var DefaultPickerKeyMap = PickerKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "show"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "cancel"),
	),
}
