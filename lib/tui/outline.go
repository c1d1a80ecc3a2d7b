// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/uiframe/lib/scene"
)

// OutlineOptions controls RenderOutline.
type OutlineOptions struct {
	// Focus is the button drawn as selected.
	Focus *scene.Element

	// Pulse, when set, tints views that changed recently as of Now.
	Pulse *Pulse
	Now   time.Time

	// Width truncates lines; zero leaves them as is.
	Width int

	// Height limits the rows drawn, starting at Offset. A scrollbar is
	// drawn in the last column when rows do not fit. Zero draws all.
	Height int
	Offset int
}

// RenderOutline draws scene rows, one line each, indented by depth.
func RenderOutline(theme Theme, rows []scene.Row, options OutlineOptions) []string {
	visible := rows
	offset := 0
	scrolling := options.Height > 0 && len(rows) > options.Height
	if scrolling {
		offset = min(max(options.Offset, 0), len(rows)-options.Height)
		visible = rows[offset : offset+options.Height]
	}

	width := options.Width
	if scrolling && width > 0 {
		width--
	}

	lines := make([]string, len(visible))
	for index, row := range visible {
		line := strings.Repeat("  ", row.Depth) + renderRow(theme, row, options)
		if width > 0 {
			line = ansi.Truncate(line, width, "…")
			line += strings.Repeat(" ", max(width-ansi.StringWidth(line), 0))
		}
		lines[index] = line
	}

	if scrolling {
		bar := scrollbar(theme, options.Height, len(rows), options.Height, offset)
		for index := range lines {
			lines[index] += bar[index]
		}
	}
	return lines
}

func renderRow(theme Theme, row scene.Row, options OutlineOptions) string {
	switch {
	case row.Button:
		label := row.Text
		if label == "" {
			label = strings.TrimPrefix(row.Name, "@")
		}
		style := lipgloss.NewStyle().Foreground(theme.ButtonForeground)
		if row.Element == options.Focus && options.Focus != nil {
			style = style.
				Background(theme.SelectedBackground).
				Foreground(theme.SelectedForeground).
				Bold(true)
		}
		return style.Render("[ " + label + " ]")

	case row.Kind != "":
		style := lipgloss.NewStyle().Foreground(theme.ViewForeground).Bold(true)
		if options.Pulse != nil {
			if intensity, kind := options.Pulse.Intensity(row.Kind, options.Now); intensity > 0 {
				tint := theme.PulseShown
				if kind == PulseHidden {
					tint = theme.PulseHidden
				}
				style = style.Background(tint)
			}
		}
		text := style.Render(row.Name)
		if row.Text != "" {
			text += " " + lipgloss.NewStyle().Foreground(theme.NormalText).Render(row.Text)
		}
		return text + " " + lipgloss.NewStyle().Foreground(theme.FaintText).Render("‹"+string(row.Kind)+"›")

	case row.Text != "":
		return lipgloss.NewStyle().Foreground(theme.NormalText).Render(row.Text)

	default:
		return lipgloss.NewStyle().Foreground(theme.FaintText).Render(row.Name)
	}
}

// Buttons returns the button elements of rows in drawing order.
func Buttons(rows []scene.Row) []*scene.Element {
	var buttons []*scene.Element
	for _, row := range rows {
		if row.Button {
			buttons = append(buttons, row.Element)
		}
	}
	return buttons
}

// ScrollTo returns the offset that keeps target visible in a window of
// height rows, moving as little as possible from offset.
func ScrollTo(rows []scene.Row, target *scene.Element, height, offset int) int {
	if height <= 0 {
		return 0
	}
	for index, row := range rows {
		if row.Element != target {
			continue
		}
		if index < offset {
			return index
		}
		if index >= offset+height {
			return index - height + 1
		}
		return offset
	}
	return offset
}

// scrollbar returns one cell per row of a vertical scrollbar.
func scrollbar(theme Theme, height, total, visible, offset int) []string {
	track := lipgloss.NewStyle().Foreground(theme.BorderColor).Render("│")
	thumb := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Render("┃")

	cells := make([]string, height)
	thumbSize := max(height*visible/total, 1)
	thumbOffset := 0
	if scrollable, travel := total-visible, height-thumbSize; scrollable > 0 && travel > 0 {
		thumbOffset = offset * travel / scrollable
	}
	thumbOffset = min(thumbOffset, height-thumbSize)

	for index := range cells {
		if index >= thumbOffset && index < thumbOffset+thumbSize {
			cells[index] = thumb
		} else {
			cells[index] = track
		}
	}
	return cells
}
