// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Splice draws overlay lines over base with the top-left corner at
// (x, y) in screen cells. Escape sequences in base survive on both
// sides of the overlay. Lines falling outside base are dropped; base
// lines shorter than x are padded with spaces.
func Splice(base string, overlay []string, x, y int) string {
	if len(overlay) == 0 {
		return base
	}
	if x < 0 {
		x = 0
	}

	baseLines := strings.Split(base, "\n")
	for index, line := range overlay {
		row := y + index
		if row < 0 || row >= len(baseLines) {
			continue
		}
		baseLine := baseLines[row]
		baseWidth := ansi.StringWidth(baseLine)

		var result strings.Builder
		if x > 0 {
			result.WriteString(ansi.Truncate(baseLine, x, ""))
			if baseWidth < x {
				result.WriteString(strings.Repeat(" ", x-baseWidth))
			}
		}
		result.WriteString("\x1b[0m")
		result.WriteString(line)
		result.WriteString("\x1b[0m")

		if end := x + ansi.StringWidth(line); end < baseWidth {
			result.WriteString(ansi.TruncateLeft(baseLine, end, ""))
		}
		baseLines[row] = result.String()
	}
	return strings.Join(baseLines, "\n")
}

// Center returns the corner that centers a width by height block on a
// screen, clamped to the screen's top-left.
func Center(screenWidth, screenHeight, width, height int) (x, y int) {
	return max((screenWidth-width)/2, 0), max((screenHeight-height)/2, 0)
}

// Box frames lines as a window: rounded border, title in the first
// row, solid background. Every returned line has the same width, at
// least minWidth.
func Box(theme Theme, title string, lines []string, minWidth int) []string {
	background := lipgloss.NewStyle().
		Background(theme.WindowBackground).
		Foreground(theme.WindowForeground)
	titleStyle := background.Bold(true).Foreground(theme.HeaderForeground)

	inner := ansi.StringWidth(title)
	for _, line := range lines {
		inner = max(inner, ansi.StringWidth(line))
	}
	inner = max(inner, minWidth-4)

	body := make([]string, 0, len(lines)+1)
	body = append(body, padLine(titleStyle.Render(title), inner, background))
	for _, line := range lines {
		body = append(body, padLine(line, inner, background))
	}

	framed := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		BorderBackground(theme.WindowBackground).
		Render(strings.Join(body, "\n"))
	return strings.Split(framed, "\n")
}

// padLine pads styled content to width plus one cell of margin on each
// side, filling with the background style.
func padLine(content string, width int, background lipgloss.Style) string {
	rightPad := max(width-ansi.StringWidth(content), 0)
	return background.Render(" ") + content + background.Render(strings.Repeat(" ", rightPad+1))
}
