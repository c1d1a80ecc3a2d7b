// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"cmp"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/junegunn/fzf/src/util"

	"github.com/bureau-foundation/uiframe/lib/view"
)

// PickerOption is one destination offered by a Picker.
type PickerOption struct {
	Label string
	Kind  view.Kind
}

type pickerMatch struct {
	option    PickerOption
	score     int
	positions []int
}

// Picker is a fuzzy-filtered list of view kinds. The host feeds it the
// query text and routes up, down and enter to it while it is open.
type Picker struct {
	options []PickerOption
	query   string
	matches []pickerMatch
	cursor  int
	slab    *util.Slab
}

// NewPicker returns a picker over options with an empty query.
func NewPicker(options []PickerOption) *Picker {
	picker := &Picker{options: slices.Clone(options), slab: NewSlab()}
	picker.SetQuery("")
	return picker
}

// SetQuery refilters the options. An empty query lists every option in
// its original order; otherwise matches are ordered by score, best
// first. The cursor returns to the top.
func (p *Picker) SetQuery(query string) {
	p.query = query
	p.cursor = 0
	p.matches = p.matches[:0]

	pattern := []rune(strings.TrimSpace(query))
	if len(pattern) == 0 {
		for _, option := range p.options {
			p.matches = append(p.matches, pickerMatch{option: option})
		}
		return
	}
	for _, option := range p.options {
		result := FuzzyMatch(option.Label, pattern, p.slab)
		if result.Score > 0 {
			p.matches = append(p.matches, pickerMatch{option: option, score: result.Score, positions: result.Positions})
		}
	}
	slices.SortStableFunc(p.matches, func(a, b pickerMatch) int {
		return cmp.Compare(b.score, a.score)
	})
}

// Query returns the current query.
func (p *Picker) Query() string { return p.query }

// Matches returns the options passing the query, in display order.
func (p *Picker) Matches() []PickerOption {
	options := make([]PickerOption, len(p.matches))
	for index, match := range p.matches {
		options[index] = match.option
	}
	return options
}

// MoveUp moves the cursor up, wrapping to the bottom.
func (p *Picker) MoveUp() {
	if len(p.matches) == 0 {
		return
	}
	p.cursor--
	if p.cursor < 0 {
		p.cursor = len(p.matches) - 1
	}
}

// MoveDown moves the cursor down, wrapping to the top.
func (p *Picker) MoveDown() {
	if len(p.matches) == 0 {
		return
	}
	p.cursor++
	if p.cursor >= len(p.matches) {
		p.cursor = 0
	}
}

// Selected returns the option under the cursor. Reports false when
// nothing matches.
func (p *Picker) Selected() (PickerOption, bool) {
	if len(p.matches) == 0 {
		return PickerOption{}, false
	}
	return p.matches[p.cursor].option, true
}

// Render draws at most maxRows matches, keeping the cursor in view.
// Matched characters are highlighted. Every line has the same width.
func (p *Picker) Render(theme Theme, maxRows int) []string {
	if len(p.matches) == 0 {
		return []string{lipgloss.NewStyle().Foreground(theme.FaintText).Render("  no matching views  ")}
	}

	first := 0
	if maxRows > 0 && p.cursor >= maxRows {
		first = p.cursor - maxRows + 1
	}
	last := len(p.matches)
	if maxRows > 0 {
		last = min(last, first+maxRows)
	}

	width := 0
	for _, match := range p.matches[first:last] {
		width = max(width, ansi.StringWidth(match.option.Label))
	}

	lines := make([]string, 0, last-first)
	for index := first; index < last; index++ {
		match := p.matches[index]
		base := lipgloss.NewStyle().Foreground(theme.NormalText)
		marker := "  "
		if index == p.cursor {
			base = base.Background(theme.SelectedBackground).Foreground(theme.SelectedForeground)
			marker = "> "
		}
		highlight := base.Foreground(theme.MatchForeground).Bold(true)

		var line strings.Builder
		line.WriteString(base.Render(marker))
		matched := make(map[int]bool, len(match.positions))
		for _, position := range match.positions {
			matched[position] = true
		}
		for runeIndex, r := range []rune(match.option.Label) {
			if matched[runeIndex] {
				line.WriteString(highlight.Render(string(r)))
			} else {
				line.WriteString(base.Render(string(r)))
			}
		}
		line.WriteString(base.Render(strings.Repeat(" ", width-ansi.StringWidth(match.option.Label)+1)))
		lines = append(lines, line.String())
	}
	return lines
}
