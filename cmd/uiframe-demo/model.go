// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/uiframe/lib/frame"
	"github.com/bureau-foundation/uiframe/lib/navstack"
	"github.com/bureau-foundation/uiframe/lib/scene"
	"github.com/bureau-foundation/uiframe/lib/snapshot"
	"github.com/bureau-foundation/uiframe/lib/tui"
	"github.com/bureau-foundation/uiframe/lib/view"
)

// Engine operations can block on asset loads, so Update never calls
// Show, Hide or Click directly: each runs in a command and reports
// back with opDoneMsg.
type opDoneMsg struct {
	label string
}

type lifecycleMsg frame.Event

type stuckMsg frame.StuckEvent

type quitMsg struct{}

type pulseTickMsg time.Time

type statusFadeMsg struct {
	sequence int
}

type dumpDoneMsg struct {
	path string
	err  error
}

// headerHeight is the breadcrumb line plus a rule.
const headerHeight = 2

// pickerRows is the most matches the go-to picker draws.
const pickerRows = 8

// model is the bubbletea model of the demo. It renders the scene tree
// under the engine's root: the panel layer fills the screen and each
// window is a framed box on top, in layer order.
type model struct {
	app    *app
	status *tui.StatusHandler
	theme  tui.Theme

	keys       KeyMap
	pickerKeys PickerKeyMap
	help       help.Model
	spinner    spinner.Model
	spinning   bool

	width  int
	height int

	// focus is the selected button of the topmost instance.
	focus  *scene.Element
	offset int
	stack  []navstack.Entry

	picker *tui.Picker
	query  textinput.Model

	pulse   *tui.Pulse
	pulsing bool

	// stuck lists kinds whose Show or Hide passed the threshold, in
	// the order they got stuck.
	stuck []view.Kind

	statusText     string
	statusLevel    slog.Level
	statusSequence int

	dumpPath    string
	compression snapshot.Compression
}

func newModel(a *app, status *tui.StatusHandler, dumpPath string, compression snapshot.Compression) model {
	return model{
		app:         a,
		status:      status,
		theme:       tui.DefaultTheme,
		keys:        DefaultKeyMap,
		pickerKeys:  DefaultPickerKeyMap,
		help:        help.New(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		pulse:       tui.NewPulse(),
		dumpPath:    dumpPath,
		compression: compression,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.listenLifecycle(),
		m.listenStuck(),
		m.listenQuit(),
		m.status.Listen(),
		m.run("show home", func() { m.app.show(kindHome, &homeData{}) }),
	)
}

// run executes fn off the event loop.
func (m model) run(label string, fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return opDoneMsg{label: label}
	}
}

func (m model) listenLifecycle() tea.Cmd {
	events := m.app.lifecycle
	return func() tea.Msg { return lifecycleMsg(<-events) }
}

func (m model) listenStuck() tea.Cmd {
	events := m.app.stuck
	return func() tea.Msg { return stuckMsg(<-events) }
}

func (m model) listenQuit() tea.Cmd {
	quit := m.app.quit
	return func() tea.Msg {
		<-quit
		return quitMsg{}
	}
}

func pulseTick() tea.Cmd {
	return tea.Tick(tui.PulseTickInterval, func(now time.Time) tea.Msg { return pulseTickMsg(now) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.syncFocus()
		return m, nil

	case tea.KeyMsg:
		if m.picker != nil {
			return m.updatePicker(msg)
		}
		return m.updateKey(msg)

	case opDoneMsg:
		m.app.logger.Debug("operation finished", "operation", msg.label)
		m.syncFocus()
		return m, nil

	case lifecycleMsg:
		var cmds []tea.Cmd
		cmds = append(cmds, m.listenLifecycle())
		if cmd := m.ignite(frame.Event(msg)); cmd != nil {
			cmds = append(cmds, cmd)
		}
		m.syncFocus()
		return m, tea.Batch(cmds...)

	case pulseTickMsg:
		if m.pulse.Active(time.Time(msg)) {
			return m, pulseTick()
		}
		m.pulsing = false
		return m, nil

	case stuckMsg:
		cmds := []tea.Cmd{m.listenStuck()}
		switch msg.Phase {
		case frame.StuckStart:
			m.stuck = append(m.stuck, msg.Kind)
			if !m.spinning {
				m.spinning = true
				cmds = append(cmds, m.spinner.Tick)
			}
		case frame.StuckEnd:
			if index := slices.Index(m.stuck, msg.Kind); index >= 0 {
				m.stuck = slices.Delete(m.stuck, index, index+1)
			}
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if len(m.stuck) == 0 {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tui.StatusMsg:
		m.statusText = msg.Summary
		m.statusLevel = msg.Level
		m.statusSequence++
		sequence := m.statusSequence
		return m, tea.Batch(
			m.status.Listen(),
			tea.Tick(tui.StatusFadeDelay, func(time.Time) tea.Msg { return statusFadeMsg{sequence: sequence} }),
		)

	case statusFadeMsg:
		if msg.sequence == m.statusSequence {
			m.statusText = ""
		}
		return m, nil

	case dumpDoneMsg:
		if msg.err != nil {
			m.app.logger.Error("state dump failed", "path", msg.path, "error", msg.err)
		} else {
			m.app.logger.Warn("state dumped", "path", msg.path)
		}
		return m, nil

	case quitMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		m.moveFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.Previous):
		m.moveFocus(-1)
		return m, nil

	case key.Matches(msg, m.keys.Click):
		if m.focus == nil {
			return m, nil
		}
		element := m.focus
		return m, m.run("click "+element.Name(), func() {
			if !element.Click() {
				m.app.logger.Debug("click ignored", "button", element.Name())
			}
		})

	case key.Matches(msg, m.keys.Back):
		if window, ok := m.topWindow(); ok {
			kind := window.View().Kind()
			return m, m.run("hide "+string(kind), func() { m.app.hide(kind) })
		}
		return m, m.run("back", m.app.back)

	case key.Matches(msg, m.keys.GoTo):
		m.openPicker()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Release):
		engine, logger := m.app.engine, m.app.logger
		return m, m.run("release", func() {
			logger.Warn("released hidden views", "count", engine.Release())
		})

	case key.Matches(msg, m.keys.Dump):
		if m.dumpPath == "" {
			m.app.logger.Warn("no dump path; start with --dump-state PATH")
			return m, nil
		}
		return m, m.dump()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

func (m model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.pickerKeys.Cancel):
		m.picker = nil
		return m, nil

	case key.Matches(msg, m.pickerKeys.Up):
		m.picker.MoveUp()
		return m, nil

	case key.Matches(msg, m.pickerKeys.Down):
		m.picker.MoveDown()
		return m, nil

	case key.Matches(msg, m.pickerKeys.Select):
		selected, ok := m.picker.Selected()
		m.picker = nil
		if !ok {
			return m, nil
		}
		kind := selected.Kind
		return m, m.run("show "+string(kind), func() { m.app.show(kind, pickerData(kind)) })
	}

	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	m.picker.SetQuery(m.query.Value())
	return m, cmd
}

// openPicker lists every panel and window kind.
func (m *model) openPicker() {
	var options []tui.PickerOption
	for _, descriptor := range descriptors() {
		if descriptor.Panel || descriptor.Window != nil {
			options = append(options, tui.PickerOption{Label: title(descriptor.Kind), Kind: descriptor.Kind})
		}
	}
	m.picker = tui.NewPicker(options)
	m.query = textinput.New()
	m.query.Prompt = "› "
	m.query.Placeholder = "view name"
	m.query.Focus()
}

// pickerData is the payload a kind receives when opened from the
// picker.
func pickerData(kind view.Kind) view.Data {
	switch kind {
	case kindHome:
		return &homeData{}
	case kindSettings:
		return &settingsData{Volume: 5}
	case kindProfile:
		return &profileData{Name: profileNames[0]}
	case kindConfirm:
		return &confirmData{Question: "Opened from the picker. Close it?"}
	default:
		return nil
	}
}

func title(kind view.Kind) string {
	name := string(kind)
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func (m model) dump() tea.Cmd {
	path, compression, engine := m.dumpPath, m.compression, m.app.engine
	return func() tea.Msg {
		return dumpDoneMsg{path: path, err: snapshot.WriteFile(path, engine.Snapshot(), compression)}
	}
}

// ignite starts a pulse for visible lifecycle changes and returns the
// tick command when the pulse animation was idle.
func (m *model) ignite(event frame.Event) tea.Cmd {
	now := m.app.clock.Now()
	switch event.Phase {
	case frame.PhaseShow, frame.PhaseRefresh:
		m.pulse.Ignite(event.Kind, tui.PulseShown, now)
	case frame.PhaseHide, frame.PhaseDied:
		m.pulse.Ignite(event.Kind, tui.PulseHidden, now)
	default:
		return nil
	}
	if m.pulsing {
		return nil
	}
	m.pulsing = true
	return pulseTick()
}

// topWindow returns the topmost visible window instance.
func (m model) topWindow() (*scene.Element, bool) {
	layers := m.app.screen()
	for index := len(layers) - 1; index >= 0; index-- {
		if layers[index].name == "panel" {
			continue
		}
		if instances := layers[index].instances; len(instances) > 0 {
			return instances[len(instances)-1], true
		}
	}
	return nil, false
}

// topInstance is the instance receiving keys: the topmost window, or
// the current panel.
func (m model) topInstance() (*scene.Element, bool) {
	layers := m.app.screen()
	for index := len(layers) - 1; index >= 0; index-- {
		if instances := layers[index].instances; len(instances) > 0 {
			return instances[len(instances)-1], true
		}
	}
	return nil, false
}

func (m model) buttons() []*scene.Element {
	instance, ok := m.topInstance()
	if !ok {
		return nil
	}
	return tui.Buttons(instance.Outline())
}

// syncFocus keeps focus on a visible button of the top instance and
// refreshes the cached stack.
func (m *model) syncFocus() {
	m.stack = m.app.engine.Stack()
	buttons := m.buttons()
	if !slices.Contains(buttons, m.focus) {
		m.focus = nil
		if len(buttons) > 0 {
			m.focus = buttons[0]
		}
	}
	m.scrollToFocus()
}

func (m *model) moveFocus(delta int) {
	buttons := m.buttons()
	if len(buttons) == 0 {
		m.focus = nil
		return
	}
	index := slices.Index(buttons, m.focus)
	if index < 0 {
		m.focus = buttons[0]
	} else {
		m.focus = buttons[(index+delta+len(buttons))%len(buttons)]
	}
	m.scrollToFocus()
}

func (m *model) scrollToFocus() {
	if _, windowed := m.topWindow(); windowed || m.focus == nil {
		return
	}
	for _, instance := range m.panelInstances() {
		m.offset = tui.ScrollTo(instance.Outline(), m.focus, m.bodyHeight(), m.offset)
	}
}

func (m model) panelInstances() []*scene.Element {
	for _, layer := range m.app.screen() {
		if layer.name == "panel" {
			return layer.instances
		}
	}
	return nil
}

func (m model) footer() string {
	var status string
	switch {
	case len(m.stuck) > 0:
		names := make([]string, len(m.stuck))
		for index, kind := range m.stuck {
			names[index] = string(kind)
		}
		status = lipgloss.NewStyle().Foreground(m.theme.StuckForeground).
			Render(fmt.Sprintf("%s loading %s…", m.spinner.View(), strings.Join(names, ", ")))
	case m.statusText != "":
		color := m.theme.FaintText
		switch {
		case m.statusLevel >= slog.LevelError:
			color = m.theme.ErrorForeground
		case m.statusLevel >= slog.LevelWarn:
			color = m.theme.WarnForeground
		}
		status = lipgloss.NewStyle().Foreground(color).Render(m.statusText)
	}
	return status + "\n" + m.help.View(m.keys)
}

func (m model) bodyHeight() int {
	return max(m.height-headerHeight-lipgloss.Height(m.footer()), 1)
}

func (m model) header() string {
	kinds := make([]string, len(m.stack))
	for index, entry := range m.stack {
		kinds[index] = string(entry.Kind)
	}
	crumbs := strings.Join(kinds, " › ")
	if crumbs == "" {
		crumbs = "(no panel)"
	}
	style := lipgloss.NewStyle().Foreground(m.theme.HeaderForeground).Bold(true)
	rule := lipgloss.NewStyle().Foreground(m.theme.BorderColor).Render(strings.Repeat("─", max(m.width, 1)))
	return style.Render(crumbs) + "\n" + rule
}

func (m model) View() string {
	if m.width == 0 {
		return "starting…"
	}
	now := m.app.clock.Now()
	height := m.bodyHeight()
	_, windowed := m.topWindow()

	var body []string
	for _, instance := range m.panelInstances() {
		options := tui.OutlineOptions{
			Pulse:  m.pulse,
			Now:    now,
			Width:  m.width,
			Height: height,
			Offset: m.offset,
		}
		if !windowed {
			options.Focus = m.focus
		}
		body = append(body, tui.RenderOutline(m.theme, instance.Outline(), options)...)
	}
	if len(body) > height {
		body = body[:height]
	}
	for len(body) < height {
		body = append(body, "")
	}
	screen := strings.Join(body, "\n")

	stagger := 0
	for _, layer := range m.app.screen() {
		if layer.name == "panel" {
			continue
		}
		for _, instance := range layer.instances {
			rows := instance.Outline()
			if len(rows) == 0 {
				continue
			}
			content := tui.RenderOutline(m.theme, shiftRows(rows[1:]), tui.OutlineOptions{
				Focus: m.focus,
				Pulse: m.pulse,
				Now:   now,
			})
			box := tui.Box(m.theme, rows[0].Name, content, 30)
			x, y := tui.Center(m.width, height, lipgloss.Width(box[0]), len(box))
			screen = tui.Splice(screen, box, x+stagger, y+stagger)
			stagger += 2
		}
	}

	if m.picker != nil {
		lines := append([]string{m.query.View()}, m.picker.Render(m.theme, pickerRows)...)
		box := tui.Box(m.theme, "Go to view", lines, 36)
		x, _ := tui.Center(m.width, height, lipgloss.Width(box[0]), len(box))
		screen = tui.Splice(screen, box, x, 1)
	}

	return m.header() + "\n" + screen + "\n" + m.footer()
}

// shiftRows drops one level of indentation from rows below a window's
// root, which the box title already names.
func shiftRows(rows []scene.Row) []scene.Row {
	shifted := slices.Clone(rows)
	for index := range shifted {
		shifted[index].Depth = max(shifted[index].Depth-1, 0)
	}
	return shifted
}
