// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package autobind

import (
	"log/slog"
	"sync"

	"github.com/bureau-foundation/uiframe/lib/safecall"
	"github.com/bureau-foundation/uiframe/lib/timer"
	"github.com/bureau-foundation/uiframe/lib/view"
)

// Resolver returns the table registered for a kind.
type Resolver func(view.Kind) (Table, bool)

// Binder tracks handler bindings per node. Safe for concurrent use.
type Binder struct {
	resolve   Resolver
	scheduler *timer.Scheduler
	logger    *slog.Logger

	mu    sync.Mutex
	nodes map[view.NodeID]*binding
}

type binding struct {
	view    view.View
	kind    view.Kind
	buttons []widgetBinding
	timers  []Timer

	bound    bool
	removers []func()
	live     []*timer.Timer
}

type widgetBinding struct {
	widget  view.Clickable
	name    string
	handler Button
}

// NewBinder returns a binder resolving tables through resolve and
// scheduling timers on scheduler.
func NewBinder(resolve Resolver, scheduler *timer.Scheduler, logger *slog.Logger) *Binder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Binder{
		resolve:   resolve,
		scheduler: scheduler,
		logger:    logger,
		nodes:     make(map[view.NodeID]*binding),
	}
}

// Created records the bindings of node, replacing any previous record
// for the same handle.
func (b *Binder) Created(node *view.Node) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if previous, ok := b.nodes[node.ID]; ok {
		previous.release()
		delete(b.nodes, node.ID)
	}

	table, ok := b.resolve(node.Kind())
	if !ok || table.Empty() {
		return
	}

	record := &binding{view: node.View, kind: node.Kind(), timers: table.Timers}
	for _, button := range table.Buttons {
		widget, found := findWidget(node.Visual, button)
		if !found {
			b.logger.Debug("no widget for click handler",
				"kind", node.Kind(),
				"handler", button.Handler,
				"widget", button.WidgetName(),
			)
			continue
		}
		clickable, ok := view.ClickableOf(widget)
		if !ok {
			b.logger.Debug("widget is not clickable",
				"kind", node.Kind(),
				"handler", button.Handler,
				"widget", widget.Name(),
			)
			continue
		}
		record.buttons = append(record.buttons, widgetBinding{
			widget:  clickable,
			name:    widget.Name(),
			handler: button,
		})
	}
	b.nodes[node.ID] = record
}

// Bound attaches click handlers and starts timers for id. A node that
// is already bound is left as is.
func (b *Binder) Bound(id view.NodeID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	record, ok := b.nodes[id]
	if !ok || record.bound {
		return
	}
	record.bound = true

	for _, button := range record.buttons {
		handler := button.handler
		remove := button.widget.OnClick(func() {
			if err := safecall.Do(func() { handler.Invoke(record.view) }); err != nil {
				b.logger.Error("click handler failed",
					"kind", record.kind,
					"handler", handler.Handler,
					"error", err,
				)
			}
		})
		record.removers = append(record.removers, remove)
	}

	for _, spec := range record.timers {
		options := []timer.Option{timer.OwnedBy(id)}
		if spec.Loop {
			options = append(options, timer.Looping())
		}
		invoke := spec.Invoke
		live, err := b.scheduler.Create(spec.Delay, func() { invoke(record.view) }, options...)
		if err != nil {
			b.logger.Error("starting declared timer",
				"kind", record.kind,
				"timer", spec.Name,
				"error", err,
			)
			continue
		}
		record.live = append(record.live, live)
	}
}

// Unbound detaches click handlers and cancels timers for id.
func (b *Binder) Unbound(id view.NodeID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if record, ok := b.nodes[id]; ok {
		record.release()
	}
}

// Died forgets id.
func (b *Binder) Died(id view.NodeID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if record, ok := b.nodes[id]; ok {
		record.release()
		delete(b.nodes, id)
	}
}

// Bindings returns the widget names bound for id, in table order.
func (b *Binder) Bindings(id view.NodeID) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	record, ok := b.nodes[id]
	if !ok {
		return nil
	}
	names := make([]string, len(record.buttons))
	for i, button := range record.buttons {
		names[i] = button.name
	}
	return names
}

func (r *binding) release() {
	for _, remove := range r.removers {
		remove()
	}
	for _, live := range r.live {
		live.Cancel()
	}
	r.removers = nil
	r.live = nil
	r.bound = false
}

// findWidget searches the visual subtree under root breadth-first for
// the first widget matching button. Visuals carrying their own view
// belong to a nested view and are not entered.
func findWidget(root view.Visual, button Button) (view.Visual, bool) {
	queue := root.Children()
	for len(queue) > 0 {
		visual := queue[0]
		queue = queue[1:]
		if visual.View() != nil {
			continue
		}
		if button.matches(visual.Name()) {
			return visual, true
		}
		queue = append(queue, visual.Children()...)
	}
	return nil, false
}
