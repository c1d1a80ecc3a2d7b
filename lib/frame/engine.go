// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/bureau-foundation/uiframe/lib/autobind"
	"github.com/bureau-foundation/uiframe/lib/clock"
	"github.com/bureau-foundation/uiframe/lib/layer"
	"github.com/bureau-foundation/uiframe/lib/navstack"
	"github.com/bureau-foundation/uiframe/lib/registry"
	"github.com/bureau-foundation/uiframe/lib/timer"
	"github.com/bureau-foundation/uiframe/lib/view"
)

// AssetProvider supplies templates by kind.
type AssetProvider interface {
	// RequestAsset returns the template for kind. It may block; the
	// engine is unlocked while it does.
	RequestAsset(ctx context.Context, kind view.Kind) (view.Template, error)

	// ReleaseAsset reports that the instance of kind was destroyed.
	ReleaseAsset(kind view.Kind)
}

// Descriptor registers a view kind.
type Descriptor struct {
	Kind view.Kind

	// Panel puts the kind on the navigation stack.
	Panel bool

	// Window makes the kind an overlay in the given layer. Use
	// layer.Named to take the order from the configuration.
	Window *layer.Spec

	// Buttons and Timers are bound while an instance is bound.
	Buttons []autobind.Button
	Timers  []autobind.Timer

	// Retain keeps hidden instances cached instead of destroying
	// them. A view implementing view.AutoDestroyer overrides this.
	Retain bool
}

// Config configures an Engine.
type Config struct {
	// Root receives one container per layer. Required.
	Root view.Container

	// NewLayer creates layer containers. Required.
	NewLayer layer.Factory

	// Assets supplies templates for panels and windows. Required.
	Assets AssetProvider

	// Clock times stuck detection. Defaults to clock.Real().
	Clock clock.Clock

	// Logger defaults to discarding.
	Logger *slog.Logger

	// StuckThreshold is how long a Show or Hide may run before stuck
	// observers are told. Zero disables stuck detection.
	StuckThreshold time.Duration

	// Layers predeclares layer orders by name. The panel layer is
	// order 0 unless declared here.
	Layers map[string]int
}

// Engine is the lifecycle orchestrator. Safe for concurrent use.
// Panel transitions (Show of a panel, HideCurrent, Hide of a panel)
// run one at a time; a transition waiting its turn
// holds no lock. Windows and sub-views do not wait for them.
type Engine struct {
	assets         AssetProvider
	clock          clock.Clock
	logger         *slog.Logger
	stuckThreshold time.Duration
	scheduler      *timer.Scheduler
	binder         *autobind.Binder

	// mu is held for the whole of every operation except while
	// waiting on an asset or on another operation's load.
	mu          sync.Mutex
	closed      bool
	arena       *view.Arena
	registry    *registry.Registry
	stack       navstack.Stack
	layers      *layer.Manager
	descriptors map[view.Kind]Descriptor
	deferred    []view.Visual
	loader      engineLoader

	// transition is closed when the panel transition in flight
	// finishes; nil when none is.
	transition chan struct{}

	hooksMu        sync.RWMutex
	nextHook       int
	observers      map[int]func(Event)
	stuckObservers map[int]func(StuckEvent)
}

// New returns an engine with no registered kinds.
func New(config Config) (*Engine, error) {
	if config.Root == nil || config.NewLayer == nil || config.Assets == nil {
		return nil, errors.New("frame: Root, NewLayer and Assets are required")
	}
	if config.StuckThreshold < 0 {
		return nil, fmt.Errorf("frame: negative stuck threshold %v", config.StuckThreshold)
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	e := &Engine{
		assets:         config.Assets,
		clock:          config.Clock,
		logger:         config.Logger,
		stuckThreshold: config.StuckThreshold,
		scheduler:      timer.NewScheduler(config.Logger),
		arena:          view.NewArena(),
		registry:       registry.New(),
		layers:         layer.NewManager(config.Root, config.NewLayer),
		descriptors:    make(map[view.Kind]Descriptor),
		observers:      make(map[int]func(Event)),
		stuckObservers: make(map[int]func(StuckEvent)),
	}
	e.loader = engineLoader{engine: e}
	e.binder = autobind.NewBinder(e.table, e.scheduler, config.Logger)

	for _, name := range slices.Sorted(maps.Keys(config.Layers)) {
		if err := e.layers.Declare(layer.Spec{Name: name, Order: config.Layers[name]}); err != nil {
			return nil, fmt.Errorf("frame: %w", err)
		}
	}
	if !e.layers.Declared(layer.Panel) {
		if err := e.layers.Declare(layer.PanelSpec); err != nil {
			return nil, fmt.Errorf("frame: %w", err)
		}
	}
	return e, nil
}

// table resolves autobind tables. Called with e.mu held.
func (e *Engine) table(kind view.Kind) (autobind.Table, bool) {
	descriptor, ok := e.descriptors[kind]
	if !ok {
		return autobind.Table{}, false
	}
	return autobind.Table{Buttons: descriptor.Buttons, Timers: descriptor.Timers}, true
}

// Register adds a kind. Sub-view kinds need registering only when they
// declare buttons or timers.
func (e *Engine) Register(descriptor Descriptor) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if descriptor.Kind == "" {
		return errors.New("frame: descriptor kind is empty")
	}
	if descriptor.Panel && descriptor.Window != nil {
		return fmt.Errorf("%w: %s", ErrDualClassification, descriptor.Kind)
	}
	if _, exists := e.descriptors[descriptor.Kind]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKind, descriptor.Kind)
	}
	if descriptor.Window != nil {
		resolved, err := e.layers.Resolve(*descriptor.Window)
		if err != nil {
			return fmt.Errorf("registering %s: %w", descriptor.Kind, err)
		}
		descriptor.Window = &resolved
	}
	e.descriptors[descriptor.Kind] = descriptor
	e.logger.Debug("view kind registered",
		"kind", descriptor.Kind,
		"panel", descriptor.Panel,
		"window", descriptor.Window != nil,
	)
	return nil
}

// IsPanel reports whether kind is registered as a panel.
func (e *Engine) IsPanel(kind view.Kind) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.descriptors[kind].Panel
}

// IsWindow reports whether kind is registered as a window.
func (e *Engine) IsWindow(kind view.Kind) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.descriptors[kind].Window != nil
}

// Get returns the live instance of kind, or nil.
func (e *Engine) Get(kind view.Kind) view.View {
	v, _ := e.TryGet(kind)
	return v
}

// TryGet returns the live instance of kind.
func (e *Engine) TryGet(kind view.Kind) (view.View, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, ok := e.registry.Get(kind)
	if !ok {
		return nil, false
	}
	return e.arena.Node(id).View, true
}

// GetAs returns the live instance of kind as a T.
func GetAs[T view.View](e *Engine, kind view.Kind) (T, bool) {
	v, ok := e.TryGet(kind)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// GetAll returns the live instances whose kind satisfies match, sorted
// by kind. A nil match returns every instance.
func (e *Engine) GetAll(match func(view.Kind) bool) []view.View {
	e.mu.Lock()
	defer e.mu.Unlock()
	var views []view.View
	for _, entry := range e.registry.Entries() {
		if match != nil && !match(entry.Kind) {
			continue
		}
		views = append(views, e.arena.Node(entry.Root).View)
	}
	return views
}

// CurrentPanel returns the instance of the panel on top of the stack.
// Reports false when the stack is empty or that instance was
// destroyed.
func (e *Engine) CurrentPanel() (view.View, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, id, ok := e.currentPanelLocked()
	if !ok {
		return nil, false
	}
	return e.arena.Node(id).View, true
}

func (e *Engine) currentPanelLocked() (view.Kind, view.NodeID, bool) {
	top, ok := e.stack.Peek()
	if !ok {
		return "", view.NodeID{}, false
	}
	id, ok := e.registry.Get(top.Kind)
	return top.Kind, id, ok
}

// Stack returns the navigation history, bottom first.
func (e *Engine) Stack() []navstack.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.Entries()
}

// Parent returns the nearest enclosing view of v.
func (e *Engine) Parent(v view.View) (view.View, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, ok := e.arena.Lookup(v)
	if !ok {
		return nil, false
	}
	parent := e.arena.Node(e.arena.Node(id).Parent)
	if parent == nil {
		return nil, false
	}
	return parent.View, true
}

// Children returns the views directly enclosed by v.
func (e *Engine) Children(v view.View) []view.View {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, ok := e.arena.Lookup(v)
	if !ok {
		return nil
	}
	children := e.arena.Node(id).Children
	views := make([]view.View, len(children))
	for i, child := range children {
		views[i] = e.arena.Node(child).View
	}
	return views
}

// CreateTimer schedules callback on the engine's frame ticks. The
// timer is not tied to any view; cancel it when done.
func (e *Engine) CreateTimer(delay time.Duration, callback func(), loop bool) (*timer.Timer, error) {
	var options []timer.Option
	if loop {
		options = append(options, timer.Looping())
	}
	return e.scheduler.Create(delay, callback, options...)
}

// Tick advances the frame: views queued by Destroy are released, then
// timers advance by dt. Timer callbacks run without the engine lock.
func (e *Engine) Tick(dt time.Duration) {
	e.mu.Lock()
	e.flushDeferredLocked()
	e.mu.Unlock()

	e.scheduler.Tick(dt)
}

// Close destroys every instance, cancels every timer and rejects
// further operations. Operations waiting on assets return ErrClosed
// when they resume.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	for _, entry := range e.registry.Entries() {
		e.destroyLocked(entry.Root, false)
	}
	e.stack.Clear()
	e.flushDeferredLocked()
	e.scheduler.CancelAll()
	e.logger.Debug("engine closed")
	return nil
}
