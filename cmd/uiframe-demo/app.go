// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/bureau-foundation/uiframe/lib/clock"
	"github.com/bureau-foundation/uiframe/lib/config"
	"github.com/bureau-foundation/uiframe/lib/frame"
	"github.com/bureau-foundation/uiframe/lib/layer"
	"github.com/bureau-foundation/uiframe/lib/scene"
	"github.com/bureau-foundation/uiframe/lib/timer"
	"github.com/bureau-foundation/uiframe/lib/view"
)

//go:embed templates
var embeddedTemplates embed.FS

// notificationBuffer bounds the lifecycle and stuck queues between the
// engine and the TUI. Notifications beyond it are dropped.
const notificationBuffer = 256

// app owns the engine and everything wired to it. The TUI model reads
// the scene tree directly and drives the engine through app.
type app struct {
	ctx    context.Context
	cancel context.CancelFunc

	engine  *frame.Engine
	library *scene.Library
	root    *scene.Element
	driver  *timer.Driver
	clock   clock.Clock
	logger  *slog.Logger

	// Observers run with the engine locked; they only enqueue.
	lifecycle chan frame.Event
	stuck     chan frame.StuckEvent
	removers  []func()

	quit     chan struct{}
	quitOnce sync.Once
}

// newApp builds the engine, loads templates and registers the demo's
// kinds. Nothing runs until start.
func newApp(cfg *config.Config, logger *slog.Logger, clk clock.Clock) (*app, error) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &app{
		ctx:       ctx,
		cancel:    cancel,
		root:      scene.NewElement("Screen"),
		clock:     clk,
		logger:    logger,
		lifecycle: make(chan frame.Event, notificationBuffer),
		stuck:     make(chan frame.StuckEvent, notificationBuffer),
		quit:      make(chan struct{}),
	}

	a.library = scene.NewLibrary(factory(a),
		scene.WithClock(clk),
		scene.WithLatency(cfg.Assets.Latency),
		scene.WithLogger(logger.With("component", "assets")),
	)
	if err := loadTemplates(a.library, cfg.Assets.Directory, logger); err != nil {
		cancel()
		return nil, err
	}

	engine, err := frame.New(frame.Config{
		Root:           a.root,
		NewLayer:       func(spec layer.Spec) view.Container { return scene.NewElement(spec.Name) },
		Assets:         a.library,
		Clock:          clk,
		Logger:         logger.With("component", "frame"),
		StuckThreshold: cfg.Engine.StuckThreshold,
		Layers:         cfg.LayerOrders(),
	})
	if err != nil {
		cancel()
		return nil, err
	}
	a.engine = engine

	for _, descriptor := range descriptors() {
		if err := engine.Register(descriptor); err != nil {
			engine.Close()
			cancel()
			return nil, err
		}
	}

	a.removers = append(a.removers,
		engine.Observe(func(event frame.Event) {
			select {
			case a.lifecycle <- event:
			default:
			}
		}),
		engine.ObserveStuck(func(event frame.StuckEvent) {
			select {
			case a.stuck <- event:
			default:
			}
		}),
	)

	a.driver = timer.NewDriver(engine,
		timer.WithInterval(cfg.Engine.FrameInterval),
		timer.WithClock(clk),
		timer.WithLogger(logger.With("component", "driver")),
	)
	return a, nil
}

// loadTemplates registers the embedded templates, then any found in
// directory, which replace embedded ones of the same kind. A missing
// directory is not an error.
func loadTemplates(library *scene.Library, directory string, logger *slog.Logger) error {
	err := fs.WalkDir(embeddedTemplates, "templates", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		data, err := embeddedTemplates.ReadFile(path)
		if err != nil {
			return err
		}
		file, err := scene.Parse(path, data)
		if err != nil {
			return err
		}
		if _, _, err := library.Add(file); err != nil {
			return fmt.Errorf("embedded template %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading embedded templates: %w", err)
	}

	if directory == "" {
		return nil
	}
	changed, err := library.LoadDir(directory)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("template directory absent, using embedded templates", "directory", directory)
		return nil
	}
	if err != nil {
		return err
	}
	if len(changed) > 0 {
		logger.Info("templates loaded from directory", "directory", directory, "kinds", changed)
	}
	return nil
}

// start begins ticking timers.
func (a *app) start() {
	a.driver.Start(a.ctx)
}

// close stops the driver and tears the engine down. In-flight loads
// return ErrClosed.
func (a *app) close() {
	a.cancel()
	a.driver.Stop()
	if err := a.engine.Close(); err != nil {
		a.logger.Error("closing engine", "error", err)
	}
	for _, remove := range a.removers {
		remove()
	}
}

// requestQuit asks the TUI to exit. Safe to call more than once.
func (a *app) requestQuit() {
	a.quitOnce.Do(func() { close(a.quit) })
}

func (a *app) show(kind view.Kind, data view.Data) {
	if err := a.engine.Show(a.ctx, kind, data); err != nil {
		a.logger.Error("show failed", "kind", kind, "error", err)
	}
}

func (a *app) hide(kind view.Kind) {
	if err := a.engine.Hide(a.ctx, kind); err != nil {
		a.logger.Error("hide failed", "kind", kind, "error", err)
	}
}

// back returns to the previous panel. The first panel is never left.
func (a *app) back() {
	if len(a.engine.Stack()) < 2 {
		a.logger.Warn("already at the first panel")
		return
	}
	if err := a.engine.HideCurrent(a.ctx); err != nil {
		a.logger.Error("back failed", "error", err)
	}
}

func (a *app) refresh(kind view.Kind, data view.Data) {
	if err := a.engine.Refresh(a.ctx, kind, data); err != nil {
		a.logger.Error("refresh failed", "kind", kind, "error", err)
	}
}

func (a *app) showView(v view.View) {
	if err := a.engine.ShowView(a.ctx, v, nil); err != nil {
		a.logger.Error("show sub-view failed", "kind", v.Kind(), "error", err)
	}
}

func (a *app) hideView(v view.View) {
	if err := a.engine.HideView(a.ctx, v); err != nil {
		a.logger.Error("hide sub-view failed", "kind", v.Kind(), "error", err)
	}
}

// screenLayer is one layer container and the visible instances in it,
// bottom to top.
type screenLayer struct {
	name      string
	instances []*scene.Element
}

// screen lists the layers under the root with their active
// instances.
func (a *app) screen() []screenLayer {
	var layers []screenLayer
	for _, container := range a.root.Elements() {
		entry := screenLayer{name: container.Name()}
		for _, instance := range container.Elements() {
			if instance.Active() && !instance.Destroyed() {
				entry.instances = append(entry.instances, instance)
			}
		}
		layers = append(layers, entry)
	}
	return layers
}
