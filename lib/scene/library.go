// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scene

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/bureau-foundation/uiframe/lib/clock"
	"github.com/bureau-foundation/uiframe/lib/view"
)

// ErrUnknownKind is returned when no template is registered for a kind.
var ErrUnknownKind = errors.New("no template for view kind")

// LibraryOption configures a Library.
type LibraryOption func(*Library)

// WithClock sets the clock used for simulated latency.
func WithClock(c clock.Clock) LibraryOption {
	return func(l *Library) { l.clock = c }
}

// WithLatency delays every RequestAsset by d.
func WithLatency(d time.Duration) LibraryOption {
	return func(l *Library) { l.latency = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) LibraryOption {
	return func(l *Library) { l.logger = logger }
}

// Library holds templates by kind and serves them as assets.
// Safe for concurrent use.
type Library struct {
	factory Factory
	clock   clock.Clock
	logger  *slog.Logger

	mu        sync.Mutex
	latency   time.Duration
	templates map[view.Kind]*Template
	requests  map[view.Kind]int
	releases  map[view.Kind]int
}

// NewLibrary returns an empty library creating views from factory.
func NewLibrary(factory Factory, options ...LibraryOption) *Library {
	library := &Library{
		factory:   factory,
		clock:     clock.Real(),
		logger:    slog.New(slog.DiscardHandler),
		templates: make(map[view.Kind]*Template),
		requests:  make(map[view.Kind]int),
		releases:  make(map[view.Kind]int),
	}
	for _, option := range options {
		option(library)
	}
	return library
}

// Add validates file and registers it, replacing any template of the
// same kind. Reports whether the template is new or its digest
// changed.
func (l *Library) Add(file File) (*Template, bool, error) {
	if err := file.Validate(l.factory); err != nil {
		return nil, false, err
	}
	template := &Template{
		Kind:    view.Kind(file.Kind),
		Root:    file.Root,
		Digest:  file.Digest(),
		factory: l.factory,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	previous, existed := l.templates[template.Kind]
	changed := !existed || previous.Digest != template.Digest
	l.templates[template.Kind] = template
	if existed && changed {
		l.logger.Info("template changed", "kind", template.Kind, "digest", template.Digest.String())
	}
	return template, changed, nil
}

// LoadFile reads, validates and registers one template file.
func (l *Library) LoadFile(path string) (*Template, bool, error) {
	file, err := ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	template, changed, err := l.Add(file)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	return template, changed, nil
}

// LoadDir registers every template file in dir and returns the kinds
// that are new or changed. Files with other extensions are ignored.
// All files are attempted; errors are joined.
func (l *Library) LoadDir(dir string) ([]view.Kind, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading template directory: %w", err)
	}
	var (
		changed []view.Kind
		errs    []error
	)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml", ".json", ".jsonc":
		default:
			continue
		}
		template, isChanged, err := l.LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if isChanged {
			changed = append(changed, template.Kind)
		}
	}
	return changed, errors.Join(errs...)
}

// Template returns the template for kind.
func (l *Library) Template(kind view.Kind) (*Template, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	template, ok := l.templates[kind]
	return template, ok
}

// Kinds returns the registered kinds sorted.
func (l *Library) Kinds() []view.Kind {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Sorted(maps.Keys(l.templates))
}

// SetLatency changes the simulated latency for later requests.
func (l *Library) SetLatency(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.latency = d
}

// RequestAsset returns the template for kind after the configured
// latency. Returns ctx.Err() if ctx ends first.
func (l *Library) RequestAsset(ctx context.Context, kind view.Kind) (view.Template, error) {
	l.mu.Lock()
	l.requests[kind]++
	latency := l.latency
	template, ok := l.templates[kind]
	l.mu.Unlock()

	if latency > 0 {
		ready := make(chan struct{})
		timer := l.clock.AfterFunc(latency, func() { close(ready) })
		select {
		case <-ready:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	l.logger.Debug("asset requested", "kind", kind, "digest", template.Digest.String())
	return template, nil
}

// ReleaseAsset records that the engine no longer holds an instance of
// kind.
func (l *Library) ReleaseAsset(kind view.Kind) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.releases[kind]++
	l.logger.Debug("asset released", "kind", kind)
}

// Requests returns how many times kind was requested.
func (l *Library) Requests(kind view.Kind) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.requests[kind]
}

// Releases returns how many times kind was released.
func (l *Library) Releases(kind view.Kind) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.releases[kind]
}
