// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/uiframe/lib/snapshot"
	"github.com/bureau-foundation/uiframe/lib/testutil"
)

func TestLoadConfigFlagOverrides(t *testing.T) {
	path := testutil.WriteFile(t, "uiframe.yaml", `
engine:
  stuck_threshold: 2s
assets:
  latency: 10ms
log:
  level: debug
`)
	var opts options
	flagSet := newFlagSet(&opts)
	if err := flagSet.Parse([]string{"--config", path, "--latency", "750ms", "--log-level", "warn"}); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}
	cfg, err := loadConfig(opts, flagSet)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Assets.Latency != 750*time.Millisecond {
		t.Fatalf("latency = %v, want the flag's 750ms", cfg.Assets.Latency)
	}
	if cfg.Engine.StuckThreshold != 2*time.Second {
		t.Fatalf("stuck threshold = %v, want the file's 2s", cfg.Engine.StuckThreshold)
	}
	if cfg.SlogLevel() != slog.LevelWarn {
		t.Fatalf("level = %v, want warn", cfg.SlogLevel())
	}
}

func TestLoadConfigRejectsBadOverride(t *testing.T) {
	t.Setenv("UIFRAME_CONFIG", "")
	var opts options
	flagSet := newFlagSet(&opts)
	if err := flagSet.Parse([]string{"--stuck-threshold=-1s"}); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}
	if _, err := loadConfig(opts, flagSet); err == nil || !strings.Contains(err.Error(), "stuck_threshold") {
		t.Fatalf("loadConfig error = %v, want a stuck_threshold complaint", err)
	}
}

func TestInspect(t *testing.T) {
	a, _ := newTestApp(t, nil)
	a.show(kindHome, &homeData{})
	a.show(kindSettings, &settingsData{Volume: 1})

	path := filepath.Join(t.TempDir(), "frame.snap")
	if err := snapshot.WriteFile(path, a.engine.Snapshot(), snapshot.CompressionZstd); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var output bytes.Buffer
	if err := inspect(&output, path); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	text := output.String()
	if !strings.HasPrefix(text, "# snapshot version 1") {
		t.Fatalf("header line missing:\n%s", text)
	}
	for _, want := range []string{`"current": "settings"`, `"sender": "home"`} {
		if !strings.Contains(text, want) {
			t.Fatalf("output lacks %s:\n%s", want, text)
		}
	}
}

func TestInspectRejectsGarbage(t *testing.T) {
	path := testutil.WriteFile(t, "garbage.snap", "not a snapshot")
	var output bytes.Buffer
	if err := inspect(&output, path); err == nil {
		t.Fatal("inspect accepted garbage")
	}
	if output.Len() != 0 {
		t.Fatalf("inspect wrote output for garbage: %q", output.String())
	}
}

func TestFanoutHandler(t *testing.T) {
	var debug, warn bytes.Buffer
	logger := slog.New(fanoutHandler{
		slog.NewJSONHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}).With("component", "frame")

	logger.Debug("quiet")
	logger.Warn("loud", "kind", "settings")

	if strings.Count(debug.String(), "\n") != 2 {
		t.Fatalf("debug handler got:\n%s", debug.String())
	}
	if strings.Count(warn.String(), "\n") != 1 || !strings.Contains(warn.String(), `"component":"frame"`) {
		t.Fatalf("warn handler got:\n%s", warn.String())
	}
	if !logger.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("fanout disabled a level one handler accepts")
	}
}
