// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// uiframe-demo is a terminal host for the frame engine. It shows three
// panels (home, settings, profile) and two windows (confirm, about)
// built from templates, and draws the engine's scene tree live:
// lifecycle changes pulse, slow loads show a spinner, and the go-to
// picker opens any registered view by fuzzy name.
//
// Templates are embedded; files in the configured assets directory
// replace them by kind. --latency delays every template load, which
// with a low stuck threshold makes stuck detection visible.
//
// --dump-state writes the engine state as a compressed CBOR snapshot
// when d is pressed and on exit. --inspect prints such a snapshot.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/uiframe/lib/clock"
	"github.com/bureau-foundation/uiframe/lib/config"
	"github.com/bureau-foundation/uiframe/lib/snapshot"
	"github.com/bureau-foundation/uiframe/lib/tui"
	"github.com/bureau-foundation/uiframe/lib/version"
)

// statusBuffer is how many warnings can wait for the status line.
const statusBuffer = 64

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath     string
	logOutput      string
	logLevel       string
	latency        time.Duration
	stuckThreshold time.Duration
	dumpPath       string
	compression    string
	inspectPath    string
}

// newFlagSet binds the demo's flags to opts.
func newFlagSet(opts *options) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("uiframe-demo", pflag.ContinueOnError)
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "configuration file (default: $"+config.EnvironmentVariable+", then built-in defaults)")
	flagSet.StringVar(&opts.logOutput, "log-output", "", "write JSON log records to this file (in addition to the status line)")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "log level for --log-output: debug, info, warn, error")
	flagSet.DurationVar(&opts.latency, "latency", 0, "delay every template load by this long")
	flagSet.DurationVar(&opts.stuckThreshold, "stuck-threshold", 0, "report Show and Hide calls running longer than this")
	flagSet.StringVar(&opts.dumpPath, "dump-state", "", "write a state snapshot here on d and on exit")
	flagSet.StringVar(&opts.compression, "compression", "zstd", "snapshot compression: none, lz4, zstd")
	flagSet.StringVar(&opts.inspectPath, "inspect", "", "print the snapshot at this path and exit")
	flagSet.BoolP("help", "h", false, "show help")
	return flagSet
}

func run(args []string) error {
	var opts options
	flagSet := newFlagSet(&opts)

	if len(args) > 0 && args[0] == "--version" {
		version.Fprint(os.Stdout, "uiframe-demo")
		return nil
	}

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	if opts.inspectPath != "" {
		return inspect(os.Stdout, opts.inspectPath)
	}

	compression, err := snapshot.ParseCompression(opts.compression)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(opts, flagSet)
	if err != nil {
		return err
	}

	status := tui.NewStatusHandler(slog.LevelWarn, statusBuffer)
	var handler slog.Handler = status
	if cfg.Log.Output != "" {
		fileHandler, closeFile, err := openFileLogHandler(cfg.Log.Output, cfg.SlogLevel())
		if err != nil {
			return fmt.Errorf("cannot open log file %s: %w", cfg.Log.Output, err)
		}
		defer closeFile()
		handler = fanoutHandler{status, fileHandler}
	}
	logger := slog.New(handler)

	a, err := newApp(cfg, logger, clock.Real())
	if err != nil {
		return err
	}
	a.start()

	program := tea.NewProgram(newModel(a, status, opts.dumpPath, compression), tea.WithAltScreen())
	_, runErr := program.Run()

	if opts.dumpPath != "" {
		if err := snapshot.WriteFile(opts.dumpPath, a.engine.Snapshot(), compression); err != nil {
			// The status line is gone; report on stderr.
			slog.New(newStderrHandler(slog.LevelError)).Error("final state dump failed", "path", opts.dumpPath, "error", err)
		}
	}
	a.close()
	return runErr
}

// loadConfig reads the configuration and applies flag overrides.
func loadConfig(opts options, flagSet *pflag.FlagSet) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case opts.configPath != "":
		cfg, err = config.LoadFile(opts.configPath)
	case os.Getenv(config.EnvironmentVariable) != "":
		cfg, err = config.Load()
	default:
		cfg, err = config.Parse(nil)
	}
	if err != nil {
		return nil, err
	}

	if flagSet.Changed("log-output") {
		cfg.Log.Output = opts.logOutput
	}
	if flagSet.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flagSet.Changed("latency") {
		cfg.Assets.Latency = opts.latency
	}
	if flagSet.Changed("stuck-threshold") {
		cfg.Engine.StuckThreshold = opts.stuckThreshold
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// inspect prints a snapshot's header and its state as indented JSON.
func inspect(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	header, _, err := snapshot.ReadHeader(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	state, err := snapshot.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	encoded, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "# snapshot version %d, compression %s, payload %d bytes\n", header.Version, header.Compression, header.Size)
	fmt.Fprintf(w, "%s\n", encoded)
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `uiframe-demo: terminal host for the frame lifecycle engine.

Shows panels and windows from templates and draws the live scene
tree. Press g to open any view by name, esc to go back, ? for keys.

Usage:
  uiframe-demo [flags]

Examples:
  # Make every load slow enough to be reported stuck
  uiframe-demo --latency 2s --stuck-threshold 500ms

  # Keep a state snapshot and read it afterwards
  uiframe-demo --dump-state /tmp/frame.snap
  uiframe-demo --inspect /tmp/frame.snap

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
