// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the file read by [Load].
const EnvironmentVariable = "UIFRAME_CONFIG"

// Config is the complete configuration for an engine and its host.
type Config struct {
	// Engine tunes the lifecycle orchestrator.
	Engine EngineConfig `yaml:"engine"`

	// Layers predeclares layer orders. Windows registered with a layer
	// name listed here inherit its order.
	Layers []LayerConfig `yaml:"layers"`

	// Assets configures the template library.
	Assets AssetsConfig `yaml:"assets"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log"`
}

// EngineConfig tunes the lifecycle orchestrator.
type EngineConfig struct {
	// StuckThreshold is how long a Show or Hide may run before a
	// stuck-start notification. Zero disables stuck detection.
	StuckThreshold time.Duration `yaml:"stuck_threshold"`

	// FrameInterval is the period of the frame driver that ticks
	// timers and flushes deferred destroys.
	FrameInterval time.Duration `yaml:"frame_interval"`
}

// LayerConfig declares one layer.
type LayerConfig struct {
	Name  string `yaml:"name"`
	Order int    `yaml:"order"`
}

// AssetsConfig configures where templates come from.
type AssetsConfig struct {
	// Directory holds *.yaml, *.json and *.jsonc templates, one per
	// view kind, named after the kind.
	Directory string `yaml:"directory"`

	// Latency delays every template request. Used to exercise stuck
	// detection in the demo.
	Latency time.Duration `yaml:"latency"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Output is a file path for JSON logs. Empty means stderr.
	Output string `yaml:"output"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			StuckThreshold: time.Second,
			FrameInterval:  16 * time.Millisecond,
		},
		Layers: []LayerConfig{
			{Name: "panel", Order: 0},
			{Name: "window", Order: 100},
		},
		Assets: AssetsConfig{
			Directory: "${HOME}/.local/share/uiframe/templates",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the file named by UIFRAME_CONFIG.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set", EnvironmentVariable)
	}
	return LoadFile(path)
}

// LoadFile reads path over [Default], expands variables and
// validates the result.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML data over [Default], expands variables and
// validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.expandVariables()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// expandVariables expands ${VAR} patterns in path fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Assets.Directory = expandVars(c.Assets.Directory, vars)
	c.Log.Output = expandVars(c.Log.Output, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name, defaultValue := parts[1], parts[2]
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Engine.StuckThreshold < 0 {
		errs = append(errs, fmt.Errorf("engine.stuck_threshold must not be negative, got %v", c.Engine.StuckThreshold))
	}
	if c.Engine.FrameInterval <= 0 {
		errs = append(errs, fmt.Errorf("engine.frame_interval must be positive, got %v", c.Engine.FrameInterval))
	}
	if c.Assets.Latency < 0 {
		errs = append(errs, fmt.Errorf("assets.latency must not be negative, got %v", c.Assets.Latency))
	}

	seen := make(map[string]bool, len(c.Layers))
	for index, layer := range c.Layers {
		if layer.Name == "" {
			errs = append(errs, fmt.Errorf("layers[%d]: name is required", index))
			continue
		}
		if seen[layer.Name] {
			errs = append(errs, fmt.Errorf("layers[%d]: duplicate layer name %q", index, layer.Name))
		}
		seen[layer.Name] = true
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// LayerOrders returns the predeclared layers as a name to order map.
func (c *Config) LayerOrders() map[string]int {
	orders := make(map[string]int, len(c.Layers))
	for _, layer := range c.Layers {
		orders[layer.Name] = layer.Order
	}
	return orders
}

// SlogLevel returns the configured log level. Validate has already
// rejected unknown levels; an unknown level here reads as info.
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", name)
	}
}
