// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the engine and demo configuration from YAML.
//
// Configuration comes from a single file named by either the
// UIFRAME_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no discovery and no fallback search path.
// Without a file, [Default] is used as is.
//
// The file is decoded over [Default], so it only needs the keys it
// changes. Durations use Go syntax ("250ms", "1s"). A layers list in
// the file replaces the default list rather than merging with it.
//
// ${HOME}, ${VAR} and ${VAR:-default} are expanded in path fields
// after loading. No environment variable overrides any other value.
//
// This package depends on no other uiframe packages.
package config
