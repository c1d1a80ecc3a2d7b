// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for uiframe packages.
//
// [RequireReceive], [RequireClosed], and [RequireNoReceive] wrap the
// select-with-timeout pattern used when a test waits on a goroutine
// (an asset load parked in a fake provider, a driver tick). They are
// the only helpers that touch wall-clock time.
//
// [UniqueID] generates monotonically increasing identifiers for view
// kinds and layer names that must not collide between tests.
//
// [WriteFile] drops a fixture into t.TempDir() and returns its path.
//
// All helpers call t.Fatalf on failure rather than returning errors.
package testutil
