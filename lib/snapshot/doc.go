// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package snapshot stores engine state dumps for offline inspection.
//
// A dump is a small header followed by the CBOR encoding of a
// [frame.State], optionally compressed:
//
//	magic "UIFS" | version (1 byte) | compression tag (1 byte) |
//	uncompressed length (uvarint) | payload
//
// Compression falls back to none when it would not shrink the
// payload, so the stored tag may differ from the one requested.
// Dumps are diagnostics, not persistence: nothing reads them back into
// an engine.
package snapshot
