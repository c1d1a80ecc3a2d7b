// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the CBOR encoding configuration shared by the
// state snapshot writer and reader.
//
// Encoding is Core Deterministic (RFC 8949 §4.2): map keys are sorted
// and integers use their shortest form, so two snapshots of the same
// engine state are byte-identical and can be compared or hashed.
//
//	data, err := codec.Marshal(state)
//	err = codec.Unmarshal(data, &state)
//
// Types that are only ever written as CBOR carry `cbor` struct tags.
// Types that are also printed as JSON (the demo's --dump-state output)
// carry `json` tags, which fxamacker/cbor reads when `cbor` tags are
// absent. A field never carries both.
package codec
