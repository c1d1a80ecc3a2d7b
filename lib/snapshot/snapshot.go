// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/uiframe/lib/codec"
	"github.com/bureau-foundation/uiframe/lib/frame"
)

const (
	magic   = "UIFS"
	version = 1

	// maxPayload bounds the uncompressed length accepted from a
	// header.
	maxPayload = 64 << 20
)

var (
	// ErrCorrupt is returned for data that is not a well-formed dump.
	ErrCorrupt = errors.New("corrupt snapshot")

	// ErrVersion is returned for a dump written by a newer format.
	ErrVersion = errors.New("unsupported snapshot version")
)

// Header describes a dump without decoding its payload.
type Header struct {
	Version     uint8
	Compression Compression

	// Size is the uncompressed payload length.
	Size int
}

// Encode serializes state, compressing the payload when that makes it
// smaller.
func Encode(state frame.State, compression Compression) ([]byte, error) {
	payload, err := codec.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}

	compressed, err := compress(payload, compression)
	if errors.Is(err, errIncompressible) {
		compression = CompressionNone
		compressed = payload
	} else if err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	buffer.Grow(len(magic) + 2 + binary.MaxVarintLen64 + len(compressed))
	buffer.WriteString(magic)
	buffer.WriteByte(version)
	buffer.WriteByte(byte(compression))
	buffer.Write(binary.AppendUvarint(nil, uint64(len(payload))))
	buffer.Write(compressed)
	return buffer.Bytes(), nil
}

// ReadHeader parses the header of data and returns the remaining
// payload.
func ReadHeader(data []byte) (Header, []byte, error) {
	if len(data) < len(magic)+2 || string(data[:len(magic)]) != magic {
		return Header{}, nil, fmt.Errorf("%w: missing magic", ErrCorrupt)
	}
	header := Header{
		Version:     data[len(magic)],
		Compression: Compression(data[len(magic)+1]),
	}
	if header.Version != version {
		return Header{}, nil, fmt.Errorf("%w: %d", ErrVersion, header.Version)
	}
	rest := data[len(magic)+2:]
	size, n := binary.Uvarint(rest)
	if n <= 0 {
		return Header{}, nil, fmt.Errorf("%w: bad length", ErrCorrupt)
	}
	if size > maxPayload {
		return Header{}, nil, fmt.Errorf("%w: payload length %d exceeds %d", ErrCorrupt, size, maxPayload)
	}
	header.Size = int(size)
	return header, rest[n:], nil
}

// payload returns the uncompressed CBOR payload of data.
func payload(data []byte) ([]byte, error) {
	header, rest, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}
	return decompress(rest, header.Compression, header.Size)
}

// Decode parses a dump produced by Encode.
func Decode(data []byte) (frame.State, error) {
	raw, err := payload(data)
	if err != nil {
		return frame.State{}, err
	}
	var state frame.State
	if err := codec.Unmarshal(raw, &state); err != nil {
		return frame.State{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return state, nil
}

// Diagnose returns the CBOR diagnostic notation of a dump's payload.
func Diagnose(data []byte) (string, error) {
	raw, err := payload(data)
	if err != nil {
		return "", err
	}
	return codec.Diagnose(raw)
}

// WriteFile encodes state to path, replacing it atomically. The file
// is created with mode 0600 and the parent directory must exist.
func WriteFile(path string, state frame.State, compression Compression) error {
	data, err := Encode(state, compression)
	if err != nil {
		return err
	}

	temporary, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary snapshot file: %w", err)
	}
	temporaryPath := temporary.Name()
	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary snapshot file: %w", err)
	}
	if err := temporary.Sync(); err != nil {
		temporary.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary snapshot file: %w", err)
	}
	if err := temporary.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary snapshot file: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming snapshot into place: %w", err)
	}
	return nil
}

// ReadFile decodes the dump at path.
func ReadFile(path string) (frame.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return frame.State{}, fmt.Errorf("reading snapshot: %w", err)
	}
	state, err := Decode(data)
	if err != nil {
		return frame.State{}, fmt.Errorf("%s: %w", path, err)
	}
	return state, nil
}
