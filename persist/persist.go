// Package persist reserves the on-disk memory-mapped file layout for
// fxstore (spec.md §6, §9). The header is a forward-compatibility
// anchor only: the core does not read or write it today, and Create
// and Open are stubs until the layout is completed.
package persist

import (
	"encoding/binary"
	"fmt"

	"github.com/kestrelfx/fxstore/errs"
)

// Magic is the fixed 8-byte identifier at the start of a persisted file.
const Magic = "FXSTORE1"

// HeaderSize is the fixed wire size of Header, in bytes.
const HeaderSize = 8 + 4 + 4 + 8 + 8 + 8

// Header is the reserved file header: magic, version, symbol count,
// block count, and the byte offsets of the index and data sections.
type Header struct {
	Version     uint32
	SymbolCount uint32
	BlockCount  uint64
	IndexOffset uint64
	DataOffset  uint64
}

// EncodeHeader writes h into dst using little-endian byte order,
// preceded by Magic. dst must be at least HeaderSize bytes.
func EncodeHeader(h Header, dst []byte) {
	_ = dst[HeaderSize-1]

	copy(dst[0:8], Magic)
	binary.LittleEndian.PutUint32(dst[8:12], h.Version)
	binary.LittleEndian.PutUint32(dst[12:16], h.SymbolCount)
	binary.LittleEndian.PutUint64(dst[16:24], h.BlockCount)
	binary.LittleEndian.PutUint64(dst[24:32], h.IndexOffset)
	binary.LittleEndian.PutUint64(dst[32:40], h.DataOffset)
}

// DecodeHeader parses a Header from src, validating the leading magic.
// src must be at least HeaderSize bytes.
func DecodeHeader(src []byte) (Header, error) {
	if len(src) < HeaderSize {
		return Header{}, fmt.Errorf("persist: short header: %d bytes", len(src))
	}

	if string(src[0:8]) != Magic {
		return Header{}, fmt.Errorf("persist: bad magic %q", src[0:8])
	}

	return Header{
		Version:     binary.LittleEndian.Uint32(src[8:12]),
		SymbolCount: binary.LittleEndian.Uint32(src[12:16]),
		BlockCount:  binary.LittleEndian.Uint64(src[16:24]),
		IndexOffset: binary.LittleEndian.Uint64(src[24:32]),
		DataOffset:  binary.LittleEndian.Uint64(src[32:40]),
	}, nil
}

// Create reserves a persisted store file at path. Not implemented:
// the memory-mapped layout is a forward-compatibility anchor only
// (spec.md §9); the core never reads or writes it today.
func Create(path string, _ Header) error {
	return fmt.Errorf("persist: create %q: %w", path, errs.ErrNotImplemented)
}

// Open opens a persisted store file at path. Not implemented, for the
// same reason as Create.
func Open(path string) (Header, error) {
	return Header{}, fmt.Errorf("persist: open %q: %w", path, errs.ErrNotImplemented)
}
