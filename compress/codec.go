// Package compress provides the byte-stream compressors used to shrink
// serialized day-blocks before they are installed into the block index.
//
// Mirrors the Codec abstraction in the teacher's compress package: a
// day-block's serialized 1,440-slot payload is a fixed 57,600 bytes and
// highly repetitive (zeroed slots, slowly-changing prices), which all
// four codecs here handle well; Zstd at the default level is the
// reference point spec.md §4.2 calls out.
package compress

import (
	"fmt"

	"github.com/kestrelfx/fxstore/format"
)

// Compressor compresses a day-block payload.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a day-block payload.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions. Block construction holds one Codec
// for the lifetime of the store (selected once via store options), so
// every block compressed by a given store uses the same algorithm.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec constructs a Codec for the given compression type.
func CreateCodec(compressionType format.CompressionType) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("compress: invalid compression type: %s", compressionType)
	}
}
