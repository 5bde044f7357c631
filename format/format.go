// Package format defines the small enums shared by the compress and
// block packages.
package format

// CompressionType selects the byte-stream compressor applied to a
// serialized day-block payload (spec.md §4.2).
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone disables compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd uses Zstandard (the reference codec).
	CompressionS2   CompressionType = 0x3 // CompressionS2 uses the S2 (Snappy-compatible) codec.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 uses LZ4.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
