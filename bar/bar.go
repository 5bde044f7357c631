// Package bar defines the fixed-width OHLCV record and its wire encoding.
//
// A Bar is the atomic unit stored by fxstore: one minute of open, high,
// low, close and volume for a single interned symbol. The in-memory
// representation and the on-disk (pre-compression) representation are
// the same 40-byte layout, matching the cache-line-friendly fixed record
// described in spec.md §3.
package bar

import "encoding/binary"

// Size is the fixed wire size of a Bar, in bytes.
const Size = 40

// PriceScale is the fixed-point scale applied to decimal prices: the
// ingest parser stores price * PriceScale truncated toward zero.
const PriceScale = 100000

// Bar is a single minute's OHLCV record.
//
// Prices are fixed-point, scaled by PriceScale, giving five decimal
// digits of precision. Ts is epoch nanoseconds of the bar's start
// minute and must be minute-aligned (Ts % 60e9 == 0) for data produced
// by the ingest pipeline; the store does not enforce this on arbitrary
// callers (spec.md §9, Open Questions).
type Bar struct {
	Ts       uint64
	Open     uint32
	High     uint32
	Low      uint32
	Close    uint32
	Volume   uint32
	SymbolID uint16
}

// IsZero reports whether b is the zero-value bar used to mark an empty
// minute slot within a day-block. Ts == 0 is the sentinel: epoch
// nanosecond zero falls on 1970-01-01T00:00:00Z, which is never a
// valid minute slot for any day-block (slots are keyed by minute-of-day
// for the block's own date).
func (b Bar) IsZero() bool {
	return b.Ts == 0
}

// PutBytes encodes b into dst using little-endian byte order. dst must
// be at least Size bytes; PutBytes writes exactly Size bytes and does
// not bounds-check beyond what a direct slice write requires.
func (b Bar) PutBytes(dst []byte) {
	_ = dst[Size-1]
	binary.LittleEndian.PutUint64(dst[0:8], b.Ts)
	binary.LittleEndian.PutUint32(dst[8:12], b.Open)
	binary.LittleEndian.PutUint32(dst[12:16], b.High)
	binary.LittleEndian.PutUint32(dst[16:20], b.Low)
	binary.LittleEndian.PutUint32(dst[20:24], b.Close)
	binary.LittleEndian.PutUint32(dst[24:28], b.Volume)
	binary.LittleEndian.PutUint16(dst[28:30], b.SymbolID)
	clear(dst[30:Size])
}

// Parse decodes a Bar from a Size-byte slice. The caller must ensure
// src is at least Size bytes; Parse does not copy src.
func Parse(src []byte) Bar {
	_ = src[Size-1]

	return Bar{
		Ts:       binary.LittleEndian.Uint64(src[0:8]),
		Open:     binary.LittleEndian.Uint32(src[8:12]),
		High:     binary.LittleEndian.Uint32(src[12:16]),
		Low:      binary.LittleEndian.Uint32(src[16:20]),
		Close:    binary.LittleEndian.Uint32(src[20:24]),
		Volume:   binary.LittleEndian.Uint32(src[24:28]),
		SymbolID: binary.LittleEndian.Uint16(src[28:30]),
	}
}

// Valid reports whether b satisfies the invariants of spec.md §3:
// low <= open,close <= high and Ts falls on a whole minute boundary.
func (b Bar) Valid() bool {
	if b.Low > b.Open || b.Open > b.High {
		return false
	}
	if b.Low > b.Close || b.Close > b.High {
		return false
	}

	return b.Ts%60_000_000_000 == 0
}
