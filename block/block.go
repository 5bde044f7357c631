// Package block implements the compressed day-block: one symbol-day's
// 1,440 one-minute slots, serialized, checksummed, and compressed, with
// a lazily-populated decompression cache guarded by a single-writer,
// many-reader lock (spec.md §4.2, §9).
package block

import (
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/kestrelfx/fxstore/bar"
	"github.com/kestrelfx/fxstore/compress"
	"github.com/kestrelfx/fxstore/errs"
	"github.com/kestrelfx/fxstore/internal/pool"
	"github.com/kestrelfx/fxstore/tsutil"
)

// SlotCount is the number of one-minute slots in a day-block (24h * 60m).
const SlotCount = 1440

// payloadSize is the flat serialized size of SlotCount bars, before
// compression.
const payloadSize = SlotCount * bar.Size

// Block is one symbol-day's compressed OHLCV data.
//
// A Block's compressed payload is shared-immutable: once built, it is
// never mutated, only replaced wholesale by a new Block instance
// (spec.md §3, Ownership). The decompression cache is the only mutable
// state, and it transitions at most once, from empty to populated, for
// the lifetime of a given Block instance (spec.md §4.7).
type Block struct {
	Date     uint32
	SymbolID uint16

	codec    compress.Codec
	payload  []byte // compressed; shared, never mutated after Build
	checksum uint64 // xxHash64 of the pre-compression serialized payload

	mu    sync.RWMutex
	cache []bar.Bar // nil until first successful Decompress
}

// Build constructs a Block from a set of records observed for the
// given (date, symbolID). Records are placed into their minute-of-day
// slot; when two records fall in the same minute, the later one in
// input order wins (spec.md §4.2, step 2).
func Build(date uint32, symbolID uint16, records []bar.Bar, codec compress.Codec) (*Block, error) {
	var slots [SlotCount]bar.Bar
	for _, rec := range records {
		minute := tsutil.MinuteOfDay(rec.Ts)
		if minute < 0 || minute >= SlotCount {
			continue
		}
		slots[minute] = rec
	}

	buf := pool.Get()
	defer pool.Put(buf)
	buf.Grow(payloadSize)

	for i := range slots {
		var tmp [bar.Size]byte
		slots[i].PutBytes(tmp[:])
		_, _ = buf.Write(tmp[:])
	}

	checksum := xxhash.Sum64(buf.Bytes())

	compressed, err := codec.Compress(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("block: compress: %w", err)
	}

	// Compress may return a slice that aliases the pooled buffer (e.g.
	// NoOpCompressor); copy so Put-ing the buffer back to the pool can't
	// corrupt the block's payload.
	owned := make([]byte, len(compressed))
	copy(owned, compressed)

	return &Block{
		Date:     date,
		SymbolID: symbolID,
		codec:    codec,
		payload:  owned,
		checksum: checksum,
	}, nil
}

// IsCached reports whether the decompression cache has been populated,
// i.e. whether the block has transitioned from Compressed-only to
// Cached (spec.md §4.7).
func (b *Block) IsCached() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.cache != nil
}

// CompressedSize returns the size, in bytes, of the compressed payload.
func (b *Block) CompressedSize() int {
	return len(b.payload)
}

// Decompress returns the block's 1,440 bars, decompressing and
// validating the payload on first access and caching the result for
// subsequent calls (spec.md §4.2). The returned slice must be treated
// as read-only: it is the block's authoritative cached copy.
//
// The bool result reports whether this call was served from the
// cache (a "cache hit"); callers that maintain stats counters should
// only count a miss, not a hit, as new decompression work.
//
// Decompression or checksum failure is fatal for the block and wraps
// errs.ErrCorruptBlock; the block is never retried automatically.
func (b *Block) Decompress() ([]bar.Bar, bool, error) {
	b.mu.RLock()
	if b.cache != nil {
		cached := b.cache
		b.mu.RUnlock()

		return cached, true, nil
	}
	b.mu.RUnlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	// Double-checked: another goroutine may have populated the cache
	// while we waited for the write lock.
	if b.cache != nil {
		return b.cache, true, nil
	}

	decompressed, err := b.codec.Decompress(b.payload)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s-%d: %w", errs.ErrCorruptBlock, fmtDate(b.Date), b.SymbolID, err)
	}

	if len(decompressed) != payloadSize {
		return nil, false, fmt.Errorf("%w: %s-%d: expected %d decompressed bytes, got %d",
			errs.ErrCorruptBlock, fmtDate(b.Date), b.SymbolID, payloadSize, len(decompressed))
	}

	if xxhash.Sum64(decompressed) != b.checksum {
		return nil, false, fmt.Errorf("%w: %s-%d: checksum mismatch", errs.ErrCorruptBlock, fmtDate(b.Date), b.SymbolID)
	}

	bars := make([]bar.Bar, SlotCount)
	for i := range bars {
		bars[i] = bar.Parse(decompressed[i*bar.Size : (i+1)*bar.Size])
	}

	b.cache = bars

	return bars, false, nil
}

func fmtDate(date uint32) string {
	return fmt.Sprintf("%08d", date)
}
