// Package stats provides best-effort, lock-free observability counters
// for the store: total records ingested, compressed bytes produced,
// and decompression-cache hits (spec.md §3, §4.4, §5). These counters
// are never consulted for correctness.
package stats

import "sync/atomic"

// Stats holds the store's monotonically increasing counters.
type Stats struct {
	records  atomic.Uint64
	bytes    atomic.Uint64
	hits     atomic.Uint64
	misses   atomic.Uint64
	dropped  atomic.Uint64
	corrupts atomic.Uint64
}

// AddRecords increments the total-records-ingested counter.
func (s *Stats) AddRecords(n uint64) { s.records.Add(n) }

// AddCompressedBytes increments the compressed-bytes-produced counter.
func (s *Stats) AddCompressedBytes(n uint64) { s.bytes.Add(n) }

// AddCacheHit increments the decompression cache hit counter.
func (s *Stats) AddCacheHit() { s.hits.Add(1) }

// AddCacheMiss increments the decompression cache miss counter.
func (s *Stats) AddCacheMiss() { s.misses.Add(1) }

// AddDroppedLines increments the count of feed lines dropped for
// failing to parse.
func (s *Stats) AddDroppedLines(n uint64) { s.dropped.Add(n) }

// AddCorruptBlock increments the count of blocks the compactor failed
// to build. Decompression and checksum failures seen by queries are
// not counted here; they are returned to the query caller.
func (s *Stats) AddCorruptBlock() { s.corrupts.Add(1) }

// Snapshot is a point-in-time, torn-across-counters-tolerant read of
// all counters (spec.md §5: "readers may observe torn-across-counters
// views").
type Snapshot struct {
	Records         uint64
	CompressedBytes uint64
	CacheHits       uint64
	CacheMisses     uint64
	DroppedLines    uint64
	CorruptBlocks   uint64
}

// Snapshot reads all counters. The individual loads are independent
// atomics, not a consistent transaction across counters.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Records:         s.records.Load(),
		CompressedBytes: s.bytes.Load(),
		CacheHits:       s.hits.Load(),
		CacheMisses:     s.misses.Load(),
		DroppedLines:    s.dropped.Load(),
		CorruptBlocks:   s.corrupts.Load(),
	}
}
