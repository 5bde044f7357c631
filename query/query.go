// Package query implements the lazy range-query iterator described in
// spec.md §4.6: a day-ordered concatenation of decompressed blocks,
// filtered to a [start_ts, end_ts] window and to non-empty slots.
package query

import (
	"iter"

	"github.com/kestrelfx/fxstore/bar"
	"github.com/kestrelfx/fxstore/index"
	"github.com/kestrelfx/fxstore/stats"
	"github.com/kestrelfx/fxstore/symbol"
	"github.com/kestrelfx/fxstore/tsutil"
)

// Cursor holds the snapshot taken by NewRange and the state needed to
// stream it lazily. Range queries are pull-based: no block is
// decompressed until the iterator reaches it, and abandoning the
// iterator early (breaking out of the range-over-func loop) releases
// the remaining block references without ever touching them.
type Cursor struct {
	blocks  []index.DayBlock
	startTs uint64
	endTs   uint64
	stats   *stats.Stats
	err     error
}

// NewRange resolves symbolName and snapshots the blocks installed for
// it within the inclusive UTC day range containing [startTs, endTs].
// An unknown symbol yields a Cursor with an empty sequence, per
// spec.md §7 (UnknownSymbol is not surfaced as an error at this layer).
func NewRange(reg *symbol.Registry, idx *index.Index, st *stats.Stats, symbolName string, startTs, endTs uint64) *Cursor {
	symbolID, ok := reg.Resolve(symbolName)
	if !ok {
		return &Cursor{startTs: startTs, endTs: endTs, stats: st}
	}

	startDay := tsutil.DayKey(startTs)
	endDay := tsutil.DayKey(endTs)

	return &Cursor{
		blocks:  idx.Range(symbolID, startDay, endDay),
		startTs: startTs,
		endTs:   endTs,
		stats:   st,
	}
}

// Bars returns the lazy sequence of bars in the cursor's window, in
// nondecreasing ts order. Empty slots (ts == 0) are never yielded.
//
// If a block fails to decompress, iteration stops and Err returns the
// wrapped errs.ErrCorruptBlock; bars already yielded are not retracted
// (spec.md §4.6, Failure).
func (c *Cursor) Bars() iter.Seq[bar.Bar] {
	return func(yield func(bar.Bar) bool) {
		for _, db := range c.blocks {
			bars, hit, err := db.Block.Decompress()
			if err != nil {
				c.err = err

				return
			}

			if c.stats != nil {
				if hit {
					c.stats.AddCacheHit()
				} else {
					c.stats.AddCacheMiss()
				}
			}

			for _, b := range bars {
				if b.IsZero() {
					continue
				}
				if b.Ts < c.startTs || b.Ts > c.endTs {
					continue
				}
				if !yield(b) {
					return
				}
			}
		}
	}
}

// Err returns any error encountered while iterating Bars. It should be
// checked after the sequence has been fully consumed or abandoned;
// mid-iteration it only reflects blocks already visited.
func (c *Cursor) Err() error {
	return c.err
}

// Collect drains the cursor's sequence into a slice. It is a
// convenience for callers (such as tests) that need the full result
// materialized rather than streamed.
func (c *Cursor) Collect() ([]bar.Bar, error) {
	var out []bar.Bar
	for b := range c.Bars() {
		out = append(out, b)
	}

	return out, c.Err()
}
