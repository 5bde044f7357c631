// Package compactor implements the background compressor: the single
// long-lived worker that turns (day, symbol, records) work items into
// compressed day-blocks and installs them into the block index
// (spec.md §4.4).
package compactor

import (
	"github.com/kestrelfx/fxstore/bar"
	"github.com/kestrelfx/fxstore/block"
	"github.com/kestrelfx/fxstore/compress"
	"github.com/kestrelfx/fxstore/index"
	"github.com/kestrelfx/fxstore/stats"
)

// DefaultQueueCapacity is the reference queue capacity from spec.md
// §4.4/§9: large enough to absorb bursty per-day ingest fan-out without
// routinely blocking producers, small enough to bound memory held by
// not-yet-compressed record batches.
const DefaultQueueCapacity = 1000

// Job is one unit of compressor work: every bar observed for a single
// (symbolID, day) pair during one ingest call.
type Job struct {
	Day      uint32
	SymbolID uint16
	Records  []bar.Bar
}

// Compactor consumes Jobs from a bounded channel, builds a compressed
// block for each, and installs it into the index. It runs on exactly
// one goroutine, so installs for a given symbol are serialized in
// submission order (spec.md §5: "newer submissions for the same day
// replace older ones in submission order").
type Compactor struct {
	jobs  chan Job
	idx   *index.Index
	codec compress.Codec
	stats *stats.Stats
	done  chan struct{}
}

// New creates a Compactor and starts its worker goroutine. queueCapacity
// bounds how many Jobs may be buffered before Submit blocks.
func New(idx *index.Index, codec compress.Codec, st *stats.Stats, queueCapacity int) *Compactor {
	if queueCapacity <= 0 {
		queueCapacity = DefaultQueueCapacity
	}

	c := &Compactor{
		jobs:  make(chan Job, queueCapacity),
		idx:   idx,
		codec: codec,
		stats: st,
		done:  make(chan struct{}),
	}
	go c.run()

	return c
}

// Submit enqueues a job, blocking while the queue is full. This is the
// store's sole backpressure mechanism (spec.md §5, §9): ingest
// throughput is intentionally coupled to compressor throughput.
//
// Submit must not be called concurrently with or after Close; the
// store enforces this by tracking in-flight ingest calls and only
// closing the compactor once they have all returned.
func (c *Compactor) Submit(job Job) {
	c.jobs <- job
}

// Close signals the worker to exit once it has drained any buffered
// jobs. The caller must guarantee no further Submit calls occur.
func (c *Compactor) Close() {
	close(c.jobs)
}

// Join blocks until the worker goroutine has exited, i.e. the queue has
// been closed and fully drained (spec.md §4.7, Stopped state).
func (c *Compactor) Join() {
	<-c.done
}

func (c *Compactor) run() {
	defer close(c.done)

	for job := range c.jobs {
		blk, err := block.Build(job.Day, job.SymbolID, job.Records, c.codec)
		if err != nil {
			// Building a block should not fail for a well-formed codec; if it
			// does (e.g. a codec bug), the job is dropped rather than
			// retried, mirroring the no-local-recovery policy spec.md §7
			// gives CorruptBlock.
			c.stats.AddCorruptBlock()

			continue
		}

		c.idx.Install(job.SymbolID, job.Day, blk)
		c.stats.AddRecords(uint64(len(job.Records)))
		c.stats.AddCompressedBytes(uint64(blk.CompressedSize()))
	}
}
