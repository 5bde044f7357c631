package ingest

import (
	"bufio"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/kestrelfx/fxstore/bar"
	"github.com/kestrelfx/fxstore/compactor"
	"github.com/kestrelfx/fxstore/errs"
	"github.com/kestrelfx/fxstore/stats"
	"github.com/kestrelfx/fxstore/symbol"
	"github.com/kestrelfx/fxstore/tsutil"
)

// maxLineBufferSize bounds how long a single feed line may be before
// the scanner gives up; well beyond any realistic OHLCV line.
const maxLineBufferSize = 1 << 20

// Pipeline parses text feeds and dispatches per-day record batches to
// a compactor.Compactor (spec.md §4.3).
type Pipeline struct {
	registry  *symbol.Registry
	compactor *compactor.Compactor
	stats     *stats.Stats
	workers   int
}

// NewPipeline creates a Pipeline. workers bounds how many day-buckets
// are parsed concurrently within a single ingest call; 0 defaults to
// GOMAXPROCS.
func NewPipeline(registry *symbol.Registry, c *compactor.Compactor, st *stats.Stats, workers int) *Pipeline {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Pipeline{registry: registry, compactor: c, stats: st, workers: workers}
}

// IngestFeed reads a line-oriented OHLCV feed for symbolName from r,
// interning the symbol on first sight. The first line is skipped as a
// header. Each remaining line's leading 8 characters are the YYYYMMDD
// day key used to bucket lines before parsing; lines that fail day-key
// extraction are dropped and counted. Once the stream is exhausted,
// each day bucket is parsed in parallel and handed to the compactor as
// one Job (spec.md §4.3, steps 2-4).
//
// IngestFeed returns an error only for IO failure reading r; malformed
// lines are dropped, not surfaced (spec.md §7, ParseError policy).
func (p *Pipeline) IngestFeed(r io.Reader, symbolName string) error {
	symbolID := p.registry.Intern(symbolName)

	buckets := make(map[uint32][]string)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBufferSize)

	skippedHeader := false
	for scanner.Scan() {
		if !skippedHeader {
			skippedHeader = true

			continue
		}

		line := scanner.Text()
		if len(line) < 8 {
			p.stats.AddDroppedLines(1)

			continue
		}

		day, ok := tsutil.ParseDayKey(line[:8])
		if !ok {
			p.stats.AddDroppedLines(1)

			continue
		}

		buckets[day] = append(buckets[day], line)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrFeedIO, err)
	}

	p.dispatch(symbolID, buckets)

	return nil
}

// dispatch parses each day bucket's lines into bars, bounded to
// p.workers concurrent buckets, and submits one compactor.Job per
// bucket once its records are ready.
func (p *Pipeline) dispatch(symbolID uint16, buckets map[uint32][]string) {
	sem := make(chan struct{}, p.workers)

	var wg sync.WaitGroup
	for day, lines := range buckets {
		wg.Add(1)
		sem <- struct{}{}

		go func(day uint32, lines []string) {
			defer wg.Done()
			defer func() { <-sem }()

			records := make([]bar.Bar, 0, len(lines))

			var dropped uint64
			for _, line := range lines {
				b, err := ParseLine(line, symbolID)
				if err != nil {
					dropped++

					continue
				}

				records = append(records, b)
			}

			if dropped > 0 {
				p.stats.AddDroppedLines(dropped)
			}

			p.compactor.Submit(compactor.Job{Day: day, SymbolID: symbolID, Records: records})
		}(day, lines)
	}

	wg.Wait()
}
