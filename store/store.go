// Package store wires the symbol registry, block index, background
// compactor, and stats counters into the single library API described
// in spec.md §6: the surface the HTTP facade, CLI, and test harness
// collaborators call against.
package store

import (
	"fmt"
	"io"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/kestrelfx/fxstore/bar"
	"github.com/kestrelfx/fxstore/compactor"
	"github.com/kestrelfx/fxstore/compress"
	"github.com/kestrelfx/fxstore/errs"
	"github.com/kestrelfx/fxstore/format"
	"github.com/kestrelfx/fxstore/index"
	"github.com/kestrelfx/fxstore/ingest"
	"github.com/kestrelfx/fxstore/internal/options"
	"github.com/kestrelfx/fxstore/query"
	"github.com/kestrelfx/fxstore/stats"
	"github.com/kestrelfx/fxstore/symbol"
)

// lifecycle states (spec.md §4.7).
const (
	stateRunning int32 = iota
	stateDraining
	stateStopped
)

// Store is the top-level in-process time-series store. The zero value
// is not usable; construct with New.
type Store struct {
	registry  *symbol.Registry
	index     *index.Index
	stats     *stats.Stats
	compactor *compactor.Compactor
	pipeline  *ingest.Pipeline

	// shutdownMu lets Shutdown wait for any in-flight IngestTextFeed call
	// to finish submitting before it closes the compactor queue: readers
	// (ingest calls) hold the read lock for their duration, Shutdown takes
	// the write lock once before transitioning state, so no Submit can
	// race a Close.
	shutdownMu sync.RWMutex
	state      atomic.Int32
}

// config holds the settings functional Options mutate before New
// builds the Store.
type config struct {
	compression   format.CompressionType
	queueCapacity int
	parseWorkers  int
}

// Option configures a Store at construction time.
type Option = options.Option[*config]

// WithCompression selects the codec used to compress day-blocks.
// Defaults to format.CompressionZstd.
func WithCompression(c format.CompressionType) Option {
	return options.NoError(func(cfg *config) { cfg.compression = c })
}

// WithCompressorQueueCapacity sets the bounded queue capacity between
// the ingest pipeline and the background compactor (spec.md §4.4).
// Defaults to compactor.DefaultQueueCapacity.
func WithCompressorQueueCapacity(n int) Option {
	return options.NoError(func(cfg *config) { cfg.queueCapacity = n })
}

// WithParseWorkers sets how many day-buckets a single IngestTextFeed
// call parses concurrently. Defaults to GOMAXPROCS.
func WithParseWorkers(n int) Option {
	return options.NoError(func(cfg *config) { cfg.parseWorkers = n })
}

// New creates a running Store with the given options applied.
func New(opts ...Option) (*Store, error) {
	cfg := config{compression: format.CompressionZstd}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	codec, err := compress.CreateCodec(cfg.compression)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	st := &stats.Stats{}
	idx := index.New()
	c := compactor.New(idx, codec, st, cfg.queueCapacity)
	reg := symbol.NewRegistry()

	s := &Store{
		registry:  reg,
		index:     idx,
		stats:     st,
		compactor: c,
		pipeline:  ingest.NewPipeline(reg, c, st, cfg.parseWorkers),
	}

	return s, nil
}

// InternSymbol interns name, returning its stable symbol id.
func (s *Store) InternSymbol(name string) uint16 {
	return s.registry.Intern(name)
}

// ListSymbols returns a snapshot of currently known symbol names.
func (s *Store) ListSymbols() []string {
	return s.registry.List()
}

// IngestTextFeed parses r as a feed for symbolName and dispatches its
// records to the background compactor. It returns errs.ErrQueueClosed
// if the store is draining or stopped (spec.md §4.7).
func (s *Store) IngestTextFeed(r io.Reader, symbolName string) error {
	s.shutdownMu.RLock()
	defer s.shutdownMu.RUnlock()

	if s.state.Load() != stateRunning {
		return errs.ErrQueueClosed
	}

	return s.pipeline.IngestFeed(r, symbolName)
}

// QueryRange returns a lazy sequence of bars for symbolName within
// [startTsNs, endTsNs] inclusive, plus an error accessor to check
// after the sequence has been consumed (spec.md §4.6). Queries remain
// valid in both the Running and Draining states.
func (s *Store) QueryRange(symbolName string, startTsNs, endTsNs uint64) (iter.Seq[bar.Bar], func() error) {
	c := query.NewRange(s.registry, s.index, s.stats, symbolName, startTsNs, endTsNs)

	return c.Bars(), c.Err
}

// Stats returns a point-in-time snapshot of the store's counters.
func (s *Store) Stats() stats.Snapshot {
	return s.stats.Snapshot()
}

// SubscribeRealtime is a stub for the realtime tick-to-bar
// collaborator (spec.md §9). It returns an already-closed channel: the
// core defines only the interface shape, not aggregation semantics.
func (s *Store) SubscribeRealtime(symbolName string) <-chan bar.Bar {
	s.registry.Intern(symbolName)

	ch := make(chan bar.Bar)
	close(ch)

	return ch
}

// Shutdown transitions the store from Running to Draining to Stopped:
// it stops accepting new ingest, closes the compactor queue, and
// blocks until the compactor has drained and exited (spec.md §4.7).
// Shutdown is idempotent; calling it more than once is a no-op after
// the first call.
func (s *Store) Shutdown() {
	s.shutdownMu.Lock()
	transitioned := s.state.CompareAndSwap(stateRunning, stateDraining)
	s.shutdownMu.Unlock()

	if !transitioned {
		return
	}

	s.compactor.Close()
	s.compactor.Join()
	s.state.Store(stateStopped)
}
