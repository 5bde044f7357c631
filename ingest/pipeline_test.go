package ingest_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrelfx/fxstore/compactor"
	"github.com/kestrelfx/fxstore/compress"
	"github.com/kestrelfx/fxstore/index"
	"github.com/kestrelfx/fxstore/ingest"
	"github.com/kestrelfx/fxstore/stats"
	"github.com/kestrelfx/fxstore/symbol"
	"github.com/kestrelfx/fxstore/tsutil"
)

func newTestPipeline(t *testing.T) (*ingest.Pipeline, *symbol.Registry, *index.Index, *compactor.Compactor, *stats.Stats) {
	t.Helper()

	reg := symbol.NewRegistry()
	idx := index.New()
	var st stats.Stats
	c := compactor.New(idx, compress.NewNoOpCompressor(), &st, 16)
	p := ingest.NewPipeline(reg, c, &st, 4)

	return p, reg, idx, c, &st
}

func TestIngestFeedSingleBarRoundTrip(t *testing.T) {
	p, reg, idx, c, st := newTestPipeline(t)

	feed := "datetime,open,high,low,close,volume\n" +
		"20240115 093000,1.10500,1.10600,1.10400,1.10550,42\n"

	require.NoError(t, p.IngestFeed(strings.NewReader(feed), "EURUSD"))
	c.Close()
	c.Join()

	symbolID, ok := reg.Resolve("EURUSD")
	require.True(t, ok)

	blk, ok := idx.Lookup(symbolID, 20240115)
	require.True(t, ok)

	bars, _, err := blk.Decompress()
	require.NoError(t, err)

	minute := tsutil.MinuteOfDay(uint64(1705311000) * 1_000_000_000)
	require.Equal(t, uint32(110500), bars[minute].Open)
	require.Equal(t, uint32(42), bars[minute].Volume)

	require.Equal(t, uint64(1), st.Snapshot().Records)
}

func TestIngestFeedSkipsHeaderAndDropsMalformedLines(t *testing.T) {
	p, reg, idx, c, st := newTestPipeline(t)

	feed := "header line is skipped unconditionally\n" +
		"20240115 093000,1.1,1.2,1.0,1.15,1\n" +
		"garbage\n" +
		"20240115 093100,1.1,1.2,1.0,1.15,1\n"

	require.NoError(t, p.IngestFeed(strings.NewReader(feed), "GBPUSD"))
	c.Close()
	c.Join()

	symbolID, _ := reg.Resolve("GBPUSD")
	blk, ok := idx.Lookup(symbolID, 20240115)
	require.True(t, ok)

	bars, _, err := blk.Decompress()
	require.NoError(t, err)

	nonZero := 0
	for _, b := range bars {
		if !b.IsZero() {
			nonZero++
		}
	}
	require.Equal(t, 2, nonZero)
	require.Equal(t, uint64(1), st.Snapshot().DroppedLines)
}

func TestIngestFeedBucketsByDay(t *testing.T) {
	p, reg, idx, c, _ := newTestPipeline(t)

	feed := "header\n" +
		"20240115 235900,1.1,1.2,1.0,1.15,1\n" +
		"20240116 000000,1.1,1.2,1.0,1.15,1\n"

	require.NoError(t, p.IngestFeed(strings.NewReader(feed), "EURUSD"))
	c.Close()
	c.Join()

	symbolID, _ := reg.Resolve("EURUSD")

	_, ok := idx.Lookup(symbolID, 20240115)
	require.True(t, ok)
	_, ok = idx.Lookup(symbolID, 20240116)
	require.True(t, ok)
}

func TestIngestFeedInternsSymbolOnce(t *testing.T) {
	p, reg, _, c, _ := newTestPipeline(t)
	defer func() { c.Close(); c.Join() }()

	feed := "header\n20240115 093000,1.1,1.2,1.0,1.15,1\n"

	require.NoError(t, p.IngestFeed(strings.NewReader(feed), "EURUSD"))
	require.NoError(t, p.IngestFeed(strings.NewReader(feed), "EURUSD"))

	require.Len(t, reg.List(), 1)
}
