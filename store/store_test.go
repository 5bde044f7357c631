package store_test

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kestrelfx/fxstore/errs"
	"github.com/kestrelfx/fxstore/format"
	"github.com/kestrelfx/fxstore/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(store.WithCompression(format.CompressionNone))
	require.NoError(t, err)
	t.Cleanup(s.Shutdown)

	return s
}

func collect(t *testing.T, s *store.Store, symbol string, start, end uint64) []uint64 {
	t.Helper()

	seq, errFn := s.QueryRange(symbol, start, end)

	var got []uint64
	for b := range seq {
		got = append(got, b.Ts)
	}
	require.NoError(t, errFn())

	return got
}

// S1 - round-trip single bar.
func TestScenarioRoundTripSingleBar(t *testing.T) {
	s := newTestStore(t)

	feed := "header\n20240115 093000,1.10500,1.10600,1.10400,1.10550,42\n"
	require.NoError(t, s.IngestTextFeed(strings.NewReader(feed), "EURUSD"))
	s.Shutdown()

	start := uint64(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC).UnixNano())
	end := uint64(time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC).UnixNano())

	seq, errFn := s.QueryRange("EURUSD", start, end)

	var found int
	for b := range seq {
		found++
		require.Equal(t, uint32(110500), b.Open)
		require.Equal(t, uint32(110600), b.High)
		require.Equal(t, uint32(110400), b.Low)
		require.Equal(t, uint32(110550), b.Close)
		require.Equal(t, uint32(42), b.Volume)
	}
	require.NoError(t, errFn())
	require.Equal(t, 1, found)
}

// S2 - day boundary spans two blocks.
func TestScenarioDayBoundary(t *testing.T) {
	s := newTestStore(t)

	feed := "header\n" +
		"20240115 235900,1.1,1.2,1.0,1.15,1\n" +
		"20240116 000000,1.1,1.2,1.0,1.15,1\n"
	require.NoError(t, s.IngestTextFeed(strings.NewReader(feed), "EURUSD"))
	s.Shutdown()

	start := uint64(time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC).UnixNano())
	end := uint64(time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC).UnixNano())

	got := collect(t, s, "EURUSD", start, end)
	require.Equal(t, []uint64{start, end}, got)
}

// S4 - duplicate minute, last-writer-wins.
func TestScenarioDuplicateMinuteLastWriterWins(t *testing.T) {
	s := newTestStore(t)

	feed := "header\n" +
		"20240115 093000,1.1,1.2,1.0,1.00,1\n" +
		"20240115 093000,1.1,1.2,1.0,1.01,1\n"
	require.NoError(t, s.IngestTextFeed(strings.NewReader(feed), "EURUSD"))
	s.Shutdown()

	start := uint64(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC).UnixNano())
	end := uint64(time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC).UnixNano())

	seq, errFn := s.QueryRange("EURUSD", start, end)

	var count int
	for b := range seq {
		count++
		require.Equal(t, uint32(101000), b.Close)
	}
	require.NoError(t, errFn())
	require.Equal(t, 1, count)
}

// S5 - unknown symbol yields an empty sequence.
func TestScenarioUnknownSymbol(t *testing.T) {
	s := newTestStore(t)

	got := collect(t, s, "XAUUSD", 0, uint64(time.Now().UnixNano())) //nolint:gosec
	require.Empty(t, got)
}

// S6 - concurrent ingest and query: no panics, monotonic, no duplicates.
func TestScenarioConcurrentIngestAndQuery(t *testing.T) {
	s := newTestStore(t)

	const days = 5
	var feed strings.Builder
	feed.WriteString("header\n")

	base := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	for d := range days {
		ts := base.AddDate(0, 0, d)
		feed.WriteString(fmt.Sprintf("%s,1.1,1.2,1.0,1.15,%d\n", ts.Format("20060102 150405"), d))
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		require.NoError(t, s.IngestTextFeed(strings.NewReader(feed.String()), "EURUSD"))
	}()

	rng := rand.New(rand.NewSource(1)) //nolint:gosec

	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				start := base.AddDate(0, 0, rng.Intn(days))
				end := start.Add(24 * time.Hour)

				seq, errFn := s.QueryRange("EURUSD", uint64(start.UnixNano()), uint64(end.UnixNano())) //nolint:gosec

				seen := map[uint64]bool{}
				var prev uint64
				for b := range seq {
					require.False(t, seen[b.Ts], "duplicate bar observed within one query")
					seen[b.Ts] = true
					require.GreaterOrEqual(t, b.Ts, prev)
					prev = b.Ts
				}
				_ = errFn()
			}
		}()
	}

	wg.Wait()
}

func TestIngestAfterShutdownRejected(t *testing.T) {
	s := newTestStore(t)
	s.Shutdown()

	err := s.IngestTextFeed(strings.NewReader("header\n"), "EURUSD")
	require.ErrorIs(t, err, errs.ErrQueueClosed)
}

func TestShutdownIdempotent(t *testing.T) {
	s := newTestStore(t)
	s.Shutdown()
	s.Shutdown()
}

func TestInternAndListSymbols(t *testing.T) {
	s := newTestStore(t)

	id1 := s.InternSymbol("EURUSD")
	id2 := s.InternSymbol("EURUSD")
	require.Equal(t, id1, id2)
	require.Contains(t, s.ListSymbols(), "EURUSD")
}

func TestSubscribeRealtimeStubReturnsClosedChannel(t *testing.T) {
	s := newTestStore(t)

	ch := s.SubscribeRealtime("EURUSD")
	_, ok := <-ch
	require.False(t, ok)
}
