package stats_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrelfx/fxstore/stats"
)

func TestCountersAccumulate(t *testing.T) {
	var s stats.Stats
	s.AddRecords(10)
	s.AddCompressedBytes(100)
	s.AddCacheHit()
	s.AddCacheHit()
	s.AddCacheMiss()
	s.AddDroppedLines(3)
	s.AddCorruptBlock()

	snap := s.Snapshot()
	require.Equal(t, uint64(10), snap.Records)
	require.Equal(t, uint64(100), snap.CompressedBytes)
	require.Equal(t, uint64(2), snap.CacheHits)
	require.Equal(t, uint64(1), snap.CacheMisses)
	require.Equal(t, uint64(3), snap.DroppedLines)
	require.Equal(t, uint64(1), snap.CorruptBlocks)
}

func TestConcurrentAdds(t *testing.T) {
	var s stats.Stats
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddRecords(1)
		}()
	}
	wg.Wait()

	require.Equal(t, uint64(100), s.Snapshot().Records)
}
