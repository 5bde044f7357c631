package index_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrelfx/fxstore/bar"
	"github.com/kestrelfx/fxstore/block"
	"github.com/kestrelfx/fxstore/compress"
	"github.com/kestrelfx/fxstore/index"
)

func buildBlock(t *testing.T, day uint32, symbolID uint16) *block.Block {
	t.Helper()
	blk, err := block.Build(day, symbolID, []bar.Bar{{Ts: uint64(day) * 1000}}, compress.NewNoOpCompressor())
	require.NoError(t, err)

	return blk
}

func TestInstallLookup(t *testing.T) {
	idx := index.New()
	blk := buildBlock(t, 20240115, 1)

	_, ok := idx.Lookup(1, 20240115)
	require.False(t, ok)

	idx.Install(1, 20240115, blk)

	got, ok := idx.Lookup(1, 20240115)
	require.True(t, ok)
	require.Same(t, blk, got)
}

func TestInstallReplaces(t *testing.T) {
	idx := index.New()
	first := buildBlock(t, 20240115, 1)
	second := buildBlock(t, 20240115, 1)

	idx.Install(1, 20240115, first)
	idx.Install(1, 20240115, second)

	got, ok := idx.Lookup(1, 20240115)
	require.True(t, ok)
	require.Same(t, second, got)
}

func TestRangeOrderedInclusive(t *testing.T) {
	idx := index.New()
	idx.Install(1, 20240117, buildBlock(t, 20240117, 1))
	idx.Install(1, 20240115, buildBlock(t, 20240115, 1))
	idx.Install(1, 20240116, buildBlock(t, 20240116, 1))
	idx.Install(1, 20240120, buildBlock(t, 20240120, 1)) // out of range

	got := idx.Range(1, 20240115, 20240116)
	require.Len(t, got, 2)
	require.Equal(t, uint32(20240115), got[0].Day)
	require.Equal(t, uint32(20240116), got[1].Day)
}

func TestRangeSnapshotIndependentOfLaterInstalls(t *testing.T) {
	idx := index.New()
	idx.Install(1, 20240115, buildBlock(t, 20240115, 1))

	snapshot := idx.Range(1, 20240115, 20240115)
	idx.Install(1, 20240116, buildBlock(t, 20240116, 1))

	require.Len(t, snapshot, 1)
}

func TestConcurrentInstallLookup(t *testing.T) {
	idx := index.New()
	var wg sync.WaitGroup
	for i := range uint16(64) {
		wg.Add(1)
		go func(symbolID uint16) {
			defer wg.Done()
			idx.Install(symbolID, 20240115, buildBlock(t, 20240115, symbolID))
		}(i)
	}
	wg.Wait()

	for i := range uint16(64) {
		_, ok := idx.Lookup(i, 20240115)
		require.True(t, ok)
	}
}
