package bar_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrelfx/fxstore/bar"
)

func TestPutBytesParseRoundTrip(t *testing.T) {
	b := bar.Bar{
		Ts:       1705311000_000000000,
		Open:     110500,
		High:     110600,
		Low:      110400,
		Close:    110550,
		Volume:   42,
		SymbolID: 7,
	}

	buf := make([]byte, bar.Size)
	b.PutBytes(buf)

	got := bar.Parse(buf)
	require.Equal(t, b, got)
}

func TestPutBytesZeroesPadding(t *testing.T) {
	buf := make([]byte, bar.Size)
	for i := range buf {
		buf[i] = 0xFF
	}

	bar.Bar{Ts: 60_000_000_000}.PutBytes(buf)
	for i := 30; i < bar.Size; i++ {
		require.Zerof(t, buf[i], "padding byte %d should be zeroed", i)
	}
}

func TestIsZero(t *testing.T) {
	require.True(t, bar.Bar{}.IsZero())
	require.False(t, bar.Bar{Ts: 60_000_000_000}.IsZero())
}

func TestValid(t *testing.T) {
	valid := bar.Bar{Ts: 60_000_000_000, Open: 100, High: 110, Low: 90, Close: 105}
	require.True(t, valid.Valid())

	badRange := valid
	badRange.Low = 200
	require.False(t, badRange.Valid())

	badMinute := valid
	badMinute.Ts = 60_000_000_001
	require.False(t, badMinute.Valid())
}

func TestPriceScaleRoundTrip(t *testing.T) {
	// Invariant 1 (spec.md §8): stored_price / PriceScale round-trips within 1e-5.
	price := 1.10550
	stored := uint32(price*bar.PriceScale + 0.5)
	require.InDelta(t, price, float64(stored)/bar.PriceScale, 1e-5)
}
