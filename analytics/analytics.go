// Package analytics holds pure-function helpers over a bar sequence
// that sit above the core storage engine: a simple moving average and
// a close-price range filter (spec.md §9, Design Notes). Neither
// function touches the store; both operate on already-materialized
// []bar.Bar slices from a query.Cursor.
package analytics

import "github.com/kestrelfx/fxstore/bar"

// SMA computes the simple moving average of close prices over a
// sliding window of the given period, expressed as a decimal price
// (already divided by bar.PriceScale). The result has
// len(bars)-period+1 elements; if bars has fewer than period elements,
// SMA returns nil.
func SMA(bars []bar.Bar, period int) []float64 {
	if period <= 0 || len(bars) < period {
		return nil
	}

	result := make([]float64, 0, len(bars)-period+1)

	var sum uint64
	for i := range period {
		sum += uint64(bars[i].Close)
	}
	result = append(result, float64(sum)/float64(period)/bar.PriceScale)

	for i := period; i < len(bars); i++ {
		sum = sum - uint64(bars[i-period].Close) + uint64(bars[i].Close)
		result = append(result, float64(sum)/float64(period)/bar.PriceScale)
	}

	return result
}

// FilterByClose returns the subsequence of bars whose Close falls
// within [min, max] inclusive, preserving input order. min and max are
// fixed-point prices in the same scale as bar.Bar.Close.
//
// The source sketches an AVX2 8-lane vectorized version of this filter
// (spec.md §9); this is the plain scalar equivalent, which the spec
// treats as an acceptable implementation.
func FilterByClose(bars []bar.Bar, minClose, maxClose uint32) []bar.Bar {
	out := make([]bar.Bar, 0, len(bars))
	for _, b := range bars {
		if b.Close >= minClose && b.Close <= maxClose {
			out = append(out, b)
		}
	}

	return out
}
