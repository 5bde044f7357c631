// Package ingest implements the text feed ingest pipeline: parsing
// lines into bars, grouping them into per-day buckets, and handing
// each bucket to the background compressor (spec.md §4.3).
package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kestrelfx/fxstore/bar"
	"github.com/kestrelfx/fxstore/errs"
)

// dateTimeLayout is the feed's datetime format: YYYYMMDD HHMMSS, UTC.
const dateTimeLayout = "20060102 150405"

// ParseLine parses a single feed line into a Bar for symbolID.
//
// The field separator is detected per line: ';' if present, else ','.
// A line must carry at least six fields: datetime, open, high, low,
// close, volume. Prices are decimals converted to fixed-point by
// multiplying by bar.PriceScale and truncating; volume parses as
// unsigned 32-bit, defaulting to 0 on its own parse failure (any other
// field failure rejects the whole line) (spec.md §4.3).
func ParseLine(line string, symbolID uint16) (bar.Bar, error) {
	sep := ","
	if strings.Contains(line, ";") {
		sep = ";"
	}

	fields := strings.Split(line, sep)
	if len(fields) < 6 {
		return bar.Bar{}, fmt.Errorf("%w: expected at least 6 fields, got %d", errs.ErrParseLine, len(fields))
	}

	t, err := time.Parse(dateTimeLayout, fields[0])
	if err != nil {
		return bar.Bar{}, fmt.Errorf("%w: datetime %q: %w", errs.ErrParseLine, fields[0], err)
	}

	openPx, err := parsePrice(fields[1])
	if err != nil {
		return bar.Bar{}, fmt.Errorf("%w: open %q: %w", errs.ErrParseLine, fields[1], err)
	}

	highPx, err := parsePrice(fields[2])
	if err != nil {
		return bar.Bar{}, fmt.Errorf("%w: high %q: %w", errs.ErrParseLine, fields[2], err)
	}

	lowPx, err := parsePrice(fields[3])
	if err != nil {
		return bar.Bar{}, fmt.Errorf("%w: low %q: %w", errs.ErrParseLine, fields[3], err)
	}

	closePx, err := parsePrice(fields[4])
	if err != nil {
		return bar.Bar{}, fmt.Errorf("%w: close %q: %w", errs.ErrParseLine, fields[4], err)
	}

	volume, err := strconv.ParseUint(strings.TrimSpace(fields[5]), 10, 32)
	if err != nil {
		volume = 0
	}

	return bar.Bar{
		Ts:       uint64(t.UTC().UnixNano()), //nolint:gosec
		Open:     openPx,
		High:     highPx,
		Low:      lowPx,
		Close:    closePx,
		Volume:   uint32(volume), //nolint:gosec
		SymbolID: symbolID,
	}, nil
}

// parsePrice converts a decimal price string to fixed-point by
// multiplying by bar.PriceScale and truncating toward zero. A small
// epsilon absorbs binary floating-point error before truncation (1.1055
// is held as 1.10549999..., which would otherwise truncate to 110549),
// so a price with at most five decimal digits maps to its exact value.
func parsePrice(s string) (uint32, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, fmt.Errorf("negative price: %g", f)
	}

	return uint32(f*bar.PriceScale + 1e-6), nil //nolint:gosec
}
