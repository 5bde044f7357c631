// Package tsutil provides the epoch-nanosecond <-> UTC calendar-day
// conversions shared by the ingest pipeline, block builder, and range
// query iterator.
package tsutil

import "time"

// DayKey encodes the UTC calendar day containing ts (epoch
// nanoseconds) as an unsigned 32-bit YYYYMMDD decimal, e.g. 20240131.
func DayKey(ts uint64) uint32 {
	t := time.Unix(0, int64(ts)).UTC() //nolint:gosec
	y, m, d := t.Date()

	return uint32(y)*10000 + uint32(m)*100 + uint32(d)
}

// MinuteOfDay returns the 0..1439 minute-of-day index for ts, computed
// as spec.md §4.2 prescribes: (ts / 1e9 mod 86400) / 60.
func MinuteOfDay(ts uint64) int {
	secs := (ts / 1_000_000_000) % 86400

	return int(secs / 60)
}

// ParseDayKey parses an 8-character YYYYMMDD string into a DayKey,
// reporting false if the string isn't exactly 8 ASCII digits or
// doesn't name a plausible calendar day.
func ParseDayKey(s string) (uint32, bool) {
	if len(s) != 8 {
		return 0, false
	}

	var n uint32
	for i := 0; i < 8; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint32(c-'0')
	}

	month := (n / 100) % 100
	day := n % 100
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, false
	}

	return n, true
}
