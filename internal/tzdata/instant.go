// Package tzdata holds the value types and collaborator interfaces the rest
// of tzcore is built on: Instant arithmetic, zone ids, offset periods and
// zone histories.
package tzdata

import (
	"math"
	"time"
)

// Instant is milliseconds since the Unix epoch, saturating at +/-infinity
// instead of overflowing.
type Instant int64

const (
	// MinInstant is the saturating "negative infinity" sentinel.
	MinInstant Instant = math.MinInt64
	// MaxInstantValue is the saturating "positive infinity" sentinel.
	MaxInstantValue Instant = math.MaxInt64

	// MaxInstant is the tz-specific "no cutoff visible to clients" marker:
	// 03:14:07 UTC, 19 Jan 2038, expressed in milliseconds.
	MaxInstant Instant = Instant(math.MaxInt32) * 1000
)

// FromTime converts a time.Time to an Instant.
func FromTime(t time.Time) Instant {
	return Instant(t.UnixMilli())
}

// Time converts an Instant back to a time.Time in UTC.
func (i Instant) Time() time.Time {
	return time.UnixMilli(int64(i)).UTC()
}

// Before reports whether i occurs strictly before o.
func (i Instant) Before(o Instant) bool { return i < o }

// After reports whether i occurs strictly after o.
func (i Instant) After(o Instant) bool { return i > o }

// AddDuration adds d to i, saturating at MaxInstantValue / MinInstant.
func (i Instant) AddDuration(d time.Duration) Instant {
	ms := d.Milliseconds()
	if ms > 0 && i > MaxInstantValue-Instant(ms) {
		return MaxInstantValue
	}
	if ms < 0 && i < MinInstant-Instant(ms) {
		return MinInstant
	}
	return i + Instant(ms)
}

// Min returns the earlier of two instants.
func Min(a, b Instant) Instant {
	if a < b {
		return a
	}
	return b
}

// Max returns the later of two instants.
func Max(a, b Instant) Instant {
	if a > b {
		return a
	}
	return b
}
