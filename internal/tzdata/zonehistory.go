package tzdata

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"tzcore/internal/tzerr"
)

const (
	MinPriority = 1
	MaxPriority = 10
)

// ZoneHistory is the ordered sequence of OffsetPeriods for one zone id over
// [S, E), plus its country-assigned priority.
type ZoneHistory struct {
	ZoneId   ZoneId
	Priority int
	Periods  []OffsetPeriod
}

// PeriodsKey is a hashable, value-equal digest of a ZoneHistory's periods
// over a range. Two histories that are byte-identical over the same range
// produce equal keys.
type PeriodsKey [sha256.Size]byte

// NewZoneHistory builds a ZoneHistory by repeatedly calling NewOffsetPeriod
// starting from S, stopping once the next period's start would be >= E.
func NewZoneHistory(rules ZoneRules, zoneId ZoneId, priority int, s, e Instant) (ZoneHistory, error) {
	if priority < MinPriority || priority > MaxPriority {
		return ZoneHistory{}, tzerr.New(tzerr.ValidationError, tzerr.CodeInvalidPriority,
			fmt.Sprintf("priority %d for zone %s must be in [%d,%d]", priority, zoneId, MinPriority, MaxPriority))
	}

	var periods []OffsetPeriod
	start := s
	for start.Before(e) {
		p, err := NewOffsetPeriod(rules, zoneId, start, e)
		if err != nil {
			return ZoneHistory{}, err
		}
		periods = append(periods, p)
		start = p.End
	}

	return ZoneHistory{ZoneId: zoneId, Priority: priority, Periods: periods}, nil
}

// KeyOverRange returns a hashable value derived from Periods[i:j), matching
// OffsetPeriod.Equal's full field set (Start, End, RawOffsetMs, DstOffsetMs,
// DisplayName). Two zones that currently share an offset/DST/name but
// adopted it at different instants must still split at grow time, so Start
// and End are hashed alongside the offset fields, not just the latter.
func (h ZoneHistory) KeyOverRange(i, j int) PeriodsKey {
	hasher := sha256.New()
	for _, p := range h.Periods[i:j] {
		var buf [40]byte
		binary.BigEndian.PutUint64(buf[0:8], uint64(p.Start))
		binary.BigEndian.PutUint64(buf[8:16], uint64(p.End))
		binary.BigEndian.PutUint64(buf[16:24], uint64(p.RawOffsetMs))
		binary.BigEndian.PutUint64(buf[24:32], uint64(p.DstOffsetMs))
		binary.BigEndian.PutUint64(buf[32:40], uint64(len(p.DisplayName)))
		hasher.Write(buf[:])
		hasher.Write([]byte(p.DisplayName))
	}
	var out PeriodsKey
	copy(out[:], hasher.Sum(nil))
	return out
}

// PeriodCount is the number of periods in the history.
func (h ZoneHistory) PeriodCount() int { return len(h.Periods) }
