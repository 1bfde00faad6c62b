package tzdata

import "time"

// StdZoneRules implements ZoneRules on top of the standard library's own
// bundled IANA tz database (time.LoadLocation / time.Time.ZoneBounds). No
// example in the retrieval pack ships a fetchable, importable tz rule
// engine (go-tz/tzif and similar only exist as single reference files with
// no module path); the standard library's tzdata is itself the IANA
// database, not a hand-rolled substitute, so this is the one collaborator
// left on stdlib (see DESIGN.md).
type StdZoneRules struct{}

func (StdZoneRules) Resolve(zoneId ZoneId, instant Instant) (ZoneOffset, error) {
	loc, err := time.LoadLocation(string(zoneId))
	if err != nil {
		return ZoneOffset{}, err
	}
	t := instant.Time().In(loc)
	name, offsetSec := t.Zone()
	return ZoneOffset{
		RawOffsetMs: rawOffsetMs(loc, t),
		DstOffsetMs: int64(offsetSec)*1000 - rawOffsetMs(loc, t),
		DisplayName: name,
	}, nil
}

func (StdZoneRules) NextTransition(zoneId ZoneId, instant Instant) (Instant, bool) {
	loc, err := time.LoadLocation(string(zoneId))
	if err != nil {
		return 0, false
	}
	t := instant.Time().In(loc)
	_, end := t.ZoneBounds()
	if end.IsZero() {
		return 0, false
	}
	return FromTime(end), true
}

func (StdZoneRules) IsValidZoneId(zoneId ZoneId) bool {
	_, err := time.LoadLocation(string(zoneId))
	return err == nil
}

// rawOffsetMs approximates the standard (non-DST) offset for loc at t by
// sampling January 1st of the same year, which is outside the northern
// hemisphere's typical DST window; it is an approximation documented as
// such, not an authoritative rule-table lookup.
func rawOffsetMs(loc *time.Location, t time.Time) int64 {
	jan := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, loc)
	_, offsetSec := jan.Zone()
	return int64(offsetSec) * 1000
}
