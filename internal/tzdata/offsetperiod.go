package tzdata

// OffsetPeriod is an immutable value: the [Start, End) span during which a
// zone's offsets and display name are constant.
type OffsetPeriod struct {
	Start       Instant
	End         Instant
	RawOffsetMs int64
	DstOffsetMs int64
	DisplayName string
}

// Equal reports field-by-field equality.
func (p OffsetPeriod) Equal(o OffsetPeriod) bool {
	return p.Start == o.Start && p.End == o.End &&
		p.RawOffsetMs == o.RawOffsetMs && p.DstOffsetMs == o.DstOffsetMs &&
		p.DisplayName == o.DisplayName
}

// NewOffsetPeriod builds the period starting at start inside [start, end):
// its End is the earlier of the next rule transition reported by rules or
// end itself.
func NewOffsetPeriod(rules ZoneRules, zoneId ZoneId, start, end Instant) (OffsetPeriod, error) {
	offset, err := rules.Resolve(zoneId, start)
	if err != nil {
		return OffsetPeriod{}, err
	}

	periodEnd := end
	if next, ok := rules.NextTransition(zoneId, start); ok && next.Before(end) {
		periodEnd = next
	}

	return OffsetPeriod{
		Start:       start,
		End:         periodEnd,
		RawOffsetMs: offset.RawOffsetMs,
		DstOffsetMs: offset.DstOffsetMs,
		DisplayName: offset.DisplayName,
	}, nil
}
