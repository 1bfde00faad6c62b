package tzdata

// ZoneId is a tz database identifier such as "Europe/London".
type ZoneId string

// CountryCode is a two-letter lowercase ASCII ISO country code.
type CountryCode string

// ZoneOffset describes the instantaneous offset state of a zone: its raw
// (standard) UTC offset, any DST offset currently in effect, and the
// localized display name in effect for that combination.
type ZoneOffset struct {
	RawOffsetMs int64
	DstOffsetMs int64
	DisplayName string
}

// ZoneRules is the external collaborator resolving a zone id and instant to
// offset/name information. A real implementation is backed by an
// ICU-equivalent transition table; tzcore only ever consumes it through this
// interface.
type ZoneRules interface {
	// Resolve returns the ZoneOffset in effect for zoneId at instant.
	Resolve(zoneId ZoneId, instant Instant) (ZoneOffset, error)

	// NextTransition returns the instant of the first transition for zoneId
	// strictly after instant, or (0, false) if no later transition exists.
	NextTransition(zoneId ZoneId, instant Instant) (Instant, bool)

	// IsValidZoneId reports whether zoneId is a known, resolvable tz
	// database identifier.
	IsValidZoneId(zoneId ZoneId) bool
}
