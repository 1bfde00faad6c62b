// Package country implements the per-country validation, default-zone and
// visibility computation, and output record emission.
package country

import "tzcore/internal/tzdata"

// ZoneMappingInput is one zone entry in a CountryInput. Struct
// tags are validated by gookit/validate (see NewInputValidator) for the
// shape-level invariants that don't need cross-field or ZoneRules context;
// the rest (uniqueness, IANA reconciliation, offset sanity) are checked by
// Resolve itself and reported through Diagnostics.
type ZoneMappingInput struct {
	ZoneId        tzdata.ZoneId `validate:"required"`
	UtcOffset     string        `validate:"required"`
	Priority      int           `validate:"min:1|max:10"`
	ShownInPicker bool
	AliasId       *tzdata.ZoneId
}

// Input is the per-country build input.
type Input struct {
	IsoCode              tzdata.CountryCode `validate:"required|regex:^[a-z]{2}$"`
	DefaultZoneId        *tzdata.ZoneId
	DefaultTimeZoneBoost bool
	Zones                []ZoneMappingInput
}

// OutputZone is one zone entry in a CountryOutputRecord.
type OutputZone struct {
	ZoneId        tzdata.ZoneId
	ShownInPicker bool
	NotUsedAfter  *tzdata.Instant
	Replacement   *tzdata.ZoneId
	// Alts is the reconciled IANA alias id (the input's AliasId, carried
	// through once IANA reconciliation has confirmed it against the
	// backward data), emitted as the `alts` XML attribute.
	Alts *tzdata.ZoneId
}

// OutputRecord is the per-country build output, emitted in the input order
// of Zones.
type OutputRecord struct {
	IsoCode              tzdata.CountryCode
	DefaultZoneId        tzdata.ZoneId
	DefaultTimeZoneBoost bool
	EverUsesUtc          bool
	Zones                []OutputZone
}
