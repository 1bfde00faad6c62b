package country_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tzcore/internal/country"
	"tzcore/internal/diag"
	"tzcore/internal/testutil"
	"tzcore/internal/tzdata"
	"tzcore/internal/tzerr"
)

func zoneId(s string) *tzdata.ZoneId {
	z := tzdata.ZoneId(s)
	return &z
}

func TestResolve_SingleZoneCountry_DefaultIsTheOnlyZone(t *testing.T) {
	rules := testutil.NewFakeZoneRules()
	rules.AddConstantZone("Europe/London", 0, 0, "GMT")

	in := country.Input{
		IsoCode: "gb",
		Zones: []country.ZoneMappingInput{
			{ZoneId: "Europe/London", UtcOffset: "+00:00", Priority: 1, ShownInPicker: true},
		},
	}

	out, err := country.NewResolver(rules, diag.New()).Resolve(
		in, []tzdata.ZoneId{"Europe/London"}, nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, tzdata.ZoneId("Europe/London"), out.DefaultZoneId)
	require.Len(t, out.Zones, 1)
	assert.True(t, out.Zones[0].ShownInPicker)
	assert.Nil(t, out.Zones[0].NotUsedAfter)
}

func TestResolve_SingleZoneCountry_PickerCanBeHidden(t *testing.T) {
	rules := testutil.NewFakeZoneRules()
	rules.AddConstantZone("Europe/Paris", 3600000, 0, "CET")

	in := country.Input{
		IsoCode: "fr",
		Zones: []country.ZoneMappingInput{
			{ZoneId: "Europe/Paris", UtcOffset: "+01:00", Priority: 1, ShownInPicker: false},
		},
	}

	out, err := country.NewResolver(rules, diag.New()).Resolve(
		in, []tzdata.ZoneId{"Europe/Paris"}, nil, 0, 0)
	require.NoError(t, err)
	assert.False(t, out.Zones[0].ShownInPicker)
}

func TestResolve_NoZones_IsRejected(t *testing.T) {
	rules := testutil.NewFakeZoneRules()
	in := country.Input{IsoCode: "xx", Zones: nil}
	_, err := country.NewResolver(rules, diag.New()).Resolve(in, nil, nil, 0, 0)
	require.Error(t, err)
	assert.True(t, tzerr.Is(err, tzerr.CodeNoZones))
}

func TestResolve_DuplicateZoneIds_IsRejected(t *testing.T) {
	rules := testutil.NewFakeZoneRules()
	rules.AddConstantZone("Europe/London", 0, 0, "GMT")
	in := country.Input{
		IsoCode: "gb",
		Zones: []country.ZoneMappingInput{
			{ZoneId: "Europe/London", UtcOffset: "+00:00", Priority: 1},
			{ZoneId: "Europe/London", UtcOffset: "+00:00", Priority: 1},
		},
	}
	_, err := country.NewResolver(rules, diag.New()).Resolve(in, nil, nil, 0, 0)
	require.Error(t, err)
	assert.True(t, tzerr.Is(err, tzerr.CodeDuplicateZones))
}

func TestResolve_MultiZoneWithoutExplicitDefault_IsAmbiguous(t *testing.T) {
	rules := testutil.NewFakeZoneRules()
	rules.AddConstantZone("America/New_York", -18000000, 0, "EST")
	rules.AddConstantZone("America/Chicago", -21600000, 0, "CST")
	in := country.Input{
		IsoCode: "us",
		Zones: []country.ZoneMappingInput{
			{ZoneId: "America/New_York", UtcOffset: "-05:00", Priority: 10},
			{ZoneId: "America/Chicago", UtcOffset: "-06:00", Priority: 9},
		},
	}
	_, err := country.NewResolver(rules, diag.New()).Resolve(
		in, []tzdata.ZoneId{"America/New_York", "America/Chicago"}, nil, 0, 0)
	require.Error(t, err)
	assert.True(t, tzerr.Is(err, tzerr.CodeAmbiguousDefault))
}

func TestResolve_BoostWithoutExplicitDefault_IsAmbiguous(t *testing.T) {
	rules := testutil.NewFakeZoneRules()
	rules.AddConstantZone("Europe/London", 0, 0, "GMT")
	in := country.Input{
		IsoCode:              "gb",
		DefaultTimeZoneBoost: true,
		Zones: []country.ZoneMappingInput{
			{ZoneId: "Europe/London", UtcOffset: "+00:00", Priority: 1},
		},
	}
	_, err := country.NewResolver(rules, diag.New()).Resolve(
		in, []tzdata.ZoneId{"Europe/London"}, nil, 0, 0)
	require.Error(t, err)
	assert.True(t, tzerr.Is(err, tzerr.CodeAmbiguousDefault))
}

func TestResolve_MultiZoneWithExplicitDefault_Succeeds(t *testing.T) {
	rules := testutil.NewFakeZoneRules()
	rules.AddConstantZone("America/New_York", -18000000, 0, "EST")
	rules.AddConstantZone("America/Chicago", -21600000, 0, "CST")
	in := country.Input{
		IsoCode:       "us",
		DefaultZoneId: zoneId("America/New_York"),
		Zones: []country.ZoneMappingInput{
			{ZoneId: "America/New_York", UtcOffset: "-05:00", Priority: 10},
			{ZoneId: "America/Chicago", UtcOffset: "-06:00", Priority: 9},
		},
	}
	out, err := country.NewResolver(rules, diag.New()).Resolve(
		in, []tzdata.ZoneId{"America/New_York", "America/Chicago"}, nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, tzdata.ZoneId("America/New_York"), out.DefaultZoneId)
}

func TestResolve_AliasReconciliation_MismatchIsRejected(t *testing.T) {
	rules := testutil.NewFakeZoneRules()
	rules.AddConstantZone("America/Indianapolis", -18000000, 0, "EST")
	in := country.Input{
		IsoCode: "us",
		Zones: []country.ZoneMappingInput{
			{ZoneId: "America/Indianapolis", UtcOffset: "-05:00", Priority: 1, AliasId: zoneId("America/Indiana/Indianapolis")},
		},
	}
	aliases := map[tzdata.ZoneId]tzdata.ZoneId{
		"America/Indianapolis": "America/New_York",
	}
	_, err := country.NewResolver(rules, diag.New()).Resolve(
		in, []tzdata.ZoneId{"America/New_York"}, aliases, 0, 0)
	require.Error(t, err)
	assert.True(t, tzerr.Is(err, tzerr.CodeIanaMismatch))
}

func TestResolve_AliasReconciliation_MatchSucceeds(t *testing.T) {
	rules := testutil.NewFakeZoneRules()
	rules.AddConstantZone("America/Indianapolis", -18000000, 0, "EST")
	in := country.Input{
		IsoCode: "us",
		Zones: []country.ZoneMappingInput{
			{ZoneId: "America/Indianapolis", UtcOffset: "-05:00", Priority: 1, AliasId: zoneId("America/New_York")},
		},
	}
	aliases := map[tzdata.ZoneId]tzdata.ZoneId{
		"America/Indianapolis": "America/New_York",
	}
	out, err := country.NewResolver(rules, diag.New()).Resolve(
		in, []tzdata.ZoneId{"America/New_York"}, aliases, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, tzdata.ZoneId("America/Indianapolis"), out.DefaultZoneId)
	require.NotNil(t, out.Zones[0].Alts)
	assert.Equal(t, tzdata.ZoneId("America/New_York"), *out.Zones[0].Alts)
}

func TestResolve_OffsetMismatch_IsRejected(t *testing.T) {
	rules := testutil.NewFakeZoneRules()
	rules.AddConstantZone("Europe/London", 0, 0, "GMT")
	in := country.Input{
		IsoCode: "gb",
		Zones: []country.ZoneMappingInput{
			{ZoneId: "Europe/London", UtcOffset: "+01:00", Priority: 1},
		},
	}
	_, err := country.NewResolver(rules, diag.New()).Resolve(
		in, []tzdata.ZoneId{"Europe/London"}, nil, 0, 0)
	require.Error(t, err)
	assert.True(t, tzerr.Is(err, tzerr.CodeOffsetMismatch))
}

func TestResolve_PriorityClash_IsRejected(t *testing.T) {
	rules := testutil.NewFakeZoneRules()
	rules.AddConstantZone("Europe/Berlin", 3600000, 0, "CET")
	rules.AddConstantZone("Europe/Busingen", 3600000, 0, "CET")
	in := country.Input{
		IsoCode:       "de",
		DefaultZoneId: zoneId("Europe/Berlin"),
		Zones: []country.ZoneMappingInput{
			{ZoneId: "Europe/Berlin", UtcOffset: "+01:00", Priority: 5},
			{ZoneId: "Europe/Busingen", UtcOffset: "+01:00", Priority: 5},
		},
	}
	_, err := country.NewResolver(rules, diag.New()).Resolve(
		in, []tzdata.ZoneId{"Europe/Berlin", "Europe/Busingen"}, nil, 0, 0)
	require.Error(t, err)
	assert.True(t, tzerr.Is(err, tzerr.CodePriorityClash))
}
