package xmlout_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tzcore/internal/country"
	"tzcore/internal/tzdata"
	"tzcore/internal/xmlout"
)

func TestWrite_EmitsDefaultEverUtcAndHiddenPicker(t *testing.T) {
	notAfter := tzdata.Instant(167814000000)
	repl := tzdata.ZoneId("America/New_York")

	records := []*country.OutputRecord{
		{
			IsoCode:       "us",
			DefaultZoneId: "America/New_York",
			EverUsesUtc:   false,
			Zones: []country.OutputZone{
				{ZoneId: "America/New_York", ShownInPicker: true},
				{ZoneId: "America/Detroit", ShownInPicker: false, NotUsedAfter: &notAfter, Replacement: &repl},
			},
		},
	}

	var buf strings.Builder
	require.NoError(t, xmlout.Write(&buf, "2024a", records))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `ianaVersion="2024a"`)
	assert.Contains(t, out, `code="us"`)
	assert.Contains(t, out, `default="America/New_York"`)
	assert.Contains(t, out, `everutc="n"`)
	assert.Contains(t, out, `picker="n"`)
	assert.Contains(t, out, `notafter="167814000000"`)
	assert.Contains(t, out, `repl="America/New_York"`)
	assert.Contains(t, out, `>America/Detroit<`)
	assert.NotContains(t, out, `picker="n">America/New_York<`)
}

func TestWrite_EmitsAltsForReconciledAlias(t *testing.T) {
	alts := tzdata.ZoneId("America/Nuuk")
	records := []*country.OutputRecord{
		{
			IsoCode:       "gl",
			DefaultZoneId: "America/Godthab",
			EverUsesUtc:   false,
			Zones: []country.OutputZone{
				{ZoneId: "America/Godthab", ShownInPicker: true, Alts: &alts},
			},
		},
	}

	var buf strings.Builder
	require.NoError(t, xmlout.Write(&buf, "2024a", records))

	out := buf.String()
	assert.Contains(t, out, `alts="America/Nuuk"`)
	assert.Contains(t, out, `>America/Godthab<`)
}

func TestWrite_OmitsAltsWhenAbsent(t *testing.T) {
	records := []*country.OutputRecord{
		{IsoCode: "gb", DefaultZoneId: "Europe/London", EverUsesUtc: true,
			Zones: []country.OutputZone{{ZoneId: "Europe/London", ShownInPicker: true}}},
	}
	var buf strings.Builder
	require.NoError(t, xmlout.Write(&buf, "2024a", records))
	assert.NotContains(t, buf.String(), `alts=`)
}

func TestWrite_BoostOmittedWhenFalse(t *testing.T) {
	records := []*country.OutputRecord{
		{IsoCode: "gb", DefaultZoneId: "Europe/London", EverUsesUtc: true,
			Zones: []country.OutputZone{{ZoneId: "Europe/London", ShownInPicker: true}}},
	}
	var buf strings.Builder
	require.NoError(t, xmlout.Write(&buf, "2024a", records))
	assert.NotContains(t, buf.String(), `boost=`)
}

func TestWrite_BoostPresentWhenTrue(t *testing.T) {
	records := []*country.OutputRecord{
		{IsoCode: "us", DefaultZoneId: "America/New_York", DefaultTimeZoneBoost: true, EverUsesUtc: false,
			Zones: []country.OutputZone{{ZoneId: "America/New_York", ShownInPicker: true}}},
	}
	var buf strings.Builder
	require.NoError(t, xmlout.Write(&buf, "2024a", records))
	assert.Contains(t, buf.String(), `boost="y"`)
}
