package geozone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tzcore/internal/geozone"
	"tzcore/internal/tzdata"
)

func TestTokenForLatLng_SameCellProducesEqualToken(t *testing.T) {
	a := geozone.TokenForLatLng(51.500001, -0.100001)
	b := geozone.TokenForLatLng(51.500002, -0.100002)
	assert.Equal(t, a, b)
}

func TestTokenForLatLng_DistantCoordinatesProduceDifferentTokens(t *testing.T) {
	a := geozone.TokenForLatLng(51.5, -0.1)
	b := geozone.TokenForLatLng(-33.87, 151.21)
	assert.NotEqual(t, a, b)
}

func TestStaticGeoZoneFinder_ReturnsConfiguredZonesForToken(t *testing.T) {
	token := geozone.TokenForLatLng(51.5, -0.1)
	finder := geozone.NewStaticGeoZoneFinder(map[geozone.LocationToken][]tzdata.ZoneId{
		token: {"Europe/London"},
	})

	got := finder.TokenForLatLng(51.5, -0.1)
	zones, err := finder.ZoneIdsForToken(got)
	require.NoError(t, err)
	assert.Equal(t, []tzdata.ZoneId{"Europe/London"}, zones)
}

func TestStaticGeoZoneFinder_UnknownTokenReturnsEmpty(t *testing.T) {
	finder := geozone.NewStaticGeoZoneFinder(nil)
	zones, err := finder.ZoneIdsForToken(geozone.TokenForLatLng(0, 0))
	require.NoError(t, err)
	assert.Empty(t, zones)
}

func TestStaticGeoZoneFinder_Close_IsNoError(t *testing.T) {
	finder := geozone.NewStaticGeoZoneFinder(nil)
	assert.NoError(t, finder.Close())
}
