package tzdata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tzcore/internal/testutil"
	"tzcore/internal/tzdata"
)

func TestNewZoneHistoryCached_NilCacheFallsBackToDirectBuild(t *testing.T) {
	rules := testutil.NewFakeZoneRules()
	rules.AddConstantZone("Europe/London", 0, 0, "GMT")

	h, err := tzdata.NewZoneHistoryCached(nil, rules, "Europe/London", 3, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, tzdata.ZoneId("Europe/London"), h.ZoneId)
	assert.Equal(t, 3, h.Priority)
}

func TestNewZoneHistoryCached_MissThenHitReturnsEquivalentHistory(t *testing.T) {
	rules := testutil.NewFakeZoneRules()
	rules.AddConstantZone("Europe/Paris", 3600000, 0, "CET")
	cache := tzdata.NewPeriodCache(1024 * 1024)

	first, err := tzdata.NewZoneHistoryCached(cache, rules, "Europe/Paris", 7, 0, 500)
	require.NoError(t, err)

	second, err := tzdata.NewZoneHistoryCached(cache, rules, "Europe/Paris", 7, 0, 500)
	require.NoError(t, err)

	assert.Equal(t, first.Periods, second.Periods)
	assert.Equal(t, first.ZoneId, second.ZoneId)
}
