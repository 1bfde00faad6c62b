package tzdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRules struct {
	offsets      map[ZoneId]ZoneOffset
	transitions  map[ZoneId][]Instant
	invalidZones map[ZoneId]bool
}

func (f *fakeRules) Resolve(zoneId ZoneId, instant Instant) (ZoneOffset, error) {
	return f.offsets[zoneId], nil
}

func (f *fakeRules) NextTransition(zoneId ZoneId, instant Instant) (Instant, bool) {
	for _, tr := range f.transitions[zoneId] {
		if tr.After(instant) {
			return tr, true
		}
	}
	return 0, false
}

func (f *fakeRules) IsValidZoneId(zoneId ZoneId) bool {
	return !f.invalidZones[zoneId]
}

func TestOffsetPeriod_Equal_AllFieldsMustMatch(t *testing.T) {
	a := OffsetPeriod{Start: 0, End: 10, RawOffsetMs: 3600000, DstOffsetMs: 0, DisplayName: "GMT"}
	b := a
	assert.True(t, a.Equal(b))

	b.DisplayName = "BST"
	assert.False(t, a.Equal(b))
}

func TestNewOffsetPeriod_EndsAtNextTransitionWhenEarlierThanWindowEnd(t *testing.T) {
	rules := &fakeRules{
		offsets:     map[ZoneId]ZoneOffset{"Europe/London": {RawOffsetMs: 0, DstOffsetMs: 0, DisplayName: "GMT"}},
		transitions: map[ZoneId][]Instant{"Europe/London": {50}},
	}
	p, err := NewOffsetPeriod(rules, "Europe/London", 0, 100)
	require.NoError(t, err)
	assert.Equal(t, Instant(0), p.Start)
	assert.Equal(t, Instant(50), p.End)
}

func TestNewOffsetPeriod_EndsAtWindowEndWhenNoEarlierTransition(t *testing.T) {
	rules := &fakeRules{
		offsets: map[ZoneId]ZoneOffset{"Europe/London": {RawOffsetMs: 0, DstOffsetMs: 0, DisplayName: "GMT"}},
	}
	p, err := NewOffsetPeriod(rules, "Europe/London", 0, 100)
	require.NoError(t, err)
	assert.Equal(t, Instant(100), p.End)
}
