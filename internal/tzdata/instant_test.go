package tzdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInstant_MaxInstant_IsTheTzCutoffSentinel(t *testing.T) {
	want := time.Date(2038, time.January, 19, 3, 14, 7, 0, time.UTC)
	assert.Equal(t, want, MaxInstant.Time())
}

func TestInstant_FromTime_RoundTrips(t *testing.T) {
	tm := time.Date(2021, time.March, 14, 8, 30, 0, 0, time.UTC)
	i := FromTime(tm)
	assert.True(t, tm.Equal(i.Time()))
}

func TestInstant_BeforeAfter(t *testing.T) {
	a := Instant(100)
	b := Instant(200)
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, b.After(a))
	assert.False(t, a.After(b))
}

func TestInstant_AddDuration_SaturatesAtMax(t *testing.T) {
	i := MaxInstantValue.AddDuration(time.Hour)
	assert.Equal(t, MaxInstantValue, i)
}

func TestInstant_AddDuration_SaturatesAtMin(t *testing.T) {
	i := MinInstant.AddDuration(-time.Hour)
	assert.Equal(t, MinInstant, i)
}

func TestInstant_AddDuration_OrdinaryCase(t *testing.T) {
	i := Instant(1000).AddDuration(2 * time.Second)
	assert.Equal(t, Instant(3000), i)
}

func TestInstant_MinMax(t *testing.T) {
	a, b := Instant(5), Instant(10)
	assert.Equal(t, a, Min(a, b))
	assert.Equal(t, b, Max(a, b))
	assert.Equal(t, a, Min(b, a))
	assert.Equal(t, b, Max(b, a))
}
