// Package testutil holds hand-written fakes shared by tests across
// packages.
package testutil

import (
	"time"

	"tzcore/internal/geozone"
	"tzcore/internal/provider"
	"tzcore/internal/tzdata"
)

// FakeZoneRules is an in-memory tzdata.ZoneRules backed by literal
// OffsetPeriod sequences, for tests that need deterministic zone histories
// without a real IANA data file.
type FakeZoneRules struct {
	Zones map[tzdata.ZoneId][]tzdata.OffsetPeriod
}

func NewFakeZoneRules() *FakeZoneRules {
	return &FakeZoneRules{Zones: make(map[tzdata.ZoneId][]tzdata.OffsetPeriod)}
}

// AddConstantZone registers a zone with a single offset period spanning all
// time, the common case for tests that don't care about transitions.
func (f *FakeZoneRules) AddConstantZone(id tzdata.ZoneId, rawOffsetMs, dstOffsetMs int64, displayName string) {
	f.Zones[id] = []tzdata.OffsetPeriod{{
		Start:       tzdata.MinInstant,
		End:         tzdata.MaxInstantValue,
		RawOffsetMs: rawOffsetMs,
		DstOffsetMs: dstOffsetMs,
		DisplayName: displayName,
	}}
}

// AddPeriods registers a zone with an explicit, pre-sorted period sequence.
func (f *FakeZoneRules) AddPeriods(id tzdata.ZoneId, periods []tzdata.OffsetPeriod) {
	f.Zones[id] = periods
}

func (f *FakeZoneRules) Resolve(zoneId tzdata.ZoneId, instant tzdata.Instant) (tzdata.ZoneOffset, error) {
	periods, ok := f.Zones[zoneId]
	if !ok {
		return tzdata.ZoneOffset{}, &unknownZoneError{zoneId}
	}
	for _, p := range periods {
		if !instant.Before(p.Start) && instant.Before(p.End) {
			return tzdata.ZoneOffset{RawOffsetMs: p.RawOffsetMs, DstOffsetMs: p.DstOffsetMs, DisplayName: p.DisplayName}, nil
		}
	}
	last := periods[len(periods)-1]
	return tzdata.ZoneOffset{RawOffsetMs: last.RawOffsetMs, DstOffsetMs: last.DstOffsetMs, DisplayName: last.DisplayName}, nil
}

func (f *FakeZoneRules) NextTransition(zoneId tzdata.ZoneId, instant tzdata.Instant) (tzdata.Instant, bool) {
	periods, ok := f.Zones[zoneId]
	if !ok {
		return 0, false
	}
	for _, p := range periods {
		if p.Start.After(instant) {
			return p.Start, true
		}
	}
	return 0, false
}

func (f *FakeZoneRules) IsValidZoneId(zoneId tzdata.ZoneId) bool {
	_, ok := f.Zones[zoneId]
	return ok
}

type unknownZoneError struct {
	zoneId tzdata.ZoneId
}

func (e *unknownZoneError) Error() string { return "unknown zone id: " + string(e.zoneId) }

// FakeCancellable records whether it has been cancelled.
type FakeCancellable struct {
	Cancelled bool
}

func (c *FakeCancellable) Cancel() { c.Cancelled = true }

// FakeEnvironment is a synchronous, manually-driven provider.Environment:
// nothing fires until the test calls FireTimeout, FireLocationKnown,
// FireLocationNotKnown or FirePassiveEnd itself, which keeps FSM tests deterministic and free of real timers.
type FakeEnvironment struct {
	Now time.Duration

	pendingTimeout   *pendingTimeout
	pendingListen    *pendingListen
	pendingPassive   provider.PassiveEndFunc
}

type pendingTimeout struct {
	token    string
	callback provider.TimeoutFunc
	cancel   *FakeCancellable
}

type pendingListen struct {
	onResult provider.LocationResultFunc
	cancel   *FakeCancellable
}

func NewFakeEnvironment() *FakeEnvironment {
	return &FakeEnvironment{}
}

func (e *FakeEnvironment) ScheduleTimeout(token string, delay time.Duration, callback provider.TimeoutFunc) provider.Cancellable {
	c := &FakeCancellable{}
	e.pendingTimeout = &pendingTimeout{token: token, callback: callback, cancel: c}
	return c
}

func (e *FakeEnvironment) ListenActive(duration time.Duration, onResult provider.LocationResultFunc) provider.Cancellable {
	c := &FakeCancellable{}
	e.pendingListen = &pendingListen{onResult: onResult, cancel: c}
	return c
}

func (e *FakeEnvironment) ListenPassive(duration time.Duration, onResult provider.LocationResultFunc, onEnd provider.PassiveEndFunc) provider.Cancellable {
	c := &FakeCancellable{}
	e.pendingListen = &pendingListen{onResult: onResult, cancel: c}
	e.pendingPassive = onEnd
	return c
}

func (e *FakeEnvironment) ElapsedRealtime() time.Duration { return e.Now }

// FireTimeout invokes the pending timeout callback if it has not been
// cancelled since it was scheduled.
func (e *FakeEnvironment) FireTimeout() {
	if e.pendingTimeout == nil || e.pendingTimeout.cancel.Cancelled {
		return
	}
	t := e.pendingTimeout
	e.pendingTimeout = nil
	t.callback(t.token)
}

// FireLocationKnown delivers a known location to the pending listen
// callback if it has not been cancelled.
func (e *FakeEnvironment) FireLocationKnown(lat, lng float64) {
	if e.pendingListen == nil || e.pendingListen.cancel.Cancelled {
		return
	}
	l := e.pendingListen
	e.pendingListen = nil
	l.onResult(true, lat, lng, e.Now)
}

// FireLocationNotKnown delivers a not-known result to the pending listen
// callback if it has not been cancelled.
func (e *FakeEnvironment) FireLocationNotKnown() {
	if e.pendingListen == nil || e.pendingListen.cancel.Cancelled {
		return
	}
	l := e.pendingListen
	e.pendingListen = nil
	l.onResult(false, 0, 0, e.Now)
}

// FirePassiveEnd reports a passive listen window ending after
// actualDuration.
func (e *FakeEnvironment) FirePassiveEnd(actualDuration time.Duration) {
	if e.pendingPassive == nil {
		return
	}
	cb := e.pendingPassive
	e.pendingPassive = nil
	cb(actualDuration)
}

// FakeGeoZoneFinder maps LocationTokens to literal zone id lists, with
// lookups keyed by the same cell-bucketing geozone.TokenForLatLng uses.
type FakeGeoZoneFinder struct {
	Zones map[geozone.LocationToken][]tzdata.ZoneId
	Err   error
}

func NewFakeGeoZoneFinder() *FakeGeoZoneFinder {
	return &FakeGeoZoneFinder{Zones: make(map[geozone.LocationToken][]tzdata.ZoneId)}
}

// SetZonesForLatLng registers the zone ids returned for the cell containing
// (lat, lng).
func (f *FakeGeoZoneFinder) SetZonesForLatLng(lat, lng float64, zoneIds []tzdata.ZoneId) {
	f.Zones[geozone.TokenForLatLng(lat, lng)] = zoneIds
}

func (f *FakeGeoZoneFinder) TokenForLatLng(latDegrees, lngDegrees float64) geozone.LocationToken {
	return geozone.TokenForLatLng(latDegrees, lngDegrees)
}

func (f *FakeGeoZoneFinder) ZoneIdsForToken(token geozone.LocationToken) ([]tzdata.ZoneId, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Zones[token], nil
}

func (f *FakeGeoZoneFinder) Close() error { return nil }
