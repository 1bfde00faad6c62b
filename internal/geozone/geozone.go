// Package geozone supplies the GeoZoneFinder collaborator the ProviderFSM
// uses to turn a location into zone ids. A lat/lng is first reduced to a
// coarser LocationToken using cell coarsening, then the token is used as the
// lookup key, so samples within the same cell map to the same zone ids.
package geozone

import (
	"fmt"
	"math"

	"tzcore/internal/tzdata"
)

// cellLevel controls how coarse the grid is; larger values mean smaller
// cells. The real S2 hierarchy is not reproduced here, only its coarsening
// property.
const cellLevel = 8

// LocationToken is an opaque, hashable identifier for a region of space
// coarser than a raw lat/lng. Two samples that fall in the same cell
// produce an equal token.
type LocationToken struct {
	cellID int64
}

func (t LocationToken) String() string {
	return fmt.Sprintf("LocationToken{cellID=%d}", t.cellID)
}

// TokenForLatLng buckets (latDegrees, lngDegrees) into a fixed-size cell and
// returns its token.
func TokenForLatLng(latDegrees, lngDegrees float64) LocationToken {
	cellsPerDegree := float64(int64(1) << cellLevel)
	latCell := int64(math.Floor(latDegrees * cellsPerDegree))
	lngCell := int64(math.Floor(lngDegrees * cellsPerDegree))
	// Combine both cells into one id (lat cell shifted into the high bits,
	// XORed with the lng cell) so the token is a single comparable value.
	return LocationToken{cellID: latCell<<32 ^ lngCell}
}

// Finder converts locations to zone ids.
type Finder interface {
	TokenForLatLng(latDegrees, lngDegrees float64) LocationToken
	ZoneIdsForToken(token LocationToken) ([]tzdata.ZoneId, error)
	Close() error
}

// StaticGeoZoneFinder is an in-memory Finder backed by a fixed table of
// cell -> zone ids, standing in for the real tzs2range binary range file
// reader: it keeps the same interface shape but trades the file format for
// a map literal so cmd/tzprovider runs standalone.
type StaticGeoZoneFinder struct {
	table map[LocationToken][]tzdata.ZoneId
}

// NewStaticGeoZoneFinder builds a Finder over the given cell->zones table.
func NewStaticGeoZoneFinder(table map[LocationToken][]tzdata.ZoneId) *StaticGeoZoneFinder {
	return &StaticGeoZoneFinder{table: table}
}

func (f *StaticGeoZoneFinder) TokenForLatLng(latDegrees, lngDegrees float64) LocationToken {
	return TokenForLatLng(latDegrees, lngDegrees)
}

func (f *StaticGeoZoneFinder) ZoneIdsForToken(token LocationToken) ([]tzdata.ZoneId, error) {
	return f.table[token], nil
}

func (f *StaticGeoZoneFinder) Close() error { return nil }
