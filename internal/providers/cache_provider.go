package providers

import "tzcore/internal/tzdata"

// NewPeriodCacheProvider allocates the freecache-backed OffsetPeriod cache
// shared by every country's CountryResolver during a build.
func NewPeriodCacheProvider(sizeBytes int) *tzdata.PeriodCache {
	if sizeBytes <= 0 {
		sizeBytes = 4 * 1024 * 1024
	}
	return tzdata.NewPeriodCache(sizeBytes)
}
