package tzdata

import (
	"fmt"

	"github.com/coocood/freecache"
	"github.com/goccy/go-json"
)

// PeriodCache memoizes the OffsetPeriod sequence produced while building a
// ZoneHistory, keyed by (zoneId, rangeStart, rangeEnd). Countries that share
// a zone id, or repeated builds over the same fixed analysis window, avoid
// re-walking every transition the ZoneRules collaborator would otherwise
// replay.
type PeriodCache struct {
	cache *freecache.Cache
}

// NewPeriodCache allocates a freecache-backed cache of approximately
// sizeBytes.
func NewPeriodCache(sizeBytes int) *PeriodCache {
	return &PeriodCache{cache: freecache.NewCache(sizeBytes)}
}

func periodCacheKey(zoneId ZoneId, s, e Instant) []byte {
	return []byte(fmt.Sprintf("%s|%d|%d", zoneId, s, e))
}

// NewZoneHistoryCached behaves like NewZoneHistory but consults cache first
// and populates it on a miss.
func NewZoneHistoryCached(cache *PeriodCache, rules ZoneRules, zoneId ZoneId, priority int, s, e Instant) (ZoneHistory, error) {
	if cache == nil {
		return NewZoneHistory(rules, zoneId, priority, s, e)
	}

	key := periodCacheKey(zoneId, s, e)
	if raw, err := cache.cache.Get(key); err == nil {
		var periods []OffsetPeriod
		if err := json.Unmarshal(raw, &periods); err == nil {
			return ZoneHistory{ZoneId: zoneId, Priority: priority, Periods: periods}, nil
		}
	}

	h, err := NewZoneHistory(rules, zoneId, priority, s, e)
	if err != nil {
		return ZoneHistory{}, err
	}

	if encoded, err := json.Marshal(h.Periods); err == nil {
		_ = cache.cache.Set(key, encoded, 0)
	}
	return h, nil
}
