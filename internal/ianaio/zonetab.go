package ianaio

import (
	"bufio"
	"io"
	"strings"

	"tzcore/internal/tzdata"
	"tzcore/internal/tzerr"
)

// CountryZoneTab maps an upper-case ISO country code to the ordered,
// de-duplicated list of zone ids zone.tab lists for it.
type CountryZoneTab map[string][]tzdata.ZoneId

// ParseZoneTab reads a zone.tab file: "ISO_UPPER<TAB>coords<TAB>zoneId"
// lines; '#'-prefixed and blank lines are ignored. Returns a map from
// upper-case ISO code to that country's zone ids, grounded on
// ZoneTabFile.createCountryToOlsonIdsMap in original_source: zone.tab is
// inherently per-country, and callers must reconcile against a country's
// own subset, not the whole file's id set.
func ParseZoneTab(r io.Reader) (CountryZoneTab, error) {
	out := make(CountryZoneTab)
	seen := make(map[string]map[tzdata.ZoneId]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			continue
		}
		iso := strings.TrimSpace(fields[0])
		zoneId := tzdata.ZoneId(strings.TrimSpace(fields[2]))
		if iso == "" || zoneId == "" {
			continue
		}
		isoSeen, ok := seen[iso]
		if !ok {
			isoSeen = make(map[tzdata.ZoneId]bool)
			seen[iso] = isoSeen
		}
		if isoSeen[zoneId] {
			continue
		}
		isoSeen[zoneId] = true
		out[iso] = append(out[iso], zoneId)
	}
	if err := scanner.Err(); err != nil {
		return nil, tzerr.Wrap(tzerr.InvalidInput, "ZoneTabReadError", "failed reading zone.tab", err)
	}
	return out, nil
}
