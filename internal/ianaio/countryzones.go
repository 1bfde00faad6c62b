package ianaio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"tzcore/internal/country"
	"tzcore/internal/tzdata"
	"tzcore/internal/tzerr"
)

// ParseCountryZones reads the "countryzones" textual protobuf-like record
// that configures each country's zone set. The real on-device input is a
// protobuf, out of scope for this package. This reader accepts a simple
// line-oriented stand-in so cmd/tzbuild is runnable end to end:
//
//	country <isoCode> [default=<zoneId>] [boost]
//	  zone <zoneId> <utcOffset> [priority=<n>] [hidden] [alias=<id>]
//	  ...
//
// Blank lines and lines starting with '#' are ignored.
func ParseCountryZones(r io.Reader) ([]country.Input, error) {
	var out []country.Input
	var cur *country.Input

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		fields := strings.Fields(trimmed)
		switch fields[0] {
		case "country":
			if cur != nil {
				out = append(out, *cur)
			}
			cur = &country.Input{IsoCode: tzdata.CountryCode(fields[1])}
			for _, f := range fields[2:] {
				switch {
				case f == "boost":
					cur.DefaultTimeZoneBoost = true
				case strings.HasPrefix(f, "default="):
					id := tzdata.ZoneId(strings.TrimPrefix(f, "default="))
					cur.DefaultZoneId = &id
				}
			}
		case "zone":
			if cur == nil {
				return nil, tzerr.New(tzerr.InvalidInput, "ZoneBeforeCountry",
					"zone line before any country line at line "+strconv.Itoa(lineNo))
			}
			zm := country.ZoneMappingInput{
				ZoneId:         tzdata.ZoneId(fields[1]),
				UtcOffset:      fields[2],
				Priority:       1,
				ShownInPicker:  true,
			}
			for _, f := range fields[3:] {
				switch {
				case f == "hidden":
					zm.ShownInPicker = false
				case strings.HasPrefix(f, "priority="):
					n, err := strconv.Atoi(strings.TrimPrefix(f, "priority="))
					if err != nil {
						return nil, tzerr.Wrap(tzerr.InvalidInput, "BadPriority", "invalid priority at line "+strconv.Itoa(lineNo), err)
					}
					zm.Priority = n
				case strings.HasPrefix(f, "alias="):
					id := tzdata.ZoneId(strings.TrimPrefix(f, "alias="))
					zm.AliasId = &id
				}
			}
			cur.Zones = append(cur.Zones, zm)
		}
	}
	if cur != nil {
		out = append(out, *cur)
	}
	if err := scanner.Err(); err != nil {
		return nil, tzerr.Wrap(tzerr.InvalidInput, "CountryZonesReadError", "failed reading countryzones", err)
	}
	return out, nil
}
