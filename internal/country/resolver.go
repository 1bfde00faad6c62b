package country

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"tzcore/internal/diag"
	"tzcore/internal/tzdata"
	"tzcore/internal/tzerr"
	"tzcore/internal/zonetree"
)

// Fixed windows used for the usage ZoneTree.
var (
	ZoneUsageCalcsStart     = tzdata.FromTime(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC))
	ZoneUsageNotAfterCutoff = tzdata.MaxInstant
	ZoneUsageCalcsEnd       = ZoneUsageNotAfterCutoff.AddDuration(2 * 365 * 24 * time.Hour)
)

// Resolver validates a country's input and produces its OutputRecord.
type Resolver struct {
	rules tzdata.ZoneRules
	diags *diag.Diagnostics
	cache *tzdata.PeriodCache
}

func NewResolver(rules tzdata.ZoneRules, diags *diag.Diagnostics) *Resolver {
	return &Resolver{rules: rules, diags: diags}
}

// NewResolverWithCache is NewResolver plus a PeriodCache shared across
// countries that re-process the same zone id over the same fixed window.
func NewResolverWithCache(rules tzdata.ZoneRules, diags *diag.Diagnostics, cache *tzdata.PeriodCache) *Resolver {
	return &Resolver{rules: rules, diags: diags, cache: cache}
}

// Resolve validates in end to end: shape, zone-id uniqueness and iso-code
// casing, default-zone selection, per-zone validity, IANA alias
// reconciliation, offset sanity, UTC usage, and zone-tree usage, in that
// order, emitting the OutputRecord only once every step succeeds.
//
// ianaZoneList is this country's own zone.tab subset (e.g.
// CountryZoneTab["US"]), not the whole file's id set: zone.tab is grouped
// by country, and a country's expected id set is only ever compared against
// its own entries (matching the original's
// zoneTabMapping.get(isoCode.toUpperCase()) lookup).
func (r *Resolver) Resolve(in Input, ianaZoneList []tzdata.ZoneId, aliases map[tzdata.ZoneId]tzdata.ZoneId, sampleInstant, yearStartInstant tzdata.Instant) (*OutputRecord, error) {
	r.diags.Push(string(in.IsoCode))
	defer r.diags.Pop()

	if err := NewInputValidator(&in).Validate(); err != nil {
		r.diags.ErrorCause("shape validation failed", err)
		return nil, tzerr.Wrap(tzerr.InvalidInput, "ShapeInvalid", "input failed shape validation", err)
	}

	// Step 1: non-empty, unique zone ids.
	if len(in.Zones) == 0 {
		r.diags.Error("country has no zones")
		return nil, tzerr.New(tzerr.ValidationError, tzerr.CodeNoZones, "country has no zones")
	}
	seen := make(map[tzdata.ZoneId]bool, len(in.Zones))
	for _, z := range in.Zones {
		if seen[z.ZoneId] {
			r.diags.Errorf("duplicate zone id %s", z.ZoneId)
			return nil, tzerr.New(tzerr.IntegrityViolation, tzerr.CodeDuplicateZones, "duplicate zone id "+string(z.ZoneId))
		}
		seen[z.ZoneId] = true
	}
	if in.IsoCode != tzdata.CountryCode(strings.ToLower(string(in.IsoCode))) {
		r.diags.Error("iso code is not lowercase")
		return nil, tzerr.New(tzerr.IntegrityViolation, tzerr.CodeNonLowercaseIso, "iso code not lowercase")
	}

	// Step 2: default zone.
	defaultZoneId, err := resolveDefault(in)
	if err != nil {
		r.diags.ErrorCause("cannot determine default zone", err)
		return nil, err
	}

	// Step 3: every zone id resolvable.
	for _, z := range in.Zones {
		if !r.rules.IsValidZoneId(z.ZoneId) {
			r.diags.Errorf("invalid zone id %s", z.ZoneId)
			return nil, tzerr.New(tzerr.ValidationError, tzerr.CodeInvalidZoneId, "invalid zone id "+string(z.ZoneId))
		}
	}

	// Step 4: alias reconciliation vs IANA.
	if err := r.checkIanaReconciliation(in, ianaZoneList, aliases); err != nil {
		return nil, err
	}

	// Step 5: offset sanity.
	if err := r.checkOffsetSanity(in, sampleInstant); err != nil {
		return nil, err
	}

	// Step 6: everUsesUtc.
	everUsesUtc, err := r.computeEverUsesUtc(in, yearStartInstant)
	if err != nil {
		return nil, err
	}

	// Step 7: ZoneTree + usage.
	usage, err := r.computeUsage(in)
	if err != nil {
		return nil, err
	}

	// Step 8: emit output.
	out := &OutputRecord{
		IsoCode:              in.IsoCode,
		DefaultZoneId:        defaultZoneId,
		DefaultTimeZoneBoost: in.DefaultTimeZoneBoost,
		EverUsesUtc:          everUsesUtc,
	}
	for _, z := range in.Zones {
		oz := OutputZone{ZoneId: z.ZoneId, ShownInPicker: z.ShownInPicker, Alts: z.AliasId}
		if rec, ok := usage[z.ZoneId]; ok && !rec.StillInUse {
			na := rec.NotUsedAfter
			oz.NotUsedAfter = &na
			repl := rec.Replacement
			oz.Replacement = &repl
		}
		out.Zones = append(out.Zones, oz)
	}
	return out, nil
}

func resolveDefault(in Input) (tzdata.ZoneId, error) {
	if in.DefaultZoneId != nil {
		for _, z := range in.Zones {
			if z.ZoneId == *in.DefaultZoneId {
				return *in.DefaultZoneId, nil
			}
		}
		return "", tzerr.New(tzerr.ValidationError, tzerr.CodeAmbiguousDefault,
			"defaultZoneId "+string(*in.DefaultZoneId)+" is not a member of zones")
	}
	if in.DefaultTimeZoneBoost {
		return "", tzerr.New(tzerr.ValidationError, tzerr.CodeAmbiguousDefault,
			"defaultTimeZoneBoost requires an explicit defaultZoneId")
	}
	if len(in.Zones) == 1 {
		return in.Zones[0].ZoneId, nil
	}
	return "", tzerr.New(tzerr.ValidationError, tzerr.CodeAmbiguousDefault,
		"defaultZoneId absent and more than one zone present")
}

func (r *Resolver) checkIanaReconciliation(in Input, ianaZoneList []tzdata.ZoneId, aliases map[tzdata.ZoneId]tzdata.ZoneId) error {
	expected := make(map[tzdata.ZoneId]bool, len(in.Zones))
	for _, z := range in.Zones {
		wantAlias := z.ZoneId
		if z.AliasId != nil {
			target, ok := aliases[z.ZoneId]
			if !ok || target != *z.AliasId {
				r.diags.Errorf("aliasId %s for zone %s does not match backward data", *z.AliasId, z.ZoneId)
				return tzerr.New(tzerr.ValidationError, tzerr.CodeIanaMismatch,
					"aliasId does not match backward data for "+string(z.ZoneId))
			}
			wantAlias = *z.AliasId
		}
		expected[wantAlias] = true
	}

	ianaSet := make(map[tzdata.ZoneId]bool, len(ianaZoneList))
	for _, id := range ianaZoneList {
		ianaSet[id] = true
	}

	if len(expected) != len(ianaSet) {
		r.diags.Error("expected iana id set does not match ianaZoneList (size mismatch)")
		return tzerr.New(tzerr.ValidationError, tzerr.CodeIanaMismatch, "expected id set size differs from ianaZoneList")
	}
	for id := range expected {
		if !ianaSet[id] {
			r.diags.Errorf("expected iana id %s not present in ianaZoneList", id)
			return tzerr.New(tzerr.ValidationError, tzerr.CodeIanaMismatch, "expected id "+string(id)+" missing from ianaZoneList")
		}
	}
	return nil
}

func (r *Resolver) checkOffsetSanity(in Input, sampleInstant tzdata.Instant) error {
	for _, z := range in.Zones {
		offset, err := r.rules.Resolve(z.ZoneId, sampleInstant)
		if err != nil {
			r.diags.ErrorCause("offset lookup failed for "+string(z.ZoneId), err)
			return tzerr.Wrap(tzerr.ValidationError, tzerr.CodeOffsetMismatch, "offset lookup failed", err)
		}
		wantMs, err := parseHHmm(z.UtcOffset)
		if err != nil {
			r.diags.ErrorCause("cannot parse utcOffsetString for "+string(z.ZoneId), err)
			return tzerr.Wrap(tzerr.ValidationError, tzerr.CodeOffsetMismatch, "cannot parse utcOffsetString", err)
		}
		if offset.RawOffsetMs != wantMs {
			r.diags.Errorf("offset mismatch for %s: rules=%dms input=%dms", z.ZoneId, offset.RawOffsetMs, wantMs)
			return tzerr.New(tzerr.ValidationError, tzerr.CodeOffsetMismatch, "offset mismatch for "+string(z.ZoneId))
		}
		if wantMs%(15*60*1000) != 0 {
			r.diags.Warnf("utcOffsetString for %s is not a multiple of 15 minutes", z.ZoneId)
		}
	}
	return nil
}

// parseHHmm parses a "+HH:mm" / "-HH:mm" style offset string into
// milliseconds.
func parseHHmm(s string) (int64, error) {
	sign := int64(1)
	trimmed := s
	if strings.HasPrefix(s, "-") {
		sign = -1
		trimmed = s[1:]
	} else if strings.HasPrefix(s, "+") {
		trimmed = s[1:]
	}
	parts := strings.Split(trimmed, ":")
	if len(parts) != 2 {
		return 0, tzerr.New(tzerr.InvalidInput, "BadOffsetFormat", "expected HH:mm, got "+s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, tzerr.Wrap(tzerr.InvalidInput, "BadOffsetFormat", "bad hours in "+s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, tzerr.Wrap(tzerr.InvalidInput, "BadOffsetFormat", "bad minutes in "+s, err)
	}
	return sign * int64(h*3600+m*60) * 1000, nil
}

// maxEverUtcTransitions bounds the per-zone transition walk in
// computeEverUsesUtc. Real tz histories have far fewer transitions than
// this; exhausting it without finding a UTC period is logged as a warning
// rather than silently truncated, since it would mean the walk stopped
// short of the window's end.
const maxEverUtcTransitions = 4096

func (r *Resolver) computeEverUsesUtc(in Input, yearStartInstant tzdata.Instant) (bool, error) {
	for _, z := range in.Zones {
		// Step 6 asks for any time strictly after yearStartInstant; starting
		// one millisecond later keeps the check inside the same first
		// period (OffsetPeriod is constant over [Start, End), which is
		// never empty) while matching the spec's wording literally.
		instant := yearStartInstant + 1
		exhausted := true
		for i := 0; i < maxEverUtcTransitions; i++ {
			offset, err := r.rules.Resolve(z.ZoneId, instant)
			if err != nil {
				return false, tzerr.Wrap(tzerr.RuntimeLookupFailure, "RulesLookupFailed", "rules lookup failed", err)
			}
			if offset.RawOffsetMs+offset.DstOffsetMs == 0 {
				return true, nil
			}
			next, ok := r.rules.NextTransition(z.ZoneId, instant)
			if !ok || !next.After(instant) {
				exhausted = false
				break
			}
			instant = next
		}
		if exhausted {
			r.diags.Warnf("everUsesUtc transition walk for %s exhausted %d iterations without reaching the window end", z.ZoneId, maxEverUtcTransitions)
		}
	}
	return false, nil
}

// computeUsage builds the ZoneTree for this country and returns the
// per-zone usage, including the replacement zone each deprecated zone
// merged into (zonetree.UsageRecord.Replacement).
func (r *Resolver) computeUsage(in Input) (map[tzdata.ZoneId]zonetree.UsageRecord, error) {
	var histories []tzdata.ZoneHistory
	for _, z := range in.Zones {
		h, err := tzdata.NewZoneHistoryCached(r.cache, r.rules, z.ZoneId, z.Priority, ZoneUsageCalcsStart, ZoneUsageCalcsEnd)
		if err != nil {
			r.diags.ErrorCause("failed building zone history for "+string(z.ZoneId), err)
			return nil, err
		}
		histories = append(histories, h)
	}

	tree, err := zonetree.Build(in.IsoCode, histories, ZoneUsageCalcsStart, ZoneUsageCalcsEnd)
	if err != nil {
		r.diags.ErrorCause("failed building zone tree", err)
		return nil, err
	}

	if clashes := tree.Validate(); len(clashes) > 0 {
		ids := make([]string, len(clashes))
		for i, c := range clashes {
			ids[i] = c.String()
		}
		sort.Strings(ids)
		r.diags.Errorf("priority clash(es): %s", strings.Join(ids, "; "))
		return nil, tzerr.New(tzerr.ValidationError, tzerr.CodePriorityClash, "priority clash in country "+string(in.IsoCode))
	}

	usage, err := tree.ComputeUsage(ZoneUsageNotAfterCutoff)
	if err != nil {
		r.diags.ErrorCause("failed computing zone usage", err)
		return nil, err
	}
	return usage, nil
}
