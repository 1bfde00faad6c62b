// Command tzbuild resolves a countryzones input set into the on-device
// time zone lookup XML document.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"tzcore/internal/buildcache"
	"tzcore/internal/country"
	"tzcore/internal/diag"
	"tzcore/internal/ianaio"
	"tzcore/internal/providers"
	"tzcore/internal/structures"
	"tzcore/internal/tzdata"
	"tzcore/internal/xmlout"
)

const (
	exitSuccess      = 0
	exitAnyError     = 1
	exitMissingInput = 2
	exitFatal        = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "tzbuild.yaml", "path to tzbuild YAML config")
	flag.Parse()

	app, err := injectBuildApp(structures.CliFlags{ConfigPath: *configPath})
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		return exitMissingInput
	}

	if code := build(app); code != exitSuccess {
		os.Remove(app.config.OutputPath)
		return code
	}
	return exitSuccess
}

func build(app *buildApp) int {
	cfg := app.config
	logger := app.logger

	countryZonesFile, err := os.Open(cfg.CountryZonesPath)
	if err != nil {
		logger.Errorf(providers.TypeBuild, "opening countryzones: %v", err)
		return exitMissingInput
	}
	defer countryZonesFile.Close()

	zoneTabFile, err := os.Open(cfg.ZoneTabPath)
	if err != nil {
		logger.Errorf(providers.TypeBuild, "opening zone.tab: %v", err)
		return exitMissingInput
	}
	defer zoneTabFile.Close()

	backwardFile, err := os.Open(cfg.BackwardPath)
	if err != nil {
		logger.Errorf(providers.TypeBuild, "opening backward: %v", err)
		return exitMissingInput
	}
	defer backwardFile.Close()

	inputs, err := ianaio.ParseCountryZones(countryZonesFile)
	if err != nil {
		logger.Errorf(providers.TypeBuild, "parsing countryzones: %v", err)
		return exitMissingInput
	}

	zoneTabByCountry, err := ianaio.ParseZoneTab(zoneTabFile)
	if err != nil {
		logger.Errorf(providers.TypeBuild, "parsing zone.tab: %v", err)
		return exitMissingInput
	}

	aliases, err := ianaio.ParseBackward(backwardFile)
	if err != nil {
		logger.Errorf(providers.TypeBuild, "parsing backward: %v", err)
		return exitFatal
	}

	ianaYear, err := strconv.Atoi(cfg.IanaVersion[:4])
	if err != nil {
		logger.Errorf(providers.TypeBuild, "parsing iana version year from %q: %v", cfg.IanaVersion, err)
		return exitMissingInput
	}
	sampleInstant := tzdata.FromTime(time.Date(ianaYear+1, time.July, 2, 12, 0, 0, 0, time.UTC))
	yearStartInstant := tzdata.FromTime(time.Date(ianaYear, time.January, 1, 0, 0, 0, 0, time.UTC))

	results := resolveCountriesParallel(inputs, zoneTabByCountry, aliases, sampleInstant, yearStartInstant, app.cache)

	diags := diag.New()
	var records []*country.OutputRecord
	byIso := make(map[string]*country.OutputRecord)
	for _, res := range results {
		diags.Merge(res.diags)
		if res.err != nil {
			logger.Warnf(providers.TypeBuild, "country %s: %v", res.isoCode, res.err)
			continue
		}
		records = append(records, res.record)
		byIso[string(res.record.IsoCode)] = res.record
		app.metrics.CountriesProcessed.Inc()
	}

	if diags.HasError() {
		logger.Errorf(providers.TypeBuild, "aggregate diagnostics:\n%s", diags.Render())
		return exitAnyError
	}

	sort.Slice(records, func(i, j int) bool { return records[i].IsoCode < records[j].IsoCode })

	outFile, err := os.Create(cfg.OutputPath)
	if err != nil {
		logger.Errorf(providers.TypeBuild, "creating output: %v", err)
		return exitAnyError
	}
	defer outFile.Close()

	if err := xmlout.Write(outFile, cfg.IanaVersion, records); err != nil {
		logger.Errorf(providers.TypeBuild, "writing xml: %v", err)
		return exitAnyError
	}

	if cfg.CacheDir != "" {
		fm := buildcache.NewFileManager(cfg.CacheDir)
		prev, err := fm.Load()
		if err != nil {
			logger.Warnf(providers.TypeBuild, "loading prior snapshot: %v", err)
		}
		for _, change := range buildcache.Diff(prev, byIso) {
			logger.Infof(providers.TypeBuild, "%s", change)
		}
		if err := fm.Save(&buildcache.Snapshot{IanaVersion: cfg.IanaVersion, Countries: byIso}); err != nil {
			logger.Warnf(providers.TypeBuild, "saving snapshot: %v", err)
		}
	}

	return exitSuccess
}

// countryResult is one country's outcome from resolveCountriesParallel: the
// resolved record on success, the error on failure, and the per-country
// Diagnostics either way (merged into the caller's aggregate afterward).
type countryResult struct {
	isoCode tzdata.CountryCode
	record  *country.OutputRecord
	err     error
	diags   *diag.Diagnostics
}

// resolveCountriesParallel resolves every country concurrently: countries
// share no mutable state (each gets its own Diagnostics and Resolver; only
// the read-through PeriodCache is shared, and it is safe for concurrent
// use), so processing fans out across a bounded worker pool and results are
// returned in input order for deterministic merging. Each country is handed
// only its own subset of zoneTabByCountry (keyed by upper-case ISO code, per
// zone.tab's country grouping), not the whole file's id set, matching how
// the original compares a country's zones against
// zoneTabMapping.get(isoCode.toUpperCase()) rather than a global list.
func resolveCountriesParallel(
	inputs []country.Input,
	zoneTabByCountry ianaio.CountryZoneTab,
	aliases map[tzdata.ZoneId]tzdata.ZoneId,
	sampleInstant, yearStartInstant tzdata.Instant,
	cache *tzdata.PeriodCache,
) []countryResult {
	results := make([]countryResult, len(inputs))

	workers := runtime.GOMAXPROCS(0)
	if workers > len(inputs) {
		workers = len(inputs)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				in := inputs[i]
				d := diag.New()
				resolver := country.NewResolverWithCache(tzdata.StdZoneRules{}, d, cache)
				ianaZoneIds := zoneTabByCountry[strings.ToUpper(string(in.IsoCode))]
				rec, err := resolver.Resolve(in, ianaZoneIds, aliases, sampleInstant, yearStartInstant)
				results[i] = countryResult{isoCode: in.IsoCode, record: rec, err: err, diags: d}
			}
		}()
	}
	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
