// Command tzprovider hosts a ProviderFSM driven by a
// real wall-clock Environment and a StaticGeoZoneFinder, printing delivered
// results to stdout. It stands in for the real host process that would
// otherwise drive the provider over on-device IPC.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"tzcore/internal/geozone"
	"tzcore/internal/provider"
	"tzcore/internal/providers"
	"tzcore/internal/structures"
)

func main() {
	configPath := flag.String("config", "tzprovider.yaml", "path to tzprovider YAML config")
	initMs := flag.Int64("init-timeout-ms", 0, "override the config's init timeout, in milliseconds")
	flag.Parse()

	env := newRealEnvironment()
	finder := geozone.NewStaticGeoZoneFinder(nil)
	host := &stdoutHost{}

	app, err := injectProviderApp(structures.CliFlags{ConfigPath: *configPath}, env, finder, host)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(2)
	}
	host.logger = app.logger
	host.metrics = app.metrics

	if app.config.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", providers.NewMetricsHandler(app.registry))
		go func() {
			if err := http.ListenAndServe(app.config.MetricsAddr, mux); err != nil {
				app.logger.Errorf(providers.TypeProvider, "metrics server: %v", err)
			}
		}()
	}

	initTimeout := time.Duration(app.config.InitTimeoutMs) * time.Millisecond
	if *initMs > 0 {
		initTimeout = time.Duration(*initMs) * time.Millisecond
	}

	app.logger.Infof(providers.TypeProvider, "starting provider, init timeout %s", initTimeout)
	app.fsm.OnBind()
	app.fsm.OnStart(initTimeout)

	// Block until interrupted; the FSM drives itself via env's callbacks.
	select {}
}

type stdoutHost struct {
	logger  providers.Logger
	metrics *providers.ProviderMetrics
}

func (h *stdoutHost) OnResult(r provider.Result) {
	switch r.Kind {
	case provider.Suggestion:
		fmt.Printf("Suggestion zoneIds=%v elapsed=%s\n", r.ZoneIds, r.ElapsedRealtimeMs)
		h.countAndLog("suggestion", r)
	case provider.Uncertain:
		fmt.Printf("Uncertain elapsed=%s\n", r.ElapsedRealtimeMs)
		h.countAndLog("uncertain", r)
	case provider.PermanentFailure:
		fmt.Printf("PermanentFailure cause=%v\n", r.Cause)
		h.countAndLog("permanent_failure", r)
	}
}

func (h *stdoutHost) countAndLog(kind string, r provider.Result) {
	if h.metrics != nil {
		h.metrics.ResultsDelivered.WithLabelValues(kind).Inc()
	}
	if h.logger != nil {
		h.logger.Debugf(providers.TypeProvider, "delivered %s: %+v", kind, r)
	}
}

// realEnvironment implements provider.Environment over real timers; it has
// no real location source wired in, so every listen window simply times
// out with "not known" until a future host integration supplies one.
type realEnvironment struct {
	start time.Time
}

func newRealEnvironment() *realEnvironment {
	return &realEnvironment{start: time.Now()}
}

func (e *realEnvironment) ElapsedRealtime() time.Duration {
	return time.Since(e.start)
}

type timerCancellable struct {
	timer *time.Timer
}

func (c *timerCancellable) Cancel() { c.timer.Stop() }

func (e *realEnvironment) ScheduleTimeout(token string, delay time.Duration, callback provider.TimeoutFunc) provider.Cancellable {
	t := time.AfterFunc(delay, func() { callback(token) })
	return &timerCancellable{timer: t}
}

func (e *realEnvironment) ListenActive(duration time.Duration, onResult provider.LocationResultFunc) provider.Cancellable {
	t := time.AfterFunc(duration, func() { onResult(false, 0, 0, e.ElapsedRealtime()) })
	return &timerCancellable{timer: t}
}

func (e *realEnvironment) ListenPassive(duration time.Duration, onResult provider.LocationResultFunc, onEnd provider.PassiveEndFunc) provider.Cancellable {
	t := time.AfterFunc(duration, func() {
		onResult(false, 0, 0, e.ElapsedRealtime())
		onEnd(duration)
	})
	return &timerCancellable{timer: t}
}
