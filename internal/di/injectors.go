//go:build wireinject

// Package di declares the compile-time dependency graphs for both binaries.
// This file carries the wireinject build tag so it is never compiled
// directly; `wire` reads it to generate wire_gen.go in each cmd/ directory.
// The hand-written wire_gen.go files are kept in sync with the provider
// sets declared here.
package di

import (
	"os"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"tzcore/internal/geozone"
	"tzcore/internal/provider"
	"tzcore/internal/providers"
	"tzcore/internal/structures"
	"tzcore/internal/tzdata"
)

func registryProvider() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func buildLoggerProvider(cfg *structures.BuildConfig) (providers.Logger, error) {
	return providers.NewLogProvider(cfg.LogLevel, os.Stderr)
}

func providerLoggerProvider(cfg *structures.ProviderConfig) (providers.Logger, error) {
	return providers.NewLogProvider(cfg.LogLevel, os.Stderr)
}

func periodCacheProvider(cfg *structures.BuildConfig) *tzdata.PeriodCache {
	return providers.NewPeriodCacheProvider(4 * 1024 * 1024)
}

// BuildApp is everything cmd/tzbuild needs to run one build.
type BuildApp struct {
	Config   *structures.BuildConfig
	Logger   providers.Logger
	Cache    *tzdata.PeriodCache
	Registry *prometheus.Registry
	Metrics  *providers.BuildMetrics
}

func InjectBuildApp(flags structures.CliFlags) (*BuildApp, error) {
	wire.Build(
		providers.NewBuildConfigProvider,
		buildLoggerProvider,
		periodCacheProvider,
		registryProvider,
		wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
		providers.NewBuildMetricsProvider,
		wire.Struct(new(BuildApp), "*"),
	)
	return nil, nil
}

// ProviderApp is everything cmd/tzprovider needs to host a provider.FSM.
type ProviderApp struct {
	Config   *structures.ProviderConfig
	Logger   providers.Logger
	Registry *prometheus.Registry
	Metrics  *providers.ProviderMetrics
	FSM      *provider.FSM
}

func InjectProviderApp(flags structures.CliFlags, env provider.Environment, finder geozone.Finder, host provider.Host) (*ProviderApp, error) {
	wire.Build(
		providers.NewProviderConfigProvider,
		providerLoggerProvider,
		registryProvider,
		wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
		providers.NewProviderMetricsProvider,
		provider.New,
		wire.Struct(new(ProviderApp), "*"),
	)
	return nil, nil
}
