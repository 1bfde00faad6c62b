// Package structures holds the plain config/flag shapes loaded by viper and
// checked by gookit/validate before either binary starts doing real work.
package structures

// CliFlags are the command-line flags both binaries share: the --config flag
// naming the YAML file to feed NewBuildConfigProvider or
// NewProviderConfigProvider.
type CliFlags struct {
	ConfigPath string
}

// BuildConfig configures cmd/tzbuild.
type BuildConfig struct {
	IanaVersion     string `mapstructure:"iana_version" validate:"required"`
	CountryZonesPath string `mapstructure:"countryzones_path" validate:"required"`
	ZoneTabPath     string `mapstructure:"zonetab_path" validate:"required"`
	BackwardPath    string `mapstructure:"backward_path" validate:"required"`
	OutputPath      string `mapstructure:"output_path" validate:"required"`
	CacheDir        string `mapstructure:"cache_dir"`
	LogLevel        string `mapstructure:"log_level" validate:"required"`
}

// ProviderConfig configures cmd/tzprovider.
type ProviderConfig struct {
	GeoZoneTablePath string `mapstructure:"geozone_table_path"`
	InitTimeoutMs    int64  `mapstructure:"init_timeout_ms" validate:"min:1"`
	LogLevel         string `mapstructure:"log_level" validate:"required"`
	MetricsAddr      string `mapstructure:"metrics_addr"`
}
