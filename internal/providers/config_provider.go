package providers

import (
	"fmt"

	"github.com/gookit/validate"
	"github.com/spf13/viper"

	"tzcore/internal/structures"
)

// NewBuildConfigProvider loads a structures.BuildConfig from the YAML file
// named by flags.ConfigPath, with TZBUILD_-prefixed environment variables
// overriding any key.
func NewBuildConfigProvider(flags structures.CliFlags) (*structures.BuildConfig, error) {
	v := newViper(flags.ConfigPath, "TZBUILD")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading build config: %w", err)
	}
	var cfg structures.BuildConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling build config: %w", err)
	}
	if err := NewCnfValidator(&cfg).Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewProviderConfigProvider loads a structures.ProviderConfig the same way
// for cmd/tzprovider.
func NewProviderConfigProvider(flags structures.CliFlags) (*structures.ProviderConfig, error) {
	v := newViper(flags.ConfigPath, "TZPROVIDER")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading provider config: %w", err)
	}
	var cfg structures.ProviderConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling provider config: %w", err)
	}
	if err := NewCnfValidator(&cfg).Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newViper(configPath, envPrefix string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	return v
}

// CnfValidator wraps gookit/validate for any config struct, the same
// NewCnfValidator(conf).Validate() two-step used for CountryInput.
type CnfValidator struct {
	conf interface{}
}

func NewCnfValidator(conf interface{}) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	vd := validate.Struct(c.conf)
	if !vd.Validate() {
		return fmt.Errorf("config invalid: %s", vd.Errors.One())
	}
	return nil
}
