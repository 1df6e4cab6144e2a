package config

import (
	"fmt"
	"strings"
	"time"

	ierr "github.com/flexprice/entitlement-engine/internal/errors"
	"github.com/flexprice/entitlement-engine/internal/types"
	"github.com/flexprice/entitlement-engine/internal/validator"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment" validate:"required"`
	Logging    LoggingConfig    `mapstructure:"logging" validate:"required"`
	Catalog    CatalogConfig    `mapstructure:"catalog" validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache" validate:"required"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required"`
}

type LoggingConfig struct {
	Level          types.LogLevel `mapstructure:"level" validate:"required"`
	FluentdEnabled bool           `mapstructure:"fluentd_enabled"`
	FluentdHost    string         `mapstructure:"fluentd_host"`
	FluentdPort    int            `mapstructure:"fluentd_port"`
}

// CatalogConfig tells the loader where the billing catalog documents live.
type CatalogConfig struct {
	Source types.CatalogSource `mapstructure:"source" validate:"required,oneof=embedded dir"`
	Dir    string              `mapstructure:"dir" validate:"required_if=Source dir"`
	// Timezone decides which calendar day an instant falls on for events
	Timezone string `mapstructure:"timezone" validate:"required"`
}

type CacheConfig struct {
	Type   string        `mapstructure:"type" validate:"required,oneof=inmemory"`
	Expiry time.Duration `mapstructure:"expiry"`
}

// NewConfig loads configuration from an optional .env file, an optional
// config.yaml and ENTITLEMENT_* environment variables, in increasing order
// of precedence.
func NewConfig() (*Configuration, error) {
	// .env is a local convenience; a missing file is fine
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ENTITLEMENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// GetDefaultConfig returns the built-in defaults without consulting files or
// the environment. Used by tests and the package-level logger.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{
			Mode: types.ModeLocal,
		},
		Logging: LoggingConfig{
			Level: types.LogLevelInfo,
		},
		Catalog: CatalogConfig{
			Source:   types.CatalogSourceEmbedded,
			Timezone: types.DefaultTimezone,
		},
		Cache: CacheConfig{
			Type:   "inmemory",
			Expiry: 30 * time.Minute,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()
	v.SetDefault("deployment.mode", string(d.Deployment.Mode))
	v.SetDefault("logging.level", string(d.Logging.Level))
	v.SetDefault("logging.fluentd_enabled", false)
	v.SetDefault("logging.fluentd_host", "")
	v.SetDefault("logging.fluentd_port", 24224)
	v.SetDefault("catalog.source", string(d.Catalog.Source))
	v.SetDefault("catalog.dir", "")
	v.SetDefault("catalog.timezone", d.Catalog.Timezone)
	v.SetDefault("cache.type", d.Cache.Type)
	v.SetDefault("cache.expiry", d.Cache.Expiry)
}

func (c Configuration) Validate() error {
	if err := validator.ValidateRequest(c); err != nil {
		return ierr.WithError(err).
			WithHint("Invalid service configuration").
			Mark(ierr.ErrConfiguration)
	}
	if err := types.ValidateTimezone(c.Catalog.Timezone); err != nil {
		return ierr.WithError(err).
			WithHint("Invalid catalog timezone").
			Mark(ierr.ErrConfiguration)
	}
	return nil
}
