// Package config provides Viper-based configuration loading for the calculator.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "HEROCALC"

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is a zap sink: "stderr", "stdout", or a file path.
	Output string `mapstructure:"output"`
}

// CatalogConfig locates the rule tables.
type CatalogConfig struct {
	// Dir is the directory holding one YAML file per rule table.
	Dir string `mapstructure:"dir"`
}

// EngineConfig holds tunables of the rules engine.
type EngineConfig struct {
	// VariableCostPerRank is the pool price of variable powers whose effect
	// does not set one.
	VariableCostPerRank float64 `mapstructure:"variable_cost_per_rank"`
	// MeasurementThreshold decides when extrapolation past the measurement
	// table switches from additive to multiplicative growth.
	MeasurementThreshold float64 `mapstructure:"measurement_threshold"`
	// DefaultPowerLevel is used by commands that create a character without
	// an explicit power level.
	DefaultPowerLevel int `mapstructure:"default_power_level"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Engine  EngineConfig  `mapstructure:"engine"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCatalog(c.Catalog); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateEngine(c.Engine); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateCatalog(c CatalogConfig) error {
	if strings.TrimSpace(c.Dir) == "" {
		return errors.New("catalog.dir must not be empty")
	}
	return nil
}

func validateEngine(e EngineConfig) error {
	var errs []string
	if e.VariableCostPerRank <= 0 {
		errs = append(errs, fmt.Sprintf("engine.variable_cost_per_rank must be > 0, got %v", e.VariableCostPerRank))
	}
	if e.MeasurementThreshold <= 0 {
		errs = append(errs, fmt.Sprintf("engine.measurement_threshold must be > 0, got %v", e.MeasurementThreshold))
	}
	if e.DefaultPowerLevel < 1 {
		errs = append(errs, fmt.Sprintf("engine.default_power_level must be >= 1, got %d", e.DefaultPowerLevel))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path skips the file and uses
// defaults plus environment overrides only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with HEROCALC_ prefix
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SetDefaults registers every default on v. Callers building their own Viper
// instance use it before LoadFromViper.
func SetDefaults(v *viper.Viper) { setDefaults(v) }

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("catalog.dir", "content/rules")

	v.SetDefault("engine.variable_cost_per_rank", 7.0)
	v.SetDefault("engine.measurement_threshold", 0.5)
	v.SetDefault("engine.default_power_level", 10)
}
