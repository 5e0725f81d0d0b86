// Package config loads comictag configuration from a yaml file and
// COMICTAG_* environment variables.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds CLI defaults. Everything is optional; zero config is a
// working setup.
type Config struct {
	// Output is the default CLI output format: "yaml" or "json".
	Output string `mapstructure:"output"`
	// WarnLanguage toggles warnings about language tags that do not
	// parse as BCP 47.
	WarnLanguage bool `mapstructure:"warn_language"`
	// Verbose enables debug logging by default.
	Verbose bool `mapstructure:"verbose"`
	// Backup copies the archive to a .bak sibling before every write.
	Backup bool `mapstructure:"backup"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Output:       "yaml",
		WarnLanguage: true,
	}
}

// Load reads configuration from the given file (or the standard search
// paths when cfgFile is empty), layered over defaults and environment
// variables.
func Load(cfgFile string) (*Config, error) {
	defaults := DefaultConfig()
	viper.SetDefault("output", defaults.Output)
	viper.SetDefault("warn_language", defaults.WarnLanguage)
	viper.SetDefault("verbose", defaults.Verbose)
	viper.SetDefault("backup", defaults.Backup)

	viper.SetEnvPrefix("COMICTAG")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.comictag")
	}

	// The config file is optional; only a present-but-broken file is
	// an error.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.Output {
	case "", "yaml", "json":
		return nil
	default:
		return fmt.Errorf("invalid output format %q (want yaml or json)", c.Output)
	}
}
