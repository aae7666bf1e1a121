// Package config loads the application configuration from a YAML file
// with Viper, falling back to defaults when the file is absent.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

// Config is the top-level application configuration.
type Config struct {
	// DatabasePath is where the SQLite database lives.
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`

	// ListenAddr is the address of the operational HTTP endpoint
	// (health and metrics).
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

func defaults() *Config {
	return &Config{
		DatabasePath: "./data/mealplanner.db",
		ListenAddr:   ":8080",
		LogLevel:     "info",
	}
}

// Load reads the configuration from path. A missing file is not an
// error: defaults apply, overridable through MEALPLANNER_* environment
// variables (e.g. MEALPLANNER_DATABASE_PATH).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MEALPLANNER")
	v.AutomaticEnv()

	cfg := defaults()
	v.SetDefault("database_path", cfg.DatabasePath)
	v.SetDefault("listen_addr", cfg.ListenAddr)
	v.SetDefault("log_level", cfg.LogLevel)

	if err := v.ReadInConfig(); err != nil {
		// A missing file means defaults; viper reports it as
		// ConfigFileNotFoundError or a bare fs.ErrNotExist depending on
		// how the path was set.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
