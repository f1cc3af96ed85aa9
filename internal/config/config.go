// Package config loads the DAG execution core's runtime configuration
// (cache, threshold, checkpoint) from defaults, a config file, and the
// environment, via viper — the same layering the rest of the example pack
// uses for its server configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// CacheConfig mirrors cache.Config in the wire/config surface.
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxEntries int  `mapstructure:"max_entries"`
	TTLSeconds int  `mapstructure:"ttl_seconds"`
}

// ThresholdConfig mirrors threshold.Thresholds plus the window size.
type ThresholdConfig struct {
	WindowSize          int     `mapstructure:"window_size"`
	ExplicitThreshold   float64 `mapstructure:"explicit_threshold"`
	SuggestionThreshold float64 `mapstructure:"suggestion_threshold"`
	MinThreshold        float64 `mapstructure:"min_threshold"`
	MaxThreshold        float64 `mapstructure:"max_threshold"`
}

// CheckpointConfig selects and configures the Checkpoint Manager's backend.
type CheckpointConfig struct {
	Backend  string `mapstructure:"backend"` // "memory" | "file" | "postgres"
	BaseDir  string `mapstructure:"base_dir"` // backend=file
	DSN      string `mapstructure:"dsn"`      // backend=postgres
	TTLHours int    `mapstructure:"ttl_hours"`
}

// EventsConfig configures the optional external event fan-out.
type EventsConfig struct {
	// NatsURL, when non-empty, republishes every workflow event onto NATS
	// alongside the in-process stream. Empty disables the fan-out.
	NatsURL string `mapstructure:"nats_url"`
}

// Config is the complete, loaded runtime configuration.
type Config struct {
	Cache      CacheConfig      `mapstructure:"cache"`
	Threshold  ThresholdConfig  `mapstructure:"threshold"`
	Checkpoint CheckpointConfig `mapstructure:"checkpoint"`
	Events     EventsConfig     `mapstructure:"events"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_entries", 1000)
	v.SetDefault("cache.ttl_seconds", 3600)

	v.SetDefault("threshold.window_size", 50)
	v.SetDefault("threshold.explicit_threshold", 0.9)
	v.SetDefault("threshold.suggestion_threshold", 0.5)
	v.SetDefault("threshold.min_threshold", 0.1)
	v.SetDefault("threshold.max_threshold", 0.95)

	v.SetDefault("checkpoint.backend", "memory")
	v.SetDefault("checkpoint.base_dir", "./dagcore-checkpoints")
	v.SetDefault("checkpoint.ttl_hours", 1)

	v.SetDefault("events.nats_url", "")
}

// Load reads defaults, then an optional file at configPath (if non-empty),
// then DAGCORE_-prefixed environment overrides, in that precedence order
// (lowest to highest). A .env file in the working directory is loaded first
// if present, so its values are visible to the environment layer.
func Load(configPath string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("config: no .env file loaded")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("dagcore")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("config: read failed")
			return Config{}, fmt.Errorf("config: read %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Error().Err(err).Msg("config: unmarshal failed")
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	log.Debug().Str("path", configPath).Msg("config: loaded")
	return cfg, nil
}
