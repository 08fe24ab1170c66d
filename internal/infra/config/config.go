// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hibiki-audio/tonearm/internal/app/engine"
	"github.com/hibiki-audio/tonearm/internal/app/renderer"
)

// Config represents the application configuration.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Player     PlayerConfig     `yaml:"player"`
	Retry      RetryConfig      `yaml:"retry"`
	Connection ConnectionConfig `yaml:"connection"`
	Quality    QualityConfig    `yaml:"quality"`
	Seeking    SeekingConfig    `yaml:"seeking"`
	Spotify    SpotifyConfig    `yaml:"spotify"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Output string `yaml:"output" default:"stdout"`
	Level  string `yaml:"level" default:"info"`
	File   string `yaml:"file"`
}

// PlayerConfig represents playback defaults.
type PlayerConfig struct {
	Volume            float64 `yaml:"volume" default:"1.0" validate:"gte=0,lte=1"`
	Rate              float64 `yaml:"rate" default:"1.0" validate:"gt=0,lte=4"`
	BufferingStrategy string  `yaml:"buffering_strategy" default:"default"`
}

// RetryConfig represents automatic reconnection configuration.
type RetryConfig struct {
	MaximumRetryCount int `yaml:"maximum_retry_count" default:"3" validate:"gte=0,lte=20"`
	RetryTimeoutMs    int `yaml:"retry_timeout_ms" default:"1000" validate:"gte=100,lte=60000"`
}

// ConnectionConfig represents network loss handling configuration.
type ConnectionConfig struct {
	MaximumConnectionLossTimeSecs int    `yaml:"maximum_connection_loss_time_secs" default:"60" validate:"gte=1,lte=3600"`
	ResumeAfterConnectionLoss     *bool  `yaml:"resume_after_connection_loss" default:"true"`
	ProbeAddr                     string `yaml:"probe_addr" default:"1.1.1.1:443"`
	ProbeIntervalSecs             int    `yaml:"probe_interval_secs" default:"5" validate:"gte=1,lte=300"`
}

// QualityConfig represents automatic quality adjustment configuration.
type QualityConfig struct {
	TimeWindowSecs             int   `yaml:"time_window_secs" default:"30" validate:"gte=1,lte=600"`
	InterruptionCountThreshold int   `yaml:"interruption_count_threshold" default:"5" validate:"gte=1,lte=100"`
	AdjustAutomatically        *bool `yaml:"adjust_automatically" default:"true"`
}

// SeekingConfig represents seek gesture configuration. Settings is a
// free-form map whose shape depends on Behavior.
type SeekingConfig struct {
	Behavior string         `yaml:"behavior" default:"multiply_rate"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// SpotifyConfig represents Spotify API configuration. All fields are
// optional; when empty the playlist resolver is unavailable.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
	Market       string `yaml:"market" validate:"omitempty,len=2" default:"US"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for credentials.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// Default returns a configuration with all defaults applied, for running
// without a config file.
func Default() (*Config, error) {
	var cfg Config
	cfg.overrideFromEnv()
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REFRESH_TOKEN"); v != "" {
		c.Spotify.RefreshToken = v
	}
}

// Validate validates the configuration, including the fields the struct
// tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if _, err := renderer.ParseStrategy(c.Player.BufferingStrategy); err != nil {
		return err
	}
	if _, err := engine.SeekingBehaviorFromSettings(c.Seeking.Behavior, c.Seeking.Settings); err != nil {
		return err
	}

	return nil
}

// EngineConfig maps the file configuration onto an engine configuration.
// Must be called on a validated config.
func (c *Config) EngineConfig() (engine.Config, error) {
	strategy, err := renderer.ParseStrategy(c.Player.BufferingStrategy)
	if err != nil {
		return engine.Config{}, err
	}
	seeking, err := engine.SeekingBehaviorFromSettings(c.Seeking.Behavior, c.Seeking.Settings)
	if err != nil {
		return engine.Config{}, err
	}

	return engine.Config{
		Retry: engine.RetryPolicy{
			MaximumRetryCount: c.Retry.MaximumRetryCount,
			RetryTimeout:      time.Duration(c.Retry.RetryTimeoutMs) * time.Millisecond,
		},
		Quality: engine.QualityAdjustmentPolicy{
			TimeWindow:                 time.Duration(c.Quality.TimeWindowSecs) * time.Second,
			InterruptionCountThreshold: c.Quality.InterruptionCountThreshold,
		},
		AdjustQualityAutomatically: boolOr(c.Quality.AdjustAutomatically, true),
		MaximumConnectionLossTime:  time.Duration(c.Connection.MaximumConnectionLossTimeSecs) * time.Second,
		ResumeAfterConnectionLoss:  boolOr(c.Connection.ResumeAfterConnectionLoss, true),
		BufferingStrategy:          strategy,
		SeekingBehavior:            seeking,
		Volume:                     c.Player.Volume,
		Rate:                       c.Player.Rate,
	}, nil
}

// HasSpotify reports whether Spotify credentials are configured.
func (c *Config) HasSpotify() bool {
	return c.Spotify.ClientID != "" && c.Spotify.ClientSecret != "" && c.Spotify.RefreshToken != ""
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
