package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hibiki-audio/tonearm/internal/app/engine"
	"github.com/hibiki-audio/tonearm/internal/app/renderer"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "player.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "{}\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 1.0, cfg.Player.Volume)
	assert.Equal(t, 1.0, cfg.Player.Rate)
	assert.Equal(t, "default", cfg.Player.BufferingStrategy)
	assert.Equal(t, 3, cfg.Retry.MaximumRetryCount)
	assert.Equal(t, 1000, cfg.Retry.RetryTimeoutMs)
	assert.Equal(t, 60, cfg.Connection.MaximumConnectionLossTimeSecs)
	assert.Equal(t, 30, cfg.Quality.TimeWindowSecs)
	assert.Equal(t, 5, cfg.Quality.InterruptionCountThreshold)
	assert.Equal(t, "multiply_rate", cfg.Seeking.Behavior)
	assert.False(t, cfg.HasSpotify())
}

func TestLoad_ReadsValues(t *testing.T) {
	path := writeConfig(t, `
player:
  volume: 0.5
  buffering_strategy: play_when_buffer_not_empty
retry:
  maximum_retry_count: 5
  retry_timeout_ms: 2000
connection:
  maximum_connection_loss_time_secs: 120
  resume_after_connection_loss: false
quality:
  interruption_count_threshold: 8
  adjust_automatically: false
seeking:
  behavior: change_time
  settings:
    interval_ms: 250
    delta_ms: 5000
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.Player.Volume)
	assert.Equal(t, 5, cfg.Retry.MaximumRetryCount)
	require.NotNil(t, cfg.Connection.ResumeAfterConnectionLoss)
	assert.False(t, *cfg.Connection.ResumeAfterConnectionLoss)
	require.NotNil(t, cfg.Quality.AdjustAutomatically)
	assert.False(t, *cfg.Quality.AdjustAutomatically)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "player: [\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "volume out of range",
			content: "player:\n  volume: 1.5\n",
		},
		{
			name:    "unknown buffering strategy",
			content: "player:\n  buffering_strategy: warp_speed\n",
		},
		{
			name:    "unknown seeking behavior",
			content: "seeking:\n  behavior: teleport\n",
		},
		{
			name:    "seeking settings invalid",
			content: "seeking:\n  behavior: change_time\n  settings:\n    interval_ms: -1\n",
		},
		{
			name:    "market wrong length",
			content: "spotify:\n  market: USA\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestLoad_EnvOverridesCredentials(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "env-id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "env-secret")
	t.Setenv("SPOTIFY_REFRESH_TOKEN", "env-token")

	path := writeConfig(t, `
spotify:
  client_id: file-id
  client_secret: file-secret
  refresh_token: file-token
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-id", cfg.Spotify.ClientID)
	assert.Equal(t, "env-secret", cfg.Spotify.ClientSecret)
	assert.Equal(t, "env-token", cfg.Spotify.RefreshToken)
	assert.True(t, cfg.HasSpotify())
}

func TestEngineConfig_Mapping(t *testing.T) {
	path := writeConfig(t, `
player:
  volume: 0.8
  rate: 1.25
  buffering_strategy: play_when_preferred_buffer_duration_full
retry:
  maximum_retry_count: 4
  retry_timeout_ms: 1500
connection:
  maximum_connection_loss_time_secs: 90
quality:
  time_window_secs: 45
  interruption_count_threshold: 6
seeking:
  behavior: change_time
  settings:
    interval_ms: 250
    delta_ms: 5000
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	ec, err := cfg.EngineConfig()
	require.NoError(t, err)

	assert.Equal(t, 4, ec.Retry.MaximumRetryCount)
	assert.Equal(t, 1500*time.Millisecond, ec.Retry.RetryTimeout)
	assert.Equal(t, 90*time.Second, ec.MaximumConnectionLossTime)
	assert.True(t, ec.ResumeAfterConnectionLoss)
	assert.Equal(t, 45*time.Second, ec.Quality.TimeWindow)
	assert.Equal(t, 6, ec.Quality.InterruptionCountThreshold)
	assert.True(t, ec.AdjustQualityAutomatically)
	assert.Equal(t, renderer.StrategyPlayWhenPreferredBufferFull, ec.BufferingStrategy)
	assert.Equal(t, engine.SeekModeChangeTimeEvery, ec.SeekingBehavior.Mode)
	assert.Equal(t, 250*time.Millisecond, ec.SeekingBehavior.Interval)
	assert.Equal(t, 5*time.Second, ec.SeekingBehavior.Delta)
	assert.Equal(t, 0.8, ec.Volume)
	assert.Equal(t, 1.25, ec.Rate)
}

func TestDefault_UsableWithoutFile(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	ec, err := cfg.EngineConfig()
	require.NoError(t, err)
	assert.Equal(t, renderer.StrategyDefault, ec.BufferingStrategy)
	assert.Equal(t, engine.SeekModeMultiplyRate, ec.SeekingBehavior.Mode)
}
