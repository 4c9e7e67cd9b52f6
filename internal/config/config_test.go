package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paaavkata/crypto-signal-feed/pkg/models"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MODE", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, models.ModeFast, cfg.Mode)
	assert.Equal(t, "1m", cfg.Collector.Interval)
	assert.Equal(t, 60, cfg.Collector.Limit)
	assert.Equal(t, "data_fast.json", cfg.Output.Path)
	assert.Equal(t, "0 * * * * *", cfg.Schedule)

	sc := cfg.SelectionCriteria
	assert.Equal(t, 100, sc.TopN)
	assert.Equal(t, 30, sc.MinHistory)
	assert.Equal(t, 60, sc.MinScore)
	assert.Equal(t, 8, sc.Concurrency)
	assert.Equal(t, models.ZeroStdevNeutral, sc.ZeroStdevPolicy)
	assert.Equal(t, 0.05, sc.Scoring.WildcardThreshold)
	assert.Equal(t, 0.02, sc.Scoring.AltcoinThreshold)
	assert.Equal(t, 0.7, sc.Scoring.WildcardFactor)
	assert.True(t, cfg.Output.Diagnostics)
}

func TestLoad_SlowModeFromOverride(t *testing.T) {
	t.Setenv("MODE", "fast")

	cfg, err := Load("slow")
	require.NoError(t, err)

	assert.Equal(t, models.ModeSlow, cfg.Mode)
	assert.Equal(t, "5m", cfg.Collector.Interval)
	assert.Equal(t, "data_slow.json", cfg.Output.Path)
	assert.Equal(t, "0 */5 * * * *", cfg.Schedule)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MODE", "slow")
	t.Setenv("CANDLE_INTERVAL", "15m")
	t.Setenv("CANDLE_ORDER", "oldest_first")
	t.Setenv("CANDLE_FIELDS", "t,v,c,h,l,o")
	t.Setenv("MIN_SCORE", "75")
	t.Setenv("ZERO_STDEV_POLICY", "SKIP")
	t.Setenv("OUTPUT_PATH", "/tmp/feed.json")
	t.Setenv("FEED_TIMEZONE", "UTC")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "15m", cfg.Collector.Interval)
	assert.Equal(t, 75, cfg.SelectionCriteria.MinScore)
	assert.Equal(t, models.ZeroStdevSkip, cfg.SelectionCriteria.ZeroStdevPolicy)
	assert.Equal(t, "/tmp/feed.json", cfg.Output.Path)
	assert.Equal(t, "UTC", cfg.Output.Location.String())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown mode", "MODE", "turbo"},
		{"unknown order", "CANDLE_ORDER", "sideways"},
		{"order contradicting the source", "CANDLE_ORDER", "newest_first"},
		{"fields without close", "CANDLE_FIELDS", "t,v,h,l,o"},
		{"fields contradicting the source", "CANDLE_FIELDS", "t,o,h,l,c,v"},
		{"concurrency too high", "CONCURRENCY", "21"},
		{"concurrency zero", "CONCURRENCY", "0"},
		{"history too short", "MIN_HISTORY", "2"},
		{"bad policy", "ZERO_STDEV_POLICY", "ignore"},
		{"inverted thresholds", "ALTCOIN_THRESHOLD", "0.06"},
		{"negative weight", "ATR_WEIGHT", "-1"},
		{"factor above one", "WILDCARD_FACTOR", "1.5"},
		{"bad timezone", "FEED_TIMEZONE", "Mars/Olympus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
