package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/paaavkata/crypto-signal-feed/internal/collector"
	"github.com/paaavkata/crypto-signal-feed/pkg/gateio"
	"github.com/paaavkata/crypto-signal-feed/pkg/models"
)

const maxConcurrency = 20

type Config struct {
	Mode              models.Mode
	Gate              gateio.Config
	Collector         collector.Config
	SelectionCriteria models.SelectionCriteria
	Output            OutputConfig
	Schedule          string
	MetricsPort       string
}

type OutputConfig struct {
	Path          string
	Diagnostics   bool
	UpdatedLayout string
	Location      *time.Location
}

type modeDefaults struct {
	interval string
	output   string
	schedule string
}

var defaultsByMode = map[models.Mode]modeDefaults{
	models.ModeFast: {interval: "1m", output: "data_fast.json", schedule: "0 * * * * *"},
	models.ModeSlow: {interval: "5m", output: "data_slow.json", schedule: "0 */5 * * * *"},
}

// Load reads configuration from the environment, after loading a .env file
// when one exists. modeOverride, when non-empty, takes precedence over MODE.
func Load(modeOverride string) (*Config, error) {
	_ = godotenv.Load()

	modeName := getEnv("MODE", string(models.ModeFast))
	if modeOverride != "" {
		modeName = modeOverride
	}
	mode, err := models.ParseMode(modeName)
	if err != nil {
		return nil, err
	}
	defaults := defaultsByMode[mode]

	if err := checkCandleLayout(); err != nil {
		return nil, err
	}

	location, err := time.LoadLocation(getEnv("FEED_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("failed to load FEED_TIMEZONE: %w", err)
	}

	topN := getEnvInt("TOP_N", 100)
	suffix := getEnv("CONTRACT_SUFFIX", "USDT")

	cfg := &Config{
		Mode: mode,
		Gate: gateio.Config{
			BaseURL:           getEnv("GATE_BASE_URL", gateio.BaseURL),
			Settle:            getEnv("GATE_SETTLE", gateio.DefaultSettle),
			Timeout:           time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 10)) * time.Second,
			RequestsPerSecond: getEnvInt("REQUESTS_PER_SECOND", 10),
		},
		Collector: collector.Config{
			Interval:       getEnv("CANDLE_INTERVAL", defaults.interval),
			Limit:          getEnvInt("CANDLE_LIMIT", 60),
			TopN:           topN,
			ContractSuffix: suffix,
		},
		SelectionCriteria: models.SelectionCriteria{
			TopN:              topN,
			ContractSuffix:    suffix,
			MinHistory:        getEnvInt("MIN_HISTORY", 30),
			MinDistinctCloses: getEnvInt("MIN_DISTINCT_CLOSES", 5),
			MinScore:          getEnvInt("MIN_SCORE", 60),
			Concurrency:       getEnvInt("CONCURRENCY", 8),
			ZeroStdevPolicy:   strings.ToLower(getEnv("ZERO_STDEV_POLICY", models.ZeroStdevNeutral)),
			NATRPeriod:        getEnvInt("NATR_PERIOD", 14),
			Scoring: models.ScoringConfig{
				ReturnWeight:      getEnvFloat("RETURN_WEIGHT", 40),
				VolumeWeight:      getEnvFloat("VOLUME_WEIGHT", 40),
				ATRWeight:         getEnvFloat("ATR_WEIGHT", 200),
				WildcardFactor:    getEnvFloat("WILDCARD_FACTOR", 0.7),
				WildcardThreshold: getEnvFloat("WILDCARD_THRESHOLD", 0.05),
				AltcoinThreshold:  getEnvFloat("ALTCOIN_THRESHOLD", 0.02),
			},
		},
		Output: OutputConfig{
			Path:          getEnv("OUTPUT_PATH", defaults.output),
			Diagnostics:   getEnvBool("OUTPUT_DIAGNOSTICS", true),
			UpdatedLayout: getEnv("UPDATED_LAYOUT", "2006/01/02 15:04:05"),
			Location:      location,
		},
		Schedule:    getEnv("SCHEDULE", defaults.schedule),
		MetricsPort: getEnv("METRICS_PORT", "8081"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	sc := c.SelectionCriteria
	scoring := sc.Scoring

	if c.Collector.Limit < 2 {
		errs = append(errs, fmt.Errorf("CANDLE_LIMIT must be at least 2, got %d", c.Collector.Limit))
	}
	if sc.TopN < 1 {
		errs = append(errs, fmt.Errorf("TOP_N must be positive, got %d", sc.TopN))
	}
	if sc.MinHistory < 3 {
		errs = append(errs, fmt.Errorf("MIN_HISTORY must be at least 3, got %d", sc.MinHistory))
	}
	if sc.MinHistory > c.Collector.Limit {
		errs = append(errs, fmt.Errorf("MIN_HISTORY %d exceeds CANDLE_LIMIT %d", sc.MinHistory, c.Collector.Limit))
	}
	if sc.MinDistinctCloses < 0 {
		errs = append(errs, fmt.Errorf("MIN_DISTINCT_CLOSES must not be negative, got %d", sc.MinDistinctCloses))
	}
	if sc.Concurrency < 1 || sc.Concurrency > maxConcurrency {
		errs = append(errs, fmt.Errorf("CONCURRENCY must be between 1 and %d, got %d", maxConcurrency, sc.Concurrency))
	}
	if sc.ZeroStdevPolicy != models.ZeroStdevNeutral && sc.ZeroStdevPolicy != models.ZeroStdevSkip {
		errs = append(errs, fmt.Errorf("ZERO_STDEV_POLICY must be %q or %q, got %q", models.ZeroStdevNeutral, models.ZeroStdevSkip, sc.ZeroStdevPolicy))
	}
	if scoring.ReturnWeight < 0 || scoring.VolumeWeight < 0 || scoring.ATRWeight < 0 {
		errs = append(errs, errors.New("score weights must not be negative"))
	}
	if scoring.WildcardFactor < 0 || scoring.WildcardFactor > 1 {
		errs = append(errs, fmt.Errorf("WILDCARD_FACTOR must be within [0, 1], got %v", scoring.WildcardFactor))
	}
	if scoring.AltcoinThreshold < 0 || scoring.AltcoinThreshold >= scoring.WildcardThreshold {
		errs = append(errs, fmt.Errorf("thresholds must satisfy 0 <= ALTCOIN_THRESHOLD < WILDCARD_THRESHOLD, got %v and %v",
			scoring.AltcoinThreshold, scoring.WildcardThreshold))
	}
	if c.Output.Path == "" {
		errs = append(errs, errors.New("OUTPUT_PATH must not be empty"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// checkCandleLayout rejects CANDLE_ORDER / CANDLE_FIELDS values that disagree
// with the tuples the Gate.io client produces. The layout itself always comes
// from the gateio package.
func checkCandleLayout() error {
	if value := os.Getenv("CANDLE_ORDER"); value != "" {
		order, err := models.ParseChronoOrder(value)
		if err != nil {
			return err
		}
		if order != gateio.CandleOrder {
			return fmt.Errorf("CANDLE_ORDER=%s contradicts the Gate.io candlesticks order %s", order, gateio.CandleOrder)
		}
	}
	if value := os.Getenv("CANDLE_FIELDS"); value != "" {
		fields, err := models.ParseFieldMap(value)
		if err != nil {
			return err
		}
		if fields != gateio.CandleFields() {
			return fmt.Errorf("CANDLE_FIELDS=%s contradicts the Gate.io tuple layout %s", fields, gateio.CandleLayout)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
