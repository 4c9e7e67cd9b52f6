package models

import (
	"fmt"
	"strings"
	"time"
)

type Mode string

const (
	ModeFast Mode = "fast"
	ModeSlow Mode = "slow"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeFast:
		return ModeFast, nil
	case ModeSlow:
		return ModeSlow, nil
	}
	return "", fmt.Errorf("unknown mode %q (want fast or slow)", s)
}

type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// Category is the volatility regime of a contract, lowest first.
type Category string

const (
	Mainstream Category = "mainstream"
	Altcoin    Category = "altcoin"
	Wildcard   Category = "wildcard"
)

type Signal struct {
	Symbol    string    `json:"symbol"`
	Direction Direction `json:"direction"`
	Score     int       `json:"score"`
	Category  Category  `json:"category"`

	ReturnZ float64 `json:"rz"`
	VolumeZ float64 `json:"vz"`
	ATR     float64 `json:"atr"`
	NATR    float64 `json:"natr"`
}

type RankedFeed struct {
	RunID       string
	GeneratedAt time.Time
	Mode        Mode
	Interval    string
	Items       []Signal
}

type SelectionCriteria struct {
	TopN              int     // contracts taken from the ticker list
	ContractSuffix    string  // e.g. "USDT"
	MinHistory        int     // minimum candles per contract
	MinDistinctCloses int     // 0 disables the degenerate-series guard
	MinScore          int     // inclusive admission threshold
	Concurrency       int     // parallel candidate evaluations
	ZeroStdevPolicy   string  // "neutral" or "skip"
	NATRPeriod        int     // diagnostic range volatility period
	Scoring           ScoringConfig
}

type ScoringConfig struct {
	ReturnWeight      float64
	VolumeWeight      float64
	ATRWeight         float64
	WildcardFactor    float64
	WildcardThreshold float64
	AltcoinThreshold  float64
}

const (
	ZeroStdevNeutral = "neutral"
	ZeroStdevSkip    = "skip"
)
