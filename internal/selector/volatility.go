package selector

import (
	"github.com/markcheno/go-talib"
	"github.com/sirupsen/logrus"

	"github.com/paaavkata/crypto-signal-feed/pkg/models"
	"github.com/paaavkata/crypto-signal-feed/pkg/utils"
)

type VolatilityClassifier struct {
	wildcardThreshold float64
	altcoinThreshold  float64
	logger            *logrus.Logger
}

func NewVolatilityClassifier(cfg models.ScoringConfig, logger *logrus.Logger) *VolatilityClassifier {
	return &VolatilityClassifier{
		wildcardThreshold: cfg.WildcardThreshold,
		altcoinThreshold:  cfg.AltcoinThreshold,
		logger:            logger,
	}
}

// Classify buckets atr, highest threshold first. Both thresholds are
// exclusive lower bounds: atr == WildcardThreshold is still altcoin.
func (v *VolatilityClassifier) Classify(atr float64) models.Category {
	if atr > v.wildcardThreshold {
		return models.Wildcard
	} else if atr > v.altcoinThreshold {
		return models.Altcoin
	}
	return models.Mainstream
}

// RangeVolatility returns the latest normalized ATR (percent of close) over
// period bars. It is a diagnostic only and returns 0 when the candles carry no
// high/low range or the window is too short.
func (v *VolatilityClassifier) RangeVolatility(candles []models.Candle, period int) float64 {
	if period < 2 || len(candles) < period+2 {
		return 0
	}

	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	closes := make([]float64, len(candles))

	for i, c := range candles {
		if c.High <= 0 || c.Low <= 0 || c.High < c.Low {
			return 0
		}
		highs[i] = c.High
		lows[i] = c.Low
		closes[i] = c.Close
	}

	natr := talib.Natr(highs, lows, closes, period)
	latest := natr[len(natr)-1]
	if !utils.IsFinite(latest) {
		v.logger.WithField("period", period).Debug("Range volatility is not finite")
		return 0
	}
	return latest
}
