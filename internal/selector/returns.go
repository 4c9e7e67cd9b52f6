package selector

import (
	"fmt"

	"github.com/paaavkata/crypto-signal-feed/pkg/models"
	"github.com/paaavkata/crypto-signal-feed/pkg/utils"
)

// BuildReturns derives bar-over-bar fractional returns from oldest-first
// candles. The result has len(candles)-1 elements; the last one is the
// latest return.
func BuildReturns(candles []models.Candle) ([]float64, error) {
	if len(candles) < 2 {
		return nil, fmt.Errorf("%w: %d candles, need at least 2 for a return", ErrInsufficientData, len(candles))
	}

	for i, c := range candles {
		if c.Close <= 0 || !utils.IsFinite(c.Close) {
			return nil, fmt.Errorf("%w: close at bar %d is %v", ErrInvalidPrice, i, c.Close)
		}
	}

	returns := make([]float64, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		prev := candles[i-1].Close
		returns[i-1] = (candles[i].Close - prev) / prev
	}

	return returns, nil
}

func Volumes(candles []models.Candle) []float64 {
	volumes := make([]float64, len(candles))
	for i, c := range candles {
		volumes[i] = c.Volume
	}
	return volumes
}
