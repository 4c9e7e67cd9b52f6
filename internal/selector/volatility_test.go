package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paaavkata/crypto-signal-feed/pkg/models"
)

func TestVolatilityClassifier_Classify(t *testing.T) {
	classifier := NewVolatilityClassifier(testCriteria().Scoring, newTestLogger())

	tests := []struct {
		atr  float64
		want models.Category
	}{
		{0, models.Mainstream},
		{0.01, models.Mainstream},
		{0.02, models.Mainstream},
		{0.0200001, models.Altcoin},
		{0.03, models.Altcoin},
		{0.05, models.Altcoin},
		{0.0500001, models.Wildcard},
		{0.2, models.Wildcard},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classifier.Classify(tt.atr), "atr=%v", tt.atr)
	}
}

func TestVolatilityClassifier_RangeVolatility(t *testing.T) {
	classifier := NewVolatilityClassifier(testCriteria().Scoring, newTestLogger())

	candles := make([]models.Candle, 30)
	for i := range candles {
		candles[i] = models.Candle{Open: 100, High: 101, Low: 99, Close: 100, Volume: 1}
	}
	assert.InDelta(t, 2.0, classifier.RangeVolatility(candles, 14), 1e-9)

	assert.Zero(t, classifier.RangeVolatility(candles[:10], 14), "window shorter than the period")
	assert.Zero(t, classifier.RangeVolatility(candlesFromCloses(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17), 14),
		"candles without a high/low range")
}
