package selector

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/paaavkata/crypto-signal-feed/pkg/models"
)

const testLayout = "t,v,c,h,l,o"

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)
	return logger
}

func testFields() models.FieldMap {
	fields, err := models.ParseFieldMap(testLayout)
	if err != nil {
		panic(err)
	}
	return fields
}

func testCriteria() models.SelectionCriteria {
	return models.SelectionCriteria{
		TopN:              100,
		ContractSuffix:    "USDT",
		MinHistory:        30,
		MinDistinctCloses: 5,
		MinScore:          60,
		Concurrency:       4,
		ZeroStdevPolicy:   models.ZeroStdevNeutral,
		NATRPeriod:        14,
		Scoring: models.ScoringConfig{
			ReturnWeight:      40,
			VolumeWeight:      40,
			ATRWeight:         200,
			WildcardFactor:    0.7,
			WildcardThreshold: 0.05,
			AltcoinThreshold:  0.02,
		},
	}
}

// buildRaw encodes oldest-first closes and volumes as t,v,c,h,l,o tuples with
// one-minute bars.
func buildRaw(closes, volumes []float64) []models.RawCandle {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	raw := make([]models.RawCandle, len(closes))
	for i := range closes {
		raw[i] = models.RawCandle{
			float64(start + int64(i*60)),
			volumes[i],
			closes[i],
			closes[i] * 1.002,
			closes[i] * 0.998,
			closes[i],
		}
	}
	return raw
}

func reversed(raw []models.RawCandle) []models.RawCandle {
	out := make([]models.RawCandle, len(raw))
	for i := range raw {
		out[len(raw)-1-i] = raw[i]
	}
	return out
}

// spikeFixture is 29 quiet bars followed by a bar that moves by jump with a
// volume burst.
func spikeFixture(jump float64) (closes, volumes []float64) {
	for i := 0; i < 29; i++ {
		closes = append(closes, 100*(1+0.001*float64(i%7)))
		volumes = append(volumes, 1000+10*float64(i%5))
	}
	closes = append(closes, closes[28]*(1+jump))
	volumes = append(volumes, 5000)
	return closes, volumes
}
