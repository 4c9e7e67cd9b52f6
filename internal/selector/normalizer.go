package selector

import (
	"fmt"
	"math"
	"time"

	"github.com/paaavkata/crypto-signal-feed/pkg/models"
	"github.com/paaavkata/crypto-signal-feed/pkg/utils"
)

// Normalizer turns raw candle tuples into an oldest-first Candle sequence.
type Normalizer struct {
	minHistory        int
	minDistinctCloses int
}

func NewNormalizer(minHistory, minDistinctCloses int) *Normalizer {
	if minHistory < 2 {
		minHistory = 2
	}
	return &Normalizer{
		minHistory:        minHistory,
		minDistinctCloses: minDistinctCloses,
	}
}

// Normalize reads raw through fields and, for NewestFirst payloads, reverses
// it so the last element is always the most recent bar. Rows that are too
// short or carry NaN/Inf in a mapped field are dropped.
func (n *Normalizer) Normalize(raw []models.RawCandle, order models.ChronoOrder, fields models.FieldMap) ([]models.Candle, error) {
	if !order.Valid() {
		return nil, fmt.Errorf("%w: candle order is %s", ErrInvalidLayout, order)
	}
	if err := fields.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}

	if len(raw) < n.minHistory {
		return nil, fmt.Errorf("%w: got %d candles, need %d", ErrInsufficientData, len(raw), n.minHistory)
	}

	width := fields.Width()
	candles := make([]models.Candle, 0, len(raw))
	for _, row := range raw {
		if len(row) < width {
			continue
		}
		candle, ok := toCandle(row, fields)
		if !ok {
			continue
		}
		candles = append(candles, candle)
	}

	if order == models.NewestFirst {
		for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
			candles[i], candles[j] = candles[j], candles[i]
		}
	}

	if len(candles) < n.minHistory {
		return nil, fmt.Errorf("%w: %d of %d candles usable, need %d", ErrInsufficientData, len(candles), len(raw), n.minHistory)
	}

	if n.minDistinctCloses > 0 {
		closes := make([]float64, len(candles))
		for i, c := range candles {
			closes[i] = c.Close
		}
		if distinct := utils.CountDistinct(closes); distinct < n.minDistinctCloses {
			return nil, fmt.Errorf("%w: %d distinct closes, need %d", ErrDegenerateSeries, distinct, n.minDistinctCloses)
		}
	}

	return candles, nil
}

func toCandle(row models.RawCandle, fields models.FieldMap) (models.Candle, bool) {
	var candle models.Candle

	read := func(idx int, dst *float64) bool {
		if idx < 0 {
			return true
		}
		if !utils.IsFinite(row[idx]) {
			return false
		}
		*dst = row[idx]
		return true
	}

	var ts float64
	if !read(fields.Close, &candle.Close) ||
		!read(fields.Volume, &candle.Volume) ||
		!read(fields.Open, &candle.Open) ||
		!read(fields.High, &candle.High) ||
		!read(fields.Low, &candle.Low) ||
		!read(fields.Timestamp, &ts) {
		return models.Candle{}, false
	}

	if fields.Timestamp >= 0 {
		candle.Timestamp = toTime(ts)
	}
	return candle, true
}

// toTime accepts epoch seconds or epoch milliseconds.
func toTime(ts float64) time.Time {
	if ts > 1e12 {
		return time.UnixMilli(int64(ts)).UTC()
	}
	sec, frac := math.Modf(ts)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}
