package selector

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/paaavkata/crypto-signal-feed/pkg/models"
	"github.com/paaavkata/crypto-signal-feed/pkg/utils"
)

// maxScore keeps the rounded score inside int32 range on any platform.
const maxScore = math.MaxInt32

type Scorer struct {
	cfg    models.ScoringConfig
	logger *logrus.Logger
}

func NewScorer(cfg models.ScoringConfig, logger *logrus.Logger) *Scorer {
	return &Scorer{cfg: cfg, logger: logger}
}

// CalculateRawScore is the weighted sum before rounding, with the wildcard
// down-weight applied.
func (s *Scorer) CalculateRawScore(returnZ, volumeZ, atr float64, category models.Category) float64 {
	score := math.Abs(returnZ)*s.cfg.ReturnWeight +
		math.Abs(volumeZ)*s.cfg.VolumeWeight +
		atr*s.cfg.ATRWeight

	// Wildcard contracts are chronically noisy
	if category == models.Wildcard {
		score *= s.cfg.WildcardFactor
	}

	return score
}

// CalculateFinalScore rounds the raw score. Non-finite or out-of-range
// values are rejected rather than emitted.
func (s *Scorer) CalculateFinalScore(returnZ, volumeZ, atr float64, category models.Category) (int, error) {
	raw := s.CalculateRawScore(returnZ, volumeZ, atr, category)
	if !utils.IsFinite(raw) {
		return 0, fmt.Errorf("%w: raw score %v (rz=%v vz=%v atr=%v)", ErrNonFiniteScore, raw, returnZ, volumeZ, atr)
	}

	rounded := math.Round(raw)
	if rounded < 0 || rounded > maxScore {
		return 0, fmt.Errorf("%w: raw score %v out of range", ErrNonFiniteScore, raw)
	}

	return int(rounded), nil
}

// Direction is long for a non-negative return z-score, short otherwise.
func Direction(returnZ float64) models.Direction {
	if returnZ >= 0 {
		return models.Long
	}
	return models.Short
}
