package selector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paaavkata/crypto-signal-feed/pkg/models"
)

func TestScorer_CalculateFinalScore(t *testing.T) {
	scorer := NewScorer(testCriteria().Scoring, newTestLogger())

	tests := []struct {
		name     string
		rz, vz   float64
		atr      float64
		category models.Category
		want     int
	}{
		{"mainstream", 2.5, 1.0, 0.01, models.Mainstream, 142},
		{"negative z uses magnitude", -2.5, -1.0, 0.01, models.Mainstream, 142},
		{"wildcard down-weighted", 2.5, 1.0, 0.06, models.Wildcard, 106},
		{"zero", 0, 0, 0, models.Mainstream, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scorer.CalculateFinalScore(tt.rz, tt.vz, tt.atr, tt.category)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScorer_NonFinite(t *testing.T) {
	scorer := NewScorer(testCriteria().Scoring, newTestLogger())

	for _, rz := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e300} {
		_, err := scorer.CalculateFinalScore(rz, 1, 0.01, models.Mainstream)
		assert.ErrorIs(t, err, ErrNonFiniteScore, "rz=%v", rz)
	}
}

func TestDirection(t *testing.T) {
	assert.Equal(t, models.Long, Direction(1.2))
	assert.Equal(t, models.Long, Direction(0))
	assert.Equal(t, models.Short, Direction(-0.0001))
}
