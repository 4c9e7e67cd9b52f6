package selector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paaavkata/crypto-signal-feed/pkg/models"
)

func TestAnomalyScorer_Score(t *testing.T) {
	scorer := NewAnomalyScorer(models.ZeroStdevNeutral)

	result, err := scorer.Score(
		[]float64{0.01, -0.02, 0.03, 0.01, -0.01},
		[]float64{1, 2, 3, 4, 5},
	)
	require.NoError(t, err)

	assert.InDelta(t, -0.8029550685469661, result.ReturnZ, 1e-9)
	assert.InDelta(t, math.Sqrt2, result.VolumeZ, 1e-9)
	assert.Equal(t, -0.01, result.LatestReturn)
	assert.Equal(t, 0.01, result.LatestATR())
}

func TestAnomalyScorer_ZeroStdevPolicy(t *testing.T) {
	returns := []float64{0.01, -0.02, 0.03, 0.01, -0.01}
	flatVolumes := []float64{100, 100, 100, 100, 100, 100}

	t.Run("neutral", func(t *testing.T) {
		result, err := NewAnomalyScorer(models.ZeroStdevNeutral).Score(returns, flatVolumes)
		require.NoError(t, err)
		assert.Equal(t, 0.0, result.VolumeZ)
		assert.NotZero(t, result.ReturnZ)
	})

	t.Run("skip", func(t *testing.T) {
		_, err := NewAnomalyScorer(models.ZeroStdevSkip).Score(returns, flatVolumes)
		assert.ErrorIs(t, err, ErrUndefinedStatistic)
	})

	t.Run("flat returns", func(t *testing.T) {
		flatReturns := []float64{0, 0, 0}
		result, err := NewAnomalyScorer("").Score(flatReturns, []float64{1, 2, 3, 4})
		require.NoError(t, err)
		assert.Equal(t, 0.0, result.ReturnZ)

		_, err = NewAnomalyScorer(models.ZeroStdevSkip).Score(flatReturns, []float64{1, 2, 3, 4})
		assert.ErrorIs(t, err, ErrUndefinedStatistic)
	})
}

func TestAnomalyScorer_Empty(t *testing.T) {
	_, err := NewAnomalyScorer(models.ZeroStdevNeutral).Score(nil, []float64{1})
	assert.ErrorIs(t, err, ErrInsufficientData)
}
