package selector

import (
	"fmt"
	"math"

	"github.com/paaavkata/crypto-signal-feed/pkg/models"
	"github.com/paaavkata/crypto-signal-feed/pkg/utils"
)

type AnomalyScorer struct {
	zeroStdevPolicy string
}

type AnomalyResult struct {
	ReturnZ      float64
	VolumeZ      float64
	LatestReturn float64
}

func NewAnomalyScorer(zeroStdevPolicy string) *AnomalyScorer {
	if zeroStdevPolicy != models.ZeroStdevSkip {
		zeroStdevPolicy = models.ZeroStdevNeutral
	}
	return &AnomalyScorer{zeroStdevPolicy: zeroStdevPolicy}
}

// Score computes the z-score of the latest return and latest volume against
// their full windows, latest point included, using population variance.
// A series without spread yields z = 0 under the neutral policy and
// ErrUndefinedStatistic under the skip policy.
func (a *AnomalyScorer) Score(returns, volumes []float64) (AnomalyResult, error) {
	if len(returns) == 0 || len(volumes) == 0 {
		return AnomalyResult{}, fmt.Errorf("%w: %d returns, %d volumes", ErrInsufficientData, len(returns), len(volumes))
	}

	latestReturn := returns[len(returns)-1]
	returnZ, returnOK := utils.ZScore(latestReturn, returns)
	volumeZ, volumeOK := utils.ZScore(volumes[len(volumes)-1], volumes)

	if a.zeroStdevPolicy == models.ZeroStdevSkip {
		if !returnOK {
			return AnomalyResult{}, fmt.Errorf("%w: return series has no spread", ErrUndefinedStatistic)
		}
		if !volumeOK {
			return AnomalyResult{}, fmt.Errorf("%w: volume series has no spread", ErrUndefinedStatistic)
		}
	}

	return AnomalyResult{
		ReturnZ:      returnZ,
		VolumeZ:      volumeZ,
		LatestReturn: latestReturn,
	}, nil
}

// LatestATR is the one-bar volatility proxy: |latest return|.
func (r AnomalyResult) LatestATR() float64 {
	return math.Abs(r.LatestReturn)
}
