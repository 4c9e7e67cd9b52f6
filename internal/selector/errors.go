package selector

import (
	"context"
	"errors"
)

var (
	ErrInvalidLayout      = errors.New("invalid candle layout")
	ErrFetchFailed        = errors.New("candle fetch failed")
	ErrInsufficientData   = errors.New("insufficient data")
	ErrDegenerateSeries   = errors.New("degenerate series")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrUndefinedStatistic = errors.New("undefined statistic")
	ErrNonFiniteScore     = errors.New("non-finite score")
)

// SkipReason maps a per-candidate error onto a short label for logs and metrics.
// A cancelled run context wins over the fetch failure that wraps it; a request
// timeout stays a fetch_error.
func SkipReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, ErrFetchFailed):
		return "fetch_error"
	case errors.Is(err, ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, ErrDegenerateSeries):
		return "degenerate_series"
	case errors.Is(err, ErrInvalidPrice):
		return "invalid_price"
	case errors.Is(err, ErrUndefinedStatistic):
		return "undefined_statistic"
	case errors.Is(err, ErrNonFiniteScore):
		return "non_finite_score"
	case errors.Is(err, ErrInvalidLayout):
		return "invalid_layout"
	default:
		return "error"
	}
}
