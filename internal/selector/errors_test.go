package selector

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkipReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("%w: %w", ErrFetchFailed, errors.New("connection reset")), "fetch_error"},
		{fmt.Errorf("%w: %w", ErrFetchFailed, context.Canceled), "cancelled"},
		{fmt.Errorf("%w: %w", ErrFetchFailed, context.DeadlineExceeded), "fetch_error"},
		{fmt.Errorf("%w: 10 candles", ErrInsufficientData), "insufficient_data"},
		{ErrDegenerateSeries, "degenerate_series"},
		{ErrInvalidPrice, "invalid_price"},
		{ErrUndefinedStatistic, "undefined_statistic"},
		{ErrNonFiniteScore, "non_finite_score"},
		{ErrInvalidLayout, "invalid_layout"},
		{errors.New("other"), "error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SkipReason(tt.err), "err=%v", tt.err)
	}
}
