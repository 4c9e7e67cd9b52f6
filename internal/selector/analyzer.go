package selector

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/paaavkata/crypto-signal-feed/pkg/models"
)

// CandleSource delivers raw candle tuples for one contract.
type CandleSource interface {
	FetchCandles(ctx context.Context, symbol string) ([]models.RawCandle, error)
}

// CandleLayout describes the payloads a CandleSource returns.
type CandleLayout struct {
	Order  models.ChronoOrder
	Fields models.FieldMap
}

type OutcomeStatus string

const (
	StatusAdmitted       OutcomeStatus = "admitted"
	StatusBelowThreshold OutcomeStatus = "below_threshold"
	StatusSkipped        OutcomeStatus = "skipped"
)

// Outcome records what happened to one candidate, so "no signal" and
// "data error" stay distinguishable.
type Outcome struct {
	Contract models.Contract
	Status   OutcomeStatus
	Reason   string
	Signal   *models.Signal
	Err      error
}

type Result struct {
	Signals  []models.Signal
	Outcomes []Outcome
}

func (r Result) Count(status OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

type Analyzer struct {
	source     CandleSource
	layout     CandleLayout
	criteria   models.SelectionCriteria
	normalizer *Normalizer
	anomaly    *AnomalyScorer
	classifier *VolatilityClassifier
	scorer     *Scorer
	logger     *logrus.Logger
}

func NewAnalyzer(source CandleSource, layout CandleLayout, criteria models.SelectionCriteria, logger *logrus.Logger) (*Analyzer, error) {
	if !layout.Order.Valid() {
		return nil, fmt.Errorf("%w: candle order must be explicit, got %s", ErrInvalidLayout, layout.Order)
	}
	if err := layout.Fields.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	if criteria.Concurrency < 1 {
		criteria.Concurrency = 1
	}

	return &Analyzer{
		source:     source,
		layout:     layout,
		criteria:   criteria,
		normalizer: NewNormalizer(criteria.MinHistory, criteria.MinDistinctCloses),
		anomaly:    NewAnomalyScorer(criteria.ZeroStdevPolicy),
		classifier: NewVolatilityClassifier(criteria.Scoring, logger),
		scorer:     NewScorer(criteria.Scoring, logger),
		logger:     logger,
	}, nil
}

// AnalyzeContracts evaluates every contract independently with bounded
// parallelism. A failing contract is recorded as skipped and never aborts the
// run. Signals at or above MinScore are returned sorted by score descending,
// ties kept in the order contracts were given.
func (a *Analyzer) AnalyzeContracts(ctx context.Context, contracts []models.Contract) Result {
	outcomes := make([]Outcome, len(contracts))

	var g errgroup.Group
	g.SetLimit(a.criteria.Concurrency)

	for i, contract := range contracts {
		i, contract := i, contract
		g.Go(func() error {
			outcomes[i] = a.evaluateOutcome(ctx, contract)
			return nil
		})
	}
	_ = g.Wait()

	signals := make([]models.Signal, 0, len(contracts))
	for _, o := range outcomes {
		if o.Status == StatusAdmitted {
			signals = append(signals, *o.Signal)
		}
	}

	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].Score > signals[j].Score
	})

	return Result{Signals: signals, Outcomes: outcomes}
}

func (a *Analyzer) evaluateOutcome(ctx context.Context, contract models.Contract) Outcome {
	signal, err := a.Evaluate(ctx, contract.Symbol)
	if err != nil {
		reason := SkipReason(err)
		a.logger.WithFields(logrus.Fields{
			"symbol": contract.Symbol,
			"rank":   contract.Rank,
			"reason": reason,
		}).WithError(err).Debug("Skipping candidate")
		return Outcome{Contract: contract, Status: StatusSkipped, Reason: reason, Err: err}
	}

	if !a.admits(signal.Score) {
		return Outcome{Contract: contract, Status: StatusBelowThreshold, Signal: &signal}
	}
	return Outcome{Contract: contract, Status: StatusAdmitted, Signal: &signal}
}

// admits applies MinScore as an inclusive lower bound.
func (a *Analyzer) admits(score int) bool {
	return score >= a.criteria.MinScore
}

// Evaluate runs the full scoring pipeline for one symbol without applying the
// admission threshold.
func (a *Analyzer) Evaluate(ctx context.Context, symbol string) (models.Signal, error) {
	raw, err := a.source.FetchCandles(ctx, symbol)
	if err != nil {
		return models.Signal{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	candles, err := a.normalizer.Normalize(raw, a.layout.Order, a.layout.Fields)
	if err != nil {
		return models.Signal{}, err
	}

	return a.ScoreCandles(symbol, candles)
}

// ScoreCandles scores an already normalized, oldest-first candle sequence.
func (a *Analyzer) ScoreCandles(symbol string, candles []models.Candle) (models.Signal, error) {
	returns, err := BuildReturns(candles)
	if err != nil {
		return models.Signal{}, err
	}

	anomaly, err := a.anomaly.Score(returns, Volumes(candles))
	if err != nil {
		return models.Signal{}, err
	}

	atr := anomaly.LatestATR()
	category := a.classifier.Classify(atr)

	score, err := a.scorer.CalculateFinalScore(anomaly.ReturnZ, anomaly.VolumeZ, atr, category)
	if err != nil {
		return models.Signal{}, err
	}

	return models.Signal{
		Symbol:    symbol,
		Direction: Direction(anomaly.ReturnZ),
		Score:     score,
		Category:  category,
		ReturnZ:   anomaly.ReturnZ,
		VolumeZ:   anomaly.VolumeZ,
		ATR:       atr,
		NATR:      a.classifier.RangeVolatility(candles, a.criteria.NATRPeriod),
	}, nil
}
