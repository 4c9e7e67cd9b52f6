package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/paaavkata/crypto-signal-feed/internal/health"
	"github.com/paaavkata/crypto-signal-feed/internal/metrics"
	"github.com/paaavkata/crypto-signal-feed/internal/selector"
	"github.com/paaavkata/crypto-signal-feed/pkg/models"
)

type ContractSource interface {
	FetchTopContracts(ctx context.Context) ([]models.Contract, error)
}

type Analyzer interface {
	AnalyzeContracts(ctx context.Context, contracts []models.Contract) selector.Result
}

type FeedWriter interface {
	Write(feed models.RankedFeed) error
}

type Scheduler struct {
	contracts ContractSource
	analyzer  Analyzer
	writer    FeedWriter
	metrics   *metrics.Metrics
	health    *health.HealthChecker
	cron      *cron.Cron
	mode      models.Mode
	interval  string
	logger    *logrus.Logger

	initial sync.WaitGroup
}

type Options struct {
	Mode     models.Mode
	Interval string
	Metrics  *metrics.Metrics
	Health   *health.HealthChecker
}

func NewScheduler(contracts ContractSource, analyzer Analyzer, writer FeedWriter, opts Options, logger *logrus.Logger) *Scheduler {
	cronScheduler := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger))),
	)

	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}

	return &Scheduler{
		contracts: contracts,
		analyzer:  analyzer,
		writer:    writer,
		metrics:   m,
		health:    opts.Health,
		cron:      cronScheduler,
		mode:      opts.Mode,
		interval:  opts.Interval,
		logger:    logger,
	}
}

// Start registers RunOnce on the cron schedule and kicks off an initial run.
// The initial run shares the cron job wrapper, so ticks are skipped while any
// run is still in progress.
func (s *Scheduler) Start(ctx context.Context, schedule string) error {
	s.logger.WithFields(logrus.Fields{
		"mode":     s.mode,
		"schedule": schedule,
	}).Info("Starting signal feed scheduler")

	id, err := s.cron.AddFunc(schedule, func() {
		s.runLogged(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule feed run %q: %w", schedule, err)
	}
	job := s.cron.Entry(id).WrappedJob

	s.cron.Start()

	s.initial.Add(1)
	go func() {
		defer s.initial.Done()
		job.Run()
	}()

	s.logger.Info("Signal feed scheduler started successfully")
	return nil
}

// Stop halts the cron and waits for a run in progress, including the initial
// one, to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping signal feed scheduler")
	<-s.cron.Stop().Done()
	s.initial.Wait()
}

func (s *Scheduler) runLogged(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.WithError(err).Error("Feed run failed, retrying on next tick")
	}
}

// RunOnce selects candidates, scores them and writes the ranked feed. A
// ticker failure, a write failure or a cancelled ctx fails the run and leaves
// the previous artifact in place; per-candidate failures only shrink the feed.
func (s *Scheduler) RunOnce(ctx context.Context) (models.RankedFeed, error) {
	start := time.Now()
	runID := uuid.New().String()
	mode := string(s.mode)
	log := s.logger.WithFields(logrus.Fields{"run_id": runID, "mode": mode})

	log.Info("Starting feed run")

	contracts, err := s.contracts.FetchTopContracts(ctx)
	if err != nil {
		return models.RankedFeed{}, s.fail(runID, "tickers", start, err)
	}

	result := s.analyzer.AnalyzeContracts(ctx, contracts)
	for _, o := range result.Outcomes {
		s.metrics.ObserveCandidate(mode, string(o.Status), o.Reason)
	}

	if err := ctx.Err(); err != nil {
		return models.RankedFeed{}, s.fail(runID, "cancelled", start, err)
	}

	feed := models.RankedFeed{
		RunID:       runID,
		GeneratedAt: time.Now(),
		Mode:        s.mode,
		Interval:    s.interval,
		Items:       result.Signals,
	}

	if err := s.writer.Write(feed); err != nil {
		return models.RankedFeed{}, s.fail(runID, "write", start, err)
	}

	duration := time.Since(start)
	s.metrics.ObserveRun(mode, len(feed.Items), duration, feed.GeneratedAt)
	if s.health != nil {
		s.health.RecordRun(runID, feed.GeneratedAt, len(feed.Items), nil)
	}

	log.WithFields(logrus.Fields{
		"duration_ms":     duration.Milliseconds(),
		"candidates":      len(contracts),
		"admitted":        result.Count(selector.StatusAdmitted),
		"below_threshold": result.Count(selector.StatusBelowThreshold),
		"skipped":         result.Count(selector.StatusSkipped),
	}).Info("Feed run completed successfully")

	for i, signal := range feed.Items {
		if i >= 10 {
			break
		}
		log.WithFields(logrus.Fields{
			"rank":      i + 1,
			"symbol":    signal.Symbol,
			"score":     signal.Score,
			"direction": signal.Direction,
			"category":  signal.Category,
		}).Debug("Ranked signal")
	}

	return feed, nil
}

func (s *Scheduler) fail(runID, stage string, start time.Time, err error) error {
	s.metrics.ObserveFailure(string(s.mode), stage, time.Since(start))
	if s.health != nil {
		s.health.RecordRun(runID, time.Now(), 0, err)
	}
	return fmt.Errorf("feed run %s failed at %s: %w", runID, stage, err)
}
