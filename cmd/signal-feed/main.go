package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/paaavkata/crypto-signal-feed/internal/collector"
	"github.com/paaavkata/crypto-signal-feed/internal/config"
	"github.com/paaavkata/crypto-signal-feed/internal/feed"
	"github.com/paaavkata/crypto-signal-feed/internal/health"
	"github.com/paaavkata/crypto-signal-feed/internal/metrics"
	"github.com/paaavkata/crypto-signal-feed/internal/scheduler"
	"github.com/paaavkata/crypto-signal-feed/internal/selector"
	"github.com/paaavkata/crypto-signal-feed/pkg/gateio"
	"github.com/paaavkata/crypto-signal-feed/pkg/utils"
)

var modeFlag string

var rootCmd = &cobra.Command{
	Use:   "signal-feed",
	Short: "Ranked anomaly signal feed for Gate.io USDT perpetuals",
	Long: `signal-feed scores the most liquid Gate.io USDT-settled futures contracts for
return and volume anomalies and writes a ranked JSON feed.

Mode "fast" uses 1m bars and writes data_fast.json, mode "slow" uses 5m bars
and writes data_slow.json. Every setting can be overridden from the environment.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Produce one feed and exit",
	Run: func(cmd *cobra.Command, args []string) {
		logger := utils.NewLogger("signal-feed")
		cfg := loadConfig(logger)

		app := build(cfg, logger, metrics.New(), nil)
		if _, err := app.RunOnce(cmd.Context()); err != nil {
			logger.WithError(err).Fatal("Feed run failed")
		}
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Produce feeds on a cron schedule and serve health and metrics",
	Run: func(cmd *cobra.Command, args []string) {
		logger := utils.NewLogger("signal-feed")
		cfg := loadConfig(logger)

		m := metrics.New()
		checker := health.NewHealthChecker(m.Handler(), logger)
		server := checker.StartServer(cfg.MetricsPort)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		feedScheduler := build(cfg, logger, m, checker)
		if err := feedScheduler.Start(ctx, cfg.Schedule); err != nil {
			logger.WithError(err).Fatal("Failed to start scheduler")
		}

		logger.Info("Signal feed service started successfully")

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("Shutting down signal feed service...")

		feedScheduler.Stop()
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Failed to shut down health server")
		}

		logger.Info("Signal feed service stopped")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "", "fast or slow (overrides MODE)")
	rootCmd.AddCommand(runCmd, scheduleCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(logger *logrus.Logger) *config.Config {
	cfg, err := config.Load(modeFlag)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	logger.WithFields(logrus.Fields{
		"mode":         cfg.Mode,
		"interval":     cfg.Collector.Interval,
		"candle_limit": cfg.Collector.Limit,
		"top_n":        cfg.SelectionCriteria.TopN,
		"min_score":    cfg.SelectionCriteria.MinScore,
		"concurrency":  cfg.SelectionCriteria.Concurrency,
		"output":       cfg.Output.Path,
	}).Info("Configuration loaded")

	return cfg
}

func build(cfg *config.Config, logger *logrus.Logger, m *metrics.Metrics, checker *health.HealthChecker) *scheduler.Scheduler {
	client := gateio.NewClient(cfg.Gate, logger)
	fetcher := collector.NewFetcher(client, cfg.Collector, logger)

	analyzer, err := selector.NewAnalyzer(fetcher, fetcher.Layout(), cfg.SelectionCriteria, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create analyzer")
	}

	writer := feed.NewWriter(feed.Config{
		Path:          cfg.Output.Path,
		Diagnostics:   cfg.Output.Diagnostics,
		UpdatedLayout: cfg.Output.UpdatedLayout,
		Location:      cfg.Output.Location,
	}, logger)

	return scheduler.NewScheduler(fetcher, analyzer, writer, scheduler.Options{
		Mode:     cfg.Mode,
		Interval: cfg.Collector.Interval,
		Metrics:  m,
		Health:   checker,
	}, logger)
}
