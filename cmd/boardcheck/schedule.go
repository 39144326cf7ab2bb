package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gotrs-io/boardcheck/internal/config"
	"github.com/gotrs-io/boardcheck/internal/metrics"
	"github.com/gotrs-io/boardcheck/internal/report"
	"github.com/gotrs-io/boardcheck/internal/runner"
	"github.com/gotrs-io/boardcheck/internal/scenario"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the suite on a cron schedule and serve /metrics",
	Long: `Schedule runs the suite on schedule.cron (six fields, seconds first)
until interrupted. Prometheus metrics are served on metrics.listen.
Edits to the config file are picked up by the next run.`,
	RunE: runSchedule,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the suite whenever the scenario file changes",
	RunE:  runWatch,
}

var runTimeoutFlag time.Duration

func init() {
	scheduleCmd.Flags().DurationVar(&runTimeoutFlag, "run-timeout", 10*time.Minute, "Maximum duration of one run")
	scheduleCmd.Flags().String("cron", "", "Cron expression, overrides schedule.cron")
	_ = v.BindPFlag("schedule.cron", scheduleCmd.Flags().Lookup("cron"))

	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(watchCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	holder := config.NewHolder(cfg)
	if v.ConfigFileUsed() != "" {
		holder.Watch(v,
			func(c *config.Config) {
				logger.Info("configuration reloaded", zap.String("file", v.ConfigFileUsed()))
			},
			func(err error) {
				logger.Warn("configuration not reloaded", zap.Error(err))
			})
	}

	m := metrics.New()
	srv := &http.Server{Addr: cfg.Metrics.Listen, Handler: metricsMux(m), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("serving metrics", zap.String("addr", cfg.Metrics.Listen))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	task := runner.NewSuiteTask("boardcheck", cfg.Schedule.Cron, runTimeoutFlag,
		func(ctx context.Context) (*report.Summary, error) {
			c := holder.Get()
			suite, err := loadSuite(c)
			if err != nil {
				return nil, err
			}
			sinks, closeSinks, err := buildSinks(c, logger, m)
			if err != nil {
				return nil, err
			}
			defer closeSinks()
			return executeSuite(ctx, c, logger, suite, sinks)
		})

	registry := runner.NewTaskRegistry()
	registry.Register(task)

	err = runner.NewScheduler(registry, logger).Start(cmd.Context())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func metricsMux(m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := scenario.NewWatcher(cfg.Scenarios, logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	runOnce := func() {
		suite, err := loadSuite(cfg)
		if err != nil {
			// An invalid edit is reported and the next save retried.
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			return
		}
		summary, err := executeSuite(ctx, cfg, logger, suite, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			return
		}
		_ = report.WriteText(os.Stdout, summary)
	}

	runOnce()
	fmt.Fprintf(os.Stderr, "👀 watching %s, press Ctrl+C to stop\n", cfg.Scenarios)

	if err := watcher.Run(ctx, runOnce); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
