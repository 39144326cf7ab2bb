package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gotrs-io/boardcheck/internal/browser"
	"github.com/gotrs-io/boardcheck/internal/config"
	"github.com/gotrs-io/boardcheck/internal/metrics"
	"github.com/gotrs-io/boardcheck/internal/report"
	"github.com/gotrs-io/boardcheck/internal/runner"
	"github.com/gotrs-io/boardcheck/internal/scenario"
	"github.com/gotrs-io/boardcheck/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scenario suite once",
	Long: `Run logs in and checks every scenario in its own browser context.
The process exits with status 1 when any scenario fails.`,
	RunE: runRun,
}

var (
	formatFlag string
	outputFlag string
)

func init() {
	runCmd.Flags().StringVar(&formatFlag, "format", "text", "Report format: text, json, junit, markdown or html")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the report to this file instead of stdout")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(checkCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	suite, err := loadSuite(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks, closeSinks, err := buildSinks(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer closeSinks()

	summary, err := executeSuite(ctx, cfg, logger, suite, sinks)
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if outputFlag != "" {
		f, err := os.Create(outputFlag)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := report.Write(out, summary, report.Format(formatFlag)); err != nil {
		return err
	}

	if !summary.OK() {
		return errScenariosFailed
	}
	return nil
}

// loadSuite loads the configured scenario file and applies the filter.
func loadSuite(cfg *config.Config) (*scenario.Suite, error) {
	suite, err := scenario.Load(cfg.Scenarios)
	if err != nil {
		return nil, err
	}
	if cfg.Filter != "" {
		if suite, err = suite.Filter(cfg.Filter); err != nil {
			return nil, err
		}
		if len(suite.Scenarios) == 0 {
			return nil, fmt.Errorf("no scenarios match %q", cfg.Filter)
		}
	}
	return suite, nil
}

// buildSinks wires the metrics and, when configured, Redis history. A nil
// m gets a fresh metrics set that is only useful with a Pushgateway.
func buildSinks(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) ([]report.Sink, func(), error) {
	var sinks []report.Sink
	closers := []func(){}

	if m != nil || cfg.Metrics.Pushgateway != "" {
		if m == nil {
			m = metrics.New()
		}
		sinks = append(sinks, &metrics.Sink{Metrics: m, Pushgateway: cfg.Metrics.Pushgateway, Job: cfg.Metrics.Job})
	}

	if cfg.Redis.Addr != "" {
		rs, err := openStore(cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("storing run history", zap.String("redis", cfg.Redis.Addr))
		sinks = append(sinks, rs)
		closers = append(closers, func() { _ = rs.Close() })
	}

	return sinks, func() {
		for _, c := range closers {
			c()
		}
	}, nil
}

func openStore(cfg *config.Config) (*store.RedisStore, error) {
	return store.NewRedisStore(store.Config{
		Addr:      cfg.Redis.Addr,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
		KeyPrefix: cfg.Redis.Key,
		Keep:      cfg.Redis.Keep,
	})
}

// executeSuite launches the browser and runs suite.
func executeSuite(ctx context.Context, cfg *config.Config, logger *zap.Logger, suite *scenario.Suite, sinks []report.Sink) (*report.Summary, error) {
	launcher, err := browser.Launch(cfg.BrowserOptions(), logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := launcher.Close(); err != nil {
			logger.Warn("failed to close browser", zap.Error(err))
		}
	}()

	r := runner.New(runner.FromLauncher(launcher),
		runner.WithLogger(logger),
		runner.WithPageOptions(cfg.PageOptions()...),
		runner.WithSinks(sinks...),
		runner.WithBaseURL(cfg.BaseURL),
	)
	return r.Run(ctx, suite), nil
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a scenario file against its schema",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := scenariosPath(args)
		if err != nil {
			return err
		}
		suite, err := scenario.Load(path)
		if err != nil {
			return err
		}
		fmt.Printf("✅ %s: %d scenarios\n", path, len(suite.Scenarios))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list [file]",
	Short: "List scenario names, after the filter",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := scenariosPath(args)
		if err != nil {
			return err
		}
		suite, err := scenario.Load(path)
		if err != nil {
			return err
		}
		if f := v.GetString("filter"); f != "" {
			if suite, err = suite.Filter(f); err != nil {
				return err
			}
		}
		for _, name := range suite.Names() {
			fmt.Println(name)
		}
		return nil
	},
}

// scenariosPath is the first argument or the configured scenario file.
func scenariosPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	cfg, err := config.Read(v, configFlag)
	if err != nil {
		return "", err
	}
	return cfg.Scenarios, nil
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the application under test is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if err := config.Reachable(cmd.Context(), cfg.BaseURL); err != nil {
			return err
		}
		fmt.Printf("✅ %s is reachable\n", cfg.BaseURL)
		return nil
	},
}
