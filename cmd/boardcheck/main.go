package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gotrs-io/boardcheck/internal/config"
	"github.com/gotrs-io/boardcheck/internal/logging"
	"github.com/gotrs-io/boardcheck/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errScenariosFailed makes the process exit non-zero without printing
// anything beyond the report.
var errScenariosFailed = errors.New("one or more scenarios failed")

var rootCmd = &cobra.Command{
	Use:   "boardcheck",
	Short: "Browser checks for the login page and the kanban board",
	Long: `boardcheck drives a real browser through the login form and the
project board, checking that every scenario's card shows up in the
expected column with the expected tags.

Scenarios are read from a JSON or YAML file; settings come from
boardcheck.yaml, a .env file and BOARDCHECK_* environment variables.`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// v is created before any init so every command can bind flags to it.
var v = config.NewViper()

var (
	configFlag string
	headedFlag bool
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFlag, "config", "", "Config file (default boardcheck.yaml in . or ./config)")
	pf.String("base-url", "", "Base URL of the application under test")
	pf.String("scenarios", "", "Scenario file (.json, .yaml or .yml)")
	pf.String("filter", "", "Only run scenarios whose name matches this glob")
	pf.String("browser", "", "Browser engine: chromium, firefox or webkit")
	pf.BoolVar(&headedFlag, "headed", false, "Show the browser window")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("log-format", "", "Log format: console or json")

	for key, flag := range map[string]string{
		"base_url":       "base-url",
		"scenarios":      "scenarios",
		"filter":         "filter",
		"browser.name":   "browser",
		"logging.level":  "log-level",
		"logging.format": "log-format",
	} {
		_ = v.BindPFlag(key, pf.Lookup(flag))
	}

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("boardcheck %s\n", version.Full())
	},
}

// loadConfig reads and validates the configuration and builds the logger.
func loadConfig() (*config.Config, *zap.Logger, error) {
	if headedFlag {
		v.Set("browser.headless", false)
	}
	cfg, err := config.Load(v, configFlag)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errScenariosFailed) {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		}
		os.Exit(1)
	}
}
