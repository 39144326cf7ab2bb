package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gotrs-io/boardcheck/internal/browser"
	"github.com/gotrs-io/boardcheck/internal/config"
	"github.com/gotrs-io/boardcheck/internal/logging"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// BrowserHelper provides browser setup and teardown for tests
type BrowserHelper struct {
	Config   *config.Config
	Launcher *browser.Launcher
	Session  *browser.Session
	Page     playwright.Page
	Logger   *zap.Logger
	t        *testing.T
}

// LoadConfig reads the suite configuration, skipping the test when no
// application URL is configured. BOARDCHECK_CONFIG names an optional
// config file.
func LoadConfig(t *testing.T) *config.Config {
	t.Helper()
	if os.Getenv("BOARDCHECK_BASE_URL") == "" && os.Getenv("BASE_URL") == "" {
		t.Skip("BOARDCHECK_BASE_URL (or BASE_URL) not set; skipping live browser tests")
	}
	cfg, err := config.Load(config.NewViper(), os.Getenv("BOARDCHECK_CONFIG"))
	if err != nil {
		t.Fatalf("invalid configuration: %v", err)
	}
	cfg.Scenarios = RepoPath(cfg.Scenarios)
	if !filepath.IsAbs(cfg.Artifacts.Dir) {
		cfg.Artifacts.Dir = RepoPath(cfg.Artifacts.Dir)
	}
	return cfg
}

// RepoPath resolves a path given relative to the repository root, since
// go test runs from the package directory.
func RepoPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return filepath.Join("..", "..", p)
}

// NewBrowserHelper launches the configured browser. The browser is shut
// down when the test ends.
func NewBrowserHelper(t *testing.T, cfg *config.Config) *BrowserHelper {
	t.Helper()
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		t.Fatalf("could not build logger: %v", err)
	}

	launcher, err := browser.Launch(cfg.BrowserOptions(), logger)
	if err != nil {
		t.Fatalf("could not launch browser: %v", err)
	}
	t.Cleanup(func() { _ = launcher.Close() })

	return &BrowserHelper{Config: cfg, Launcher: launcher, Logger: logger, t: t}
}

// Setup opens a fresh session named after the running test. The session
// is closed, with failure artifacts, when that test ends.
func (b *BrowserHelper) Setup(t *testing.T) playwright.Page {
	t.Helper()
	session, err := b.Launcher.NewSession(t.Name())
	if err != nil {
		t.Fatalf("could not open session: %v", err)
	}
	t.Cleanup(func() {
		if err := session.Close(t.Failed()); err != nil {
			b.Logger.Warn("failed to close session", zap.Error(err))
		}
	})
	b.Session = session
	b.Page = session.Page()
	return b.Page
}
