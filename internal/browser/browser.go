// Package browser starts playwright and hands out one isolated browser
// context per scenario.
package browser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// TraceMode controls when a playwright trace is kept.
type TraceMode string

const (
	TraceOff             TraceMode = "off"
	TraceOn              TraceMode = "on"
	TraceRetainOnFailure TraceMode = "retain-on-failure"
)

// Options configures the launched browser and every session it creates.
type Options struct {
	Browser       string // chromium, firefox or webkit
	Headless      bool
	SlowMo        time.Duration
	BaseURL       string
	ActionTimeout time.Duration
	Width         int
	Height        int
	ArtifactsDir  string
	Screenshots   bool
	Videos        bool
	Trace         TraceMode
	// Preinstalled skips the driver download check.
	Preinstalled bool
}

// Launcher owns the playwright driver and one browser process.
type Launcher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
	logger  *zap.Logger
}

// Install downloads the playwright driver and the named browsers.
func Install(browsers ...string) error {
	if err := playwright.Install(&playwright.RunOptions{Browsers: browsers}); err != nil {
		return fmt.Errorf("could not install playwright browsers: %w", err)
	}
	return nil
}

// Launch starts playwright and the configured browser.
func Launch(opts Options, logger *zap.Logger) (*Launcher, error) {
	if opts.Browser == "" {
		opts.Browser = "chromium"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if !opts.Preinstalled && os.Getenv("PLAYWRIGHT_PREINSTALLED") != "1" {
		if err := Install(opts.Browser); err != nil {
			return nil, err
		}
	}
	pw, err := startDriver(func() error { return Install(opts.Browser) }, func() (*playwright.Playwright, error) {
		return playwright.Run()
	})
	if err != nil {
		return nil, err
	}

	bt, err := browserType(pw, opts.Browser)
	if err != nil {
		_ = pw.Stop()
		return nil, err
	}
	b, err := bt.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(float64(opts.SlowMo.Milliseconds())),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch %s: %w", opts.Browser, err)
	}

	logger.Debug("browser launched",
		zap.String("browser", opts.Browser),
		zap.Bool("headless", opts.Headless),
		zap.String("version", b.Version()))

	return &Launcher{pw: pw, browser: b, opts: opts, logger: logger}, nil
}

// startDriver runs the driver, installing and retrying once when the first
// start fails. A failed install is reported along with the start error.
func startDriver(install func() error, run func() (*playwright.Playwright, error)) (*playwright.Playwright, error) {
	pw, err := run()
	if err == nil {
		return pw, nil
	}
	// Driver version mismatch is the usual cause.
	if ierr := install(); ierr != nil {
		return nil, fmt.Errorf("could not start playwright: %w", errors.Join(err, ierr))
	}
	pw, err = run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright after retry: %w", err)
	}
	return pw, nil
}

func browserType(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch name {
	case "chromium":
		return pw.Chromium, nil
	case "firefox":
		return pw.Firefox, nil
	case "webkit":
		return pw.WebKit, nil
	default:
		return nil, fmt.Errorf("unknown browser %q", name)
	}
}

// NewSession opens a fresh context and page. Cookies and storage are not
// shared with any other session.
func (l *Launcher) NewSession(name string) (*Session, error) {
	dir := filepath.Join(l.opts.ArtifactsDir, Slug(name))

	ctxOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: orDefault(l.opts.Width, 1280), Height: orDefault(l.opts.Height, 720)},
	}
	if l.opts.BaseURL != "" {
		ctxOpts.BaseURL = playwright.String(l.opts.BaseURL)
	}
	if l.opts.Videos {
		ctxOpts.RecordVideo = &playwright.RecordVideo{Dir: filepath.Join(dir, "videos")}
	}

	bctx, err := l.browser.NewContext(ctxOpts)
	if err != nil {
		return nil, fmt.Errorf("could not create context: %w", err)
	}

	trace := l.opts.Trace
	if trace == "" {
		trace = TraceOff
	}
	if trace != TraceOff {
		if err := bctx.Tracing().Start(playwright.TracingStartOptions{
			Name:        playwright.String(Slug(name)),
			Screenshots: playwright.Bool(true),
			Snapshots:   playwright.Bool(true),
		}); err != nil {
			_ = bctx.Close()
			return nil, fmt.Errorf("could not start tracing: %w", err)
		}
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	if l.opts.ActionTimeout > 0 {
		page.SetDefaultTimeout(float64(l.opts.ActionTimeout.Milliseconds()))
	}

	return &Session{
		Name:        name,
		Context:     bctx,
		page:        page,
		dir:         dir,
		trace:       trace,
		screenshots: l.opts.Screenshots,
		logger:      l.logger.With(zap.String("session", name)),
	}, nil
}

// Close shuts the browser and the driver down.
func (l *Launcher) Close() error {
	var errs []error
	if l.browser != nil {
		if err := l.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	if l.pw != nil {
		if err := l.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop playwright: %w", err))
		}
	}
	return errors.Join(errs...)
}

var slugUnsafe = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Slug turns a scenario name into a file name fragment.
func Slug(name string) string {
	s := strings.Trim(slugUnsafe.ReplaceAllString(name, "-"), "-")
	if s == "" {
		return "session"
	}
	return strings.ToLower(s)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
