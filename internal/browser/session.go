package browser

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Session is one isolated browser context with a single page.
type Session struct {
	Name    string
	Context playwright.BrowserContext

	page        playwright.Page
	dir         string
	trace       TraceMode
	screenshots bool
	logger      *zap.Logger
}

// Page returns the session's page.
func (s *Session) Page() playwright.Page {
	return s.page
}

// Close releases the context. When failed is set a screenshot is taken
// first and a retain-on-failure trace is kept.
func (s *Session) Close(failed bool) error {
	var errs []error

	if failed && s.screenshots && s.page != nil {
		path := filepath.Join(s.dir, fmt.Sprintf("failure_%d.png", time.Now().Unix()))
		if _, err := s.page.Screenshot(playwright.PageScreenshotOptions{
			Path:     playwright.String(path),
			FullPage: playwright.Bool(true),
		}); err != nil {
			s.logger.Warn("screenshot failed", zap.Error(err))
		} else {
			s.logger.Info("saved failure screenshot", zap.String("path", path))
		}
	}

	switch {
	case s.trace == TraceOn, s.trace == TraceRetainOnFailure && failed:
		path := filepath.Join(s.dir, "trace.zip")
		if err := s.Context.Tracing().Stop(path); err != nil {
			errs = append(errs, fmt.Errorf("stop tracing: %w", err))
		} else {
			s.logger.Info("saved trace", zap.String("path", path))
		}
	case s.trace != TraceOff:
		if err := s.Context.Tracing().Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop tracing: %w", err))
		}
	}

	if s.page != nil {
		if err := s.page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close page: %w", err))
		}
	}
	if err := s.Context.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close context: %w", err))
	}
	return errors.Join(errs...)
}
