// Package runner executes scenario suites, once or on a schedule.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/gotrs-io/boardcheck/internal/browser"
	"github.com/gotrs-io/boardcheck/internal/pages"
	"github.com/gotrs-io/boardcheck/internal/report"
	"github.com/gotrs-io/boardcheck/internal/scenario"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Session is an isolated browser context for a single scenario.
type Session interface {
	Page() playwright.Page
	Close(failed bool) error
}

// SessionFactory opens a new session named after a scenario.
type SessionFactory func(name string) (Session, error)

// FromLauncher opens sessions on l.
func FromLauncher(l *browser.Launcher) SessionFactory {
	return func(name string) (Session, error) {
		s, err := l.NewSession(name)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Runner executes every scenario of a suite in its own session.
type Runner struct {
	sessions SessionFactory
	execute  ScenarioFunc
	pageOpts []pages.Option
	sinks    []report.Sink
	baseURL  string
	logger   *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

func WithPageOptions(opts ...pages.Option) Option {
	return func(r *Runner) { r.pageOpts = append(r.pageOpts, opts...) }
}

// WithSinks publishes every finished summary to sinks, in order.
func WithSinks(sinks ...report.Sink) Option {
	return func(r *Runner) { r.sinks = append(r.sinks, sinks...) }
}

// WithBaseURL is recorded on every summary.
func WithBaseURL(u string) Option {
	return func(r *Runner) { r.baseURL = u }
}

// WithScenarioFunc replaces ExecuteScenario.
func WithScenarioFunc(fn ScenarioFunc) Option {
	return func(r *Runner) { r.execute = fn }
}

// New creates a runner that opens sessions from sessions.
func New(sessions SessionFactory, opts ...Option) *Runner {
	r := &Runner{
		sessions: sessions,
		execute:  ExecuteScenario,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the suite's scenarios in order. A failing scenario never
// stops the ones after it. Once ctx is done the remaining scenarios are
// recorded as skipped.
func (r *Runner) Run(ctx context.Context, suite *scenario.Suite) *report.Summary {
	summary := report.NewSummary(r.baseURL, time.Now())
	log := r.logger.With(zap.String("run_id", summary.RunID))
	log.Info("starting run", zap.Int("scenarios", len(suite.Scenarios)))

	for _, sc := range suite.Scenarios {
		if err := ctx.Err(); err != nil {
			summary.Add(report.Result{
				Name:    sc.Name,
				Status:  report.StatusSkipped,
				Error:   err.Error(),
				Started: time.Now(),
			})
			continue
		}
		summary.Add(r.runScenario(log, suite.Credentials, sc))
	}
	summary.Finished = time.Now()

	log.Info("run finished",
		zap.Int("passed", summary.Passed()),
		zap.Int("failed", summary.Failed()),
		zap.Int("skipped", summary.Skipped()),
		zap.Duration("duration", summary.Duration()))

	for _, sink := range r.sinks {
		if err := sink.Publish(ctx, summary); err != nil {
			log.Warn("failed to publish summary", zap.Error(err))
		}
	}
	return summary
}

func (r *Runner) runScenario(log *zap.Logger, creds scenario.Credentials, sc scenario.Scenario) report.Result {
	log = log.With(zap.String("scenario", sc.Name))
	log.Debug("scenario started")

	res := report.Result{Name: sc.Name, Started: time.Now()}
	err := r.runInSession(log, creds, sc)
	res.Duration = time.Since(res.Started)

	if err != nil {
		res.Status = report.StatusFailed
		res.Error = err.Error()
		log.Warn("scenario failed", zap.Duration("duration", res.Duration), zap.Error(err))
	} else {
		res.Status = report.StatusPassed
		log.Info("scenario passed", zap.Duration("duration", res.Duration))
	}
	return res
}

func (r *Runner) runInSession(log *zap.Logger, creds scenario.Credentials, sc scenario.Scenario) error {
	session, err := r.sessions(sc.Name)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	err = r.execute(session.Page(), creds, sc, r.pageOpts...)
	if cerr := session.Close(err != nil); cerr != nil {
		log.Warn("failed to close session", zap.Error(cerr))
	}
	return err
}
