package runner

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs registered tasks on their cron schedules. A task that is
// still running when its next tick arrives is skipped for that tick.
type Scheduler struct {
	cron     *cron.Cron
	registry *TaskRegistry
	logger   *zap.Logger
}

// NewScheduler creates a scheduler. Schedules carry a seconds field.
func NewScheduler(registry *TaskRegistry, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		registry: registry,
		logger:   logger,
	}
}

// Start schedules every task and blocks until a termination signal or ctx
// is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("starting scheduler")

	for _, name := range s.registry.Names() {
		task, _ := s.registry.Get(name)
		s.logger.Info("registering task", zap.String("task", name), zap.String("schedule", task.Schedule()))

		if _, err := s.cron.AddFunc(task.Schedule(), func() {
			s.executeTask(ctx, task)
		}); err != nil {
			return fmt.Errorf("failed to schedule task %s: %w", name, err)
		}
	}

	s.cron.Start()
	return s.waitForShutdown(ctx)
}

// executeTask runs a single task with timeout and error handling
func (s *Scheduler) executeTask(ctx context.Context, task Task) {
	taskCtx, cancel := context.WithTimeout(ctx, task.Timeout())
	defer cancel()

	log := s.logger.With(zap.String("task", task.Name()))
	log.Info("executing task")

	start := time.Now()
	err := task.Run(taskCtx)
	duration := time.Since(start)

	if err != nil {
		log.Warn("task failed", zap.Duration("duration", duration), zap.Error(err))
	} else {
		log.Info("task completed", zap.Duration("duration", duration))
	}
}

// Stop shuts the cron loop down and waits for running tasks.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")

	<-s.cron.Stop().Done()

	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) waitForShutdown(ctx context.Context) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		s.logger.Info("received signal", zap.String("signal", sig.String()))
		s.Stop()
		return nil
	case <-ctx.Done():
		s.logger.Info("context cancelled")
		s.Stop()
		return ctx.Err()
	}
}

// cronLogger routes cron's own messages to zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
