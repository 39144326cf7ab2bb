package runner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gotrs-io/boardcheck/internal/report"
)

// Task is a job the Scheduler runs on a cron schedule.
type Task interface {
	// Name returns the unique name of the task
	Name() string

	// Schedule returns the cron expression, seconds field first
	Schedule() string

	// Run executes the task
	Run(ctx context.Context) error

	// Timeout returns the maximum time this task should run
	Timeout() time.Duration
}

// TaskRegistry holds all registered tasks
type TaskRegistry struct {
	tasks map[string]Task
}

// NewTaskRegistry creates a new task registry
func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{
		tasks: make(map[string]Task),
	}
}

// Register adds a task, replacing any task with the same name.
func (r *TaskRegistry) Register(task Task) {
	r.tasks[task.Name()] = task
}

// Get returns a task by name
func (r *TaskRegistry) Get(name string) (Task, bool) {
	task, exists := r.tasks[name]
	return task, exists
}

// Names returns the registered task names in sorted order.
func (r *TaskRegistry) Names() []string {
	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SuiteTask runs a whole suite on a schedule. The run function is called
// afresh every time so it can pick up reloaded configuration and
// scenarios.
type SuiteTask struct {
	name     string
	schedule string
	timeout  time.Duration
	run      func(ctx context.Context) (*report.Summary, error)
}

// NewSuiteTask creates a suite task.
func NewSuiteTask(name, schedule string, timeout time.Duration, run func(ctx context.Context) (*report.Summary, error)) *SuiteTask {
	return &SuiteTask{name: name, schedule: schedule, timeout: timeout, run: run}
}

func (t *SuiteTask) Name() string           { return t.name }
func (t *SuiteTask) Schedule() string       { return t.schedule }
func (t *SuiteTask) Timeout() time.Duration { return t.timeout }

// Run fails when the suite could not be run or a scenario did not pass.
func (t *SuiteTask) Run(ctx context.Context) error {
	summary, err := t.run(ctx)
	if err != nil {
		return err
	}
	if !summary.OK() {
		return fmt.Errorf("%d of %d scenarios failed, %d skipped",
			summary.Failed(), len(summary.Results), summary.Skipped())
	}
	return nil
}
