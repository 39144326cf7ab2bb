package runner

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

type countingTask struct {
	name     string
	schedule string
	runs     atomic.Int32
}

func (t *countingTask) Name() string           { return t.name }
func (t *countingTask) Schedule() string       { return t.schedule }
func (t *countingTask) Timeout() time.Duration { return time.Second }

func (t *countingTask) Run(ctx context.Context) error {
	t.runs.Add(1)
	return nil
}

func TestTaskRegistry(t *testing.T) {
	reg := NewTaskRegistry()
	reg.Register(&countingTask{name: "b", schedule: "* * * * * *"})
	reg.Register(&countingTask{name: "a", schedule: "* * * * * *"})

	assert.Equal(t, []string{"a", "b"}, reg.Names())
	task, ok := reg.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", task.Name())

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestSchedulerRunsTasksUntilCancelled(t *testing.T) {
	task := &countingTask{name: "suite", schedule: "* * * * * *"}
	reg := NewTaskRegistry()
	reg.Register(task)

	ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()

	err := NewScheduler(reg, nil).Start(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, task.runs.Load(), int32(1))
}

type slowTask struct {
	countingTask
	started  chan struct{}
	finished atomic.Bool
}

func (t *slowTask) Run(ctx context.Context) error {
	if t.runs.Add(1) == 1 {
		close(t.started)
	}
	time.Sleep(1500 * time.Millisecond)
	t.finished.Store(true)
	return nil
}

func TestSchedulerStopWaitsForRunningTask(t *testing.T) {
	task := &slowTask{countingTask: countingTask{name: "slow", schedule: "* * * * * *"}, started: make(chan struct{})}
	reg := NewTaskRegistry()
	reg.Register(task)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-task.started
		cancel()
	}()

	err := NewScheduler(reg, nil).Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, task.finished.Load(), "Start returned before the running task finished")
}

func TestSchedulerRejectsBadSchedule(t *testing.T) {
	reg := NewTaskRegistry()
	reg.Register(&countingTask{name: "suite", schedule: "every tuesday"})

	err := NewScheduler(reg, nil).Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to schedule task suite")
}
