package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gotrs-io/boardcheck/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, keep int) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(Config{Addr: mr.Addr(), KeyPrefix: "test", Keep: keep})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func run(i int, statuses map[string]report.Status) *report.Summary {
	start := time.Date(2026, 1, 2, 3, i, 0, 0, time.UTC)
	s := report.NewSummary("http://localhost:3000", start)
	s.RunID = fmt.Sprintf("run-%d", i)
	for _, name := range []string{"a", "b", "c"} {
		if st, ok := statuses[name]; ok {
			s.Add(report.Result{Name: name, Status: st, Duration: time.Second})
		}
	}
	s.Finished = start.Add(3 * time.Second)
	return s
}

func TestPublishAndRecent(t *testing.T) {
	s, _ := newTestStore(t, 3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, s.Publish(ctx, run(i, map[string]report.Status{"a": report.StatusPassed})))
	}

	recent, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 3, "older runs are trimmed")
	assert.Equal(t, "run-5", recent[0].RunID)
	assert.Equal(t, "run-3", recent[2].RunID)
	assert.Equal(t, 3*time.Second, recent[0].Duration())

	two, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)

	none, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLastStatus(t *testing.T) {
	s, mr := newTestStore(t, 10)
	ctx := context.Background()

	require.NoError(t, s.Publish(ctx, run(1, map[string]report.Status{
		"a": report.StatusPassed, "b": report.StatusPassed,
	})))
	require.NoError(t, s.Publish(ctx, run(2, map[string]report.Status{
		"a": report.StatusFailed, "b": report.StatusSkipped, "c": report.StatusPassed,
	})))

	got, err := s.LastStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]report.Status{
		"a": report.StatusFailed,
		"b": report.StatusPassed,
		"c": report.StatusPassed,
	}, got)

	assert.True(t, mr.Exists("test:runs"))
	assert.True(t, mr.Exists("test:last_status"))
}

func TestPublishEmptyRun(t *testing.T) {
	s, mr := newTestStore(t, 10)
	require.NoError(t, s.Publish(context.Background(), run(1, nil)))

	recent, err := s.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.False(t, mr.Exists("test:last_status"))
}

func TestRecentCorruptEntry(t *testing.T) {
	s, mr := newTestStore(t, 10)
	_, err := mr.Lpush("test:runs", "{not json")
	require.NoError(t, err)

	_, err = s.Recent(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode run 0")
}

func TestNewRedisStoreUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(Config{Addr: addr, DialTimeout: 200 * time.Millisecond})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestDefaults(t *testing.T) {
	s := newRedisStore(nil, Config{})
	assert.Equal(t, "boardcheck:runs", s.runsKey())
	assert.Equal(t, 50, s.keep)
}
