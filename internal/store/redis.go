// Package store keeps a short history of run summaries in Redis.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gotrs-io/boardcheck/internal/report"
	"github.com/redis/go-redis/v9"
)

// Config defines the Redis connection and retention.
type Config struct {
	Addr     string
	Password string
	DB       int

	// KeyPrefix namespaces every key the store writes.
	KeyPrefix string
	// Keep is how many summaries are retained.
	Keep int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RedisStore implements report.Sink on top of a Redis list of JSON
// summaries and a hash of the last status per scenario.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	keep      int
}

// NewRedisStore connects and pings the server.
func NewRedisStore(cfg Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisStore(client, cfg), nil
}

func newRedisStore(client *redis.Client, cfg Config) *RedisStore {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "boardcheck"
	}
	keep := cfg.Keep
	if keep <= 0 {
		keep = 50
	}
	return &RedisStore{client: client, keyPrefix: prefix, keep: keep}
}

func (s *RedisStore) runsKey() string   { return s.keyPrefix + ":runs" }
func (s *RedisStore) statusKey() string { return s.keyPrefix + ":last_status" }

// Publish stores summary as the newest run and trims older ones.
func (s *RedisStore) Publish(ctx context.Context, summary *report.Summary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.runsKey(), data)
	pipe.LTrim(ctx, s.runsKey(), 0, int64(s.keep-1))
	if len(summary.Results) > 0 {
		fields := make(map[string]any, len(summary.Results))
		for _, r := range summary.Results {
			if r.Status != report.StatusSkipped {
				fields[r.Name] = string(r.Status)
			}
		}
		if len(fields) > 0 {
			pipe.HSet(ctx, s.statusKey(), fields)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store run %s: %w", summary.RunID, err)
	}
	return nil
}

// Recent returns up to n summaries, newest first.
func (s *RedisStore) Recent(ctx context.Context, n int) ([]*report.Summary, error) {
	if n <= 0 {
		return nil, nil
	}
	raw, err := s.client.LRange(ctx, s.runsKey(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}

	out := make([]*report.Summary, 0, len(raw))
	for i, item := range raw {
		var sum report.Summary
		if err := json.Unmarshal([]byte(item), &sum); err != nil {
			return nil, fmt.Errorf("failed to decode run %d: %w", i, err)
		}
		out = append(out, &sum)
	}
	return out, nil
}

// LastStatus returns the most recent non-skipped status of every scenario
// seen so far.
func (s *RedisStore) LastStatus(ctx context.Context) (map[string]report.Status, error) {
	raw, err := s.client.HGetAll(ctx, s.statusKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read last status: %w", err)
	}
	out := make(map[string]report.Status, len(raw))
	for name, st := range raw {
		out[name] = report.Status(st)
	}
	return out, nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
