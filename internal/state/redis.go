// File path: internal/state/redis.go
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vibeworks/academy/internal/common"
)

const redisKeyPrefix = "academy:report:"

// RedisStore keeps processing-state records in Redis so report status
// survives process restarts. Per-key SET is atomic; the transition guard is
// check-then-set without a transaction, matching the single-writer
// assumption.
type RedisStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewRedisStore(addr string, ttl time.Duration) (*RedisStore, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("redis address required")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	common.Logger().Info("state: redis store connected", "addr", addr)
	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func redisKey(reportID string) string {
	return redisKeyPrefix + reportID
}

func (s *RedisStore) Get(ctx context.Context, reportID string) (Record, error) {
	data, err := s.rdb.Get(ctx, redisKey(reportID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("redis get: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

func (s *RedisStore) Set(ctx context.Context, rec Record) error {
	var existing *Record
	current, err := s.Get(ctx, rec.ReportID)
	switch {
	case err == nil:
		existing = &current
	case errors.Is(err, ErrNotFound):
	default:
		return err
	}
	if err := validateTransition(existing, rec); err != nil {
		return err
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := s.rdb.Set(ctx, redisKey(rec.ReportID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, reportID string) error {
	if err := s.rdb.Del(ctx, redisKey(reportID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Record, error) {
	var records []Record
	iter := s.rdb.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := s.rdb.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, goredis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("redis get: %w", err)
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			common.Logger().Warn("state: skipping undecodable record", "key", iter.Val(), "error", err)
			continue
		}
		records = append(records, rec)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return records, nil
}

// Cleanup sweeps records past maxAge. Redis key TTLs already bound retention;
// the sweep keeps parity with the memory backend's age-based eviction.
func (s *RedisStore) Cleanup(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	records, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-maxAge)
	evicted := 0
	for _, rec := range records {
		if rec.UpdatedAt.Before(cutoff) {
			if err := s.Delete(ctx, rec.ReportID); err != nil {
				return evicted, err
			}
			evicted++
		}
	}
	return evicted, nil
}
