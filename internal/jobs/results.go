package jobs

import (
	"context"
	"time"

	"plantcare-backend/pkg/cache"
)

const resultKeyPrefix = "jobs:result:"

// ResultStore persists task run results in the redis-backed cache. Results
// expire after the configured TTL, so the store stays bounded without any
// sweep of its own.
type ResultStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewResultStore creates a result store with the given retention.
func NewResultStore(c *cache.Cache, ttl time.Duration) *ResultStore {
	return &ResultStore{cache: c, ttl: ttl}
}

// Save records a run under its task ID and as the task's latest result.
func (s *ResultStore) Save(ctx context.Context, result Result) error {
	if err := s.cache.Set(ctx, resultKeyPrefix+result.TaskName+":"+result.TaskID, result, s.ttl); err != nil {
		return err
	}
	return s.cache.Set(ctx, resultKeyPrefix+result.TaskName+":latest", result, s.ttl)
}

// Latest returns the most recent result for a task, if one is recorded.
func (s *ResultStore) Latest(ctx context.Context, taskName string) (*Result, bool, error) {
	var result Result
	found, err := s.cache.Get(ctx, resultKeyPrefix+taskName+":latest", &result)
	if err != nil || !found {
		return nil, false, err
	}
	return &result, true, nil
}
