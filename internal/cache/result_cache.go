package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eatprofile/internal/model"

	"github.com/redis/go-redis/v9"
)

// ResultCache holds classification results briefly so report delivery can be
// retried without recomputing
type ResultCache interface {
	Set(ctx context.Context, submissionID string, result *model.Result) error
	Get(ctx context.Context, submissionID string) (*model.Result, error)
	Delete(ctx context.Context, submissionID string) error
}

type resultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultCache creates a new result cache
func NewResultCache(client *redis.Client, ttl time.Duration) ResultCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &resultCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *resultCache) key(submissionID string) string {
	return fmt.Sprintf("assessment:%s:result", submissionID)
}

func (c *resultCache) Set(ctx context.Context, submissionID string, result *model.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(submissionID), data, c.ttl).Err()
}

// Get returns nil, nil when the result has expired or never existed
func (c *resultCache) Get(ctx context.Context, submissionID string) (*model.Result, error) {
	data, err := c.client.Get(ctx, c.key(submissionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result model.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *resultCache) Delete(ctx context.Context, submissionID string) error {
	return c.client.Del(ctx, c.key(submissionID)).Err()
}
