package cache

import (
	"context"

	"eatprofile/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	tallySubtypeKey = "tally:subtypes"
	tallyTotalKey   = "tally:total"
	tallyFlagKey    = "tally:probable"
)

// SubtypeTally keeps anonymised counts of classifications in a Redis ZSET
type SubtypeTally interface {
	Record(ctx context.Context, result *model.Result) error
	Top(ctx context.Context, limit int) ([]model.SubtypeCount, error)
	Totals(ctx context.Context) (total, probable int64, err error)
}

type subtypeTally struct {
	client *redis.Client
}

// NewSubtypeTally creates a new subtype tally
func NewSubtypeTally(client *redis.Client) SubtypeTally {
	return &subtypeTally{
		client: client,
	}
}

func (c *subtypeTally) Record(ctx context.Context, result *model.Result) error {
	pipe := c.client.TxPipeline()
	pipe.ZIncrBy(ctx, tallySubtypeKey, 1, result.PrimarySubtype)
	pipe.Incr(ctx, tallyTotalKey)
	if result.ProbableDisorder {
		pipe.Incr(ctx, tallyFlagKey)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *subtypeTally) Top(ctx context.Context, limit int) ([]model.SubtypeCount, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, tallySubtypeKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	counts := make([]model.SubtypeCount, len(results))
	for i, z := range results {
		counts[i] = model.SubtypeCount{
			Subtype: z.Member.(string),
			Count:   int64(z.Score),
		}
	}
	return counts, nil
}

func (c *subtypeTally) Totals(ctx context.Context) (int64, int64, error) {
	total, err := c.counter(ctx, tallyTotalKey)
	if err != nil {
		return 0, 0, err
	}
	probable, err := c.counter(ctx, tallyFlagKey)
	if err != nil {
		return 0, 0, err
	}
	return total, probable, nil
}

func (c *subtypeTally) counter(ctx context.Context, key string) (int64, error) {
	n, err := c.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}
