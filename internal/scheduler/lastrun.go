package scheduler

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yash151294/StockENT-sub002/internal/redisx"
)

// RedisLastRun stamps the completed sweep cycle in redis for observability.
type RedisLastRun struct{ Client *redis.Client }

func (r *RedisLastRun) RecordLastRun(ctx context.Context, at time.Time) error {
	return r.Client.Set(ctx, redisx.KeySchedulerLastRun, at.Format(time.RFC3339), redisx.TTLLastRun).Err()
}
