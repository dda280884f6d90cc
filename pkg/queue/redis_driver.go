package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisJobsKey = "rewear:queue:jobs"

// RedisDriver shares one job list between every process pointed at the same
// Redis, so the API server and standalone `rewear queue:work` processes can
// split the load.
type RedisDriver struct {
	rdb *redis.Client
}

// NewRedisDriver wraps the client already opened by pkg/cache.
func NewRedisDriver(rdb *redis.Client) *RedisDriver {
	return &RedisDriver{rdb: rdb}
}

func (d *RedisDriver) Push(payload []byte) error {
	if err := d.rdb.LPush(context.Background(), redisJobsKey, payload).Err(); err != nil {
		return fmt.Errorf("queue: redis push: %w", err)
	}
	return nil
}

// Pop blocks up to five seconds waiting for a job; a timeout returns
// (nil, nil) so the worker loop just polls again.
func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	res, err := d.rdb.BRPop(ctx, 5*time.Second, redisJobsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("queue: redis pop: %w", err)
	}
	if len(res) < 2 {
		return nil, nil
	}
	return []byte(res[1]), nil
}
