package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options carries the connection settings for NewRedisClient. PoolSize is the
// number of pooled connections; the client keeps a tenth of them idle so lock
// and cache round trips during booking bursts do not pay dial latency.
type Options struct {
	Addr     string
	Username string
	Password string
	PoolSize int
}

func NewRedisClient(opts Options) (*redis.Client, error) {
	poolSize, minIdle := poolSizing(opts.PoolSize)

	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.Username,
		Password:     opts.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     poolSize,
		MinIdleConns: minIdle,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return rdb, nil
}

func poolSizing(requested int) (poolSize, minIdle int) {
	poolSize = requested
	if poolSize <= 0 {
		poolSize = 10
	}
	minIdle = poolSize / 10
	if minIdle < 1 {
		minIdle = 1
	}
	return poolSize, minIdle
}
