package adapters

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/nivi-finance/backend/internal/application/adapter"
)

// redisSaveLocker hands out redislock locks for finance document writes.
type redisSaveLocker struct {
	client *redislock.Client
}

// NewRedisSaveLocker creates a SaveLocker backed by redis.
func NewRedisSaveLocker(client *redis.Client) adapter.SaveLocker {
	return &redisSaveLocker{client: redislock.New(client)}
}

// Obtain tries once to take key. redislock.ErrNotObtained is returned when
// another holder has it.
func (l *redisSaveLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (adapter.ReleaseFunc, error) {
	lock, err := l.client.Obtain(ctx, key, ttl, nil)
	if err != nil {
		return nil, err
	}
	return lock.Release, nil
}
