package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nivi-finance/backend/internal/application/adapter"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

const financeCachePrefix = "finance:doc:"

// cachedFinanceRepository keeps a copy of each finance document in redis in
// front of another FinanceRepository. The cache is advisory: any redis
// failure falls through to the wrapped repository.
type cachedFinanceRepository struct {
	next   adapter.FinanceRepository
	client *redis.Client
	ttl    time.Duration
}

// NewCachedFinanceRepository wraps next with a read-through, write-through
// redis cache whose entries live for ttl.
func NewCachedFinanceRepository(next adapter.FinanceRepository, client *redis.Client, ttl time.Duration) adapter.FinanceRepository {
	return &cachedFinanceRepository{
		next:   next,
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached document, loading and caching it on a miss.
func (r *cachedFinanceRepository) Get(ctx context.Context, userID uuid.UUID) (*entity.FinanceState, error) {
	key := financeCachePrefix + userID.String()

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		state := entity.NewFinanceState()
		if err := json.Unmarshal(raw, state); err == nil {
			state.EnsureSlices()
			return state, nil
		}
		slog.Warn("Discarding unreadable cached finance document", "user_id", userID)
		r.client.Del(ctx, key)
	case !errors.Is(err, redis.Nil):
		slog.Warn("Finance cache read failed", "user_id", userID, "error", err)
	}

	state, err := r.next.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, state)
	return state, nil
}

// Put writes the document to the wrapped repository, then refreshes the cache.
func (r *cachedFinanceRepository) Put(ctx context.Context, userID uuid.UUID, state *entity.FinanceState) error {
	key := financeCachePrefix + userID.String()
	if err := r.next.Put(ctx, userID, state); err != nil {
		r.client.Del(ctx, key)
		return err
	}
	r.store(ctx, key, state)
	return nil
}

// ListUserIDs is never cached.
func (r *cachedFinanceRepository) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	return r.next.ListUserIDs(ctx)
}

func (r *cachedFinanceRepository) store(ctx context.Context, key string, state *entity.FinanceState) {
	raw, err := json.Marshal(state)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		slog.Warn("Finance cache write failed", "key", key, "error", err)
	}
}
