package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	refreshTokenPrefix = "auth:refresh:"
	userTokensPrefix   = "auth:user_tokens:"
	// userTokensRetention outlives the longest refresh token.
	userTokensRetention = 31 * 24 * time.Hour
)

// TokenRepository defines the interface for refresh token persistence operations.
type TokenRepository interface {
	// SaveRefreshToken registers a refresh token until expiresAt.
	SaveRefreshToken(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error

	// IsRefreshTokenValid checks if a refresh token is registered and not expired.
	IsRefreshTokenValid(ctx context.Context, token string) (bool, error)

	// InvalidateRefreshToken removes a refresh token.
	InvalidateRefreshToken(ctx context.Context, token string) error

	// InvalidateAllUserRefreshTokens removes every refresh token of a user.
	InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

// tokenRepository keeps refresh tokens in redis. Each token is a key that
// expires with the token; a per-user set indexes them for bulk revocation.
type tokenRepository struct {
	client *redis.Client
	now    func() time.Time
}

// NewTokenRepository creates a new token repository instance.
func NewTokenRepository(client *redis.Client) TokenRepository {
	return &tokenRepository{
		client: client,
		now:    time.Now,
	}
}

// SaveRefreshToken registers a refresh token until expiresAt.
func (r *tokenRepository) SaveRefreshToken(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	setKey := userTokensPrefix + userID.String()

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, refreshTokenPrefix+token, userID.String(), ttl)
	pipe.SAdd(ctx, setKey, token)
	pipe.Expire(ctx, setKey, userTokensRetention)
	_, err := pipe.Exec(ctx)
	return err
}

// IsRefreshTokenValid checks if a refresh token is registered and not expired.
func (r *tokenRepository) IsRefreshTokenValid(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, refreshTokenPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// InvalidateRefreshToken removes a refresh token.
func (r *tokenRepository) InvalidateRefreshToken(ctx context.Context, token string) error {
	key := refreshTokenPrefix + token
	owner, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, userTokensPrefix+owner, token)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateAllUserRefreshTokens removes every refresh token of a user.
func (r *tokenRepository) InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	setKey := userTokensPrefix + userID.String()
	tokens, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, refreshTokenPrefix+token)
	}
	keys = append(keys, setKey)
	return r.client.Del(ctx, keys...).Err()
}
