package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	domainerror "github.com/nivi-finance/backend/internal/domain/error"
	"github.com/nivi-finance/backend/internal/integration/entrypoint/dto"
)

const (
	// defaultMaxAttempts is the default number of allowed attempts per window.
	defaultMaxAttempts = 5
	// defaultWindowDuration is the default time window for rate limiting.
	defaultWindowDuration = 1 * time.Minute

	rateLimitPrefix = "ratelimit:"
)

// RateLimiter counts attempts per client IP in redis so the limit holds
// across server instances.
type RateLimiter struct {
	client         *redis.Client
	scope          string
	maxAttempts    int64
	windowDuration time.Duration
}

// NewRateLimiter creates a rate limiter with default settings. scope keeps
// counters of different endpoints apart.
func NewRateLimiter(client *redis.Client, scope string) *RateLimiter {
	return NewRateLimiterWithConfig(client, scope, defaultMaxAttempts, defaultWindowDuration)
}

// NewRateLimiterWithConfig creates a rate limiter with custom settings.
// A maxAttempts of zero or less disables limiting.
func NewRateLimiterWithConfig(client *redis.Client, scope string, maxAttempts int, windowDuration time.Duration) *RateLimiter {
	return &RateLimiter{
		client:         client,
		scope:          scope,
		maxAttempts:    int64(maxAttempts),
		windowDuration: windowDuration,
	}
}

// Middleware returns a Gin middleware handler that enforces rate limiting.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.client == nil || rl.maxAttempts <= 0 {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		if clientIP == "" {
			clientIP = c.Request.RemoteAddr
		}

		allowed, retryAfter, err := rl.allow(c.Request.Context(), clientIP)
		if err != nil {
			// Fail open: an unavailable counter must not lock users out.
			slog.Warn("Rate limiter unavailable", "scope", rl.scope, "error", err)
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many requests. Please try again later.",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// allow increments the counter for key and reports whether it is still
// within the limit. The window starts with the first attempt.
func (rl *RateLimiter) allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := rateLimitPrefix + rl.scope + ":" + key

	count, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, redisKey, rl.windowDuration).Err(); err != nil {
			return false, 0, err
		}
	}
	if count <= rl.maxAttempts {
		return true, 0, nil
	}

	ttl, err := rl.client.TTL(ctx, redisKey).Result()
	if err != nil {
		return false, 0, err
	}
	if ttl < 0 {
		// The expiry was lost; start a fresh window.
		if err := rl.client.Expire(ctx, redisKey, rl.windowDuration).Err(); err != nil {
			return false, 0, err
		}
		ttl = rl.windowDuration
	}
	return false, ttl, nil
}

// Reset clears every counter of this limiter's scope.
func (rl *RateLimiter) Reset(ctx context.Context) error {
	iter := rl.client.Scan(ctx, 0, rateLimitPrefix+rl.scope+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := rl.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
