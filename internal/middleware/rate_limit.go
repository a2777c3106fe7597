package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultKeyPrefix namespaces submission counters in a shared store
const DefaultKeyPrefix = "rate_limit:feedback_submission"

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window. Zero disables limiting.
	Limit int
	// Key prefix for counter keys
	KeyPrefix string
}

// CounterStore increments a counter that expires after ttl and returns the new value
type CounterStore interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type redisStore struct {
	client *redis.Client
}

// NewRedisStore counts requests in Redis so several replicas share one budget
func NewRedisStore(client *redis.Client) CounterStore {
	return &redisStore{client: client}
}

func (s *redisStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := s.client.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incrCmd.Val(), nil
}

type memoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore counts requests in process memory
func NewMemoryStore(window time.Duration) CounterStore {
	return &memoryStore{cache: cache.New(window, 2*window)}
}

func (s *memoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	// Add fails when the key already exists, which is fine.
	_ = s.cache.Add(key, int64(0), ttl)
	return s.cache.IncrementInt64(key, 1)
}

// RateLimiter caps feedback submissions per client IP
type RateLimiter struct {
	store  CounterStore
	config RateLimitConfig
	now    func() time.Time
	logger zerolog.Logger
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(store CounterStore, config RateLimitConfig, logger zerolog.Logger) *RateLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = DefaultKeyPrefix
	}
	return &RateLimiter{
		store:  store,
		config: config,
		now:    time.Now,
		logger: logger,
	}
}

// Enabled reports whether the limiter enforces anything
func (rl *RateLimiter) Enabled() bool {
	return rl != nil && rl.config.Limit > 0 && rl.config.Window > 0
}

// LimitInfo describes the window a rejected request ran into
type LimitInfo struct {
	Limit      int
	Remaining  int
	Window     time.Duration
	Reset      time.Time
	RetryAfter int
}

// Message is the human readable rejection reason
func (i LimitInfo) Message() string {
	return fmt.Sprintf("You have exceeded the rate limit of %d submissions per %v", i.Limit, i.Window)
}

// RejectFunc answers a request over the limit. It must abort the chain.
type RejectFunc func(c *gin.Context, info LimitInfo)

// RejectJSON answers with the JSON error envelope
func RejectJSON(c *gin.Context, info LimitInfo) {
	WriteError(c, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", info.Message(), gin.H{
		"rate_limit_remaining": info.Remaining,
		"rate_limit_reset":     info.Reset.Unix(),
		"retry_after":          info.RetryAfter,
	})
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting.
// Rejections go to onReject, RejectJSON by default. A nil or disabled
// limiter passes every request through.
func (rl *RateLimiter) RateLimitMiddleware(onReject ...RejectFunc) gin.HandlerFunc {
	reject := RejectJSON
	if len(onReject) > 0 && onReject[0] != nil {
		reject = onReject[0]
	}

	return func(c *gin.Context) {
		if !rl.Enabled() {
			c.Next()
			return
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), c.ClientIP())
		if err != nil {
			rl.logger.Warn().Err(err).Str("client_ip", c.ClientIP()).Msg("rate limit check failed")
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := int(resetTime.Sub(rl.now()).Seconds())
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			reject(c, LimitInfo{
				Limit:      rl.config.Limit,
				Remaining:  remaining,
				Window:     rl.config.Window,
				Reset:      resetTime,
				RetryAfter: retryAfter,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// IsAllowed counts a request from the given client against its current window.
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, clientID string) (bool, int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	key := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, clientID, windowStart.Unix())

	count, err := rl.store.Incr(ctx, key, rl.config.Window)
	if err != nil {
		return false, 0, time.Time{}, err
	}

	remaining := rl.config.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	resetTime := windowStart.Add(rl.config.Window)
	allowed := int(count) <= rl.config.Limit

	return allowed, remaining, resetTime, nil
}
