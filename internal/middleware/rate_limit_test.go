package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type failingStore struct{}

func (failingStore) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("store unavailable")
}

func limitedRouter(rl *RateLimiter) *gin.Engine {
	router := gin.New()
	router.POST("/feedback", rl.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return router
}

func post(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/feedback", nil)
	req.RemoteAddr = remoteAddr
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRateLimitMiddlewareMemoryStore(t *testing.T) {
	cfg := RateLimitConfig{Window: time.Hour, Limit: 2}
	rl := NewRateLimiter(NewMemoryStore(cfg.Window), cfg, zerolog.Nop())
	now := time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	router := limitedRouter(rl)

	first := post(router, "10.0.0.1:1234")
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusCreated, post(router, "10.0.0.1:1234").Code)

	blocked := post(router, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "0", blocked.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1800", blocked.Header().Get("Retry-After"))
	assert.Contains(t, blocked.Body.String(), "RATE_LIMIT_EXCEEDED")

	// Other clients have their own budget.
	assert.Equal(t, http.StatusCreated, post(router, "10.0.0.2:1234").Code)

	// A new window resets the count.
	now = now.Add(time.Hour)
	assert.Equal(t, http.StatusCreated, post(router, "10.0.0.1:1234").Code)
}

func TestRateLimitMiddlewareDisabled(t *testing.T) {
	rl := NewRateLimiter(failingStore{}, RateLimitConfig{Window: time.Hour, Limit: 0}, zerolog.Nop())
	assert.False(t, rl.Enabled())

	rr := post(limitedRouter(rl), "10.0.0.1:1234")
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
	assert.Empty(t, rr.Header().Get("X-RateLimit-Error"))
}

func TestRateLimitMiddlewareStoreError(t *testing.T) {
	rl := NewRateLimiter(failingStore{}, RateLimitConfig{Window: time.Hour, Limit: 1}, zerolog.Nop())

	rr := post(limitedRouter(rl), "10.0.0.1:1234")
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "rate limit check failed", rr.Header().Get("X-RateLimit-Error"))
}

func TestRateLimiterRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Redis container test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })

	rl := NewRateLimiter(NewRedisStore(client), RateLimitConfig{Window: time.Minute, Limit: 1}, zerolog.Nop())

	allowed, remaining, _, err := rl.IsAllowed(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _, _, err = rl.IsAllowed(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)

	keys, err := client.Keys(ctx, DefaultKeyPrefix+":10.0.0.1:*").Result()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	ttl, err := client.TTL(ctx, keys[0]).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestRateLimitMiddlewareCustomReject(t *testing.T) {
	cfg := RateLimitConfig{Window: time.Hour, Limit: 1}
	rl := NewRateLimiter(NewMemoryStore(cfg.Window), cfg, zerolog.Nop())

	var got LimitInfo
	router := gin.New()
	router.POST("/feedback", rl.RateLimitMiddleware(func(c *gin.Context, info LimitInfo) {
		got = info
		c.String(http.StatusTooManyRequests, "slow down")
	}), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	assert.Equal(t, http.StatusCreated, post(router, "10.0.0.1:1234").Code)

	rr := post(router, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "slow down", rr.Body.String())
	assert.Equal(t, 1, got.Limit)
	assert.Equal(t, time.Hour, got.Window)
	assert.Contains(t, got.Message(), "1 submissions per 1h0m0s")
}

func TestRateLimitMiddlewareNilLimiter(t *testing.T) {
	var rl *RateLimiter
	assert.Equal(t, http.StatusCreated, post(limitedRouter(rl), "10.0.0.1:1234").Code)
}
