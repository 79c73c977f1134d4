//go:build unit

package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-api/pkg/cerror"
	"project-api/pkg/config"
)

func TestLimiter_Allow(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		limiter := NewLimiter(config.RateLimitConfig{PerSecond: 1, Burst: 2})
		frozen := time.Now()
		limiter.now = func() time.Time { return frozen }

		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"))
		assert.True(t, limiter.Allow("10.0.0.2"))
	})

	t.Run("when time passes should refill bucket", func(t *testing.T) {
		limiter := NewLimiter(config.RateLimitConfig{PerSecond: 1, Burst: 1})
		current := time.Now()
		limiter.now = func() time.Time { return current }

		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"))

		current = current.Add(time.Second)
		assert.True(t, limiter.Allow("10.0.0.1"))
	})

	t.Run("idle buckets are swept", func(t *testing.T) {
		limiter := NewLimiter(config.RateLimitConfig{PerSecond: 1, Burst: 1})
		current := time.Now()
		limiter.now = func() time.Time { return current }

		limiter.Allow("10.0.0.1")
		current = current.Add(bucketTtl + sweepInterval + time.Second)
		limiter.Allow("10.0.0.2")

		assert.Len(t, limiter.buckets, 1)
	})
}

func TestLimiter_Middleware(t *testing.T) {
	limiter := NewLimiter(config.RateLimitConfig{PerSecond: 1, Burst: 1})
	app := fiber.New(fiber.Config{
		ErrorHandler: cerror.Middleware,
	})
	app.Post("/login", limiter.Middleware(), func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodPost, "/login", nil)
	req.Header.Set(fiber.HeaderXForwardedFor, "203.0.113.7, 10.0.0.1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodPost, "/login", nil)
	req.Header.Set(fiber.HeaderXForwardedFor, "203.0.113.7")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestLimiter_MiddlewareDistinctClients(t *testing.T) {
	limiter := NewLimiter(config.RateLimitConfig{PerSecond: 1, Burst: 1})
	frozen := time.Now()
	limiter.now = func() time.Time { return frozen }
	app := fiber.New(fiber.Config{
		ErrorHandler: cerror.Middleware,
	})
	app.Post("/login", limiter.Middleware(), func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusOK)
	})

	send := func(ip string) int {
		req := httptest.NewRequest(fiber.MethodPost, "/login", nil)
		req.Header.Set(fiber.HeaderXForwardedFor, ip)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, send("1.1.1.1"))
	assert.Equal(t, fiber.StatusOK, send("2.2.2.2"))
	assert.Equal(t, fiber.StatusTooManyRequests, send("1.1.1.1"))
	assert.Equal(t, fiber.StatusTooManyRequests, send("2.2.2.2"))

	keys := make([]string, 0, len(limiter.buckets))
	for key := range limiter.buckets {
		keys = append(keys, key)
	}
	assert.ElementsMatch(t, []string{"1.1.1.1", "2.2.2.2"}, keys)
}
