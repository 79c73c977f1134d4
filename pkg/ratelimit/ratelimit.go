package ratelimit

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"project-api/pkg/cerror"
	"project-api/pkg/config"
)

const (
	bucketTtl     = 5 * time.Minute
	sweepInterval = time.Minute
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter is a token bucket per client IP.
type Limiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	perSecond rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewLimiter(rateLimitConfig config.RateLimitConfig) *Limiter {
	perSecond := rateLimitConfig.PerSecond
	if perSecond <= 0 {
		perSecond = config.DefaultRateLimitPerSecond
	}

	burst := rateLimitConfig.Burst
	if burst <= 0 {
		burst = config.DefaultRateLimitBurst
	}

	return &Limiter{
		buckets:   make(map[string]*bucket),
		perSecond: rate.Limit(perSecond),
		burst:     burst,
		now:       time.Now,
	}
}

func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > sweepInterval {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > bucketTtl {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.perSecond, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	return b.limiter.AllowN(now, 1)
}

func (l *Limiter) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ip := clientIP(ctx)
		if !l.Allow(ip) {
			return cerror.ErrorTooManyRequests.WithFields(zap.String("clientIp", ip))
		}

		return ctx.Next()
	}
}

// clientIP returns a copy: the key is kept after fiber reuses the request buffer.
func clientIP(ctx *fiber.Ctx) string {
	if forwarded := ctx.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		return utils.CopyString(strings.TrimSpace(strings.Split(forwarded, ",")[0]))
	}

	if ip := ctx.IP(); ip != "" {
		return utils.CopyString(ip)
	}

	return "unknown"
}
