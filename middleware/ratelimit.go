package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ariebrainware/sisreg/config"
	"github.com/ariebrainware/sisreg/util"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	// Rate limiting defaults
	defaultRateLimit  = 5                // 5 attempts
	defaultRateWindow = 15 * time.Minute // per 15 minutes
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

func rateLimitKey(clientIP, endpoint string) string {
	return fmt.Sprintf("ratelimit:%s:%s", endpoint, clientIP)
}

// localLimiters is the in-process fallback used while Redis is unavailable.
// Each key gets a token bucket refilling Limit tokens per Window.
type localLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

var fallbackLimiters = &localLimiters{limiters: map[string]*rate.Limiter{}}

func (l *localLimiters) allow(key string, limit int, window time.Duration) bool {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)
		l.limiters[key] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

func (l *localLimiters) reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.limiters, key)
}

// RateLimiter creates a rate limiting middleware
func RateLimiter(config RateLimitConfig) gin.HandlerFunc {
	if config.Limit == 0 {
		config.Limit = defaultRateLimit
	}
	if config.Window == 0 {
		config.Window = defaultRateWindow
	}

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		endpoint := c.Request.URL.Path
		key := rateLimitKey(clientIP, endpoint)

		allowed, err := checkRateLimit(c.Request.Context(), key, config.Limit, config.Window)
		if err != nil {
			// Redis failing must not lock users out; fall back to the local limiter.
			util.LogSecurityEvent(util.SecurityEvent{
				EventType: util.EventSuspiciousActivity,
				IP:        clientIP,
				Message:   fmt.Sprintf("Rate limit check failed: %v", err),
			})
			allowed = fallbackLimiters.allow(key, config.Limit, config.Window)
		}

		if !allowed {
			util.LogRateLimitExceeded(clientIP, endpoint)
			util.CallTooManyRequests(c, util.APIErrorParams{
				Msg: "Too many requests. Please try again later.",
				Err: fmt.Errorf("rate limit exceeded"),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// checkRateLimit reports whether a request is within rate limits.
func checkRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return fallbackLimiters.allow(key, limit, window), nil
	}

	pipe := rdb.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	_, err := pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	return incrCmd.Val() <= int64(limit), nil
}

// ResetRateLimit clears the counters of a client on an endpoint, e.g. after
// a successful login.
func ResetRateLimit(clientIP, endpoint string) error {
	key := rateLimitKey(clientIP, endpoint)
	fallbackLimiters.reset(key)

	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	return rdb.Del(context.Background(), key).Err()
}
