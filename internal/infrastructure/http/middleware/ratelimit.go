package middleware

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/johnquangdev/meeting-notes/errors"
)

const (
	maxLimiterKeys = 1000
	limiterTTL     = 10 * time.Minute
)

// RateLimiter keeps one token bucket per caller. Idle callers are evicted
// from the LRU after limiterTTL.
type RateLimiter struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

// NewRateLimiter allows perMinute requests per caller with the given burst
func NewRateLimiter(perMinute float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](maxLimiterKeys, nil, limiterTTL),
		rate:     rate.Limit(perMinute / 60.0),
		burst:    burst,
	}
}

// Allow reports whether key may make another request now
func (rl *RateLimiter) Allow(key string) bool {
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}
	return limiter.Allow()
}

// Middleware limits by authenticated user id, or by client IP when the
// route is public
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ip:" + c.RealIP()
			if id, ok := CurrentUserID(c); ok {
				key = "user:" + id.String()
			}
			if !rl.Allow(key) {
				return errors.ErrRateLimited()
			}
			return next(c)
		}
	}
}
