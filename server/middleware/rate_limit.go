package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	apierrors "github.com/answerdesk/answerdesk/internal/errors"
)

// RateLimiter provides per-tenant rate limiting.
type RateLimiter struct {
	mu     sync.RWMutex
	limits map[string]*rate.Limiter

	perMinute int
	burst     int
}

// NewRateLimiter creates a rate limiter allowing perMinute requests per
// tenant with a burst of perMinute/2 (minimum 5).
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	burst := perMinute / 2
	if burst < 5 {
		burst = 5
	}
	return &RateLimiter{
		limits:    make(map[string]*rate.Limiter),
		perMinute: perMinute,
		burst:     burst,
	}
}

// getLimiter gets or creates a limiter for the given key.
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.limits[key]; ok {
		return limiter
	}

	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.perMinute)), rl.burst)
	rl.limits[key] = limiter
	return limiter
}

// Allow checks if a request is allowed for the given key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// TenantRateLimit limits requests per authenticated tenant. Must run after
// the auth middleware so the tenant ID is resolved.
func TenantRateLimit(rl *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantID := TenantFromContext(c)
			if tenantID == "" {
				return next(c)
			}
			if !rl.Allow(tenantID) {
				err := apierrors.RateLimitExceeded(tenantID)
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"code":  string(err.Code),
					"error": err.Message,
				})
			}
			return next(c)
		}
	}
}
