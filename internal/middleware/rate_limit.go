package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"userhub/internal/cache"
	"userhub/internal/metrics"
)

// LoginRateLimiter limits login attempts per client IP using Redis
// counters. When Redis is unreachable the limiter stays open.
func LoginRateLimiter(c *cache.Client, limit int64, window time.Duration) echo.MiddlewareFunc {
	const limiterName = "login"
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ec echo.Context) error {
			ip := ec.RealIP()
			key := fmt.Sprintf("uh:rl:%s:%s", limiterName, ip)

			count, _ := c.Incr(ec.Request().Context(), key)
			if count == 0 {
				// redis unavailable, let the request through
				return next(ec)
			}
			if count == 1 {
				_ = c.Expire(ec.Request().Context(), key, window)
			}
			if count > limit {
				metrics.IncRateLimit(limiterName)
				ec.Response().Header().Set("Retry-After", fmt.Sprintf("%.f", window.Seconds()))
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
			}
			ec.Response().Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			ec.Response().Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", limit-count))
			return next(ec)
		}
	}
}
