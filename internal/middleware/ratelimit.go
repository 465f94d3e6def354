package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/listora/realty-api/internal/config"
)

// NewRateLimiter returns a fixed-window request limiter backed by Redis.
// The counter key is ip + route; the first request of a window sets the
// expiry, and requests beyond the limit get a 429 with Retry-After. With a
// nil client or disabled config it is a pass-through.
func NewRateLimiter(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := cfg.Prefix + ":" + c.RealIP() + ":" + c.Path()

			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				// Redis trouble must not take the API down.
				return next(c)
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, cfg.Window).Err()
			}
			if n > int64(cfg.Limit) {
				retry, _ := rdb.TTL(ctx, key).Result()
				if retry > 0 {
					c.Response().Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
				}
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
			}
			return next(c)
		}
	}
}
