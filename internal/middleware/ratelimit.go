package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/lift-board/internal/config"
)

// NewRateLimiter limits each user to cfg.Requests calls per cfg.Window on
// the routes it wraps.  Counters live in Redis so every replica shares
// them.  When Redis errors the request is let through.
func NewRateLimiter(cfg config.RateLimitConfig, rdb *redis.Client, logger *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := strconv.Itoa(cfg.Requests)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()
			key := rateKey(cfg, c, now)
			ctx := c.Request().Context()

			var incr *redis.IntCmd
			_, err := rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
				incr = p.Incr(ctx, key)
				p.Expire(ctx, key, cfg.Window)
				return nil
			})
			if err != nil {
				logger.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
				return next(c)
			}

			count := incr.Val()
			remaining := int64(cfg.Requests) - count
			if remaining < 0 {
				remaining = 0
			}
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.Requests) {
				retry := int(windowStart(now, cfg.Window).Add(cfg.Window).Sub(now).Seconds()) + 1
				h.Set("Retry-After", strconv.Itoa(retry))
				logger.Info("rate limited", zap.String("user_id", UserID(c)), zap.String("route", c.Path()))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"retry_after": retry,
				})
			}
			return next(c)
		}
	}
}

// rateKey is prefix:user:<id>:<window start unix>.  Unauthenticated
// callers share a bucket per client IP.
func rateKey(cfg config.RateLimitConfig, c echo.Context, now time.Time) string {
	who := UserID(c)
	if who == "" {
		who = "ip:" + c.RealIP()
	}
	return fmt.Sprintf("%s:user:%s:%d", cfg.Prefix, who, windowStart(now, cfg.Window).Unix())
}

func windowStart(now time.Time, window time.Duration) time.Time {
	return now.Truncate(window)
}
