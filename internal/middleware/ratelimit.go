package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/saidulalimallick04/smart-to-do-api/pkg/response"
)

// LoginRateLimitConfig holds login rate limiter settings
type LoginRateLimitConfig struct {
	// Limit is the number of attempts allowed per window per IP
	Limit int
	// Window is the fixed counting window
	Window time.Duration
}

// LoginRateLimiter limits login attempts per client IP using a fixed
// Redis window. A nil client disables limiting. Redis errors fail open:
// an unreachable limiter must not lock users out.
func LoginRateLimiter(rdb *redis.Client, cfg LoginRateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || cfg.Limit <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:login:%s", c.ClientIP())

		// The window TTL is attached before the first increment, so a
		// counter key can never exist without an expiry.
		if err := rdb.SetNX(ctx, key, 0, cfg.Window).Err(); err != nil {
			c.Next()
			return
		}
		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}

		if count > int64(cfg.Limit) {
			c.Abort()
			response.TooManyRequests(c, "Too many login attempts, please try again later")
			return
		}

		c.Next()
	}
}
