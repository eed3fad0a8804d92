package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/inmohub/realty-api/internal/httperr"
)

// RateLimit caps anonymous writes per client IP over a fixed window using
// a Redis counter. Authenticated callers and deployments without Redis
// pass through untouched.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		caller := CallerFrom(c)
		if !caller.Anonymous() {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", scope, c.ClientIP())

		ctx := c.Request.Context()
		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// Redis down must not take the API with it.
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			httperr.TooManyRequests(c, "rate_limited", "Demasiadas solicitudes, intenta más tarde.")
			c.Abort()
			return
		}

		c.Next()
	}
}
