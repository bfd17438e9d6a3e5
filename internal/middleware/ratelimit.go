package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sjperalta/agent-portal-api/pkg/logger"
)

// MsgTooManyAttempts is returned once a client exceeds the limit.
const MsgTooManyAttempts = "Too many attempts. Please try again later."

// Counter is the subset of the Redis client used for fixed-window counting.
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RateLimit allows limit requests per client IP and route in each window.
// A nil counter disables limiting. Redis errors let the request through.
func RateLimit(counter Counter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || limit <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("rl:%s:%s", c.FullPath(), c.ClientIP())

		count, err := counter.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("Rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			// A key without a TTL would never reset, so drop it instead.
			if err := counter.Expire(ctx, key, window).Err(); err != nil {
				logger.Warn("Rate limiter could not set window", "key", key, "error", err)
				if err := counter.Del(ctx, key).Err(); err != nil {
					logger.Error("Rate limiter could not drop key", "key", key, "error", err)
				}
				c.Next()
				return
			}
		}

		if count > int64(limit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": MsgTooManyAttempts,
			})
			return
		}

		c.Next()
	}
}
