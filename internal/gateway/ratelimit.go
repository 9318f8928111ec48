// File: internal/gateway/ratelimit.go
package gateway

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/response"
)

// RateLimiter is a fixed-window per-client limiter backed by Redis. When
// Redis is unreachable requests pass; the gateway must not become the
// outage.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	logger *zap.Logger
}

func NewRateLimiter(client *redis.Client, limit int64, window time.Duration, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window, logger: logger}
}

// Middleware counts requests per client IP per window and rejects the
// overflow with 429.
func (rl *RateLimiter) Middleware(writer *response.Writer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), time.Now().Unix()/int64(rl.window.Seconds()))

		count, err := rl.client.Incr(ctx, key).Result()
		if err != nil {
			rl.logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			rl.client.Expire(ctx, key, rl.window)
		}

		if count > rl.limit {
			writer.Error(c, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
