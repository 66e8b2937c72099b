package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"legacy-scheduler/internal/apperrors"
	"legacy-scheduler/internal/ratelimit"
)

// RateLimit rejects requests over the per-client budget with 429. The limiter
// is injected so the HTTP layer does not care whether counting happens in
// memory or in Redis. A limiter failure lets the request through: dropping
// traffic because the counter store is down would be worse than not limiting.
func RateLimit(log *zap.Logger, limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn("Rate limiter unavailable", zap.Error(err))
			c.Next()

			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": apperrors.ErrRateLimited.Error(),
			})

			return
		}

		c.Next()
	}
}
