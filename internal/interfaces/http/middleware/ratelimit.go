package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/velorie/ticketarchive/internal/infrastructure/ratelimit"
	"github.com/velorie/ticketarchive/internal/shared/errors"
	"github.com/velorie/ticketarchive/internal/shared/logger"
	"github.com/velorie/ticketarchive/internal/shared/utils"
)

// RateLimit enforces limiter per client IP. When the limiter itself fails
// the request is let through so a Redis outage does not take the archive
// down with it.
func RateLimit(limiter ratelimit.RateLimiter, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		allowed, err := limiter.Allow(c.Request.Context(), clientIP)
		if err != nil {
			log.Warnw("rate limiter unavailable, allowing request",
				"client_ip", clientIP,
				"error", err)
			c.Next()
			return
		}

		if !allowed {
			utils.AbortWithError(c, errors.NewRateLimitedError("rate limit exceeded, please try again later"))
			return
		}

		c.Next()
	}
}
