package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"cng-slot-booking/internal/infra/ratelimit"

	"github.com/gin-gonic/gin"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit ratelimit.Rate) (bool, ratelimit.Info, error)
}

// RateLimit keys on the authenticated user, falling back to the client IP.
// A failing limiter lets the request through.
func RateLimit(limiter RateLimiter, scope string, limit ratelimit.Rate) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":ip:" + c.ClientIP()
		if userID, ok := GetUserID(c); ok {
			key = scope + ":user:" + userID.String()
		}

		allowed, info, err := limiter.Allow(c.Request.Context(), key, limit)
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request",
				"scope", scope,
				"request_id", GetRequestID(c),
				"error", err.Error())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(info.Reset.Unix(), 10))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many requests, slow down",
			})
			return
		}

		c.Next()
	}
}
