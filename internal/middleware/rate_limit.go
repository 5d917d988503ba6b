package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	pkgErrors "datachat/pkg/errors"
	"datachat/pkg/response"
)

const (
	limiterTableSize = 1000
	limiterIdleTTL   = 5 * time.Minute
	sessionCookie    = "session_id"
)

// RateLimit enforces a per-client token bucket. The client key is the
// session cookie when present, the client IP otherwise. Limiters for idle
// clients age out of the table.
func (m Middleware) RateLimit() gin.HandlerFunc {
	perMinute := m.cfg.RateLimit.PerMinute
	if perMinute <= 0 {
		perMinute = 60
	}
	burst := m.cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 10
	}

	limiters := expirable.NewLRU[string, *rate.Limiter](limiterTableSize, nil, limiterIdleTTL)
	perSecond := rate.Limit(float64(perMinute) / 60.0)

	return func(c *gin.Context) {
		key := clientKey(c)

		limiter, ok := limiters.Get(key)
		if !ok {
			limiter = rate.NewLimiter(perSecond, burst)
			limiters.Add(key, limiter)
		}

		if !limiter.Allow() {
			m.l.Warnf(c.Request.Context(), "rate limit exceeded for %s", key)
			response.Error(c, pkgErrors.NewHTTPError(http.StatusTooManyRequests, "too many requests"), nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func clientKey(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		return id
	}
	return c.ClientIP()
}
