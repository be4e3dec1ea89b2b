package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"facturapp/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ── Fixed-window rate limiter ─────────────────────────────────────────────────
// Counters live in Redis so every API replica shares them. Keys are
// ratelimit:{scope}:{ip}:{window} and expire with the window.

// RateLimiter allows limit requests per window per client IP. When Redis is
// unavailable the request is let through and the failure is logged.
func RateLimiter(rdb *redis.Client, scope string, limit int, window time.Duration, mensaje string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}
		now := time.Now()
		bucket := now.UnixNano() / int64(window)
		key := fmt.Sprintf("ratelimit:%s:%s:%d", scope, c.ClientIP(), bucket)

		pipe := rdb.TxPipeline()
		incr := pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, window)
		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			log.Warn().Err(err).Str("scope", scope).Msg("rate limiter: redis unavailable")
			c.Next()
			return
		}

		if incr.Val() > int64(limit) {
			reset := time.Unix(0, (bucket+1)*int64(window))
			c.Header("Retry-After", strconv.Itoa(int(time.Until(reset).Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(mensaje))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits auth attempts to 20 per minute per IP.
func LoginRateLimiter(rdb *redis.Client) gin.HandlerFunc {
	return RateLimiter(rdb, "auth", 20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.")
}

// APIRateLimiter is the general limit for authenticated routes.
func APIRateLimiter(rdb *redis.Client) gin.HandlerFunc {
	return RateLimiter(rdb, "api", 200, time.Minute, "Demasiadas solicitudes. Intente nuevamente en un momento.")
}
