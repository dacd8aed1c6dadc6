package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit applies a per-client-IP token bucket. Used on the public
// reservation endpoint to keep a single buyer from hammering the
// conditional updates.
func RateLimit(perSecond float64, burst int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		limiter, ok := limiters[ip]
		if !ok {
			limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
			limiters[ip] = limiter
		}

		return limiter
	}

	return func(ctx *gin.Context) {
		if !limiterFor(ctx.ClientIP()).Allow() {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, slow down",
			})

			return
		}

		ctx.Next()
	}
}
