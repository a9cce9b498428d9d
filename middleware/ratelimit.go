package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit throttles a route per client IP. Limiters idle for an hour are
// pruned so the map does not grow with every visitor ever seen.
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
	type entry struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var mu sync.Mutex
	entries := map[string]*entry{}
	lastPrune := time.Now()

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if now.Sub(lastPrune) > time.Hour {
			for key, e := range entries {
				if now.Sub(e.lastSeen) > time.Hour {
					delete(entries, key)
				}
			}
			lastPrune = now
		}
		e, ok := entries[ip]
		if !ok {
			e = &entry{limiter: rate.NewLimiter(r, burst)}
			entries[ip] = e
		}
		e.lastSeen = now
		allowed := e.limiter.Allow()
		mu.Unlock()

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"status": "error", "message": "Too many attempts, try again later"})
			c.Abort()
			return
		}
		c.Next()
	}
}
