package middleware

import (
	"net/http"
	"sync"
	"time"

	"inventory-billing/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a client IP may stay quiet before its bucket is
// dropped. A returning client starts again with a full burst.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	ips       map[string]*clientLimiter
	mu        sync.Mutex
	rate      rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	return &RateLimiter{
		ips:       make(map[string]*clientLimiter),
		rate:      r,
		burst:     b,
		idleTTL:   limiterIdleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (rl *RateLimiter) GetLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.idleTTL {
		rl.sweep(now)
	}

	if client, exists := rl.ips[ip]; exists {
		client.lastSeen = now
		return client.limiter
	}

	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.ips[ip] = &clientLimiter{limiter: limiter, lastSeen: now}
	return limiter
}

// sweep drops clients idle for longer than idleTTL. Callers hold rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for ip, client := range rl.ips {
		if now.Sub(client.lastSeen) > rl.idleTTL {
			delete(rl.ips, ip)
		}
	}
	rl.lastSweep = now
}

// RateLimitMiddleware allows perMinute requests per client IP with the given
// burst. A non-positive perMinute disables limiting.
func RateLimitMiddleware(perMinute, burst int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}
	rl := NewRateLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)

	return func(c *gin.Context) {
		if !rl.GetLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Success: false,
				Message: "Too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}
