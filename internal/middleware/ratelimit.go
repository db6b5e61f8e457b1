package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"wallspace/internal/pkg/response"
)

const visitorIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per caller (user id when authenticated, client IP otherwise).
type RateLimiter struct {
	perMinute float64
	burst     int

	mu        sync.Mutex
	visitors  map[string]*visitor
	nextSweep time.Time
	clockNow  func() time.Time
}

func NewRateLimiter(perMinute float64, burst int) *RateLimiter {
	return &RateLimiter{
		perMinute: perMinute,
		burst:     burst,
		visitors:  make(map[string]*visitor),
		clockNow:  time.Now,
	}
}

func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r.perMinute <= 0 {
			c.Next()
			return
		}
		if !r.limiterFor(clientKey(c)).Allow() {
			c.Header("Retry-After", "60")
			response.Abort(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
			return
		}
		c.Next()
	}
}

func (r *RateLimiter) limiterFor(key string) *rate.Limiter {
	now := r.clockNow()

	r.mu.Lock()
	defer r.mu.Unlock()

	if now.After(r.nextSweep) {
		for k, v := range r.visitors {
			if now.Sub(v.lastSeen) > visitorIdleTTL {
				delete(r.visitors, k)
			}
		}
		r.nextSweep = now.Add(visitorIdleTTL)
	}

	v, ok := r.visitors[key]
	if !ok {
		burst := r.burst
		if burst <= 0 {
			burst = 1
		}
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(r.perMinute/60.0), burst)}
		r.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

func clientKey(c *gin.Context) string {
	if id := c.GetInt64("user_id"); id != 0 {
		return "user:" + strconv.FormatInt(id, 10)
	}
	return "ip:" + c.ClientIP()
}
