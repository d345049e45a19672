package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// RateLimiter allows limit requests per key in each fixed window. Stale keys
// are pruned on access, once per window.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	windows   map[string]*rateWindow
	nextPrune time.Time
}

type rateWindow struct {
	start time.Time
	used  int
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		windows: make(map[string]*rateWindow),
	}
}

// Allow consumes one request for key and reports whether it fits, plus how
// many remain in the current window.
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if !now.Before(rl.nextPrune) {
		for k, w := range rl.windows {
			if now.Sub(w.start) >= rl.window {
				delete(rl.windows, k)
			}
		}
		rl.nextPrune = now.Add(rl.window)
	}

	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.window {
		w = &rateWindow{start: now}
		rl.windows[key] = w
	}
	if w.used >= rl.limit {
		return false, 0
	}
	w.used++
	return true, rl.limit - w.used
}

// RateLimit rejects requests over the limiter's budget with 429. Requests are
// keyed by client IP. A nil limiter lets everything through.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	if limiter == nil || limiter.limit <= 0 {
		return passThrough
	}
	limit := strconv.Itoa(limiter.limit)
	return func(c *gin.Context) {
		ok, remaining := limiter.Allow(c.ClientIP())
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(limiter.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests, try again later",
				GetRequestID(c),
			))
			return
		}
		c.Next()
	}
}
