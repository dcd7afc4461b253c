package middlewares

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window counter per key. The login route uses it keyed by client IP.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	windows map[string]*window
	now     func() time.Time
}

type window struct {
	hits int
	ends time.Time
}

func NewRateLimiter(limit int, every time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  every,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow counts one hit for key. When the key is over its limit it returns false and the time
// left in the current window.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || !now.Before(w.ends) {
		rl.windows[key] = &window{hits: 1, ends: now.Add(rl.window)}
		return true, 0
	}
	if w.hits >= rl.limit {
		return false, w.ends.Sub(now)
	}
	w.hits++
	return true, 0
}

// Sweep drops expired windows. cmd/api runs it on a ticker.
func (rl *RateLimiter) Sweep(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for k, w := range rl.windows {
		if !now.Before(w.ends) {
			delete(rl.windows, k)
			removed++
		}
	}
	return removed
}

// Middleware answers 429 with Retry-After once the key derived by keyFn is over its limit.
func (rl *RateLimiter) Middleware(keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)
		if key == "" {
			key = c.ClientIP()
		}

		ok, wait := rl.Allow(key)
		if ok {
			c.Next()
			return
		}

		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": gin.H{
				"code":    "rate_limited",
				"message": "Too many requests. Please try again shortly.",
			},
		})
	}
}

// KeyByIP uses gin's ClientIP, which honours the trusted proxy settings.
func KeyByIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}
