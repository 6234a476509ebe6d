package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lakbayapp/lakbay-backend/internal/response"
)

// RateLimiter throttles requests per client IP with refilling token
// buckets. The router applies it to hunt start and restart, which reset
// saved progress and should not be spammable.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	capacity int
	interval time.Duration
}

type bucket struct {
	remaining  int
	lastRefill time.Time
}

// NewRateLimiter allows capacity requests per interval for each client IP.
func NewRateLimiter(capacity int, interval time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		capacity: capacity,
		interval: interval,
	}
	go rl.evictLoop()
	return rl
}

// Middleware rejects requests with 429 once a client's bucket is empty.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[ip]
	if !ok {
		b = &bucket{remaining: rl.capacity, lastRefill: time.Now()}
		rl.buckets[ip] = b
	}

	if intervals := int(time.Since(b.lastRefill) / rl.interval); intervals > 0 {
		b.remaining += intervals * rl.capacity
		if b.remaining > rl.capacity {
			b.remaining = rl.capacity
		}
		b.lastRefill = time.Now()
	}

	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

// Buckets idle for more than three intervals are forgotten.
func (rl *RateLimiter) evictLoop() {
	for range time.Tick(time.Minute) {
		rl.mu.Lock()
		for ip, b := range rl.buckets {
			if time.Since(b.lastRefill) > 3*rl.interval {
				delete(rl.buckets, ip)
			}
		}
		rl.mu.Unlock()
	}
}
