package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"grocerytracker/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── API rate limiter ──────────────────────────────────────────────────────────

// rateEntry tracks request counts for one client IP within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
}

// RateLimiter counts requests per client IP in fixed windows. State lives in
// the value; run Janitor to drop expired entries.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string]*rateEntry
	now     func() time.Time
}

// NewRateLimiter allows limit requests per window per IP. limit <= 0 disables it.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*rateEntry),
		now:     time.Now,
	}
}

// allow records one request from ip. When refused it also returns the
// number of seconds until the window resets.
func (rl *RateLimiter) allow(ip string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	e, ok := rl.entries[ip]
	if !ok || now.After(e.windowEnd) {
		e = &rateEntry{windowEnd: now.Add(rl.window)}
		rl.entries[ip] = e
	}
	e.count++
	if e.count > rl.limit {
		return false, int(e.windowEnd.Sub(now).Seconds()) + 1
	}
	return true, 0
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}
		ok, retryAfter := rl.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, try again shortly"))
			return
		}
		c.Next()
	}
}

// purge removes expired entries and returns how many were dropped.
func (rl *RateLimiter) purge() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	n := 0
	for ip, e := range rl.entries {
		if now.After(e.windowEnd) {
			delete(rl.entries, ip)
			n++
		}
	}
	return n
}

// Janitor purges expired entries every interval until ctx is done.
func (rl *RateLimiter) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.purge(); n > 0 {
				log.Debug().Int("entries_purged", n).Msg("rate limiter purged")
			}
		}
	}
}
