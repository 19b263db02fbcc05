// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	domainerror "github.com/ondesc/backend/internal/domain/error"
	"github.com/ondesc/backend/internal/integration/entrypoint/dto"
)

// window counts the requests of one client on one route.
type window struct {
	requests int
	resetAt  time.Time
}

// RateLimiter limits requests per client IP and route in fixed windows.
type RateLimiter struct {
	mu          sync.Mutex
	windows     map[string]*window
	maxRequests int
	length      time.Duration
	now         func() time.Time
}

// NewRateLimiterWithConfig creates a rate limiter allowing maxRequests per window of the given length.
// A non-positive maxRequests disables limiting.
func NewRateLimiterWithConfig(maxRequests int, length time.Duration) *RateLimiter {
	return &RateLimiter{
		windows:     make(map[string]*window),
		maxRequests: maxRequests,
		length:      length,
		now:         time.Now,
	}
}

// Middleware returns a Gin middleware handler that enforces rate limiting.
// Rejected requests get a Retry-After header with the seconds left in the window.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Limiting disabled by configuration
		if rl.maxRequests <= 0 {
			c.Next()
			return
		}

		// Uploads and calculations are counted separately
		clientIP := c.ClientIP()
		if clientIP == "" {
			clientIP = c.Request.RemoteAddr
		}
		key := clientIP + " " + c.FullPath()

		ok, retryAfter := rl.allow(key)
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Round(time.Second)/time.Second)))
			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Muitas requisições. Tente novamente em instantes.",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// allow records a request for key. When the window is full it reports false
// and how long until the window resets.
func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	w, exists := rl.windows[key]
	if !exists || now.After(w.resetAt) {
		// First request or expired window
		rl.windows[key] = &window{requests: 1, resetAt: now.Add(rl.length)}
		return true, 0
	}

	if w.requests < rl.maxRequests {
		w.requests++
		return true, 0
	}

	// Window full
	return false, w.resetAt.Sub(now)
}

// Reset clears the rate limiter state.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.windows = make(map[string]*window)
}

// Cleanup removes expired windows (can be called periodically to free memory).
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, w := range rl.windows {
		if now.After(w.resetAt) {
			delete(rl.windows, key)
		}
	}
}
