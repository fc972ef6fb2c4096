package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// pruneEvery is how many requests pass between sweeps of expired windows
const pruneEvery = 256

// RateLimitConfig defines the configuration for rate limiting
type RateLimitConfig struct {
	// Requests is the maximum number of requests allowed within the window
	Requests int
	// Window is the length of one fixed window
	Window time.Duration
	// KeyFunc identifies the caller (defaults to the client IP)
	KeyFunc func(c echo.Context) string
	// Message is returned with the 429
	Message string
	// Now is the clock (defaults to time.Now)
	Now func() time.Time
}

type rateWindow struct {
	count     int
	expiresAt time.Time
}

// RateLimiter is a fixed-window, per-key limiter for a group of routes.
// Expired windows are swept lazily while requests arrive.
type RateLimiter struct {
	config  RateLimitConfig
	mu      sync.Mutex
	windows map[string]*rateWindow
	seen    int
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = ClientIPKey
	}
	if config.Message == "" {
		config.Message = "Too many requests. Please try again later."
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &RateLimiter{config: config, windows: make(map[string]*rateWindow)}
}

// ClientIPKey limits by client address
func ClientIPKey(c echo.Context) string {
	return "ip:" + c.RealIP()
}

// UserOrIPKey limits authenticated callers per account and everyone else per address
func UserOrIPKey(c echo.Context) string {
	if user := GetCurrentUser(c); user != nil {
		return "user:" + user.ID
	}
	return ClientIPKey(c)
}

// allow counts one request for key and returns the remaining budget.
// When the budget is exhausted it returns ok=false and the wait until reset.
func (rl *RateLimiter) allow(key string) (remaining int, retryAfter time.Duration, ok bool) {
	now := rl.config.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.seen++
	if rl.seen%pruneEvery == 0 {
		rl.pruneLocked(now)
	}

	w, exists := rl.windows[key]
	if !exists || !now.Before(w.expiresAt) {
		w = &rateWindow{expiresAt: now.Add(rl.config.Window)}
		rl.windows[key] = w
	}

	if w.count >= rl.config.Requests {
		return 0, w.expiresAt.Sub(now), false
	}
	w.count++
	return rl.config.Requests - w.count, 0, true
}

func (rl *RateLimiter) pruneLocked(now time.Time) {
	for key, w := range rl.windows {
		if !now.Before(w.expiresAt) {
			delete(rl.windows, key)
		}
	}
}

// Reset forgets every window
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	rl.windows = make(map[string]*rateWindow)
	rl.mu.Unlock()
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			remaining, retryAfter, ok := rl.allow(rl.config.KeyFunc(c))

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(rl.config.Requests))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !ok {
				// Round up so clients never retry a moment too early
				seconds := int((retryAfter + time.Second - 1) / time.Second)
				h.Set("Retry-After", strconv.Itoa(seconds))
				return echo.NewHTTPError(http.StatusTooManyRequests, rl.config.Message)
			}
			return next(c)
		}
	}
}

// LoginRateLimiter limits login attempts to 5 per minute per IP
var LoginRateLimiter = NewRateLimiter(RateLimitConfig{
	Requests: 5,
	Window:   time.Minute,
	Message:  "Too many login attempts. Please wait a minute before trying again.",
})

// RegisterRateLimiter limits account creation to 10 per hour per IP
var RegisterRateLimiter = NewRateLimiter(RateLimitConfig{
	Requests: 10,
	Window:   time.Hour,
	Message:  "Too many registrations from this address. Please try again later.",
})

// APIRateLimiter limits authenticated API traffic to 60 requests per minute per user.
// It must run after RequireAuth so the user is known.
var APIRateLimiter = NewRateLimiter(RateLimitConfig{
	Requests: 60,
	Window:   time.Minute,
	KeyFunc:  UserOrIPKey,
	Message:  "Rate limit exceeded. Please slow down your requests.",
})
