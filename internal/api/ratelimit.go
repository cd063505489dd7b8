package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// signupRateLimit is the per-IP budget for the unauthenticated signup
// endpoint, in requests per second.
const signupRateLimit = 5

// RateLimiter enforces per-caller request rates with token buckets. Buckets
// are keyed by API key ID for authenticated traffic and by client IP for
// public endpoints.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*tokenBucket
}

type tokenBucket struct {
	tokens    float64
	lastTime  time.Time
	rateLimit float64 // tokens per second
}

// NewRateLimiter creates a new RateLimiter instance
func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*tokenBucket),
	}

	// Start cleanup goroutine to remove stale buckets
	go rl.cleanup()

	return rl
}

// cleanup periodically removes stale buckets to prevent memory leaks
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, bucket := range rl.buckets {
			if now.Sub(bucket.lastTime) > time.Hour {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware returns a middleware that checks rate limits per API key
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKeyID, ok := GetAPIKeyID(r.Context())
			if !ok {
				// Should have been set by AuthMiddleware; absence is a
				// programming error.
				slog.Error("API key ID not found in context")
				WriteError(w, ErrInternal, http.StatusInternalServerError, CodeInternal)
				return
			}

			rateLimit, ok := GetAPIKeyRateLimit(r.Context())
			if !ok {
				slog.Error("API key rate limit not found in context")
				WriteError(w, ErrInternal, http.StatusInternalServerError, CodeInternal)
				return
			}

			if !rl.allow("key:"+apiKeyID.String(), float64(rateLimit)) {
				w.Header().Set("Retry-After", "1")
				WriteError(w,
					fmt.Errorf("rate limit exceeded: %d requests per second", rateLimit),
					http.StatusTooManyRequests,
					"RATE_LIMIT_EXCEEDED",
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IPMiddleware returns a middleware that rate-limits by client IP. Used on
// public endpoints that run before authentication.
func (rl *RateLimiter) IPMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
				ip = strings.TrimSpace(strings.Split(forwarded, ",")[0])
			}

			if !rl.allow("ip:"+ip, signupRateLimit) {
				w.Header().Set("Retry-After", "1")
				WriteError(w, fmt.Errorf("rate limit exceeded"), http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// allow consumes one token from the caller's bucket, creating it at full
// capacity on first use. Bucket capacity is one second's worth of requests.
func (rl *RateLimiter) allow(key string, rateLimit float64) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	bucket, exists := rl.buckets[key]
	if !exists {
		bucket = &tokenBucket{
			tokens:    rateLimit,
			lastTime:  now,
			rateLimit: rateLimit,
		}
		rl.buckets[key] = bucket
	}

	// Pick up rate changes made on the key since the bucket was created.
	if bucket.rateLimit != rateLimit {
		bucket.rateLimit = rateLimit
	}

	elapsed := now.Sub(bucket.lastTime).Seconds()
	bucket.tokens += elapsed * bucket.rateLimit
	if bucket.tokens > bucket.rateLimit {
		bucket.tokens = bucket.rateLimit
	}
	bucket.lastTime = now

	if bucket.tokens >= 1.0 {
		bucket.tokens -= 1.0
		return true
	}

	return false
}
