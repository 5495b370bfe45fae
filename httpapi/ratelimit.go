package httpapi

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// ThrottleConfig configures the login throttle.
type ThrottleConfig struct {
	// Rate is the number of attempts allowed per second per client.
	// Default: 1
	Rate float64

	// Burst is the maximum burst size per client.
	// Default: 5
	Burst int

	// Now overrides the clock, for deterministic tests.
	// Default: time.Now
	Now func() time.Time
}

// LoginThrottle is a per-client token bucket applied to the login endpoint.
// Exhausted clients get 429 until their bucket refills; other clients are
// unaffected.
type LoginThrottle struct {
	rate  float64
	burst int
	now   func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	tokens      float64
	lastRefresh time.Time
}

// NewLoginThrottle creates a login throttle.
func NewLoginThrottle(config ThrottleConfig) *LoginThrottle {
	// Apply defaults
	if config.Rate <= 0 {
		config.Rate = 1
	}
	if config.Burst <= 0 {
		config.Burst = 5
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &LoginThrottle{
		rate:    config.Rate,
		burst:   config.Burst,
		now:     config.Now,
		buckets: make(map[string]*bucket),
	}
}

// Allow reports whether the client identified by key may attempt a login.
func (t *LoginThrottle) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()

	b, ok := t.buckets[key]
	if !ok {
		t.sweepLocked(now)
		b = &bucket{tokens: float64(t.burst), lastRefresh: now}
		t.buckets[key] = b
	}

	// Refill based on elapsed time, capped at burst
	b.tokens += now.Sub(b.lastRefresh).Seconds() * t.rate
	b.lastRefresh = now
	if b.tokens > float64(t.burst) {
		b.tokens = float64(t.burst)
	}

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// sweepLocked drops buckets that have fully refilled; their next attempt is
// indistinguishable from a fresh client. Runs only when a new client shows
// up, so steady traffic pays nothing.
func (t *LoginThrottle) sweepLocked(now time.Time) {
	if len(t.buckets) < 1024 {
		return
	}
	refillTime := time.Duration(float64(t.burst) / t.rate * float64(time.Second))
	for key, b := range t.buckets {
		if now.Sub(b.lastRefresh) >= refillTime {
			delete(t.buckets, key)
		}
	}
}

// Handler wraps next with the throttle check, keyed by client address.
func (t *LoginThrottle) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !t.Allow(clientKey(r)) {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"message": "too many login attempts",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey identifies the client for throttling purposes. The port is
// stripped so reconnecting does not reset the bucket.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
