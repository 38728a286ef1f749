package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultLimiterIdleTTL is how long a client's limiter is kept after its last request
const DefaultLimiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client address.
// Buckets idle for longer than IdleTTL are evicted, so the map holds at most
// the clients seen within the last IdleTTL (plus one sweep interval).
type RateLimiter struct {
	clients   map[string]*clientLimiter
	mu        sync.Mutex
	lastSweep time.Time

	limit     rate.Limit
	burstSize int

	IdleTTL time.Duration
	now     func() time.Time
}

// NewRateLimiter creates a new rate limiter allowing rps requests per second
// per client with bursts of burst requests
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		clients:   make(map[string]*clientLimiter),
		limit:     rate.Limit(rps),
		burstSize: burst,
		IdleTTL:   DefaultLimiterIdleTTL,
		now:       time.Now,
	}
}

// getLimiter returns the rate limiter for a client
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.IdleTTL {
		rl.evictIdle(now)
		rl.lastSweep = now
	}

	client, exists := rl.clients[key]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burstSize)}
		rl.clients[key] = client
	}
	client.lastSeen = now

	return client.limiter
}

// evictIdle drops the limiters of clients not seen for IdleTTL. Caller holds mu.
func (rl *RateLimiter) evictIdle(now time.Time) {
	for key, client := range rl.clients {
		if now.Sub(client.lastSeen) >= rl.IdleTTL {
			delete(rl.clients, key)
		}
	}
}

// Len returns the number of clients currently tracked
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// clientKey identifies the caller by host, ignoring the source port
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware creates a middleware that enforces rate limiting
func RateLimitMiddleware(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.getLimiter(clientKey(r)).Allow() {
				respondError(w, http.StatusTooManyRequests, ErrCodeRateLimited, "Rate limit exceeded. Please try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
