package middleware

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// maxTrackedClients bounds limiter memory; the least recently seen client is evicted
const maxTrackedClients = 10000

// RateLimiter implements a per-client token bucket
// requests per window are refilled continuously, with a burst of the same size
type RateLimiter struct {
	clients *lru.Cache[string, *rate.Limiter]
	limit   rate.Limit
	burst   int
	window  time.Duration
	mu      sync.Mutex
}

// NewRateLimiter creates a new rate limiter
// requests: maximum number of requests allowed per window
// window: time window duration (e.g., 1 minute)
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	clients, err := lru.New[string, *rate.Limiter](maxTrackedClients)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	return &RateLimiter{
		clients: clients,
		limit:   rate.Limit(float64(requests) / window.Seconds()),
		burst:   requests,
		window:  window,
	}
}

// Middleware returns a rate limiting middleware
// Authenticated callers are keyed by user id, everyone else by IP
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := GetUserID(r)
		if clientID == "" {
			clientID = getClientIP(r)
		}

		if !rl.allow(clientID) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			if err := json.NewEncoder(w).Encode(map[string]string{
				"error":   "RateLimitExceeded",
				"message": "Rate limit exceeded. Please try again later.",
			}); err != nil {
				log.Printf("Failed to write rate limit response: %v", err)
			}
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow checks if a client is allowed to make a request
func (rl *RateLimiter) allow(clientID string) bool {
	rl.mu.Lock()
	limiter, ok := rl.clients.Get(clientID)
	if !ok {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.clients.Add(clientID, limiter)
	}
	rl.mu.Unlock()

	return limiter.Allow()
}

// getClientIP keys anonymous callers by the connection address.
// Forwarding headers are client controlled; a trusted proxy is handled by
// chi's RealIP middleware, which rewrites RemoteAddr before this runs.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
