package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds the token-bucket parameters for the rate limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// limiterPool tracks one token bucket per client address and evicts buckets
// that have been idle long enough to be full again.
type limiterPool struct {
	mu      sync.Mutex
	cfg     RateLimitConfig
	clients map[string]*poolEntry
}

type poolEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterPool(cfg RateLimitConfig) *limiterPool {
	return &limiterPool{cfg: cfg, clients: make(map[string]*poolEntry)}
}

func (p *limiterPool) get(addr string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.clients[addr]
	if !ok {
		entry = &poolEntry{limiter: rate.NewLimiter(rate.Limit(p.cfg.RequestsPerSecond), p.cfg.Burst)}
		p.clients[addr] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (p *limiterPool) evictIdle(olderThan time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for addr, entry := range p.clients {
		if time.Since(entry.lastSeen) > olderThan {
			delete(p.clients, addr)
		}
	}
}

// RateLimiter enforces a per-client token-bucket limit, answering
// 429 Too Many Requests when a client exceeds it. Client identity is the
// RemoteAddr host; forwarding headers are ignored as spoofable.
func RateLimiter(cfg RateLimitConfig) func(http.Handler) http.Handler {
	pool := newLimiterPool(cfg)

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			pool.evictIdle(10 * time.Minute)
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !pool.get(host).Allow() {
				w.Header().Set("Retry-After", "1")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"status": "error",
					"error":  "rate limit exceeded",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
