package middleware

import (
	"net/http"
	"sync"
	"time"

	"doctrack-go/internal/config"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

// WriteLimiter applies a per-user token bucket to mutating endpoints.
// Reads stay unthrottled; the graph read model is cheap and safe to poll.
type WriteLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	enabled  bool
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewWriteLimiter(cfg config.RateLimitConfig) *WriteLimiter {
	wl := &WriteLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(float64(cfg.WritesRPM) / 60.0),
		burst:    cfg.WriteBurst,
		enabled:  cfg.Enabled,
	}
	if wl.enabled {
		go wl.cleanupLoop()
	}
	return wl
}

func (wl *WriteLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !wl.enabled {
			next.ServeHTTP(w, r)
			return
		}

		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			next.ServeHTTP(w, r)
			return
		}

		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		if !wl.allow(userID) {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (wl *WriteLimiter) allow(userID string) bool {
	wl.mu.Lock()
	entry, ok := wl.limiters[userID]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(wl.limit, wl.burst)}
		wl.limiters[userID] = entry
	}
	entry.lastSeen = time.Now()
	wl.mu.Unlock()

	return entry.limiter.Allow()
}

func (wl *WriteLimiter) cleanupLoop() {
	ticker := time.NewTicker(limiterIdleTTL)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-limiterIdleTTL)
		wl.mu.Lock()
		for userID, entry := range wl.limiters {
			if entry.lastSeen.Before(cutoff) {
				delete(wl.limiters, userID)
			}
		}
		wl.mu.Unlock()
	}
}
