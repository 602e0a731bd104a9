package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// UpgradeLimiter bounds how often a peer may attempt the /ws upgrade.
// kuzh connections are long-lived and bound to a claimed identity, so
// unlike a generic per-IP bucket the key here combines the remote IP
// with the identity the request claims, so every (IP, claimed identity)
// pair has its own bucket: a NATed office of distinct members is not
// collapsed into a single bucket, and a host that cycles through
// claimed identities is likewise not limited as a whole. Attempts are counted
// over a sliding window; a successful upgrade holds its slot until the
// window slides past it, which is the right shape for a connection
// endpoint (reconnect storms are the failure mode, not request floods).
type UpgradeLimiter struct {
	window time.Duration
	limit  int

	mu       sync.Mutex
	attempts map[string][]time.Time
}

// NewUpgradeLimiter allows limit upgrade attempts per key per window.
func NewUpgradeLimiter(limit int, window time.Duration) *UpgradeLimiter {
	return &UpgradeLimiter{
		window:   window,
		limit:    limit,
		attempts: make(map[string][]time.Time),
	}
}

func (l *UpgradeLimiter) allow(key string, now time.Time) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	kept := l.attempts[key][:0]
	for _, at := range l.attempts[key] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}

	if len(kept) >= l.limit {
		l.attempts[key] = kept
		return false, kept[0].Sub(cutoff)
	}
	l.attempts[key] = append(kept, now)

	// Drop other keys whose windows have fully expired while we hold the
	// lock, so the map stays bounded by currently active peers without a
	// background sweeper.
	for k, hits := range l.attempts {
		if k != key && (len(hits) == 0 || !hits[len(hits)-1].After(cutoff)) {
			delete(l.attempts, k)
		}
	}
	return true, 0
}

// Middleware returns a Gin handler enforcing the upgrade limit, keyed by
// the caller's IP and the identity the connection claims. The identity
// is only a claim at this point (transactions authenticate themselves
// later), but it is the claim the connection will be routed by, which
// makes it the right unit to limit.
func (l *UpgradeLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + "|" + c.Query("identity")
		allowed, retryAfter := l.allow(key, time.Now())
		if !allowed {
			c.Header("Retry-After", retryAfter.String())
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many connection attempts", "retryAfter": retryAfter.String()})
			c.Abort()
			return
		}
		c.Next()
	}
}
