package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL    = 10 * time.Minute
	limiterMaxEntries = 10000
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiters hands out one token bucket per client IP. Idle entries are
// swept once the table fills up so a scan across many source addresses
// cannot grow it without bound.
type ipLimiters struct {
	mu         sync.Mutex
	entries    map[string]*clientLimiter
	rps        float64
	burst      int
	maxEntries int
	ttl        time.Duration
}

func newIPLimiters(rps float64, burst int) *ipLimiters {
	return &ipLimiters{
		entries:    make(map[string]*clientLimiter),
		rps:        rps,
		burst:      burst,
		maxEntries: limiterMaxEntries,
		ttl:        limiterIdleTTL,
	}
}

func (l *ipLimiters) get(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.entries[ip]; ok {
		e.lastSeen = now
		return e.limiter
	}
	if len(l.entries) >= l.maxEntries {
		l.sweep(now)
	}
	e := &clientLimiter{
		limiter:  rate.NewLimiter(rate.Limit(l.rps), l.burst),
		lastSeen: now,
	}
	l.entries[ip] = e
	return e.limiter
}

// sweep drops entries idle longer than ttl. Caller holds mu.
func (l *ipLimiters) sweep(now time.Time) {
	for ip, e := range l.entries {
		if now.Sub(e.lastSeen) > l.ttl {
			delete(l.entries, ip)
		}
	}
}

// RateLimit applies a per-client-IP token bucket. Used on the public hook
// endpoints, which are reachable without authentication.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	limiters := newIPLimiters(rps, burst)

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP(), time.Now()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
