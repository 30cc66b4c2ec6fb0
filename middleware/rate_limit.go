package middleware

import (
	"sync"
	"time"

	"github.com/avvalues/trade-hub/shared"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL   = 10 * time.Minute
	limiterPruneSize = 1024
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter is an in-process token bucket per client IP. It protects low-volume
// endpoints such as the admin surface; trade throttling lives in the store.
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter

	every rate.Limit
	burst int
	now   func() time.Time
}

func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &IPRateLimiter{
		limiters: make(map[string]*ipLimiter),
		every:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		now:      time.Now,
	}
}

func (l *IPRateLimiter) Allow(ip string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.limiters[ip]
	if !ok {
		if len(l.limiters) >= limiterPruneSize {
			l.prune(now)
		}
		if len(l.limiters) >= limiterPruneSize {
			l.evictOldest()
		}
		entry = &ipLimiter{limiter: rate.NewLimiter(l.every, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (l *IPRateLimiter) prune(now time.Time) {
	for ip, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(l.limiters, ip)
		}
	}
}

// evictOldest drops the least recently seen IP so the map stays bounded even
// when every tracked IP is still active.
func (l *IPRateLimiter) evictOldest() {
	var (
		oldestIP string
		oldest   time.Time
	)
	for ip, entry := range l.limiters {
		if oldestIP == "" || entry.lastSeen.Before(oldest) {
			oldestIP, oldest = ip, entry.lastSeen
		}
	}
	delete(l.limiters, oldestIP)
}

func (l *IPRateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := shared.ClientIP(c)
		if !l.Allow(ip) {
			log.WithField("ip", ip).Warn("Admin request throttled")
			return shared.NewRateExceededError("Too many requests. Please slow down.", time.Minute)
		}
		return c.Next()
	}
}
