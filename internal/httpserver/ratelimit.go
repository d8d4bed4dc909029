package httpserver

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// AuthLimit throttles signup and login attempts per client IP. A zero Rate
// disables throttling.
type AuthLimit struct {
	Rate  rate.Limit
	Burst int
}

const limiterIdle = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipLimiter struct {
	limit AuthLimit
	now   func() time.Time

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

func newIPLimiter(limit AuthLimit) *ipLimiter {
	return &ipLimiter{
		limit:    limit,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterIdle {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) > limiterIdle {
				delete(l.visitors, key)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit.Rate, l.limit.Burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func authRateLimit(limit AuthLimit, logger *log.Logger) gin.HandlerFunc {
	if limit.Rate <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if limit.Burst < 1 {
		limit.Burst = 1
	}
	limiter := newIPLimiter(limit)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.allow(ip) {
			logger.Printf("auth: rate limited ip=%s path=%s", ip, c.FullPath())
			abortWithError(c, http.StatusTooManyRequests, "too many attempts, try again later")
			return
		}
		c.Next()
	}
}
