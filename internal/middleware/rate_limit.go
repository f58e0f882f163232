// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	clientStaleAfter = 5 * time.Minute
	sweepInterval    = time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter keeps one token bucket per client IP. Buckets for IPs not
// seen within clientStaleAfter are dropped by a background sweep.
type ipRateLimiter struct {
	clients map[string]*client
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
}

func newIPRateLimiter(limit rate.Limit, burst int) *ipRateLimiter {
	rl := &ipRateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		burst:   burst,
	}

	go rl.sweep()

	return rl
}

func (rl *ipRateLimiter) sweep() {
	for {
		time.Sleep(sweepInterval)
		rl.mu.Lock()
		for ip, c := range rl.clients {
			if time.Since(c.lastSeen) > clientStaleAfter {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *ipRateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[ip]
	if !ok {
		limiter := rate.NewLimiter(rl.limit, rl.burst)
		rl.clients[ip] = &client{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}

	c.lastSeen = time.Now()
	return c.limiter
}

func (rl *ipRateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please slow down.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// Tiers. Catalog browsing is chatty (listing, filters, product pages) so the
// general tier is generous; credential and checkout endpoints are tight.
var (
	browseLimiter   = newIPRateLimiter(rate.Every(time.Second/20), 40)
	authLimiter     = newIPRateLimiter(rate.Every(time.Minute/5), 5)
	checkoutLimiter = newIPRateLimiter(rate.Every(10*time.Second), 3)
	uploadLimiter   = newIPRateLimiter(rate.Every(time.Minute/6), 6)
)

func GeneralRateLimit() gin.HandlerFunc {
	return browseLimiter.middleware()
}

func AuthRateLimit() gin.HandlerFunc {
	return authLimiter.middleware()
}

// CheckoutRateLimit guards order placement against scripted submissions.
func CheckoutRateLimit() gin.HandlerFunc {
	return checkoutLimiter.middleware()
}

func UploadRateLimit() gin.HandlerFunc {
	return uploadLimiter.middleware()
}
