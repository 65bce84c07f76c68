package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"rentalweb/internal/session"
	"rentalweb/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdle = 10 * time.Minute

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	now   func() time.Time

	mu      sync.Mutex
	clients map[string]*client
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
		clients: make(map[string]*client),
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for k, cl := range rl.clients {
		if now.Sub(cl.lastSeen) > limiterIdle {
			delete(rl.clients, k)
		}
	}
	cl, ok := rl.clients[ip]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// Middleware answers 429 once the caller's bucket is empty. Page requests
// get a flash and a 303 back to the form they came from on this site.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.allow(c.ClientIP()) {
			c.Next()
			return
		}
		c.Header("Retry-After", "1")
		if IsAPIRequest(c) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "too many requests, slow down",
				"code":       "rate_limited",
				"request_id": GetRequestID(c),
			})
			return
		}
		if sess := session.From(c); sess != nil {
			sess.AddFlash(session.FlashError, "Too many attempts. Please wait a moment and try again.")
		}
		c.Redirect(http.StatusSeeOther, sameSiteReferer(c))
		c.Abort()
	}
}

// sameSiteReferer returns the path of the Referer when it points at this host,
// and the current path otherwise.
func sameSiteReferer(c *gin.Context) string {
	back := c.Request.URL.Path
	raw := c.Request.Referer()
	if raw == "" {
		return back
	}
	ref, err := url.Parse(raw)
	if err != nil || ref.Host == "" || !strings.EqualFold(ref.Host, c.Request.Host) {
		return back
	}
	return utils.SafeRedirect(ref.RequestURI(), back)
}
