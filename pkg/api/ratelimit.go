package api

import (
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/observability"
)

// maxClients triggers a sweep of idle client buckets.
const maxClients = 10000

// limiter holds one token bucket per client IP. A budget of n requests per
// window refills at n/window with a burst of n.
type limiter struct {
	name    string
	limit   rate.Limit
	burst   int
	window  time.Duration
	message string

	mu      sync.Mutex
	clients map[string]*client
	now     func() time.Time
}

type client struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// newLimiter returns nil when n or window is not positive, which disables
// limiting.
func newLimiter(name string, n int, window time.Duration, message string) *limiter {
	if n <= 0 || window <= 0 {
		return nil
	}
	return &limiter{
		name:    name,
		limit:   rate.Limit(float64(n) / window.Seconds()),
		burst:   n,
		window:  window,
		message: message,
		clients: make(map[string]*client),
		now:     time.Now,
	}
}

// allow takes a token for ip. When the bucket is empty it returns false and
// how long until the next token.
func (l *limiter) allow(ip string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	c, ok := l.clients[ip]
	if !ok {
		if len(l.clients) >= maxClients {
			l.sweep(now)
		}
		c = &client{bucket: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	l.mu.Unlock()

	res := c.bucket.ReserveN(now, 1)
	if !res.OK() {
		return false, l.window
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// sweep drops clients idle for a full window. Their buckets are full again,
// so forgetting them changes nothing. Callers hold l.mu.
func (l *limiter) sweep(now time.Time) {
	for ip, c := range l.clients {
		if now.Sub(c.lastSeen) > l.window {
			delete(l.clients, ip)
		}
	}
}

// rateLimit rejects requests beyond l's budget with 429. A nil limiter
// passes everything through.
func (s *Server) rateLimit(l *limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			ok, wait := l.allow(ip)
			if !ok {
				observability.HTTP().OnRateLimited(r.Context(), l.name, ip)
				s.logger.Warn("rate limited", "bucket", l.name, "ip", ip, "retry_after", wait)
				writeError(w, &errors.RateLimitedError{
					RetryAfter: int(math.Ceil(wait.Seconds())),
					Message:    l.message,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from r.RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
