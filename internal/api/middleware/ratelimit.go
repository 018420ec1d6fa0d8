package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/api/response"
	"golang.org/x/time/rate"
)

// limiterIdle is how long a client may stay silent before its limiter is dropped.
const limiterIdle = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP with a token bucket.
type RateLimiter struct {
	rps   rate.Limit
	burst int

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter allows rps requests per second per client with bursts of burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

// limiterFor returns the limiter of ip, dropping idle clients at most once per limiterIdle.
func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	t := rl.now()
	if t.Sub(rl.lastSweep) > limiterIdle {
		for key, c := range rl.clients {
			if t.Sub(c.lastSeen) > limiterIdle {
				delete(rl.clients, key)
			}
		}
		rl.lastSweep = t
	}

	c, ok := rl.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = t
	return c.limiter
}

// clientIP strips the port from RemoteAddr. Run chi's RealIP first behind a proxy.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// Handler rejects requests over the limit with 429 and a Retry-After header.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := rl.limiterFor(clientIP(r))

		if !limiter.AllowN(rl.now(), 1) {
			reservation := limiter.ReserveN(rl.now(), 1)
			retryAfter := reservation.DelayFrom(rl.now()).Seconds()
			reservation.Cancel()

			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter))))
			response.RespondError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later",
				map[string]float64{"retry_after": retryAfter})
			return
		}

		next.ServeHTTP(w, r)
	})
}
