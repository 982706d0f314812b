package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/time/rate"

	"github.com/turtacn/claims-intake/pkg/errors"
	"github.com/turtacn/claims-intake/pkg/types/common"
)

// RateLimitConfig bounds how fast a single client address may call the
// wrapped routes. A non-positive RPS disables limiting.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// IPRateLimiter hands out one token bucket per client address.
type IPRateLimiter struct {
	limit    rate.Limit
	burst    int
	limiters sync.Map // string -> *rate.Limiter
}

// NewIPRateLimiter returns nil when cfg disables limiting.
func NewIPRateLimiter(cfg RateLimitConfig) *IPRateLimiter {
	if cfg.RPS <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = int(cfg.RPS)
		if burst < 1 {
			burst = 1
		}
	}
	return &IPRateLimiter{limit: rate.Limit(cfg.RPS), burst: burst}
}

// Allow consumes one token for ip.
func (l *IPRateLimiter) Allow(ip string) bool {
	if v, ok := l.limiters.Load(ip); ok {
		return v.(*rate.Limiter).Allow()
	}
	v, _ := l.limiters.LoadOrStore(ip, rate.NewLimiter(l.limit, l.burst))
	return v.(*rate.Limiter).Allow()
}

// RateLimit rejects requests over the per-address budget with 429. It runs
// after chi's RealIP, so RemoteAddr already reflects forwarding headers.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	limiter := NewIPRateLimiter(cfg)
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.burst))
			if !limiter.Allow(clientIP(r)) {
				retry := 1
				if float64(limiter.limit) < 1 {
					retry = int(1/float64(limiter.limit)) + 1
				}
				err := errors.New(errors.ErrCodeRateLimited, errors.ErrorCodeMessage[errors.ErrCodeRateLimited])
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(errors.HTTPStatus(err))
				_ = json.NewEncoder(w).Encode(common.ErrorResponse{Error: errors.PublicMessage(err)})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

//Personal.AI order the ending
