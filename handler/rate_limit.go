package handler

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/Oddscorp-AI/banking-transfer/common"
	"github.com/Oddscorp-AI/banking-transfer/logger"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window request counter per client IP kept in Redis.
// A nil client disables it.
type RateLimiter struct {
	client   redis.Cmdable
	requests int64
	window   time.Duration
}

func NewRateLimiter(client redis.Cmdable, requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, requests: int64(requests), window: window}
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	if l == nil || l.client == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		key := "ratelimit:" + clientIP(r)

		count, err := l.client.Incr(ctx, key).Result()
		if err != nil {
			// Fail open while Redis is unreachable.
			logger.Log.WithError(err).Warn("Rate limiter unavailable, letting request through")
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
				logger.Log.WithError(err).Warn("Could not set rate limit window")
			}
		}

		if count > l.requests {
			retryAfter := l.window
			if ttl, err := l.client.TTL(ctx, key).Result(); err == nil && ttl > 0 {
				retryAfter = ttl
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds()+0.5)))
			common.NewAppError(http.StatusTooManyRequests, "Too many requests", nil).Send(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
