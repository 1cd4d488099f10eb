package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/fitkeeper/fitkeeper/config"
	"github.com/fitkeeper/fitkeeper/utils"
)

// Idle visitors are forgotten after this long so the map cannot grow
// unbounded under address churn.
const visitorIdleTTL = 5 * time.Minute

type visitor struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

var (
	visitors   = map[string]*visitor{}
	visitorsMu sync.Mutex
)

// RateLimit returns a token-bucket limiter keyed per client IP within a
// named scope, so the login endpoints do not share buckets with anything
// else that adopts the middleware later. The refill rate comes from
// RateLimitPerMinute; the burst is half of it.
func RateLimit(scope string) gin.HandlerFunc {
	perMinute := config.Get().RateLimitPerMinute
	if perMinute < 1 {
		perMinute = 1
	}
	refill := rate.Every(time.Minute / time.Duration(perMinute))
	burst := perMinute / 2
	if burst < 1 {
		burst = 1
	}

	return func(ctx *gin.Context) {
		if !visitorBucket(scope+":"+ctx.ClientIP(), refill, burst).Allow() {
			utils.Error(ctx, http.StatusTooManyRequests, 42901, "rate limit exceeded")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// visitorBucket returns the bucket for a key, creating it on first sight and
// sweeping idle entries while the lock is held. rate.Limiter is safe for
// concurrent use, so no per-bucket locking is needed.
func visitorBucket(key string, refill rate.Limit, burst int) *rate.Limiter {
	visitorsMu.Lock()
	defer visitorsMu.Unlock()

	now := time.Now()
	for k, v := range visitors {
		if now.Sub(v.lastSeen) > visitorIdleTTL {
			delete(visitors, k)
		}
	}

	v, ok := visitors[key]
	if !ok {
		v = &visitor{bucket: rate.NewLimiter(refill, burst)}
		visitors[key] = v
	}
	v.lastSeen = now
	return v.bucket
}
