package httpmiddleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces a fixed per-minute request budget per client IP.
// Counters live in Redis so limits hold across replicas; when Redis is
// unreachable the limiter degrades to a per-process in-memory window.
type RateLimiter struct {
	rdb       *redis.Client
	perMinute int

	mu    sync.Mutex
	local map[string]*window
}

type window struct {
	count int
	start time.Time
}

// NewRateLimiter creates a limiter allowing perMinute requests per IP.
func NewRateLimiter(rdb *redis.Client, perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	return &RateLimiter{
		rdb:       rdb,
		perMinute: perMinute,
		local:     make(map[string]*window),
	}
}

// GinMiddleware returns a gin handler enforcing per-IP limits.
func (l *RateLimiter) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !l.allow(c.Request.Context(), ip) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit"})
			return
		}
		c.Next()
	}
}

func (l *RateLimiter) allow(ctx context.Context, ip string) bool {
	if l.rdb != nil {
		if ok, err := l.allowRedis(ctx, ip); err == nil {
			return ok
		}
	}
	return l.allowLocal(ip)
}

// allowRedis counts requests in a fixed one-minute bucket via INCR/EXPIRE.
func (l *RateLimiter) allowRedis(ctx context.Context, ip string) (bool, error) {
	bucket := time.Now().Unix() / 60
	key := "ratelimit:" + ip + ":" + strconv.FormatInt(bucket, 10)

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		l.rdb.Expire(ctx, key, time.Minute)
	}
	return count <= int64(l.perMinute), nil
}

func (l *RateLimiter) allowLocal(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.local[ip]
	if !ok || now.Sub(w.start) >= time.Minute {
		l.local[ip] = &window{count: 1, start: now}
		return true
	}
	w.count++
	return w.count <= l.perMinute
}
