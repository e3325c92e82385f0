package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/v-wei40680/mcp-linker/backend/common"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type memoryLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
}

func newMemoryLimiter(times int, window time.Duration) *memoryLimiter {
	return &memoryLimiter{
		visitors:  make(map[string]*visitor),
		limit:     rate.Limit(float64(times) / window.Seconds()),
		burst:     times,
		ttl:       3 * window,
		lastSweep: time.Now(),
	}
}

func (m *memoryLimiter) allow(key string) bool {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	if now.Sub(m.lastSweep) >= m.ttl {
		m.sweep(now)
	}
	v, ok := m.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.Allow()
}

// sweep drops visitors idle longer than the ttl, keeping the map bounded by
// the set of recently active clients. Caller holds the lock.
func (m *memoryLimiter) sweep(now time.Time) {
	for key, v := range m.visitors {
		if now.Sub(v.lastSeen) > m.ttl {
			delete(m.visitors, key)
		}
	}
	m.lastSweep = now
}

func redisAllow(c *gin.Context, mark string, times int, window time.Duration) (bool, error) {
	key := fmt.Sprintf("mcp-linker-rate:%s:%s", mark, c.ClientIP())
	ctx := c.Request.Context()
	count, err := common.RDB.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := common.RDB.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(times), nil
}

// RateLimit enforces a fixed window of `times` requests per client IP. Counts
// live in Redis when available so multiple instances share one budget;
// otherwise each instance keeps a per-IP token bucket in memory.
func RateLimit(mark string, times int, window time.Duration) gin.HandlerFunc {
	memory := newMemoryLimiter(times, window)
	return func(c *gin.Context) {
		allowed := true
		if common.RedisEnabled {
			ok, err := redisAllow(c, mark, times, window)
			if err != nil {
				common.SysError("rate limit check failed: " + err.Error())
				ok = memory.allow(c.ClientIP())
			}
			allowed = ok
		} else {
			allowed = memory.allow(c.ClientIP())
		}
		if !allowed {
			common.RespErrorStr(c, http.StatusTooManyRequests, "Too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}

func GlobalAPIRateLimit() gin.HandlerFunc {
	return RateLimit("global", 480, 3*time.Minute)
}

func CriticalRateLimit() gin.HandlerFunc {
	return RateLimit("critical", 30, 20*time.Minute)
}
