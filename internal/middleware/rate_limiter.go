package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fakhrymubarak/forecast-api/internal/model"
	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter decides whether one more request for key is allowed right now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// the visitor holds the rate limiter and last seen time for a specific key.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps one token bucket per key in process memory.
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
}

// NewMemoryLimiter allows perMinute requests per minute per key with the given burst.
// Keys idle for longer than ttl are dropped by Cleanup.
func NewMemoryLimiter(perMinute float64, burst int, ttl time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(perMinute / 60.0),
		burst:    burst,
		ttl:      ttl,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	v, exists := m.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.visitors[key] = v
	}
	v.lastSeen = time.Now()
	m.mu.Unlock()
	return v.limiter.Allow(), nil
}

// Cleanup removes visitors that have not been seen for longer than the ttl.
func (m *MemoryLimiter) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, v := range m.visitors {
		if time.Since(v.lastSeen) > m.ttl {
			delete(m.visitors, key)
		}
	}
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (m *MemoryLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Cleanup()
			}
		}
	}()
}

// Reset clears all visitor state. Used primarily for testing.
func (m *MemoryLimiter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.visitors {
		delete(m.visitors, k)
	}
}

// Len reports how many keys are tracked.
func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.visitors)
}

// RedisLimiter counts requests per key in fixed windows stored in redis, so
// every replica pointing at the same server shares one budget.
type RedisLimiter struct {
	client redisv9.Cmdable
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewRedisLimiter allows limit requests per key in each window.
func NewRedisLimiter(client redisv9.Cmdable, prefix string, limit int64, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := l.now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit counter %s: %w", redisKey, err)
	}
	return incr.Val() <= l.limit, nil
}

// RateLimiter enforces a per-IP budget and a per-IP-and-query-value budget.
type RateLimiter struct {
	global   Limiter
	param    Limiter
	paramKey string
	logger   *zap.SugaredLogger
}

// NewRateLimiter builds the middleware. paramKey names the query parameter used
// for the second budget; requests without it share one bucket per IP.
func NewRateLimiter(global, param Limiter, paramKey string, logger *zap.SugaredLogger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &RateLimiter{
		global:   global,
		param:    param,
		paramKey: paramKey,
		logger:   logger,
	}
}

// getIP extracts the client's IP address from the HTTP request, considering X-Forwarded-For headers.
func getIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr // fallback
	}
	return ip
}

func (rl *RateLimiter) allow(ctx context.Context, l Limiter, key string) bool {
	ok, err := l.Allow(ctx, key)
	if err != nil {
		rl.logger.Warnw("Rate limiter unavailable, allowing request", "key", key, "error", err)
		return true
	}
	return ok
}

func writeTooManyRequests(w http.ResponseWriter, errMsg, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(model.NewErrorResponse(errMsg, message))
}

// Middleware returns an HTTP middleware that enforces global and per-parameter rate limiting.
// If the rate limit is exceeded, it responds with a 429 status and a JSON error message.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getIP(r)
		param := r.URL.Query().Get(rl.paramKey)
		if param == "" {
			// If param is missing, treat as a single bucket
			param = "__none__"
		}

		if !rl.allow(r.Context(), rl.global, ip) {
			writeTooManyRequests(w, "Rate limit exceeded for this client", "Too Many Requests (global limit)")
			return
		}
		if !rl.allow(r.Context(), rl.param, ip+"|"+param) {
			writeTooManyRequests(w, "Rate limit exceeded for this client and "+rl.paramKey, "Too Many Requests (per-param limit)")
			return
		}
		next.ServeHTTP(w, r)
	})
}
