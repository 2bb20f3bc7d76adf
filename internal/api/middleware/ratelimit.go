package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/eldtechnologies/inboxdesk/internal/ids"
	"github.com/eldtechnologies/inboxdesk/internal/metrics"
)

// RateLimit defines limits for an endpoint pattern.
type RateLimit struct {
	Pattern  string // "METHOD /path-prefix"
	Requests int
	Window   time.Duration
	KeyFunc  func(r *http.Request) string
}

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	Whitelist      []string // IPs or CIDRs exempt from rate limiting
	ActionsPerMin  int      // Per-session action budget
	SessionsPerMin int      // Per-IP session creation budget
}

// RateLimiter counts requests in Redis when a client is given, and in
// process token buckets otherwise.
type RateLimiter struct {
	client       *redis.Client
	local        *limiterPool
	limits       []RateLimit
	logger       zerolog.Logger
	whitelist    []*net.IPNet
	whitelistIPs map[string]bool
}

// NewRateLimiter creates a new rate limiter. client may be nil.
func NewRateLimiter(client *redis.Client, logger zerolog.Logger, cfg RateLimiterConfig) *RateLimiter {
	actions := cfg.ActionsPerMin
	if actions <= 0 {
		actions = 600
	}
	creates := cfg.SessionsPerMin
	if creates <= 0 {
		creates = 30
	}

	rl := &RateLimiter{
		client:       client,
		local:        &limiterPool{},
		logger:       logger,
		whitelistIPs: make(map[string]bool),
		limits: []RateLimit{
			{"POST /sessions", creates, time.Minute, ipKey},
			{"GET /sessions/", actions * 2, time.Minute, sessionOrIPKey},
			{"PUT /sessions/", actions, time.Minute, sessionOrIPKey},
			{"POST /sessions/", actions, time.Minute, sessionOrIPKey},
			{"DELETE /sessions/", actions, time.Minute, sessionOrIPKey},
		},
	}

	// Parse whitelist entries
	for _, entry := range cfg.Whitelist {
		if strings.Contains(entry, "/") {
			// CIDR notation
			_, ipNet, err := net.ParseCIDR(entry)
			if err != nil {
				logger.Warn().Str("entry", entry).Err(err).Msg("invalid CIDR in whitelist")
				continue
			}
			rl.whitelist = append(rl.whitelist, ipNet)
		} else {
			// Single IP
			rl.whitelistIPs[entry] = true
		}
	}

	if len(cfg.Whitelist) > 0 {
		logger.Info().
			Int("ips", len(rl.whitelistIPs)).
			Int("cidrs", len(rl.whitelist)).
			Msg("rate limit whitelist configured")
	}

	return rl
}

// isWhitelisted checks if an IP is in the whitelist.
func (rl *RateLimiter) isWhitelisted(ipStr string) bool {
	// Check exact IP match
	if rl.whitelistIPs[ipStr] {
		return true
	}

	// Check CIDR ranges
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	for _, ipNet := range rl.whitelist {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return false
}

// ipKey returns rate limit key based on client IP.
func ipKey(r *http.Request) string {
	return "ratelimit:ip:" + RealIP(r)
}

// sessionOrIPKey keys on the session in /sessions/{id}/..., else the client IP.
// Ids that are not session ids share the caller's IP bucket.
func sessionOrIPKey(r *http.Request) string {
	if id := sessionFromPath(r.URL.Path); ids.ValidSessionID(id) {
		return "ratelimit:session:" + id
	}
	return ipKey(r)
}

func sessionFromPath(path string) string {
	rest, ok := strings.CutPrefix(path, "/sessions/")
	if !ok {
		return ""
	}
	id, _, _ := strings.Cut(rest, "/")
	return id
}

// RealIP extracts the real client IP from headers or connection.
func RealIP(r *http.Request) string {
	// Check Fly.io header first
	if ip := r.Header.Get("Fly-Client-IP"); ip != "" {
		return ip
	}
	// Then X-Forwarded-For
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return strings.TrimSpace(strings.Split(ip, ",")[0])
	}
	// Then X-Real-IP
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	// Fallback to RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// CheckAndIncrement checks rate limit and increments counter.
// Returns (allowed, remaining, resetAt).
func (rl *RateLimiter) CheckAndIncrement(ctx context.Context, key string, limit int, window time.Duration) (bool, int, time.Time) {
	if rl.client == nil {
		return rl.local.allow(key, limit, window)
	}

	now := time.Now()
	windowStart := now.Add(-window)

	// Use a fixed window key based on current time bucket
	windowKey := fmt.Sprintf("%s:%d", key, now.Unix()/int64(window.Seconds()))

	pipe := rl.client.Pipeline()

	// Remove old entries outside window
	pipe.ZRemRangeByScore(ctx, windowKey, "-inf", fmt.Sprintf("%d", windowStart.UnixMilli()))

	// Count current entries
	countCmd := pipe.ZCard(ctx, windowKey)

	// Add current request with unique member
	pipe.ZAdd(ctx, windowKey, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: fmt.Sprintf("%d", now.UnixNano()),
	})

	// Set TTL on key
	pipe.Expire(ctx, windowKey, window*2)

	start := time.Now()
	_, err := pipe.Exec(ctx)
	metrics.RedisLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		// Fail open, but keep counting locally
		rl.logger.Warn().Err(err).Str("key", key).Msg("redis rate limit unavailable")
		return rl.local.allow(key, limit, window)
	}

	count := countCmd.Val()
	remaining := limit - int(count) - 1
	if remaining < 0 {
		remaining = 0
	}

	resetAt := now.Add(window)
	allowed := count < int64(limit)

	return allowed, remaining, resetAt
}

// Middleware returns the rate limiting middleware.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := RealIP(r)

		// Skip rate limiting for whitelisted IPs
		if rl.isWhitelisted(ip) {
			next.ServeHTTP(w, r)
			return
		}

		// Find matching limit
		limit := rl.findLimit(r)
		if limit == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := limit.KeyFunc(r)
		allowed, remaining, resetAt := rl.CheckAndIncrement(r.Context(), key, limit.Requests, limit.Window)

		// Set rate limit headers
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(time.Until(resetAt).Seconds())))
			metrics.RateLimitHits.WithLabelValues(limit.Pattern).Inc()

			rl.logger.Warn().
				Str("type", "security").
				Str("event", "rate_limit_exceeded").
				Str("ip", ip).
				Str("session", sessionFromPath(r.URL.Path)).
				Str("endpoint", r.URL.Path).
				Str("key", key).
				Msg("rate limit exceeded")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"rate limit exceeded"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// findLimit returns the limit with the longest pattern matching the request.
func (rl *RateLimiter) findLimit(r *http.Request) *RateLimit {
	key := r.Method + " " + r.URL.Path

	var best *RateLimit
	for i := range rl.limits {
		l := &rl.limits[i]
		if !strings.HasPrefix(key, l.Pattern) {
			continue
		}
		if best == nil || len(l.Pattern) > len(best.Pattern) {
			best = l
		}
	}
	return best
}

// limiterPool holds one token bucket per key. Buckets idle for longer than
// the TTL (and at least their window) are dropped by a background sweep.
type limiterPool struct {
	mu            sync.Mutex
	m             map[string]*limiterEntry
	startCleanup  sync.Once
	ttl           time.Duration
	cleanupPeriod time.Duration
}

type limiterEntry struct {
	l        *rate.Limiter
	window   time.Duration
	lastSeen time.Time
}

func (p *limiterPool) get(key string, limit int, window time.Duration, now time.Time) *rate.Limiter {
	p.startCleanup.Do(func() {
		if p.ttl == 0 {
			p.ttl = 10 * time.Minute
		}
		if p.cleanupPeriod == 0 {
			p.cleanupPeriod = time.Minute
		}
		go p.cleanupLoop()
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == nil {
		p.m = make(map[string]*limiterEntry)
	}
	bucket := fmt.Sprintf("%s:%d:%s", key, limit, window)
	if e, ok := p.m[bucket]; ok {
		e.lastSeen = now
		return e.l
	}
	l := rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)
	p.m[bucket] = &limiterEntry{l: l, window: window, lastSeen: now}
	return l
}

func (p *limiterPool) allow(key string, limit int, window time.Duration) (bool, int, time.Time) {
	now := time.Now()
	l := p.get(key, limit, window, now)
	allowed := l.AllowN(now, 1)
	remaining := int(l.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining, now.Add(window / time.Duration(limit))
}

func (p *limiterPool) cleanupLoop() {
	ticker := time.NewTicker(p.cleanupPeriod)
	defer ticker.Stop()
	for now := range ticker.C {
		p.sweep(now)
	}
}

// sweep removes idle buckets and returns how many were removed. A bucket
// idle for a full window has refilled, so dropping it loses no state.
func (p *limiterPool) sweep(now time.Time) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	removed := 0
	for k, e := range p.m {
		idle := p.ttl
		if e.window > idle {
			idle = e.window
		}
		if now.Sub(e.lastSeen) > idle {
			delete(p.m, k)
			removed++
		}
	}
	return removed
}

func (p *limiterPool) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.m)
}
