package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldtechnologies/inboxdesk/internal/ids"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimitRejectsAfterBudget(t *testing.T) {
	rl := NewRateLimiter(nil, zerolog.Nop(), RateLimiterConfig{SessionsPerMin: 2})
	h := rl.Middleware(ok)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// Another client has its own budget.
	req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
	req.RemoteAddr = "203.0.113.8:4000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitKeysOnSession(t *testing.T) {
	rl := NewRateLimiter(nil, zerolog.Nop(), RateLimiterConfig{ActionsPerMin: 1})
	h := rl.Middleware(ok)

	send := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "198.51.100.1:1"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	a, b := ids.NewSessionID(), ids.NewSessionID()
	assert.Equal(t, http.StatusOK, send("/sessions/"+a+"/send"))
	assert.Equal(t, http.StatusTooManyRequests, send("/sessions/"+a+"/call"))
	assert.Equal(t, http.StatusOK, send("/sessions/"+b+"/send"))
}

func TestRateLimitJunkIDsShareIPBucket(t *testing.T) {
	rl := NewRateLimiter(nil, zerolog.Nop(), RateLimiterConfig{ActionsPerMin: 5})
	h := rl.Middleware(ok)

	codes := make(map[int]int)
	for i := 0; i < 1000; i++ {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/sessions/junk-%d", i), nil)
		req.RemoteAddr = "198.51.100.9:1"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes[rec.Code]++
	}
	assert.Equal(t, 10, codes[http.StatusOK])
	assert.Equal(t, 1, rl.local.size())
}

func TestLimiterPoolSweepsIdleBuckets(t *testing.T) {
	p := &limiterPool{ttl: time.Minute, cleanupPeriod: time.Hour}
	start := time.Now()
	p.get("ratelimit:ip:a", 10, time.Minute, start)
	p.get("ratelimit:ip:b", 10, time.Hour, start)
	p.get("ratelimit:ip:c", 10, time.Minute, start.Add(50*time.Second))
	require.Equal(t, 3, p.size())

	assert.Equal(t, 0, p.sweep(start.Add(30*time.Second)))
	assert.Equal(t, 1, p.sweep(start.Add(90*time.Second)))
	assert.Equal(t, 2, p.size())

	// b keeps its bucket for its full window.
	assert.Equal(t, 1, p.sweep(start.Add(2*time.Minute)))
	assert.Equal(t, 1, p.sweep(start.Add(2*time.Hour)))
	assert.Equal(t, 0, p.size())
}

func TestRateLimitWhitelist(t *testing.T) {
	rl := NewRateLimiter(nil, zerolog.Nop(), RateLimiterConfig{
		SessionsPerMin: 1,
		Whitelist:      []string{"10.0.0.0/8", "192.0.2.1", "bad/cidr"},
	})
	h := rl.Middleware(ok)

	for _, addr := range []string{"10.1.2.3:1", "192.0.2.1:1"} {
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
			req.RemoteAddr = addr
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, addr)
		}
	}
}

func TestFindLimitPrefersLongestPattern(t *testing.T) {
	rl := NewRateLimiter(nil, zerolog.Nop(), RateLimiterConfig{})

	l := rl.findLimit(httptest.NewRequest(http.MethodPost, "/sessions", nil))
	require.NotNil(t, l)
	assert.Equal(t, "POST /sessions", l.Pattern)

	l = rl.findLimit(httptest.NewRequest(http.MethodPost, "/sessions/x/send", nil))
	require.NotNil(t, l)
	assert.Equal(t, "POST /sessions/", l.Pattern)

	assert.Nil(t, rl.findLimit(httptest.NewRequest(http.MethodGet, "/health", nil)))
}

func TestRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	assert.Equal(t, "192.0.2.10", RealIP(req))

	req.Header.Set("X-Real-IP", "192.0.2.11")
	assert.Equal(t, "192.0.2.11", RealIP(req))

	req.Header.Set("X-Forwarded-For", "192.0.2.12, 10.0.0.1")
	assert.Equal(t, "192.0.2.12", RealIP(req))

	req.Header.Set("Fly-Client-IP", "192.0.2.13")
	assert.Equal(t, "192.0.2.13", RealIP(req))
}

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/health":                          "/health",
		"/sessions":                        "/sessions",
		"/sessions/":                       "/sessions/",
		"/sessions/0192-abc":               "/sessions/:id",
		"/sessions/0192-abc/send":          "/sessions/:id/send",
		"/sessions/0192-abc/filter/toggle": "/sessions/:id/filter/toggle",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizePath(in), in)
	}
}

func TestValidateRequest(t *testing.T) {
	h := ValidateRequest(ok)

	req := httptest.NewRequest(http.MethodPut, "/sessions/a/search", strings.NewReader(`q=1`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/sessions/a/filter/toggle", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/sessions/a?next=javascript:alert", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/a", nil))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}
