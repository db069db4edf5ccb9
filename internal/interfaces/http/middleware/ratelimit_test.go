package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/infrastructure/kvstore"
	"helpdesk/internal/infrastructure/ratelimit"
	"helpdesk/internal/shared/logger"
)

func newLimitedEngine(t *testing.T, proxies []string) (*gin.Engine, ratelimit.RateLimiter) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	limiter := ratelimit.NewFileRateLimiter(kvstore.NewMemory[[]int64](), logger.NewNopLogger())
	rl := NewRateLimiter(limiter, logger.NewNopLogger())

	engine := gin.New()
	require.NoError(t, TrustProxies(engine, proxies, []string{"X-Forwarded-For", "X-Real-IP"}))
	engine.POST("/api/auth/login",
		rl.Limit("login", ratelimit.Rule{Max: 3, Window: time.Hour}, ByClientIP),
		func(c *gin.Context) { c.String(http.StatusOK, c.ClientIP()) },
	)
	return engine, limiter
}

func postFrom(engine *gin.Engine, remoteAddr string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestByClientIP_IgnoresSpoofedHeaders(t *testing.T) {
	engine, limiter := newLimitedEngine(t, nil)

	for i := 0; i < 3; i++ {
		w := postFrom(engine, "203.0.113.9:40000", map[string]string{
			"X-Forwarded-For": fmt.Sprintf("attempt-%d", i),
			"X-Real-IP":       fmt.Sprintf("10.0.0.%d", i),
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "203.0.113.9", w.Body.String())
	}

	w := postFrom(engine, "203.0.113.9:40001", map[string]string{"X-Forwarded-For": "not-an-ip"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	res, err := limiter.Remaining(context.Background(), "attempt-0", "login", ratelimit.Rule{Max: 3, Window: time.Hour})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Remaining, "header values never become identifiers")
}

func TestByClientIP_TrustedProxy(t *testing.T) {
	engine, _ := newLimitedEngine(t, []string{"10.0.0.0/8"})

	w := postFrom(engine, "10.1.2.3:5000", map[string]string{"X-Forwarded-For": "198.51.100.7"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "198.51.100.7", w.Body.String())

	w = postFrom(engine, "10.1.2.3:5000", map[string]string{"X-Forwarded-For": "not-an-ip"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10.1.2.3", w.Body.String())

	w = postFrom(engine, "192.0.2.50:5000", map[string]string{"X-Forwarded-For": "198.51.100.7"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "192.0.2.50", w.Body.String(), "untrusted peer cannot forward")
}

func TestTrustProxies_RejectsInvalid(t *testing.T) {
	assert.Error(t, TrustProxies(gin.New(), []string{"not-a-cidr/99"}, nil))
}
