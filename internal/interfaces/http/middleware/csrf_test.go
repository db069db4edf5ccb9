package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"helpdesk/internal/shared/constants"
)

func newCSRFEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := engine.Group("/api", CSRF())
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	api.GET("/tickets", ok)
	api.POST("/tickets", ok)
	api.POST("/auth/login", ok)
	return engine
}

func TestCSRF(t *testing.T) {
	engine := newCSRFEngine()

	tests := []struct {
		name   string
		method string
		path   string
		cookie string
		header string
		status int
	}{
		{"safe method", http.MethodGet, "/api/tickets", "", "", http.StatusOK},
		{"exempt login", http.MethodPost, "/api/auth/login", "", "", http.StatusOK},
		{"missing cookie", http.MethodPost, "/api/tickets", "", "abc", http.StatusForbidden},
		{"missing header", http.MethodPost, "/api/tickets", "abc", "", http.StatusForbidden},
		{"mismatch", http.MethodPost, "/api/tickets", "abc", "abd", http.StatusForbidden},
		{"match", http.MethodPost, "/api/tickets", "abc", "abc", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: constants.CookieCSRFToken, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(constants.HeaderCSRFToken, tt.header)
			}
			w := httptest.NewRecorder()

			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
