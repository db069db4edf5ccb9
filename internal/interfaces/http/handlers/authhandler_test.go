package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authUsecases "helpdesk/internal/application/auth/usecases"
	"helpdesk/internal/application/testutil"
	"helpdesk/internal/application/user/dto"
	vo "helpdesk/internal/domain/user/valueobjects"
	"helpdesk/internal/infrastructure/auth"
	"helpdesk/internal/infrastructure/kvstore"
	"helpdesk/internal/infrastructure/ratelimit"
	"helpdesk/internal/infrastructure/token"
	httptestutil "helpdesk/internal/interfaces/http/handlers/testutil"
	"helpdesk/internal/interfaces/http/middleware"
	"helpdesk/internal/shared/logger"
)

type authEnv struct {
	store   *testutil.Store
	limiter *testutil.MockLimiter
	engine  *gin.Engine
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()
	log := logger.NewNopLogger()
	store := testutil.NewStore()
	limiter := &testutil.MockLimiter{}
	tokens := token.NewFileStore(kvstore.NewMemory[token.Record](), log)
	provider := auth.NewBearerTokenProvider(tokens, store.Users(), log)

	h := NewAuthHandler(
		authUsecases.NewRegisterUseCase(store.Users(), testutil.PlainHasher{}, log),
		authUsecases.NewLoginUseCase(store.Users(), testutil.PlainHasher{}, limiter, ratelimit.Rule{Max: 10, Window: time.Hour}, log),
		authUsecases.NewGetProfileUseCase(store.Users(), log),
		provider,
		log,
	)
	authMW := middleware.NewAuthMiddleware(provider, log)

	engine := gin.New()
	g := engine.Group("/api/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/logout", authMW.RequireAuth(), h.Logout)
	g.GET("/profile", authMW.RequireAuth(), h.Profile)

	return &authEnv{store: store, limiter: limiter, engine: engine}
}

func (e *authEnv) do(method, path string, body any, bearer string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_RegisterLoginProfileLogout(t *testing.T) {
	env := newAuthEnv(t)

	w := env.do(http.MethodPost, "/api/auth/register", dto.RegisterRequest{
		Name: "Jane Doe", Email: "jane@example.com", Password: "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var registered dto.AuthResponse
	_, err := httptestutil.DecodeData(w, &registered)
	require.NoError(t, err)
	assert.Equal(t, "user", registered.User.Role)
	assert.NotEmpty(t, registered.Token)

	w = env.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "jane@example.com", Password: "secret123"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var login dto.AuthResponse
	_, err = httptestutil.DecodeData(w, &login)
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)
	assert.NotEqual(t, registered.Token, login.Token)

	w = env.do(http.MethodGet, "/api/auth/profile", nil, login.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var profile dto.UserResponse
	_, err = httptestutil.DecodeData(w, &profile)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", profile.Email)

	w = env.do(http.MethodPost, "/api/auth/logout", nil, login.Token)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/auth/profile", nil, login.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "revoked token")

	w = env.do(http.MethodGet, "/api/auth/profile", nil, registered.Token)
	assert.Equal(t, http.StatusOK, w.Code, "other tokens stay valid")
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	env := newAuthEnv(t)
	env.store.AddUser("Taken", "taken@example.com", vo.RoleUser)

	tests := []struct {
		name   string
		body   dto.RegisterRequest
		status int
	}{
		{"short password", dto.RegisterRequest{Name: "A", Email: "a@example.com", Password: "123"}, http.StatusBadRequest},
		{"bad email", dto.RegisterRequest{Name: "A", Email: "not-an-email", Password: "secret123"}, http.StatusBadRequest},
		{"missing name", dto.RegisterRequest{Email: "a@example.com", Password: "secret123"}, http.StatusBadRequest},
		{"duplicate", dto.RegisterRequest{Name: "A", Email: "taken@example.com", Password: "secret123"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/auth/register", tt.body, "")
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	env := newAuthEnv(t)
	env.store.AddUser("Jane", "jane@example.com", vo.RoleUser)

	w := env.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "jane@example.com", Password: "nope"}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Len(t, env.limiter.Recorded, 1)
}

func TestAuthHandler_Login_RateLimited(t *testing.T) {
	env := newAuthEnv(t)
	env.limiter.CheckAndRecordFunc = func(context.Context, string, string, ratelimit.Rule, bool) (ratelimit.Result, error) {
		return ratelimit.Result{Allowed: false, Limit: 10, ResetAt: time.Now().Add(30 * time.Minute)}, nil
	}

	w := env.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "jane@example.com", Password: "secret123"}, "")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestAuthHandler_Profile_RequiresToken(t *testing.T) {
	env := newAuthEnv(t)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/auth/profile", nil, "").Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/auth/profile", nil, "deadbeef").Code)
}
