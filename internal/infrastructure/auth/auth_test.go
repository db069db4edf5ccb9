package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/domain/user"
	vo "helpdesk/internal/domain/user/valueobjects"
	"helpdesk/internal/infrastructure/kvstore"
	"helpdesk/internal/infrastructure/token"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type stubUsers map[uint]*user.User

func (s stubUsers) GetByID(_ context.Context, id uint) (*user.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, errors.NewNotFoundError("User not found")
}

func testUsers(t *testing.T) stubUsers {
	t.Helper()
	email, err := vo.NewEmail("john.agent@gmail.com")
	require.NoError(t, err)
	u, err := user.ReconstructUser(2, "John Agent", email, "hash", vo.RoleAgent, time.Now(), time.Now())
	require.NoError(t, err)
	return stubUsers{2: u}
}

func TestBcryptPasswordHasher(t *testing.T) {
	h := NewBcryptPasswordHasher(4)

	hash, err := h.Hash("agent123")
	require.NoError(t, err)
	assert.NotEqual(t, "agent123", hash)
	assert.NoError(t, h.Verify("agent123", hash))
	assert.Error(t, h.Verify("wrong", hash))
	assert.Error(t, h.Verify("agent123", "not-a-hash"))
}

func TestNewBcryptPasswordHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, 10, NewBcryptPasswordHasher(0).cost)
	assert.Equal(t, 10, NewBcryptPasswordHasher(99).cost)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"abc", ""},
		{"", ""},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, BearerToken(r), tt.header)
	}
}

func TestBearerTokenProvider(t *testing.T) {
	ctx := context.Background()
	store := token.NewFileStore(kvstore.NewMemory[token.Record](), logger.NewNopLogger())
	p := NewBearerTokenProvider(store, testUsers(t), logger.NewNopLogger())

	tok, err := p.Login(ctx, httptest.NewRecorder(), 2)
	require.NoError(t, err)
	require.Len(t, tok, 64)

	r := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	r.Header.Set("Authorization", "Bearer "+tok)

	actor, err := p.Resolve(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, uint(2), actor.ID)
	assert.Equal(t, vo.RoleAgent, actor.Role)

	require.NoError(t, p.Logout(ctx, httptest.NewRecorder(), r))
	_, err = p.Resolve(ctx, r)
	assert.True(t, errors.IsUnauthorizedError(err))
}

func TestBearerTokenProvider_UnknownUser(t *testing.T) {
	ctx := context.Background()
	store := token.NewFileStore(kvstore.NewMemory[token.Record](), logger.NewNopLogger())
	p := NewBearerTokenProvider(store, testUsers(t), logger.NewNopLogger())

	tok, err := store.Issue(ctx, 99)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	_, err = p.Resolve(ctx, r)
	assert.True(t, errors.IsUnauthorizedError(err))
}

func TestSessionProvider(t *testing.T) {
	ctx := context.Background()
	p, err := NewSessionProvider(SessionOptions{
		Secret: "0123456789abcdef0123456789abcdef",
		TTL:    time.Hour,
	}, testUsers(t), logger.NewNopLogger())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	tok, err := p.Login(ctx, w, 2)
	require.NoError(t, err)
	assert.Empty(t, tok)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, DefaultCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, constants.CookieCSRFToken, cookies[1].Name)
	assert.False(t, cookies[1].HttpOnly)
	assert.Len(t, cookies[1].Value, 64)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	actor, err := p.Resolve(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, uint(2), actor.ID)

	p.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = p.Resolve(ctx, r)
	assert.True(t, errors.IsUnauthorizedError(err))
}

func TestSessionProvider_RejectsTampering(t *testing.T) {
	p, err := NewSessionProvider(SessionOptions{Secret: "0123456789abcdef0123456789abcdef"}, testUsers(t), logger.NewNopLogger())
	require.NoError(t, err)

	other, err := NewSessionProvider(SessionOptions{Secret: "fedcba9876543210fedcba9876543210"}, testUsers(t), logger.NewNopLogger())
	require.NoError(t, err)
	forged, err := other.sign(2)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: forged})
	_, err = p.Resolve(context.Background(), r)
	assert.True(t, errors.IsUnauthorizedError(err))
}

func TestNewSessionProvider_ShortSecret(t *testing.T) {
	_, err := NewSessionProvider(SessionOptions{Secret: "short"}, testUsers(t), logger.NewNopLogger())
	assert.Error(t, err)
}
