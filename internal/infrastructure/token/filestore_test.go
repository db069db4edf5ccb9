package token

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/infrastructure/kvstore"
	"helpdesk/internal/shared/logger"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFileStore(t *testing.T) (*FileStore, *fakeClock, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tokens.json")
	kv, err := kvstore.NewJSONFile[Record](path)
	require.NoError(t, err)
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	return NewFileStore(kv, logger.NewNopLogger(), WithClock(clock.Now)), clock, path
}

func TestGenerate(t *testing.T) {
	g := NewGenerator()
	a, err := g.Generate()
	require.NoError(t, err)
	b, err := g.Generate()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Len(t, g.Hash(a), 64)
	assert.NotEqual(t, a, g.Hash(a))
}

func TestIssueThenValidate(t *testing.T) {
	s, _, _ := newFileStore(t)
	ctx := context.Background()

	tok, err := s.Issue(ctx, 7)
	require.NoError(t, err)

	userID, ok, err := s.Validate(ctx, tok)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(7), userID)

	_, ok, err = s.Validate(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExpiredTokenIsEvicted(t *testing.T) {
	s, clock, path := newFileStore(t)
	ctx := context.Background()

	tok, err := s.Issue(ctx, 7)
	require.NoError(t, err)

	clock.Advance(DefaultTTL)
	_, ok, err := s.Validate(ctx, tok)
	require.NoError(t, err)
	assert.True(t, ok, "still valid at exactly expires_at")

	clock.Advance(time.Second)
	_, ok, err = s.Validate(ctx, tok)
	require.NoError(t, err)
	assert.False(t, ok)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var data map[string]Record
	require.NoError(t, json.Unmarshal(raw, &data))
	assert.NotContains(t, data, tok)
}

func TestPersistedShape(t *testing.T) {
	s, clock, path := newFileStore(t)

	tok, err := s.Issue(context.Background(), 3)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var data map[string]Record
	require.NoError(t, json.Unmarshal(raw, &data))
	assert.Equal(t, Record{
		UserID:    3,
		CreatedAt: clock.Now().Unix(),
		ExpiresAt: clock.Now().Add(24 * time.Hour).Unix(),
	}, data[tok])
}

func TestRevoke(t *testing.T) {
	s, _, _ := newFileStore(t)
	ctx := context.Background()

	tok, err := s.Issue(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, s.Revoke(ctx, tok))
	require.NoError(t, s.Revoke(ctx, tok), "idempotent")

	_, ok, err := s.Validate(ctx, tok)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRevokeUser(t *testing.T) {
	s, _, _ := newFileStore(t)
	ctx := context.Background()

	a, _ := s.Issue(ctx, 1)
	b, _ := s.Issue(ctx, 1)
	c, _ := s.Issue(ctx, 2)

	require.NoError(t, s.RevokeUser(ctx, 1))

	for tok, want := range map[string]bool{a: false, b: false, c: true} {
		_, ok, err := s.Validate(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, want, ok)
	}
}

func TestCleanExpired(t *testing.T) {
	kv := kvstore.NewMemory[Record]()
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	s := NewFileStore(kv, logger.NewNopLogger(), WithClock(clock.Now), WithTTL(time.Hour))
	ctx := context.Background()

	_, err := s.Issue(ctx, 1)
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)
	fresh, err := s.Issue(ctx, 2)
	require.NoError(t, err)
	clock.Advance(45 * time.Minute)

	removed, err := s.CleanExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, ok, err := s.Validate(ctx, fresh)
	require.NoError(t, err)
	assert.True(t, ok)
}
