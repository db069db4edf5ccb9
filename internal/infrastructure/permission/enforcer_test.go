package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"helpdesk/internal/domain/access"
	vo "helpdesk/internal/domain/user/valueobjects"
	"helpdesk/internal/shared/logger"
)

func seededMemoryEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewMemoryEnforcer(logger.NewNopLogger())
	require.NoError(t, err)
	_, err = e.SeedDefaults(access.DefaultGrants())
	require.NoError(t, err)
	return e
}

func TestEnforcer_MatchesStaticMatrix(t *testing.T) {
	e := seededMemoryEnforcer(t)
	static := access.StaticMatrix()

	all := access.DefaultGrants()[vo.RoleAdmin]
	for _, role := range []vo.Role{vo.RoleUser, vo.RoleAgent, vo.RoleAdmin} {
		for _, action := range all {
			assert.Equal(t, static.Allows(role, action), e.Allows(role, action), "%s %s", role, action)
		}
	}
}

func TestEnforcer_SeedIsIdempotent(t *testing.T) {
	e := seededMemoryEnforcer(t)

	added, err := e.SeedDefaults(access.DefaultGrants())
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestEnforcer_GrantAndRevoke(t *testing.T) {
	e := seededMemoryEnforcer(t)

	assert.False(t, e.Allows(vo.RoleAgent, access.StorageStats))
	require.NoError(t, e.Grant(vo.RoleAgent, access.StorageStats))
	assert.True(t, e.Allows(vo.RoleAgent, access.StorageStats))

	require.NoError(t, e.Revoke(vo.RoleAgent, access.StorageStats))
	assert.False(t, e.Allows(vo.RoleAgent, access.StorageStats))

	grants, err := e.Grants(vo.RoleUser)
	require.NoError(t, err)
	assert.ElementsMatch(t, access.DefaultGrants()[vo.RoleUser], grants)
}

func TestEnforcer_PersistsThroughGormAdapter(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	e, err := NewEnforcer(db, logger.NewNopLogger())
	require.NoError(t, err)
	_, err = e.SeedDefaults(access.DefaultGrants())
	require.NoError(t, err)

	reloaded, err := NewEnforcer(db, logger.NewNopLogger())
	require.NoError(t, err)
	assert.True(t, reloaded.Allows(vo.RoleAdmin, access.TicketDelete))
	assert.False(t, reloaded.Allows(vo.RoleUser, access.TicketDelete))
}
