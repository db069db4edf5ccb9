package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"helpdesk/internal/shared/constants"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, AuthProviderToken, cfg.Auth.Provider)
	assert.Equal(t, 24, cfg.Auth.TokenTTLHours)
	assert.Equal(t, MigratorGoose, cfg.Database.Migrator)
	assert.Equal(t, MaxUploadSize, cfg.Uploads.MaxSize)
	assert.Equal(t, LimitRule{Max: 10, Window: 3600}, cfg.RateLimit.Login)
	assert.Equal(t, LimitRule{Max: 5, Window: 3600}, cfg.RateLimit.Upload)
	assert.Contains(t, cfg.Uploads.AllowedTypes, "application/pdf")
	assert.Same(t, cfg, Get())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HELPDESK_SERVER_PORT", "9090")
	t.Setenv("HELPDESK_DATABASE_DRIVER", "sqlite")

	cfg, err := Load("release")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "data/helpdesk.db", cfg.Database.GetDSN())
}

func TestValidate(t *testing.T) {
	cfg, err := Defaults()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	cfg.Auth.Provider = AuthProviderSession
	assert.Error(t, cfg.Validate(), "session provider needs a secret")

	cfg.Auth.Session.Secret = "s3cret"
	cfg.Uploads.MaxSize = 50 << 20
	require.NoError(t, cfg.Validate())
	assert.Equal(t, MaxUploadSize, cfg.Uploads.MaxSize)

	cfg.Database.Migrator = "flyway"
	assert.Error(t, cfg.Validate())

	cfg.Database.Migrator = MigratorGolangMigrate
	cfg.Storage.Backend = "etcd"
	assert.Error(t, cfg.Validate())
}

func TestValidate_RateLimitRules(t *testing.T) {
	cfg, err := Defaults()
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.RateLimit.API.Max, constants.RateLimitMaxEntriesPerKey)

	cfg.RateLimit.API.Max = constants.RateLimitMaxEntriesPerKey
	require.NoError(t, cfg.Validate())

	cfg.RateLimit.API.Max = 300
	assert.ErrorContains(t, cfg.Validate(), "ratelimit.api.max")

	cfg.RateLimit.API.Max = 50
	cfg.RateLimit.Login.Window = 0
	assert.ErrorContains(t, cfg.Validate(), "ratelimit.login.window")
}

func TestDefaults_TrustNoProxies(t *testing.T) {
	cfg, err := Defaults()
	require.NoError(t, err)
	assert.Empty(t, cfg.Server.TrustedProxies)
	assert.Equal(t, []string{"X-Forwarded-For", "X-Real-IP"}, cfg.Server.RemoteIPHeaders)
}

func TestWriteSample(t *testing.T) {
	cfg, err := Defaults()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "configs", "config.yaml")

	require.NoError(t, WriteSample(cfg, path))
	assert.Error(t, WriteSample(cfg, path), "must not overwrite")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var back Config
	require.NoError(t, yaml.Unmarshal(raw, &back))
	assert.Equal(t, cfg.RateLimit, back.RateLimit)
}
