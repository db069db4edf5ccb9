package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"helpdesk/internal/shared/constants"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Auth      AuthConfig      `mapstructure:"auth" yaml:"auth"`
	Storage   StorageConfig   `mapstructure:"storage" yaml:"storage"`
	Uploads   UploadConfig    `mapstructure:"uploads" yaml:"uploads"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit" yaml:"ratelimit"`
	Email     EmailConfig     `mapstructure:"email" yaml:"email"`
	Redis     RedisConfig     `mapstructure:"redis" yaml:"redis"`
}

// MaxUploadSize is the hard cap for a single attachment.
const MaxUploadSize int64 = 10 << 20

// DefaultAllowedTypes lists the MIME types accepted for attachments.
var DefaultAllowedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"application/pdf",
	"text/plain",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/zip",
	"application/x-zip-compressed",
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configs/config.yaml (when present), then HELPDESK_* environment
// variables, on top of the defaults.
func Load(env string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("HELPDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &cfg
	appConfigMu.Unlock()

	return &cfg, nil
}

// Get returns the last loaded configuration, or nil before Load.
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Database.Migrator {
	case MigratorGoose, MigratorGolangMigrate:
	default:
		return fmt.Errorf("unsupported migrator %q", c.Database.Migrator)
	}
	switch c.Auth.Provider {
	case AuthProviderToken, AuthProviderSession:
	default:
		return fmt.Errorf("unsupported auth provider %q", c.Auth.Provider)
	}
	switch c.Storage.Backend {
	case StorageBackendFile, StorageBackendRedis:
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Storage.Backend)
	}
	if c.Uploads.MaxSize <= 0 || c.Uploads.MaxSize > MaxUploadSize {
		c.Uploads.MaxSize = MaxUploadSize
	}
	if c.Auth.Provider == AuthProviderSession && c.Auth.Session.Secret == "" {
		return errors.New("auth.session.secret is required for the session provider")
	}
	for name, rule := range c.RateLimit.rules() {
		if rule.Max > constants.RateLimitMaxEntriesPerKey {
			return fmt.Errorf("ratelimit.%s.max must not exceed %d", name, constants.RateLimitMaxEntriesPerKey)
		}
		if rule.Max > 0 && rule.Window <= 0 {
			return fmt.Errorf("ratelimit.%s.window must be positive", name)
		}
	}
	return nil
}

// Defaults returns a Config holding only default values.
func Defaults() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteSample writes cfg as YAML to path, refusing to overwrite.
func WriteSample(cfg *Config, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("server.remote_ip_headers", []string{constants.HeaderXForwardedFor, constants.HeaderXRealIP})

	v.SetDefault("database.driver", DriverMySQL)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "helpdesk")
	v.SetDefault("database.path", "data/helpdesk.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.migrator", MigratorGoose)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.add_source", false)

	v.SetDefault("auth.provider", AuthProviderToken)
	v.SetDefault("auth.token_ttl_hours", 24)
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("auth.session.cookie_name", "helpdesk_session")
	v.SetDefault("auth.session.secret", "")
	v.SetDefault("auth.session.secure", false)
	v.SetDefault("auth.session.domain", "")

	v.SetDefault("storage.backend", StorageBackendFile)
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("storage.cleanup_interval", 3600)

	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("uploads.max_size", MaxUploadSize)
	v.SetDefault("uploads.allowed_types", DefaultAllowedTypes)

	v.SetDefault("ratelimit.login.max", 10)
	v.SetDefault("ratelimit.login.window", 3600)
	v.SetDefault("ratelimit.upload.max", 5)
	v.SetDefault("ratelimit.upload.window", 3600)
	v.SetDefault("ratelimit.api.max", 100)
	v.SetDefault("ratelimit.api.window", 60)

	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.smtp_user", "")
	v.SetDefault("email.smtp_password", "")
	v.SetDefault("email.from_address", "support@helpdesk.local")
	v.SetDefault("email.from_name", "Helpdesk")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
}
