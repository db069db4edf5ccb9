package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host" yaml:"host"`
	Port           int      `mapstructure:"port" yaml:"port"`
	Mode           string   `mapstructure:"mode" yaml:"mode"`
	BaseURL        string   `mapstructure:"base_url" yaml:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	ReadTimeout    int      `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   int      `mapstructure:"write_timeout" yaml:"write_timeout"`
	// TrustedProxies lists the proxy addresses or CIDRs whose forwarding
	// headers are believed. Empty means the connection address is used.
	TrustedProxies  []string `mapstructure:"trusted_proxies" yaml:"trusted_proxies"`
	RemoteIPHeaders []string `mapstructure:"remote_ip_headers" yaml:"remote_ip_headers"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver" yaml:"driver"`
	Host            string `mapstructure:"host" yaml:"host"`
	Port            int    `mapstructure:"port" yaml:"port"`
	Username        string `mapstructure:"username" yaml:"username"`
	Password        string `mapstructure:"password" yaml:"password"`
	Database        string `mapstructure:"database" yaml:"database"`
	Path            string `mapstructure:"path" yaml:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level" yaml:"log_level"`
	Migrator        string `mapstructure:"migrator" yaml:"migrator"`
}

// GetDSN returns the mysql DSN, or the sqlite file path when Driver is sqlite.
func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == DriverSQLite {
		return d.Path
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Migration runners for the mysql driver. Sqlite always uses AutoMigrate.
const (
	MigratorGoose         = "goose"
	MigratorGolangMigrate = "golang-migrate"
)

type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
	AddSource  bool   `mapstructure:"add_source" yaml:"add_source"`
}

// Auth providers. Exactly one is active per deployment.
const (
	AuthProviderToken   = "token"
	AuthProviderSession = "session"
)

type SessionConfig struct {
	CookieName string `mapstructure:"cookie_name" yaml:"cookie_name"`
	Secret     string `mapstructure:"secret" yaml:"secret"`
	Secure     bool   `mapstructure:"secure" yaml:"secure"`
	Domain     string `mapstructure:"domain" yaml:"domain"`
}

type AuthConfig struct {
	Provider      string        `mapstructure:"provider" yaml:"provider"`
	TokenTTLHours int           `mapstructure:"token_ttl_hours" yaml:"token_ttl_hours"`
	BcryptCost    int           `mapstructure:"bcrypt_cost" yaml:"bcrypt_cost"`
	Session       SessionConfig `mapstructure:"session" yaml:"session"`
}

func (a *AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

// Storage backends for the token store and the rate limiter.
const (
	StorageBackendFile  = "file"
	StorageBackendRedis = "redis"
)

type StorageConfig struct {
	Backend         string `mapstructure:"backend" yaml:"backend"`
	DataDir         string `mapstructure:"data_dir" yaml:"data_dir"`
	CleanupInterval int    `mapstructure:"cleanup_interval" yaml:"cleanup_interval"`
}

type UploadConfig struct {
	Dir          string   `mapstructure:"dir" yaml:"dir"`
	MaxSize      int64    `mapstructure:"max_size" yaml:"max_size"`
	AllowedTypes []string `mapstructure:"allowed_types" yaml:"allowed_types"`
}

// LimitRule is a quota of Max attempts per Window seconds.
type LimitRule struct {
	Max    int `mapstructure:"max" yaml:"max"`
	Window int `mapstructure:"window" yaml:"window"`
}

func (r LimitRule) WindowDuration() time.Duration {
	return time.Duration(r.Window) * time.Second
}

type RateLimitConfig struct {
	Login  LimitRule `mapstructure:"login" yaml:"login"`
	Upload LimitRule `mapstructure:"upload" yaml:"upload"`
	API    LimitRule `mapstructure:"api" yaml:"api"`
}

func (c RateLimitConfig) rules() map[string]LimitRule {
	return map[string]LimitRule{"login": c.Login, "upload": c.Upload, "api": c.API}
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host" yaml:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port" yaml:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user" yaml:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password" yaml:"smtp_password"`
	FromAddress  string `mapstructure:"from_address" yaml:"from_address"`
	FromName     string `mapstructure:"from_name" yaml:"from_name"`
}

// Enabled reports whether notification mail can be sent.
func (e *EmailConfig) Enabled() bool {
	return e.SMTPHost != ""
}

type RedisConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
