// Package bootstrap holds the startup steps shared by the CLI commands.
package bootstrap

import (
	"fmt"
	"os"

	"gorm.io/gorm"

	"helpdesk/internal/infrastructure/config"
	"helpdesk/internal/infrastructure/database"
	"helpdesk/internal/shared/logger"
)

// ResolveEnv lets the ENV variable override the --env flag.
func ResolveEnv(flag string) string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return flag
}

// GinMode maps an environment name onto a gin mode.
func GinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}

// Load reads the configuration and initializes the process logger.
func Load(env string) (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = GinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger.NewLogger(), nil
}

// OpenDatabase loads the configuration and connects to the database. The
// caller closes the returned handle with database.Close.
func OpenDatabase(env string) (*config.Config, *gorm.DB, logger.Interface, error) {
	cfg, log, err := Load(env)
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return cfg, db, log, nil
}
