package migration

import (
	"fmt"

	"gorm.io/gorm"

	"helpdesk/internal/infrastructure/config"
	"helpdesk/internal/shared/logger"
)

// Manager runs the strategy selected by the database configuration.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks AutoMigrate for sqlite and the configured script runner
// for mysql.
func NewManager(cfg *config.DatabaseConfig, log logger.Interface) *Manager {
	var strategy Strategy
	switch {
	case cfg.Driver == config.DriverSQLite:
		strategy = NewGormAutoMigrateStrategy(log)
	case cfg.Migrator == config.MigratorGolangMigrate:
		strategy = NewGolangMigrateStrategy(log)
	default:
		strategy = NewGooseStrategy(log)
	}
	return NewManagerWithStrategy(strategy, log)
}

func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.Named("migration.manager"),
	}
}

func (m *Manager) Strategy() Strategy {
	return m.strategy
}

func (m *Manager) Up(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())
	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}
	return nil
}

func (m *Manager) Down(db *gorm.DB, steps int) error {
	if steps < 1 {
		return fmt.Errorf("steps must be at least 1")
	}
	m.logger.Infow("rolling back migrations", "strategy", m.strategy.GetName(), "steps", steps)
	return m.strategy.MigrateDown(db, steps)
}

// Status logs the current version. Goose additionally lists every script.
func (m *Manager) Status(db *gorm.DB) (int64, bool, error) {
	if s, ok := m.strategy.(*GooseStrategy); ok {
		if err := s.Status(db); err != nil {
			return 0, false, err
		}
	}
	return m.strategy.GetVersion(db)
}

// Force is only available with golang-migrate, which tracks a dirty flag.
func (m *Manager) Force(db *gorm.DB, version int) error {
	s, ok := m.strategy.(*GolangMigrateStrategy)
	if !ok {
		return fmt.Errorf("force: %w (%s)", ErrUnsupported, m.strategy.GetName())
	}
	return s.Force(db, version)
}
