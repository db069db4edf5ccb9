package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"helpdesk/internal/shared/logger"
)

var migrationName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Generator writes new migration files for both runners so the goose and
// golang-migrate script sets stay in step.
type Generator struct {
	scriptsPath string
	now         func() time.Time
	logger      logger.Interface
}

func NewGenerator(scriptsPath string, log logger.Interface) *Generator {
	return &Generator{
		scriptsPath: scriptsPath,
		now:         time.Now,
		logger:      log.Named("migration.generator"),
	}
}

// CreateMigration writes NNNNN_name.sql (goose) and NNNNNN_name.{up,down}.sql
// (golang-migrate) with the next free version. It returns the written paths.
func (g *Generator) CreateMigration(name string) ([]string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !migrationName.MatchString(name) {
		return nil, fmt.Errorf("invalid migration name %q: use lower_snake_case", name)
	}

	gooseDir := filepath.Join(g.scriptsPath, "goose")
	migrateDir := filepath.Join(g.scriptsPath, "migrate")
	for _, dir := range []string{gooseDir, migrateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create scripts directory: %w", err)
		}
	}

	version, err := nextVersion(gooseDir)
	if err != nil {
		return nil, err
	}
	created := g.now().Format("2006-01-02 15:04:05")

	files := map[string]string{
		filepath.Join(gooseDir, fmt.Sprintf("%05d_%s.sql", version, name)): fmt.Sprintf(
			"-- Migration: %s\n-- Created: %s\n\n-- +goose Up\n\n-- +goose Down\n", name, created),
		filepath.Join(migrateDir, fmt.Sprintf("%06d_%s.up.sql", version, name)): fmt.Sprintf(
			"-- Migration: %s\n-- Created: %s\n", name, created),
		filepath.Join(migrateDir, fmt.Sprintf("%06d_%s.down.sql", version, name)): fmt.Sprintf(
			"-- Rollback: %s\n-- Created: %s\n", name, created),
	}

	paths := make([]string, 0, len(files))
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	g.logger.Infow("migration files created", "name", name, "version", version)
	return paths, nil
}

func nextVersion(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	highest := 0
	for _, e := range entries {
		prefix, _, ok := strings.Cut(e.Name(), "_")
		if !ok || e.IsDir() {
			continue
		}
		if n, err := strconv.Atoi(prefix); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1, nil
}
