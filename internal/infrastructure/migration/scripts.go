package migration

import "embed"

// Scripts holds the versioned SQL migrations for mysql: goose files under
// scripts/goose and golang-migrate up/down pairs under scripts/migrate.
//
//go:embed scripts/goose/*.sql scripts/migrate/*.sql
var Scripts embed.FS

const (
	gooseDir   = "scripts/goose"
	migrateDir = "scripts/migrate"
)

// DefaultScriptsPath is where `migrate create` writes new files, relative to
// the repository root.
const DefaultScriptsPath = "internal/infrastructure/migration/scripts"
