package migrate

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"helpdesk/internal/infrastructure/database"
	"helpdesk/internal/infrastructure/migration"
	"helpdesk/internal/interfaces/cli/bootstrap"
	"helpdesk/internal/shared/logger"
)

var (
	env         string
	name        string
	steps       int
	scriptsPath string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newForceCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE: withManager(func(m *migration.Manager, run *runner) error {
			if err := m.Up(run.db); err != nil {
				return err
			}
			run.log.Infow("migrations applied successfully")
			return nil
		}),
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE: withManager(func(m *migration.Manager, run *runner) error {
			if err := m.Down(run.db, steps); err != nil {
				return err
			}
			run.log.Infow("migrations rolled back", "steps", steps)
			return nil
		}),
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE: withManager(func(m *migration.Manager, run *runner) error {
			version, dirty, err := m.Status(run.db)
			if err != nil {
				return err
			}
			fmt.Printf("strategy: %s\nversion:  %d\ndirty:    %t\n", m.Strategy().GetName(), version, dirty)
			return nil
		}),
	}
}

func newForceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "force VERSION",
		Short: "Force the schema version",
		Long:  `Set the recorded schema version and clear the dirty flag (golang-migrate only).`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			return withManager(func(m *migration.Manager, run *runner) error {
				if err := m.Force(run.db, version); err != nil {
					return err
				}
				run.log.Infow("schema version forced", "version", version)
				return nil
			})(cmd, args)
		},
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create new migration files with the specified name for both goose and golang-migrate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := migration.NewGenerator(scriptsPath, logger.NewLogger())
			paths, err := gen.CreateMigration(name)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Println("created", p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	cmd.Flags().StringVar(&scriptsPath, "dir", migration.DefaultScriptsPath, "Scripts directory")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

type runner struct {
	db  *gorm.DB
	log logger.Interface
}

// withManager opens the database, builds the manager for the configured
// driver and closes the connection afterwards.
func withManager(fn func(*migration.Manager, *runner) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, db, log, err := bootstrap.OpenDatabase(bootstrap.ResolveEnv(env))
		if err != nil {
			return err
		}
		defer database.Close(db)

		return fn(migration.NewManager(&cfg.Database, log), &runner{db: db, log: log})
	}
}
