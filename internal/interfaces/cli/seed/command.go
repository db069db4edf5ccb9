package seed

import (
	"fmt"

	"github.com/spf13/cobra"

	"helpdesk/internal/infrastructure/auth"
	"helpdesk/internal/infrastructure/database"
	"helpdesk/internal/infrastructure/migration"
	"helpdesk/internal/infrastructure/persistence/seeds"
	"helpdesk/internal/interfaces/cli/bootstrap"
)

var (
	env     string
	migrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo data",
		Long: `Insert the demo accounts (admin, two agents, two customers), the default
departments and a few sample tickets. Existing rows are left untouched.`,
		RunE: run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "Apply pending migrations first")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, db, log, err := bootstrap.OpenDatabase(bootstrap.ResolveEnv(env))
	if err != nil {
		return err
	}
	defer database.Close(db)

	if migrate {
		if err := migration.NewManager(&cfg.Database, log).Up(db); err != nil {
			return err
		}
	}

	res, err := seeds.Run(cmd.Context(), db, auth.NewBcryptPasswordHasher(cfg.Auth.BcryptCost), log)
	if err != nil {
		return err
	}

	fmt.Printf("seeded %d users, %d departments, %d tickets, %d notes\n",
		res.Users, res.Departments, res.Tickets, res.Notes)
	return nil
}
