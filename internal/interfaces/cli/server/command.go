package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"helpdesk/internal/infrastructure/auth"
	"helpdesk/internal/infrastructure/config"
	"helpdesk/internal/infrastructure/database"
	"helpdesk/internal/infrastructure/migration"
	"helpdesk/internal/infrastructure/persistence/seeds"
	"helpdesk/internal/interfaces/cli/bootstrap"
	httpRouter "helpdesk/internal/interfaces/http"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/version"
)

var (
	env         string
	autoMigrate bool
	seedData    bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the helpdesk HTTP API with the configuration for the selected environment.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Apply pending migrations on startup (always on for sqlite)")
	cmd.Flags().BoolVar(&seedData, "seed", false, "Insert demo users, departments and tickets on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	env = bootstrap.ResolveEnv(env)

	cfg, db, log, err := bootstrap.OpenDatabase(env)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	log.Infow("starting server",
		"environment", env,
		"version", version.String(),
		"auth_provider", cfg.Auth.Provider,
		"storage_backend", cfg.Storage.Backend)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	if err := handleMigrations(cfg, db, log); err != nil {
		return err
	}

	if seedData {
		res, err := seeds.Run(cmd.Context(), db, auth.NewBcryptPasswordHasher(cfg.Auth.BcryptCost), log)
		if err != nil {
			return err
		}
		log.Infow("seed data inserted", "users", res.Users, "departments", res.Departments, "tickets", res.Tickets)
	}

	router, err := httpRouter.NewRouter(db, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}
	defer router.Shutdown()
	router.SetupRoutes()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeperDone := router.StartSweeper(ctx)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			stop()
			<-sweeperDone
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Infow("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}
	<-sweeperDone

	log.Infow("server exited gracefully")
	return nil
}

// handleMigrations brings sqlite databases up to date unconditionally. For
// mysql it only reports the schema version unless --auto-migrate is set.
func handleMigrations(cfg *config.Config, db *gorm.DB, log logger.Interface) error {
	manager := migration.NewManager(&cfg.Database, log)

	if autoMigrate || cfg.Database.Driver == config.DriverSQLite {
		if env == "production" && cfg.Database.Driver != config.DriverSQLite {
			log.Warnw("auto-migration is enabled in production environment - this is not recommended!")
		}
		if err := manager.Up(db); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		log.Infow("database schema is up to date", "strategy", manager.Strategy().GetName())
		return nil
	}

	current, dirty, err := manager.Strategy().GetVersion(db)
	if err != nil {
		log.Warnw("failed to check migration status", "error", err)
		return nil
	}
	if dirty {
		log.Warnw("database schema is dirty; run `migrate force` after fixing it", "version", current)
		return nil
	}
	log.Infow("current migration version", "version", current)
	return nil
}
