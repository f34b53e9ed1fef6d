package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"bookreview-backend/internal/config"
	"bookreview-backend/pkg/container"
	"bookreview-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the book review storage schema",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
		},
	}
	root.AddCommand(newUpCmd())
	return root
}

func newUpCmd() *cobra.Command {
	var (
		driver  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Create tables and indexes for the configured driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if driver != "" {
				cfg.Database.Driver = driver
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			return runUp(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&driver, "driver", "", fmt.Sprintf("storage driver (%s|%s), overrides DB_DRIVER", config.DriverMongo, config.DriverPostgres))
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline for connect and migrate")
	return cmd
}

func runUp(ctx context.Context, cfg *config.Config) error {
	storage, err := container.OpenStorage(ctx, cfg)
	if err != nil {
		logger.Error("migrate: connect failed", err)
		return err
	}
	defer storage.Close()

	if err := storage.Migrate(ctx); err != nil {
		logger.Error("migrate: up failed", err)
		return err
	}

	logger.Info("migrate: up completed", map[string]interface{}{"driver": cfg.Database.Driver})
	return nil
}
