package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"shareit-backend/internal/config"
	"shareit-backend/internal/logger"
	"shareit-backend/internal/repository/postgres"
	"shareit-backend/internal/repository/postgres/migrations"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB loads the config and connects. The caller must close the returned db.
func openDB(ctx context.Context) (*sqlx.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	if cfg.Database.Driver == config.DriverMemory {
		return nil, fmt.Errorf("the memory driver has no schema to migrate")
	}
	return postgres.Open(ctx, cfg.Database.Driver, cfg.GetDatabaseConnectionString())
}

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the ShareIt database schema",
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrations.Up(db.DB); err != nil {
			return err
		}
		fmt.Println("Migrations applied")
		return nil
	},
}

var downCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back the given number of migrations (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid steps %q: %w", args[0], err)
			}
			steps = n
		}

		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrations.Down(db.DB, steps); err != nil {
			return err
		}
		fmt.Printf("Rolled back %d migration(s)\n", steps)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the applied and latest schema versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		st, err := migrations.CurrentStatus(db.DB)
		if err != nil {
			return err
		}
		fmt.Printf("Version: %d\nLatest:  %d\nDirty:   %t\n", st.Version, st.Latest, st.Dirty)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.dev.yaml", "Path to configuration file")
	rootCmd.AddCommand(upCmd, downCmd, versionCmd)
}
