package cmd

import (
	"fmt"

	"replay-scheduler/core/config"
	"replay-scheduler/core/database"
	"replay-scheduler/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the scheduler tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer l.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := database.Migrate(db); err != nil {
			return err
		}
		l.Info("Schema migrated", zap.Int("tables", len(database.Models())))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
