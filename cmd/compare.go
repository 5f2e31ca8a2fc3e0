package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"replay-scheduler/core/config"
	"replay-scheduler/core/database"
	"replay-scheduler/core/logger"
	"replay-scheduler/core/storage"
	"replay-scheduler/feature/comparison"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	useResultIDs bool
	workers      int
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare replayed cases against their recordings",
	Long:  `Runs the comparison of stored replay cases without starting the HTTP server.`,
}

var comparePlanCmd = &cobra.Command{
	Use:   "plan <planId>",
	Short: "Compare every pending case of a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd, func(ctx context.Context, svc *comparison.Service, useIDs bool) (*comparison.Summary, error) {
			return svc.ComparePlan(ctx, args[0], useIDs)
		})
	},
}

var compareCaseCmd = &cobra.Command{
	Use:   "case <caseId>",
	Short: "Compare a single case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd, func(ctx context.Context, svc *comparison.Service, useIDs bool) (*comparison.Summary, error) {
			return svc.CompareCase(ctx, args[0], useIDs)
		})
	},
}

func init() {
	compareCmd.PersistentFlags().BoolVar(&useResultIDs, "use-result-ids", true, "Read both sides by the case's stored result ids")
	compareCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Cases compared concurrently (default from COMPARE_WORKERS)")

	compareCmd.AddCommand(comparePlanCmd)
	compareCmd.AddCommand(compareCaseCmd)
	RootCmd.AddCommand(compareCmd)
}

type compareFunc func(ctx context.Context, svc *comparison.Service, useIDs bool) (*comparison.Summary, error)

func runCompare(cmd *cobra.Command, run compareFunc) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if workers > 0 {
		cfg.Compare.Workers = workers
	}
	useIDs := cfg.Compare.UseResultIDs
	if cmd.Flags().Changed("use-result-ids") {
		useIDs = useResultIDs
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

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	svc := newComparisonService(cfg, db, client, prometheus.NewRegistry(), l)
	summary, err := run(ctx, svc, useIDs)
	if err != nil {
		return err
	}

	l.Info("Comparison report",
		zap.String("plan_id", summary.PlanID),
		zap.Int("cases", summary.Cases),
		zap.Int("handled", summary.Handled),
		zap.String("duration", summary.Duration),
	)
	return nil
}
