package cmd

import (
	"time"

	"replay-scheduler/core/config"
	"replay-scheduler/core/reconcile"
	"replay-scheduler/core/storage"
	"replay-scheduler/feature/compareconfig"
	"replay-scheduler/feature/comparison"
	"replay-scheduler/feature/diff"
	"replay-scheduler/feature/metrics"
	"replay-scheduler/feature/report"
	"replay-scheduler/feature/traces"
	"replay-scheduler/feature/tracking"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newComparisonService wires the engine and its collaborators.
func newComparisonService(cfg *config.Config, db *gorm.DB, client storage.Client, reg prometheus.Registerer, logg *zap.Logger) *comparison.Service {
	repo := tracking.NewRepository(db)
	sink := metrics.NewSink(reg, logg)
	ttl := time.Duration(cfg.Compare.ConfigCacheTTLSeconds) * time.Second

	engine := reconcile.NewEngine(reconcile.Deps{
		Configs:  compareconfig.NewProvider(db, ttl),
		Traces:   traces.NewLoader(client, cfg.Storage.Bucket, cfg.Storage.TracePrefix, logg),
		Status:   repo,
		Progress: repo,
		Writer: report.NewWriter(db, &report.Archive{
			Client: client,
			Bucket: cfg.Storage.Bucket,
			Prefix: cfg.Storage.ReportPrefix,
		}, logg),
		Events:   sink,
		Comparer: diff.NewComparer(),
		Align:    diff.Align,
		Logger:   logg,
	}, cfg.Compare.Options())

	return comparison.NewService(engine, repo, sink, cfg.Compare.Workers, logg)
}
