package metrics

import (
	"time"

	"replay-scheduler/core/reconcile"
	"replay-scheduler/core/replay"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const namespace = "replay_scheduler"

// Sink records engine events as prometheus metrics.
type Sink struct {
	timings     *prometheus.HistogramVec
	failReasons *prometheus.CounterVec
	failSizes   *prometheus.CounterVec
	logger      *zap.Logger
}

// NewSink creates a sink whose collectors are registered on reg.
func NewSink(reg prometheus.Registerer, logger *zap.Logger) *Sink {
	factory := promauto.With(reg)
	return &Sink{
		timings: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_duration_seconds",
			Help:      "Duration of compare pipeline events",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"event", "app_id"}),
		failReasons: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "case_failures_total",
			Help:      "Cases that could not be compared, by reason",
		}, []string{"reason", "case_type"}),
		failSizes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compare_failures_total",
			Help:      "Cases whose comparison found differences, by reason",
		}, []string{"reason"}),
		logger: logger,
	}
}

// OnTiming observes the duration of one event.
func (s *Sink) OnTiming(kind reconcile.EventKind, elapsed time.Duration, planItemID string, action *replay.ActionItem) {
	s.timings.WithLabelValues(string(kind), appID(action)).Observe(elapsed.Seconds())
	s.logger.Debug("Compare event",
		zap.String("event", string(kind)),
		zap.Duration("elapsed", elapsed),
		zap.String("plan_item_id", planItemID),
	)
}

// FailReason counts one case that could not be compared.
func (s *Sink) FailReason(caseItem *replay.ActionCaseItem, reason reconcile.FailReason) {
	s.failReasons.WithLabelValues(string(reason), caseItem.CaseType).Inc()
	s.logger.Info("Case failed",
		zap.String("reason", string(reason)),
		zap.String("plan_id", caseItem.PlanID()),
		zap.String("case_id", caseItem.ID),
	)
}

// FailSize counts cases of a plan whose comparison found differences.
func (s *Sink) FailSize(planID string, size int, reason reconcile.FailReason) {
	s.failSizes.WithLabelValues(string(reason)).Add(float64(size))
	s.logger.Debug("Compare failures recorded",
		zap.String("plan_id", planID),
		zap.Int("size", size),
		zap.String("reason", string(reason)),
	)
}

func appID(action *replay.ActionItem) string {
	if action == nil || action.Parent == nil {
		return ""
	}
	return action.Parent.AppID
}
