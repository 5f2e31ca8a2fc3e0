package reconcile

import (
	"context"
	"time"

	"replay-scheduler/core/replay"
)

// ConfigProvider resolves the diff parameterization for an action's plan.
// Implementations must be read-only and may cache.
type ConfigProvider interface {
	LoadConfig(ctx context.Context, action *replay.ActionItem) (*replay.ComparisonConfig, error)
}

// TraceLoader fetches the categorized interaction traces of one stored
// execution. An empty resultID selects the original recording itself; each
// returned holder carries that execution's items in ReplayResult.
type TraceLoader interface {
	GetReplayResult(ctx context.Context, recordID, resultID string) ([]*replay.CategoryHolder, error)
}

// StatusStore persists case compare status transitions. It is called several
// times per case; the last write is authoritative.
type StatusStore interface {
	UpdateCompareStatus(ctx context.Context, caseID string, status replay.CompareStatus) error
}

// ProgressTracker counts finished cases toward plan completion. FinishOne is
// not idempotent.
type ProgressTracker interface {
	FinishOne(ctx context.Context, caseItem *replay.ActionCaseItem) error
}

// ReportWriter persists the produced diff results.
type ReportWriter interface {
	// Write stores the results of one case and reports whether they were accepted.
	Write(ctx context.Context, results []*replay.CompareResult) (bool, error)

	// WriteIncomparable records that no structured diff could be produced for the case.
	WriteIncomparable(ctx context.Context, caseItem *replay.ActionCaseItem, reason string) error

	// WriteQMQCompareResult records a case whose recording produced no
	// comparable traces at all, such as a message consumer without
	// downstream calls.
	WriteQMQCompareResult(ctx context.Context, caseItem *replay.ActionCaseItem) (bool, error)
}

// EventSink records timing and failure statistics.
type EventSink interface {
	OnTiming(kind EventKind, elapsed time.Duration, planItemID string, action *replay.ActionItem)
	FailReason(caseItem *replay.ActionCaseItem, reason FailReason)
	FailSize(planID string, size int, reason FailReason)
}

// Comparer is the structural diff. A nil side means the counterpart is absent.
type Comparer interface {
	Compare(base, test *string, opts CompareOptions) (*Outcome, error)
}

// AlignFunc reorders two content sequences so that index i of one is meant to
// be compared with index i of the other. The returned slices keep the
// lengths of their inputs.
type AlignFunc func(base, test []string) ([]string, []string)

// IdentityAlign keeps both sequences as they are.
func IdentityAlign(base, test []string) ([]string, []string) {
	return base, test
}
