package reconcile

import (
	"context"
	"fmt"
	"time"

	"replay-scheduler/core/logger"
	"replay-scheduler/core/replay"
	"replay-scheduler/core/utils"

	"go.uber.org/zap"
)

// oneFailSize is the failure count reported for a case with at least one diff.
const oneFailSize = 1

// Deps bundles the collaborators of an Engine.
type Deps struct {
	Configs  ConfigProvider
	Traces   TraceLoader
	Status   StatusStore
	Progress ProgressTracker
	Writer   ReportWriter
	Events   EventSink
	Comparer Comparer
	// Align is the pairing strategy; nil keeps both sequences in their order.
	Align  AlignFunc
	Logger *zap.Logger
}

// Engine reconciles replayed cases against their recordings. It holds no
// per-case state, so one Engine serves any number of concurrent Compare calls.
type Engine struct {
	configs  ConfigProvider
	traces   TraceLoader
	status   StatusStore
	progress ProgressTracker
	writer   ReportWriter
	events   EventSink
	comparer Comparer
	align    AlignFunc
	logger   *zap.Logger
	opts     Options
}

// NewEngine creates an engine from its collaborators.
func NewEngine(deps Deps, opts Options) *Engine {
	align := deps.Align
	if align == nil {
		align = IdentityAlign
	}
	l := deps.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &Engine{
		configs:  deps.Configs,
		traces:   deps.Traces,
		status:   deps.Status,
		progress: deps.Progress,
		writer:   deps.Writer,
		events:   deps.Events,
		comparer: deps.Comparer,
		align:    align,
		logger:   l,
		opts:     opts,
	}
}

// Compare diffs one replayed case against its recording and writes the
// report. useResultIDs selects the dual-sided lookup by the case's source and
// target result ids instead of the replay-only lookup.
//
// The returned value only tells the caller not to resend the case: it is true
// on every handled failure. The real outcome is carried by the written
// results, the incomparable records, the metrics and the case status, which
// always ends as PASS.
//
// The provisional ERROR status is written only on failure paths; a case that
// compares cleanly sees a single PASS write.
func (e *Engine) Compare(ctx context.Context, caseItem *replay.ActionCaseItem, useResultIDs bool) bool {
	begin := time.Now()
	l := logger.WithCorrelation(e.logger, caseItem.PlanID(), caseItem.PlanItemID)
	ctx = logger.NewContext(ctx, l)
	defer e.finish(ctx, l, caseItem, begin)

	written, err := e.safeCompare(ctx, l, caseItem, useResultIDs)
	if err != nil {
		e.handleFault(ctx, l, caseItem, err)
		return true
	}
	return written
}

func (e *Engine) safeCompare(ctx context.Context, l *zap.Logger, caseItem *replay.ActionCaseItem, useResultIDs bool) (written bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("compare panicked: %v", r)
		}
	}()
	return e.compare(ctx, l, caseItem, useResultIDs)
}

func (e *Engine) compare(ctx context.Context, l *zap.Logger, caseItem *replay.ActionCaseItem, useResultIDs bool) (bool, error) {
	cfg, err := e.configs.LoadConfig(ctx, caseItem.Parent)
	if err != nil {
		return false, fmt.Errorf("failed to load compare config: %w", err)
	}
	if cfg == nil {
		cfg = &replay.ComparisonConfig{}
	}

	holders, err := e.buildWaitCompareList(ctx, l, caseItem, useResultIDs)
	if err != nil {
		return false, err
	}

	if len(holders) == 0 {
		if !useResultIDs {
			return e.writer.WriteQMQCompareResult(ctx, caseItem)
		}
		e.updateStatus(ctx, l, caseItem.ID, replay.CompareStatusError)
		if err := e.writer.WriteIncomparable(ctx, caseItem, ErrReplayResultNotFound.Error()); err != nil {
			return false, fmt.Errorf("failed to write incomparable case: %w", err)
		}
		caseItem.SendStatus = replay.SendStatusReplayResultNotFound
		e.events.FailReason(caseItem, FailReasonOther)
		return true, nil
	}

	var results []*replay.CompareResult
	for _, holder := range holders {
		if cfg.IgnoreCategory(holder.CategoryName) {
			continue
		}
		results = append(results, e.compareCategory(ctx, holder, cfg, caseItem)...)
	}

	writeBegin := time.Now()
	written, err := e.writer.Write(ctx, results)
	e.events.OnTiming(EventPushCompare, time.Since(writeBegin), caseItem.PlanItemID, caseItem.Parent)
	if err != nil {
		return false, fmt.Errorf("failed to write compare results: %w", err)
	}

	if countFailed(results) > 0 {
		e.events.FailSize(results[0].PlanID, oneFailSize, FailReasonCompareFail)
	}
	return written, nil
}

// handleFault turns an unrecovered failure into an incomparable record.
func (e *Engine) handleFault(ctx context.Context, l *zap.Logger, caseItem *replay.ActionCaseItem, fault error) {
	message := fault.Error()
	l.Error("compare case result error",
		zap.String("case_id", caseItem.ID),
		zap.String("record_id", caseItem.RecordID),
		zap.Error(fault),
	)

	truncated := utils.Truncate(message, e.opts.ErrorMessageStart, e.opts.ErrorMessageEnd)
	e.updateStatus(ctx, l, caseItem.ID, replay.CompareStatusError)
	if err := e.writer.WriteIncomparable(ctx, caseItem, truncated); err != nil {
		l.Error("failed to write incomparable case", zap.String("case_id", caseItem.ID), zap.Error(err))
	}
	caseItem.SendErrorMessage = truncated
	e.events.FailReason(caseItem, FailReasonOther)
}

// finish runs on every path out of Compare.
func (e *Engine) finish(ctx context.Context, l *zap.Logger, caseItem *replay.ActionCaseItem, begin time.Time) {
	e.updateStatus(ctx, l, caseItem.ID, replay.CompareStatusPass)
	if err := e.progress.FinishOne(ctx, caseItem); err != nil {
		l.Error("failed to advance progress", zap.String("case_id", caseItem.ID), zap.Error(err))
	}
	e.events.OnTiming(EventCompare, time.Since(begin), "", caseItem.Parent)
}

func (e *Engine) updateStatus(ctx context.Context, l *zap.Logger, caseID string, status replay.CompareStatus) {
	if err := e.status.UpdateCompareStatus(ctx, caseID, status); err != nil {
		l.Error("failed to update compare status",
			zap.String("case_id", caseID),
			zap.Stringer("status", status),
			zap.Error(err),
		)
	}
}

func countFailed(results []*replay.CompareResult) int {
	failed := 0
	for _, result := range results {
		if result.Code != replay.DiffNoDifference {
			failed++
		}
	}
	return failed
}
