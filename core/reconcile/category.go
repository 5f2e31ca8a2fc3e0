package reconcile

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"replay-scheduler/core/logger"
	"replay-scheduler/core/replay"

	"go.uber.org/zap"
)

// databaseExclusion is always excluded when diffing database calls.
var databaseExclusion = []string{"body"}

// compareCategory diffs the record and replay items of one category.
func (e *Engine) compareCategory(ctx context.Context, holder *replay.CategoryHolder, cfg *replay.ComparisonConfig, caseItem *replay.ActionCaseItem) []*replay.CompareResult {
	recordEmpty := len(holder.Record) == 0
	replayEmpty := len(holder.ReplayResult) == 0
	if recordEmpty && replayEmpty {
		return nil
	}

	category := holder.CategoryName
	if recordEmpty || replayEmpty {
		results := e.compareMissing(ctx, category, cfg, holder.Record, true, caseItem)
		return append(results, e.compareMissing(ctx, category, cfg, holder.ReplayResult, false, caseItem)...)
	}

	recordGroups := groupByOperation(holder.Record)
	replayGroups := groupByOperation(holder.ReplayResult)

	var results []*replay.CompareResult
	// Only operations seen on the record side drive matching here.
	for _, operation := range slices.Sorted(maps.Keys(recordGroups)) {
		if cfg.IgnoreKey(operation) {
			continue
		}
		recordGroup := recordGroups[operation]
		replayGroup, ok := replayGroups[operation]
		if !ok {
			results = append(results, e.compareMissing(ctx, category, cfg, recordGroup, true, caseItem)...)
			continue
		}

		base, test := e.align(contents(recordGroup), contents(replayGroup))
		// Unpaired tail entries of the longer side are not reported.
		for i := 0; i < min(len(base), len(test)); i++ {
			outcome := e.compareProcess(ctx, category, &base[i], &test[i], cfg)
			results = append(results, mergeResult(caseItem, operation, category, outcome))
		}
	}
	return results
}

// compareMissing reports every item of one side against an absent
// counterpart. recordSide tells which side the items come from.
func (e *Engine) compareMissing(ctx context.Context, category string, cfg *replay.ComparisonConfig, items []*replay.CompareItem, recordSide bool, caseItem *replay.ActionCaseItem) []*replay.CompareResult {
	var results []*replay.CompareResult
	for _, item := range items {
		if cfg.IgnoreKey(item.Operation) {
			continue
		}
		content := item.Content
		var outcome *Outcome
		if recordSide {
			outcome = e.compareProcess(ctx, category, &content, nil, cfg)
		} else {
			outcome = e.compareProcess(ctx, category, nil, &content, cfg)
		}
		result := mergeResult(caseItem, item.Operation, category, outcome)
		result.ServiceName = item.Service
		result.Code = replay.DiffMissing
		results = append(results, result)
	}
	return results
}

// compareProcess runs the structural diff for one pair. A failing or
// panicking comparer yields an error-coded outcome instead of aborting the case.
func (e *Engine) compareProcess(ctx context.Context, category string, base, test *string, cfg *replay.ComparisonConfig) (outcome *Outcome) {
	opts := e.buildCompareRequest(category, cfg)
	l := logger.FromContext(ctx, e.logger)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("comparer panicked: %v", r)
			l.Error("run compare process error", zap.String("category", category), zap.Error(err))
			outcome = OutcomeFromError(base, test, err)
		}
	}()

	result, err := e.comparer.Compare(base, test, opts)
	if err != nil {
		l.Error("run compare process error",
			zap.String("category", category),
			zap.String("source", deref(base)),
			zap.String("target", deref(test)),
			zap.Error(err),
		)
		return OutcomeFromError(base, test, err)
	}
	if result == nil {
		return OutcomeFromError(base, test, ErrCompareNoOutcome)
	}
	return result
}

// buildCompareRequest translates the plan's config into a diff request.
func (e *Engine) buildCompareRequest(category string, cfg *replay.ComparisonConfig) CompareOptions {
	exclusions := slices.Clone(cfg.Exclusions)
	if category == replay.CategoryDatabase {
		exclusions = append(exclusions, databaseExclusion)
	}
	return CompareOptions{
		Global:                      e.opts.Global,
		Category:                    category,
		SQLBodyParse:                true,
		OnlyCompareCoincidentColumn: true,
		Inclusions:                  cfg.Inclusions,
		Exclusions:                  exclusions,
		ListSort:                    cfg.ListSort,
		Reference:                   cfg.Reference,
		Decompress:                  cfg.Decompress,
	}
}

func mergeResult(caseItem *replay.ActionCaseItem, operation, category string, outcome *Outcome) *replay.CompareResult {
	result := replay.NewCompareResult(caseItem)
	result.OperationName = operation
	result.CategoryName = category
	result.BaseMsg = outcome.ProcessedBaseMsg
	result.TestMsg = outcome.ProcessedTestMsg
	result.Logs = outcome.Logs
	result.Code = outcome.Code
	return result
}

func groupByOperation(items []*replay.CompareItem) map[string][]*replay.CompareItem {
	groups := make(map[string][]*replay.CompareItem)
	for _, item := range items {
		groups[item.Operation] = append(groups[item.Operation], item)
	}
	return groups
}

func contents(items []*replay.CompareItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Content
	}
	return out
}
