package reconcile

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"replay-scheduler/core/replay"

	"go.uber.org/zap"
)

// buildWaitCompareList resolves the category holders to compare for a case.
// An empty list means there is nothing to compare.
func (e *Engine) buildWaitCompareList(ctx context.Context, l *zap.Logger, caseItem *replay.ActionCaseItem, useResultIDs bool) ([]*replay.CategoryHolder, error) {
	var sourceResultID, targetResultID string
	if useResultIDs {
		sourceResultID = caseItem.SourceResultID
		targetResultID = caseItem.TargetResultID
	}
	recordID := caseItem.RecordID

	if strings.TrimSpace(sourceResultID) == "" {
		holders, err := e.traces.GetReplayResult(ctx, recordID, targetResultID)
		if err != nil {
			return nil, fmt.Errorf("failed to load replay result %q of record %s: %w", targetResultID, recordID, err)
		}
		return holders, nil
	}

	source, err := e.traces.GetReplayResult(ctx, recordID, sourceResultID)
	if err != nil {
		return nil, fmt.Errorf("failed to load source result %q of record %s: %w", sourceResultID, recordID, err)
	}
	target, err := e.traces.GetReplayResult(ctx, recordID, targetResultID)
	if err != nil {
		return nil, fmt.Errorf("failed to load target result %q of record %s: %w", targetResultID, recordID, err)
	}
	if len(source) == 0 || len(target) == 0 {
		l.Warn("replay result invalid response",
			zap.String("record_id", recordID),
			zap.String("source_result_id", sourceResultID),
			zap.Int("source_size", len(source)),
			zap.String("target_result_id", targetResultID),
			zap.Int("target_size", len(target)),
		)
		return nil, nil
	}
	return MergeHolders(source, target), nil
}

// MergeHolders pairs two independently loaded holder lists by category. Each
// source holder's items move to the record slot and take the replay items of
// the first target holder with the same category, which is then consumed.
// Target holders left over are appended with an empty record side.
//
// A source category with no target match keeps an empty replay side, so its
// items report as missing counterparts instead of being diffed against
// themselves.
func MergeHolders(source, target []*replay.CategoryHolder) []*replay.CategoryHolder {
	pool := slices.Clone(target)
	merged := make([]*replay.CategoryHolder, 0, len(source)+len(target))

	for _, holder := range source {
		holder.Record = holder.ReplayResult
		holder.ReplayResult = nil
		if idx := indexByCategory(pool, holder.CategoryName); idx >= 0 {
			holder.ReplayResult = pool[idx].ReplayResult
			pool = slices.Delete(pool, idx, idx+1)
		}
		merged = append(merged, holder)
	}

	for _, holder := range pool {
		holder.Record = nil
		merged = append(merged, holder)
	}
	return merged
}

func indexByCategory(holders []*replay.CategoryHolder, category string) int {
	return slices.IndexFunc(holders, func(h *replay.CategoryHolder) bool {
		return h.CategoryName == category
	})
}
