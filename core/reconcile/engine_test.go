package reconcile

import (
	"context"
	"errors"
	"strings"
	"testing"

	"replay-scheduler/core/replay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompare_SingleSidedEqualContent covers a replay-only lookup whose one
// category pairs equal content.
func TestCompare_SingleSidedEqualContent(t *testing.T) {
	h := newHarness(&replay.ComparisonConfig{}, map[string][]*replay.CategoryHolder{
		"": {{
			CategoryName: "http",
			Record:       []*replay.CompareItem{item("/orders", `{"id":1}`)},
			ReplayResult: []*replay.CompareItem{item("/orders", `{"id":1}`)},
		}},
	})

	ok := h.engine.Compare(context.Background(), newCase(), false)

	assert.True(t, ok)
	require.Len(t, h.writer.writes, 1)
	require.Len(t, h.writer.writes[0], 1)
	result := h.writer.writes[0][0]
	assert.Equal(t, replay.DiffNoDifference, result.Code)
	assert.Equal(t, "/orders", result.OperationName)
	assert.Equal(t, "http", result.CategoryName)
	assert.Equal(t, "plan-1", result.PlanID)
	assert.Equal(t, []replay.CompareStatus{replay.CompareStatusPass}, h.status.updates)
	assert.Equal(t, 1, h.progress.finished)
	assert.Equal(t, []EventKind{EventPushCompare, EventCompare}, h.events.timings)
	assert.Empty(t, h.events.failSizes)
}

// TestCompare_ReplayResultNotFound covers a dual-sided lookup whose record
// side is empty.
func TestCompare_ReplayResultNotFound(t *testing.T) {
	h := newHarness(&replay.ComparisonConfig{}, map[string][]*replay.CategoryHolder{
		"replay-2": {{CategoryName: "http", ReplayResult: []*replay.CompareItem{item("/orders", "{}")}}},
	})
	caseItem := newCase()
	caseItem.SourceResultID = "replay-1"
	caseItem.TargetResultID = "replay-2"

	ok := h.engine.Compare(context.Background(), caseItem, true)

	assert.True(t, ok)
	assert.Equal(t, []replay.CompareStatus{replay.CompareStatusError, replay.CompareStatusPass}, h.status.updates)
	assert.Equal(t, []string{"REPLAY_RESULT_NOT_FOUND"}, h.writer.incomparable)
	assert.Equal(t, replay.SendStatusReplayResultNotFound, caseItem.SendStatus)
	assert.Equal(t, []FailReason{FailReasonOther}, h.events.failReasons)
	assert.Empty(t, h.writer.writes)
	assert.Equal(t, 1, h.progress.finished)
}

func TestCompare_NoTracesWithoutResultIDsWritesQMQResult(t *testing.T) {
	h := newHarness(&replay.ComparisonConfig{}, nil)

	ok := h.engine.Compare(context.Background(), newCase(), false)

	assert.True(t, ok)
	assert.Equal(t, 1, h.writer.qmq)
	assert.Empty(t, h.writer.incomparable)
	assert.Equal(t, []replay.CompareStatus{replay.CompareStatusPass}, h.status.updates)
	assert.Equal(t, 1, h.progress.finished)
}

// TestCompare_DatabaseExcludesBody inspects the request handed to the diff.
func TestCompare_DatabaseExcludesBody(t *testing.T) {
	cfg := &replay.ComparisonConfig{Exclusions: [][]string{{"header", "traceId"}}}
	h := newHarness(cfg, map[string][]*replay.CategoryHolder{
		"": {
			{
				CategoryName: replay.CategoryDatabase,
				Record:       []*replay.CompareItem{item("select", "a")},
				ReplayResult: []*replay.CompareItem{item("select", "a")},
			},
			{
				CategoryName: "http",
				Record:       []*replay.CompareItem{item("/orders", "b")},
				ReplayResult: []*replay.CompareItem{item("/orders", "b")},
			},
		},
	})

	h.engine.Compare(context.Background(), newCase(), false)

	require.Len(t, h.comparer.requests, 2)
	db := h.comparer.requests[0]
	assert.Equal(t, replay.CategoryDatabase, db.Category)
	assert.Contains(t, db.Exclusions, []string{"body"})
	assert.Contains(t, db.Exclusions, []string{"header", "traceId"})
	assert.True(t, db.SQLBodyParse)
	assert.True(t, db.OnlyCompareCoincidentColumn)
	assert.True(t, db.Global.NameToLower)
	assert.True(t, db.Global.NullEqualsEmpty)

	httpReq := h.comparer.requests[1]
	assert.NotContains(t, httpReq.Exclusions, []string{"body"})
	assert.Len(t, cfg.Exclusions, 1, "config must not be mutated")
}

// TestCompare_TraceLoaderFault covers a failure while fetching traces.
func TestCompare_TraceLoaderFault(t *testing.T) {
	h := newHarness(&replay.ComparisonConfig{}, nil)
	longMessage := strings.Repeat("x", 1500)
	h.traces.err = errors.New(longMessage)
	caseItem := newCase()

	ok := h.engine.Compare(context.Background(), caseItem, false)

	assert.True(t, ok)
	require.Len(t, h.writer.incomparable, 1)
	reason := h.writer.incomparable[0]
	assert.Len(t, []rune(reason), 1000)
	assert.Equal(t, caseItem.SendErrorMessage, reason)
	assert.NotContains(t, reason, longMessage)
	assert.True(t, strings.HasPrefix(caseItem.SendErrorMessage, "failed to load replay result"))
	assert.Equal(t, []replay.CompareStatus{replay.CompareStatusError, replay.CompareStatusPass}, h.status.updates)
	assert.Equal(t, []FailReason{FailReasonOther}, h.events.failReasons)
	assert.Equal(t, 1, h.progress.finished)
	assert.Equal(t, []EventKind{EventCompare}, h.events.timings)
}

func TestCompare_PanicIsRecovered(t *testing.T) {
	h := newHarness(&replay.ComparisonConfig{}, nil)
	h.traces.panicMsg = "storage down"
	caseItem := newCase()

	ok := h.engine.Compare(context.Background(), caseItem, false)

	assert.True(t, ok)
	require.Len(t, h.writer.incomparable, 1)
	assert.Contains(t, h.writer.incomparable[0], "storage down")
	assert.Contains(t, caseItem.SendErrorMessage, "storage down")
	assert.Equal(t, replay.CompareStatusPass, h.status.updates[len(h.status.updates)-1])
}

func TestCompare_ConfigFault(t *testing.T) {
	h := newHarness(nil, nil)
	h.configs.err = errors.New("config store unavailable")

	ok := h.engine.Compare(context.Background(), newCase(), false)

	assert.True(t, ok)
	require.Len(t, h.writer.incomparable, 1)
	assert.Contains(t, h.writer.incomparable[0], "config store unavailable")
	assert.Empty(t, h.traces.calls)
}

func TestCompare_WriteFault(t *testing.T) {
	h := newHarness(&replay.ComparisonConfig{}, map[string][]*replay.CategoryHolder{
		"": {{
			CategoryName: "http",
			Record:       []*replay.CompareItem{item("/orders", "a")},
			ReplayResult: []*replay.CompareItem{item("/orders", "a")},
		}},
	})
	h.writer.writeErr = errors.New("disk full")

	ok := h.engine.Compare(context.Background(), newCase(), false)

	assert.True(t, ok)
	require.Len(t, h.writer.incomparable, 1)
	assert.Contains(t, h.writer.incomparable[0], "disk full")
	assert.Equal(t, []replay.CompareStatus{replay.CompareStatusError, replay.CompareStatusPass}, h.status.updates)
	assert.Equal(t, []EventKind{EventPushCompare, EventCompare}, h.events.timings)
}

func TestCompare_DifferenceRecordsFailSize(t *testing.T) {
	h := newHarness(&replay.ComparisonConfig{}, map[string][]*replay.CategoryHolder{
		"": {{
			CategoryName: "http",
			Record:       []*replay.CompareItem{item("/orders", "a")},
			ReplayResult: []*replay.CompareItem{item("/orders", "b")},
		}},
	})

	h.engine.Compare(context.Background(), newCase(), false)

	require.Len(t, h.writer.writes, 1)
	assert.Equal(t, replay.DiffDifference, h.writer.writes[0][0].Code)
	assert.Equal(t, []string{"plan-1"}, h.events.failSizes)
}

func TestCompare_IgnoredCategoryIsSkipped(t *testing.T) {
	cfg := &replay.ComparisonConfig{IgnoreCategories: []string{replay.CategoryDatabase}}
	h := newHarness(cfg, map[string][]*replay.CategoryHolder{
		"": {{
			CategoryName: replay.CategoryDatabase,
			Record:       []*replay.CompareItem{item("select", "a")},
			ReplayResult: []*replay.CompareItem{item("select", "b")},
		}},
	})

	h.engine.Compare(context.Background(), newCase(), false)

	require.Len(t, h.writer.writes, 1)
	assert.Empty(t, h.writer.writes[0])
	assert.Empty(t, h.comparer.requests)
}

func TestCompare_DualSidedMergesByCategory(t *testing.T) {
	h := newHarness(&replay.ComparisonConfig{}, map[string][]*replay.CategoryHolder{
		"replay-1": {{CategoryName: "http", ReplayResult: []*replay.CompareItem{item("/orders", "a")}}},
		"replay-2": {
			{CategoryName: "http", ReplayResult: []*replay.CompareItem{item("/orders", "a")}},
			{CategoryName: "redis", ReplayResult: []*replay.CompareItem{item("get", "v")}},
		},
	})
	caseItem := newCase()
	caseItem.SourceResultID = "replay-1"
	caseItem.TargetResultID = "replay-2"

	h.engine.Compare(context.Background(), caseItem, true)

	assert.Equal(t, []string{"replay-1", "replay-2"}, h.traces.calls)
	require.Len(t, h.writer.writes, 1)
	results := h.writer.writes[0]
	require.Len(t, results, 2)
	assert.Equal(t, replay.DiffNoDifference, results[0].Code)
	assert.Equal(t, "redis", results[1].CategoryName)
	assert.Equal(t, replay.DiffMissing, results[1].Code)
	assert.Equal(t, "replay-2", results[0].ReplayID)
}

func TestCompare_ResultIDsIgnoredInSingleSidedMode(t *testing.T) {
	h := newHarness(&replay.ComparisonConfig{}, nil)
	caseItem := newCase()
	caseItem.SourceResultID = "replay-1"
	caseItem.TargetResultID = "replay-2"

	h.engine.Compare(context.Background(), caseItem, false)

	assert.Equal(t, []string{""}, h.traces.calls)
}
