package reconcile

import (
	"context"
	"slices"
	"testing"

	"replay-scheduler/core/replay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareCategory_BothSidesEmpty(t *testing.T) {
	h := newHarness(nil, nil)
	holder := &replay.CategoryHolder{CategoryName: "http"}

	results := h.engine.compareCategory(context.Background(), holder, &replay.ComparisonConfig{}, newCase())

	assert.Empty(t, results)
	assert.Empty(t, h.comparer.requests)
}

func TestCompareCategory_OneSideEmpty(t *testing.T) {
	tests := []struct {
		name   string
		holder *replay.CategoryHolder
	}{
		{
			name: "ReplayEmpty",
			holder: &replay.CategoryHolder{
				CategoryName: "http",
				Record:       []*replay.CompareItem{item("/a", "1"), item("/a", "2"), item("/b", "3")},
			},
		},
		{
			name: "RecordEmpty",
			holder: &replay.CategoryHolder{
				CategoryName: "http",
				ReplayResult: []*replay.CompareItem{item("/a", "1"), item("/c", "2")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(nil, nil)
			results := h.engine.compareCategory(context.Background(), tt.holder, &replay.ComparisonConfig{}, newCase())

			assert.Len(t, results, len(tt.holder.Record)+len(tt.holder.ReplayResult))
			for _, r := range results {
				assert.Equal(t, replay.DiffMissing, r.Code)
				assert.Equal(t, "order-service", r.ServiceName)
			}
		})
	}
}

func TestCompareCategory_OneSideEmptySkipsIgnoredKeys(t *testing.T) {
	h := newHarness(nil, nil)
	holder := &replay.CategoryHolder{
		CategoryName: "http",
		ReplayResult: []*replay.CompareItem{item("/health", "1"), item("/orders", "2")},
	}

	results := h.engine.compareCategory(context.Background(), holder, &replay.ComparisonConfig{IgnoreKeys: []string{"/health"}}, newCase())

	require.Len(t, results, 1)
	assert.Equal(t, "/orders", results[0].OperationName)
	assert.Len(t, h.comparer.requests, 1)
}

func TestCompareCategory_KeyMissingOnReplaySide(t *testing.T) {
	holder := &replay.CategoryHolder{
		CategoryName: "http",
		Record:       []*replay.CompareItem{item("K", "1"), item("K", "2"), item("K", "3"), item("J", "x")},
		ReplayResult: []*replay.CompareItem{item("J", "x")},
	}

	t.Run("Reported", func(t *testing.T) {
		h := newHarness(nil, nil)
		results := h.engine.compareCategory(context.Background(), holder, &replay.ComparisonConfig{}, newCase())

		var missing []*replay.CompareResult
		for _, r := range results {
			if r.OperationName == "K" {
				missing = append(missing, r)
			}
		}
		require.Len(t, missing, 3)
		for _, r := range missing {
			assert.Equal(t, replay.DiffMissing, r.Code)
		}
	})

	t.Run("Ignored", func(t *testing.T) {
		h := newHarness(nil, nil)
		results := h.engine.compareCategory(context.Background(), holder, &replay.ComparisonConfig{IgnoreKeys: []string{"K"}}, newCase())

		require.Len(t, results, 1)
		assert.Equal(t, "J", results[0].OperationName)
	})
}

func TestCompareCategory_ReplayOnlyKeysAreNotWalked(t *testing.T) {
	h := newHarness(nil, nil)
	holder := &replay.CategoryHolder{
		CategoryName: "http",
		Record:       []*replay.CompareItem{item("/a", "1")},
		ReplayResult: []*replay.CompareItem{item("/a", "1"), item("/extra", "2")},
	}

	results := h.engine.compareCategory(context.Background(), holder, &replay.ComparisonConfig{}, newCase())

	require.Len(t, results, 1)
	assert.Equal(t, "/a", results[0].OperationName)
}

func TestCompareCategory_PositionalAfterAlignment(t *testing.T) {
	h := newHarness(nil, nil)
	holder := &replay.CategoryHolder{
		CategoryName: "http",
		Record:       []*replay.CompareItem{item("/a", "r0"), item("/a", "r1"), item("/a", "r2")},
		ReplayResult: []*replay.CompareItem{item("/a", "t0"), item("/a", "t1"), item("/a", "t2")},
	}

	results := h.engine.compareCategory(context.Background(), holder, &replay.ComparisonConfig{}, newCase())

	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, holder.Record[i].Content, r.BaseMsg)
		assert.Equal(t, holder.ReplayResult[i].Content, r.TestMsg)
	}
}

func TestCompareCategory_UsesInjectedAlignment(t *testing.T) {
	h := newHarness(nil, nil)
	h.engine.align = func(base, test []string) ([]string, []string) {
		sortedBase, sortedTest := slices.Clone(base), slices.Clone(test)
		slices.Sort(sortedBase)
		slices.Sort(sortedTest)
		return sortedBase, sortedTest
	}
	holder := &replay.CategoryHolder{
		CategoryName: "http",
		Record:       []*replay.CompareItem{item("/a", "b"), item("/a", "a")},
		ReplayResult: []*replay.CompareItem{item("/a", "a"), item("/a", "b")},
	}

	results := h.engine.compareCategory(context.Background(), holder, &replay.ComparisonConfig{}, newCase())

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, replay.DiffNoDifference, r.Code)
	}
}

func TestCompareCategory_UnequalGroupSizesDiffShorterLength(t *testing.T) {
	h := newHarness(nil, nil)
	holder := &replay.CategoryHolder{
		CategoryName: "http",
		Record:       []*replay.CompareItem{item("/a", "1"), item("/a", "2"), item("/a", "3")},
		ReplayResult: []*replay.CompareItem{item("/a", "1")},
	}

	results := h.engine.compareCategory(context.Background(), holder, &replay.ComparisonConfig{}, newCase())

	require.Len(t, results, 1)
	assert.Equal(t, replay.DiffNoDifference, results[0].Code)
}

func TestCompareCategory_PairFaultDoesNotAbort(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *equalComparer)
		want  string
	}{
		{"Error", func(c *equalComparer) { c.failOn = "bad" }, "diff exploded"},
		{"Panic", func(c *equalComparer) { c.panicOn = "bad" }, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(nil, nil)
			tt.setup(h.comparer)
			holder := &replay.CategoryHolder{
				CategoryName: "http",
				Record:       []*replay.CompareItem{item("/a", "bad"), item("/b", "ok")},
				ReplayResult: []*replay.CompareItem{item("/a", "bad"), item("/b", "ok")},
			}

			results := h.engine.compareCategory(context.Background(), holder, &replay.ComparisonConfig{}, newCase())

			require.Len(t, results, 2)
			assert.Equal(t, replay.DiffError, results[0].Code)
			require.Len(t, results[0].Logs, 1)
			assert.Contains(t, results[0].Logs[0].Message, tt.want)
			assert.Equal(t, "bad", results[0].BaseMsg)
			assert.Equal(t, replay.DiffNoDifference, results[1].Code)
		})
	}
}
