package reconcile

import (
	"context"
	"sync"
	"time"

	"replay-scheduler/core/replay"
)

// fakeConfigs returns a fixed config.
type fakeConfigs struct {
	cfg *replay.ComparisonConfig
	err error
}

func (f *fakeConfigs) LoadConfig(ctx context.Context, action *replay.ActionItem) (*replay.ComparisonConfig, error) {
	return f.cfg, f.err
}

// fakeTraces serves holders keyed by result id.
type fakeTraces struct {
	byResult map[string][]*replay.CategoryHolder
	err      error
	panicMsg string
	calls    []string
}

func (f *fakeTraces) GetReplayResult(ctx context.Context, recordID, resultID string) ([]*replay.CategoryHolder, error) {
	f.calls = append(f.calls, resultID)
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.byResult[resultID], nil
}

type fakeStatus struct {
	mu      sync.Mutex
	updates []replay.CompareStatus
}

func (f *fakeStatus) UpdateCompareStatus(ctx context.Context, caseID string, status replay.CompareStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, status)
	return nil
}

type fakeProgress struct {
	finished int
}

func (f *fakeProgress) FinishOne(ctx context.Context, caseItem *replay.ActionCaseItem) error {
	f.finished++
	return nil
}

type fakeWriter struct {
	writes       [][]*replay.CompareResult
	incomparable []string
	qmq          int
	writeErr     error
}

func (f *fakeWriter) Write(ctx context.Context, results []*replay.CompareResult) (bool, error) {
	if f.writeErr != nil {
		return false, f.writeErr
	}
	f.writes = append(f.writes, results)
	return true, nil
}

func (f *fakeWriter) WriteIncomparable(ctx context.Context, caseItem *replay.ActionCaseItem, reason string) error {
	f.incomparable = append(f.incomparable, reason)
	return nil
}

func (f *fakeWriter) WriteQMQCompareResult(ctx context.Context, caseItem *replay.ActionCaseItem) (bool, error) {
	f.qmq++
	return true, nil
}

type fakeEvents struct {
	timings     []EventKind
	failReasons []FailReason
	failSizes   []string
}

func (f *fakeEvents) OnTiming(kind EventKind, elapsed time.Duration, planItemID string, action *replay.ActionItem) {
	f.timings = append(f.timings, kind)
}

func (f *fakeEvents) FailReason(caseItem *replay.ActionCaseItem, reason FailReason) {
	f.failReasons = append(f.failReasons, reason)
}

func (f *fakeEvents) FailSize(planID string, size int, reason FailReason) {
	f.failSizes = append(f.failSizes, planID)
}

// equalComparer reports no difference when both sides are present and equal.
type equalComparer struct {
	requests []CompareOptions
	failOn   string
	panicOn  string
}

func (c *equalComparer) Compare(base, test *string, opts CompareOptions) (*Outcome, error) {
	c.requests = append(c.requests, opts)
	if c.failOn != "" && (deref(base) == c.failOn || deref(test) == c.failOn) {
		return nil, errFake
	}
	if c.panicOn != "" && deref(base) == c.panicOn {
		panic("boom")
	}
	code := replay.DiffNoDifference
	switch {
	case base == nil || test == nil:
		code = replay.DiffMissing
	case *base != *test:
		code = replay.DiffDifference
	}
	return &Outcome{Code: code, ProcessedBaseMsg: deref(base), ProcessedTestMsg: deref(test)}, nil
}

type fakeError string

func (e fakeError) Error() string { return string(e) }

const errFake = fakeError("diff exploded")

type harness struct {
	configs  *fakeConfigs
	traces   *fakeTraces
	status   *fakeStatus
	progress *fakeProgress
	writer   *fakeWriter
	events   *fakeEvents
	comparer *equalComparer
	engine   *Engine
}

func newHarness(cfg *replay.ComparisonConfig, byResult map[string][]*replay.CategoryHolder) *harness {
	h := &harness{
		configs:  &fakeConfigs{cfg: cfg},
		traces:   &fakeTraces{byResult: byResult},
		status:   &fakeStatus{},
		progress: &fakeProgress{},
		writer:   &fakeWriter{},
		events:   &fakeEvents{},
		comparer: &equalComparer{},
	}
	h.engine = NewEngine(Deps{
		Configs:  h.configs,
		Traces:   h.traces,
		Status:   h.status,
		Progress: h.progress,
		Writer:   h.writer,
		Events:   h.events,
		Comparer: h.comparer,
	}, DefaultOptions())
	return h
}

func newCase() *replay.ActionCaseItem {
	plan := &replay.Plan{ID: "plan-1", AppID: "orders"}
	action := &replay.ActionItem{ID: "item-1", PlanID: plan.ID, Parent: plan}
	return &replay.ActionCaseItem{
		ID:         "case-1",
		PlanItemID: action.ID,
		RecordID:   "record-1",
		Parent:     action,
	}
}

func item(operation, content string) *replay.CompareItem {
	return &replay.CompareItem{Operation: operation, Content: content, Service: "order-service"}
}
