package comparison

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"replay-scheduler/core/reconcile"
	"replay-scheduler/core/replay"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrCaseAlreadyCompared is returned when a case has left the pending state.
var ErrCaseAlreadyCompared = errors.New("case already compared")

// Engine compares one case.
type Engine interface {
	Compare(ctx context.Context, caseItem *replay.ActionCaseItem, useResultIDs bool) bool
}

// CaseStore loads the cases to compare and persists what the engine set on them.
type CaseStore interface {
	LoadPlan(ctx context.Context, planID string) (*replay.Plan, error)
	FindCase(ctx context.Context, caseID string) (*replay.ActionCaseItem, error)
	SaveSendOutcome(ctx context.Context, caseItem *replay.ActionCaseItem) error
}

// Summary reports one comparison run.
type Summary struct {
	PlanID string `json:"plan_id"`
	// Cases is the number of cases submitted to the engine.
	Cases int `json:"cases"`
	// Handled counts cases the engine reported as done.
	Handled  int    `json:"handled"`
	Duration string `json:"duration"`
}

// Service drives the engine over the pending cases of a plan with a bounded
// worker pool.
type Service struct {
	engine  Engine
	store   CaseStore
	events  reconcile.EventSink
	workers int
	logger  *zap.Logger
}

// NewService creates a comparison service. workers below one run cases sequentially.
func NewService(engine Engine, store CaseStore, events reconcile.EventSink, workers int, logger *zap.Logger) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		engine:  engine,
		store:   store,
		events:  events,
		workers: workers,
		logger:  logger,
	}
}

// ComparePlan compares every pending case of a plan.
func (s *Service) ComparePlan(ctx context.Context, planID string, useResultIDs bool) (*Summary, error) {
	begin := time.Now()

	plan, err := s.store.LoadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	s.events.OnTiming(reconcile.EventFindCase, time.Since(begin), "", nil)

	var cases []*replay.ActionCaseItem
	for _, action := range plan.ActionItems {
		cases = append(cases, action.CaseItems...)
	}

	s.logger.Info("Comparing plan",
		zap.String("plan_id", planID),
		zap.Int("actions", len(plan.ActionItems)),
		zap.Int("cases", len(cases)),
		zap.Int("workers", s.workers),
	)

	handled, err := s.run(ctx, cases, useResultIDs)
	summary := &Summary{
		PlanID:   planID,
		Cases:    len(cases),
		Handled:  handled,
		Duration: time.Since(begin).String(),
	}
	if err != nil {
		return summary, fmt.Errorf("plan %s interrupted: %w", planID, err)
	}

	s.logger.Info("Plan compared",
		zap.String("plan_id", planID),
		zap.Int("handled", handled),
		zap.String("duration", summary.Duration),
	)
	return summary, nil
}

// CompareCase compares a single pending case. Cases that already went through
// the engine are rejected so plan progress is only advanced once per case.
func (s *Service) CompareCase(ctx context.Context, caseID string, useResultIDs bool) (*Summary, error) {
	begin := time.Now()

	caseItem, err := s.store.FindCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if caseItem.CompareStatus != replay.CompareStatusWaitHandling {
		return nil, fmt.Errorf("%w: %s is %s", ErrCaseAlreadyCompared, caseID, caseItem.CompareStatus)
	}
	s.events.OnTiming(reconcile.EventFindCase, time.Since(begin), caseItem.PlanItemID, caseItem.Parent)

	handled, err := s.run(ctx, []*replay.ActionCaseItem{caseItem}, useResultIDs)
	if err != nil {
		return nil, err
	}
	return &Summary{
		PlanID:   caseItem.PlanID(),
		Cases:    1,
		Handled:  handled,
		Duration: time.Since(begin).String(),
	}, nil
}

func (s *Service) run(ctx context.Context, cases []*replay.ActionCaseItem, useResultIDs bool) (int, error) {
	var handled atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, caseItem := range cases {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if s.engine.Compare(gctx, caseItem, useResultIDs) {
				handled.Add(1)
			}
			if err := s.store.SaveSendOutcome(gctx, caseItem); err != nil {
				s.logger.Error("Failed to save send outcome",
					zap.String("case_id", caseItem.ID),
					zap.Error(err),
				)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(handled.Load()), err
	}
	// Cancellation observed only by the dispatch loop leaves no worker error.
	if err := ctx.Err(); err != nil {
		return int(handled.Load()), err
	}
	return int(handled.Load()), nil
}
