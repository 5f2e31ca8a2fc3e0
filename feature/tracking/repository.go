package tracking

import (
	"context"
	"errors"
	"fmt"

	"replay-scheduler/core/replay"

	"gorm.io/gorm"
)

var (
	// ErrPlanNotFound is returned when a plan id matches no plan.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrCaseNotFound is returned when a case id matches no case.
	ErrCaseNotFound = errors.New("case not found")
)

// Repository persists plans, action items and cases. It serves as the
// engine's case status store and progress tracker.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpdateCompareStatus sets the compare status of a case.
func (r *Repository) UpdateCompareStatus(ctx context.Context, caseID string, status replay.CompareStatus) error {
	err := r.db.WithContext(ctx).
		Model(&replay.ActionCaseItem{}).
		Where("id = ?", caseID).
		Update("compare_status", status).Error
	if err != nil {
		return fmt.Errorf("failed to update compare status of case %s: %w", caseID, err)
	}
	return nil
}

// SaveSendOutcome persists the send status and error message the engine set
// on a case.
func (r *Repository) SaveSendOutcome(ctx context.Context, caseItem *replay.ActionCaseItem) error {
	err := r.db.WithContext(ctx).
		Model(&replay.ActionCaseItem{}).
		Where("id = ?", caseItem.ID).
		Updates(map[string]any{
			"send_status":        caseItem.SendStatus,
			"send_error_message": caseItem.SendErrorMessage,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to save send outcome of case %s: %w", caseItem.ID, err)
	}
	return nil
}

// FinishOne counts one more processed case of the case's action item and
// marks the action finished once every case is processed.
func (r *Repository) FinishOne(ctx context.Context, caseItem *replay.ActionCaseItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&replay.ActionItem{}).
			Where("id = ?", caseItem.PlanItemID).
			Update("case_processed", gorm.Expr("case_processed + ?", 1)).Error
		if err != nil {
			return fmt.Errorf("failed to advance progress of action %s: %w", caseItem.PlanItemID, err)
		}

		err = tx.Model(&replay.ActionItem{}).
			Where("id = ? AND case_processed >= case_total", caseItem.PlanItemID).
			Update("finished", true).Error
		if err != nil {
			return fmt.Errorf("failed to finish action %s: %w", caseItem.PlanItemID, err)
		}
		return nil
	})
}

// LoadPlan loads a plan with its action items and their cases still waiting
// to be compared, all linked to their parents.
func (r *Repository) LoadPlan(ctx context.Context, planID string) (*replay.Plan, error) {
	db := r.db.WithContext(ctx)

	var plan replay.Plan
	if err := db.Where("id = ?", planID).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
		}
		return nil, fmt.Errorf("failed to load plan %s: %w", planID, err)
	}

	var actions []*replay.ActionItem
	if err := db.Where("plan_id = ?", planID).Order("id").Find(&actions).Error; err != nil {
		return nil, fmt.Errorf("failed to load action items of plan %s: %w", planID, err)
	}
	plan.ActionItems = actions
	replay.BindActionParent(actions, &plan)
	if len(actions) == 0 {
		return &plan, nil
	}

	ids := make([]string, len(actions))
	for i, action := range actions {
		ids[i] = action.ID
	}

	var cases []*replay.ActionCaseItem
	err := db.Where("plan_item_id IN ? AND compare_status = ?", ids, replay.CompareStatusWaitHandling).
		Order("record_time").
		Find(&cases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cases of plan %s: %w", planID, err)
	}

	byAction := make(map[string][]*replay.ActionCaseItem, len(actions))
	for _, caseItem := range cases {
		byAction[caseItem.PlanItemID] = append(byAction[caseItem.PlanItemID], caseItem)
	}
	for _, action := range actions {
		action.CaseItems = byAction[action.ID]
		replay.BindCaseParent(action.CaseItems, action)
	}
	return &plan, nil
}

// FindCase loads one case together with its action item and plan.
func (r *Repository) FindCase(ctx context.Context, caseID string) (*replay.ActionCaseItem, error) {
	db := r.db.WithContext(ctx)

	var caseItem replay.ActionCaseItem
	if err := db.Where("id = ?", caseID).First(&caseItem).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCaseNotFound, caseID)
		}
		return nil, fmt.Errorf("failed to load case %s: %w", caseID, err)
	}

	var action replay.ActionItem
	if err := db.Where("id = ?", caseItem.PlanItemID).First(&action).Error; err != nil {
		return nil, fmt.Errorf("failed to load action item %s of case %s: %w", caseItem.PlanItemID, caseID, err)
	}

	var plan replay.Plan
	if err := db.Where("id = ?", action.PlanID).First(&plan).Error; err != nil {
		return nil, fmt.Errorf("failed to load plan %s of case %s: %w", action.PlanID, caseID, err)
	}

	replay.BindActionParent([]*replay.ActionItem{&action}, &plan)
	action.CaseItems = []*replay.ActionCaseItem{&caseItem}
	replay.BindCaseParent(action.CaseItems, &action)
	return &caseItem, nil
}
