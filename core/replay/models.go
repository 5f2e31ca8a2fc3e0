package replay

import "time"

// Plan is a top-level regression run.
type Plan struct {
	ID string `gorm:"column:id;primaryKey" json:"id"`
	// AppID identifies the application whose recorded traffic is replayed.
	AppID string `gorm:"column:app_id" json:"app_id"`
	// CaseSourceFrom and CaseSourceTo bound the recording window cases are taken from.
	CaseSourceFrom time.Time `gorm:"column:case_source_from" json:"case_source_from"`
	CaseSourceTo   time.Time `gorm:"column:case_source_to" json:"case_source_to"`
	// CaseSourceType is the environment tag the cases were recorded in.
	CaseSourceType string `gorm:"column:case_source_type" json:"case_source_type"`
	// RecordVersion optionally pins the recording agent format version.
	RecordVersion string `gorm:"column:record_version" json:"record_version,omitempty"`

	ActionItems []*ActionItem `gorm:"-" json:"-"`
}

// TableName overrides the table name used by GORM.
func (Plan) TableName() string {
	return "replay_plans"
}

// ActionItem is one operation under test (e.g. one API endpoint) within a plan.
type ActionItem struct {
	ID            string `gorm:"column:id;primaryKey" json:"id"`
	PlanID        string `gorm:"column:plan_id;index" json:"plan_id"`
	OperationName string `gorm:"column:operation_name" json:"operation_name"`
	// ActionType is the entry point category cases of this action are recorded as.
	ActionType string `gorm:"column:action_type" json:"action_type"`
	// CaseTotal and CaseProcessed feed the progress tracker.
	CaseTotal     int  `gorm:"column:case_total" json:"case_total"`
	CaseProcessed int  `gorm:"column:case_processed" json:"case_processed"`
	Finished      bool `gorm:"column:finished" json:"finished"`

	TargetInstances []ServiceInstance `gorm:"column:target_instances;serializer:json" json:"target_instances"`

	Parent    *Plan             `gorm:"-" json:"-"`
	CaseItems []*ActionCaseItem `gorm:"-" json:"-"`
}

// TableName overrides the table name used by GORM.
func (ActionItem) TableName() string {
	return "replay_action_items"
}

// ServiceInstance is one resolved target deployment instance.
type ServiceInstance struct {
	IP       string `json:"ip"`
	Port     int    `json:"port"`
	Protocol string `json:"protocol"`
	URL      string `json:"url"`
}

// ActionCaseItem is one replay attempt of a recorded interaction.
type ActionCaseItem struct {
	ID         string `gorm:"column:id;primaryKey" json:"id"`
	PlanItemID string `gorm:"column:plan_item_id;index" json:"plan_item_id"`
	RecordID   string `gorm:"column:record_id" json:"record_id"`
	// SourceResultID and TargetResultID select the stored executions to read the
	// record side and the replay side from. Empty means fall back to a
	// category-only lookup against the recording.
	SourceResultID   string        `gorm:"column:source_result_id" json:"source_result_id"`
	TargetResultID   string        `gorm:"column:target_result_id" json:"target_result_id"`
	CaseType         string        `gorm:"column:case_type" json:"case_type"`
	SendStatus       SendStatus    `gorm:"column:send_status" json:"send_status"`
	CompareStatus    CompareStatus `gorm:"column:compare_status;index" json:"compare_status"`
	SendErrorMessage string        `gorm:"column:send_error_message" json:"send_error_message,omitempty"`
	RecordTime       time.Time     `gorm:"column:record_time" json:"record_time"`

	Parent *ActionItem `gorm:"-" json:"-"`
}

// TableName overrides the table name used by GORM.
func (ActionCaseItem) TableName() string {
	return "replay_action_case_items"
}

// PlanID returns the id of the owning plan, or empty when the case is unbound.
func (c *ActionCaseItem) PlanID() string {
	if c.Parent == nil {
		return ""
	}
	return c.Parent.PlanID
}

// CompareItem is one comparable unit within a category.
type CompareItem struct {
	// Operation is the logical key record and replay items are matched by.
	Operation string
	// Content is the payload handed to the structural diff.
	Content string
	// Service is the originating service name.
	Service string
}

// CategoryHolder bundles the record side and replay side items of one category.
type CategoryHolder struct {
	CategoryName string
	Record       []*CompareItem
	ReplayResult []*CompareItem
}

// ComparisonConfig parameterizes diffing for one plan.
type ComparisonConfig struct {
	IgnoreCategories []string
	IgnoreKeys       []string
	Inclusions       [][]string
	Exclusions       [][]string
	// ListSort maps a list path to the keys its elements are sorted by.
	ListSort map[string][]string
	// Reference maps a field path to the path it references.
	Reference map[string][]string
	// Decompress maps a decompression algorithm name to the paths it applies to.
	Decompress map[string][][]string
}

// IgnoreCategory reports whether an entire category is skipped.
func (c *ComparisonConfig) IgnoreCategory(category string) bool {
	for _, ignored := range c.IgnoreCategories {
		if ignored == category {
			return true
		}
	}
	return false
}

// IgnoreKey reports whether an operation key is skipped.
func (c *ComparisonConfig) IgnoreKey(operation string) bool {
	for _, key := range c.IgnoreKeys {
		if key == operation {
			return true
		}
	}
	return false
}

// LogEntry is one diagnostic line produced by the structural diff.
type LogEntry struct {
	Path    string `json:"path,omitempty"`
	Base    string `json:"base,omitempty"`
	Test    string `json:"test,omitempty"`
	Message string `json:"message"`
}

// CompareResult is one emitted diff record.
type CompareResult struct {
	ID            uint           `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	PlanID        string         `gorm:"column:plan_id;index" json:"plan_id"`
	PlanItemID    string         `gorm:"column:plan_item_id" json:"plan_item_id"`
	CaseID        string         `gorm:"column:case_id;index" json:"case_id"`
	RecordID      string         `gorm:"column:record_id" json:"record_id"`
	ReplayID      string         `gorm:"column:replay_id" json:"replay_id"`
	OperationName string         `gorm:"column:operation_name" json:"operation_name"`
	CategoryName  string         `gorm:"column:category_name" json:"category_name"`
	ServiceName   string         `gorm:"column:service_name" json:"service_name,omitempty"`
	BaseMsg       string         `gorm:"column:base_msg" json:"base_msg"`
	TestMsg       string         `gorm:"column:test_msg" json:"test_msg"`
	Logs          []LogEntry     `gorm:"column:logs;serializer:json" json:"logs"`
	Code          DiffResultCode `gorm:"column:diff_result_code" json:"diff_result_code"`
	CreatedAt     time.Time      `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name used by GORM.
func (CompareResult) TableName() string {
	return "replay_compare_results"
}

// NewCompareResult creates an empty result bound to the given case.
func NewCompareResult(caseItem *ActionCaseItem) *CompareResult {
	return &CompareResult{
		PlanID:     caseItem.PlanID(),
		PlanItemID: caseItem.PlanItemID,
		CaseID:     caseItem.ID,
		RecordID:   caseItem.RecordID,
		ReplayID:   caseItem.TargetResultID,
	}
}
