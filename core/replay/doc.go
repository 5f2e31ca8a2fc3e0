// Package replay defines the data model of a replay run.
//
// A Plan owns ActionItems (one per operation under test) and each ActionItem
// owns the ActionCaseItems replayed against its target instances. Parents are
// linked in memory by the binder helpers after loading; they are never
// persisted as foreign objects.
//
// The package also holds the comparison vocabulary shared by the engine and
// its collaborators: CategoryHolder, CompareItem, ComparisonConfig and
// CompareResult, together with the status and result code enums.
package replay
