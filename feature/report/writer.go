package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"replay-scheduler/core/logger"
	"replay-scheduler/core/replay"
	"replay-scheduler/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// batchSize bounds the rows inserted per statement.
const batchSize = 100

// Archive is the optional object storage copy of every written report.
type Archive struct {
	Client storage.Client
	Bucket string
	Prefix string
}

// Writer stores diff results in the database.
type Writer struct {
	db      *gorm.DB
	archive *Archive
	logger  *zap.Logger
}

// NewWriter creates a report writer. A nil archive disables archiving.
func NewWriter(db *gorm.DB, archive *Archive, logger *zap.Logger) *Writer {
	return &Writer{db: db, archive: archive, logger: logger}
}

// Write stores the results of one case. An empty list is accepted without
// touching the database.
func (w *Writer) Write(ctx context.Context, results []*replay.CompareResult) (bool, error) {
	if len(results) == 0 {
		return true, nil
	}
	if err := w.db.WithContext(ctx).CreateInBatches(results, batchSize).Error; err != nil {
		return false, fmt.Errorf("failed to store %d compare results: %w", len(results), err)
	}
	w.archiveResults(ctx, results)
	return true, nil
}

// WriteIncomparable stores one error-coded result carrying the reason no
// diff could be produced.
func (w *Writer) WriteIncomparable(ctx context.Context, caseItem *replay.ActionCaseItem, reason string) error {
	result := caseResult(caseItem, replay.DiffError)
	result.Logs = []replay.LogEntry{{Message: reason}}
	if err := w.db.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("failed to store incomparable result of case %s: %w", caseItem.ID, err)
	}
	w.archiveResults(ctx, []*replay.CompareResult{result})
	return nil
}

// WriteQMQCompareResult stores a single no-difference result for a case whose
// recording has no comparable traces.
func (w *Writer) WriteQMQCompareResult(ctx context.Context, caseItem *replay.ActionCaseItem) (bool, error) {
	result := caseResult(caseItem, replay.DiffNoDifference)
	if err := w.db.WithContext(ctx).Create(result).Error; err != nil {
		return false, fmt.Errorf("failed to store empty result of case %s: %w", caseItem.ID, err)
	}
	w.archiveResults(ctx, []*replay.CompareResult{result})
	return true, nil
}

// caseResult builds a result describing a case as a whole.
func caseResult(caseItem *replay.ActionCaseItem, code replay.DiffResultCode) *replay.CompareResult {
	result := replay.NewCompareResult(caseItem)
	result.CategoryName = caseItem.CaseType
	if caseItem.Parent != nil {
		result.OperationName = caseItem.Parent.OperationName
	}
	result.Code = code
	return result
}

// ObjectName returns the archive object of a case's results.
func (a *Archive) ObjectName(planID, caseID string) string {
	return path.Join(a.Prefix, planID, caseID+".json")
}

// archiveResults copies results to object storage. Failures are logged and
// never fail the write.
func (w *Writer) archiveResults(ctx context.Context, results []*replay.CompareResult) {
	if w.archive == nil || w.archive.Client == nil {
		return
	}
	l := logger.FromContext(ctx, w.logger)

	data, err := json.Marshal(results)
	if err != nil {
		l.Error("Failed to encode report archive", zap.Error(err))
		return
	}

	objectName := w.archive.ObjectName(results[0].PlanID, results[0].CaseID)
	_, err = w.archive.Client.PutObject(ctx, w.archive.Bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		l.Warn("Failed to archive report",
			zap.String("bucket", w.archive.Bucket),
			zap.String("object", objectName),
			zap.Error(err),
		)
	}
}
