package traces

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"

	"replay-scheduler/core/logger"
	"replay-scheduler/core/replay"
	"replay-scheduler/core/storage"
	"replay-scheduler/core/utils"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// recordObject is the object name of the original recording of a record.
const recordObject = "record"

// Mock is one stored interaction of a recorded or replayed execution.
type Mock struct {
	Category  string `json:"category"`
	Operation string `json:"operation"`
	Service   string `json:"service"`
	Body      any    `json:"body"`
}

// Loader reads categorized traces from object storage. The traces of a
// record live under <prefix>/<recordId>/, one JSON array of mocks per
// execution: record.json for the recording and <resultId>.json per replay.
type Loader struct {
	client storage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewLoader creates a trace loader.
func NewLoader(client storage.Client, bucket, prefix string, logger *zap.Logger) *Loader {
	return &Loader{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

// ObjectName returns the object holding the given execution of a record.
// An empty resultID selects the recording.
func (l *Loader) ObjectName(recordID, resultID string) string {
	name := resultID
	if name == "" {
		name = recordObject
	}
	return path.Join(l.prefix, recordID, name+".json")
}

// GetReplayResult returns the execution's mocks grouped by category in the
// order categories first appear. A missing object yields no holders.
func (l *Loader) GetReplayResult(ctx context.Context, recordID, resultID string) ([]*replay.CategoryHolder, error) {
	objectName := l.ObjectName(recordID, resultID)
	mocks, err := l.read(ctx, objectName)
	if err != nil {
		if storage.IsNotFound(err) {
			logger.FromContext(ctx, l.logger).Debug("Trace object not found",
				zap.String("bucket", l.bucket),
				zap.String("object", objectName),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read trace %s: %w", objectName, err)
	}
	return GroupByCategory(mocks), nil
}

func (l *Loader) read(ctx context.Context, objectName string) ([]Mock, error) {
	obj, err := l.client.GetObject(ctx, l.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	// minio reports a missing key on the first read, not on GetObject
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, err
	}

	var mocks []Mock
	if err := json.Unmarshal(data, &mocks); err != nil {
		return nil, fmt.Errorf("failed to decode mocks: %w", err)
	}
	return mocks, nil
}

// GroupByCategory converts mocks to compare items and buckets them by category.
// Every item lands in the ReplayResult slot.
func GroupByCategory(mocks []Mock) []*replay.CategoryHolder {
	var holders []*replay.CategoryHolder
	byCategory := make(map[string]*replay.CategoryHolder)

	for _, m := range mocks {
		holder, ok := byCategory[m.Category]
		if !ok {
			holder = &replay.CategoryHolder{CategoryName: m.Category}
			byCategory[m.Category] = holder
			holders = append(holders, holder)
		}
		holder.ReplayResult = append(holder.ReplayResult, &replay.CompareItem{
			Operation: m.Operation,
			Content:   utils.ToContent(m.Body),
			Service:   m.Service,
		})
	}
	return holders
}
