package reconcile

import (
	"errors"

	"replay-scheduler/core/replay"
)

// ErrCompareNoOutcome is returned when a comparer yields neither an outcome nor an error.
var ErrCompareNoOutcome = errors.New("comparer returned no outcome")

// ErrReplayResultNotFound is the incomparable reason recorded when a
// dual-sided lookup finds no traces.
var ErrReplayResultNotFound = errors.New(replay.SendStatusReplayResultNotFound.String())

// GlobalOptions are the process-wide diff flags. They are built once at
// startup and handed to every diff by value.
type GlobalOptions struct {
	// NameToLower compares field names case-insensitively.
	NameToLower bool
	// NullEqualsEmpty treats null and empty values as equal.
	NullEqualsEmpty bool
}

// CompareOptions is the request handed to the structural diff for one pair.
type CompareOptions struct {
	Global   GlobalOptions
	Category string
	// SQLBodyParse parses SQL statements in database payloads before diffing.
	SQLBodyParse bool
	// OnlyCompareCoincidentColumn restricts row diffs to columns present on both sides.
	OnlyCompareCoincidentColumn bool
	Inclusions                  [][]string
	Exclusions                  [][]string
	ListSort                    map[string][]string
	Reference                   map[string][]string
	Decompress                  map[string][][]string
}

// Outcome is the result of one structural diff.
type Outcome struct {
	Code             replay.DiffResultCode
	ProcessedBaseMsg string
	ProcessedTestMsg string
	Logs             []replay.LogEntry
}

// OutcomeFromError builds the error-coded outcome for a pair whose diff failed.
func OutcomeFromError(base, test *string, err error) *Outcome {
	return &Outcome{
		Code:             replay.DiffError,
		ProcessedBaseMsg: deref(base),
		ProcessedTestMsg: deref(test),
		Logs:             []replay.LogEntry{{Message: err.Error()}},
	}
}

// EventKind tags timing events.
type EventKind string

const (
	// EventCompare is the overall duration of one case comparison.
	EventCompare EventKind = "COMPARE"
	// EventPushCompare is the duration of writing one case's results.
	EventPushCompare EventKind = "PUSH_COMPARE"
	// EventFindCase is the duration of loading the cases of an action.
	EventFindCase EventKind = "FIND_CASE"
)

// FailReason tags failure counters.
type FailReason string

const (
	FailReasonOther       FailReason = "OTHER"
	FailReasonCompareFail FailReason = "COMPARE_FAIL"
)

// Options tunes an Engine.
type Options struct {
	Global GlobalOptions
	// ErrorMessageStart and ErrorMessageEnd bound the window of a fault
	// message kept in a case's error field.
	ErrorMessageStart int
	ErrorMessageEnd   int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Global: GlobalOptions{
			NameToLower:     true,
			NullEqualsEmpty: true,
		},
		ErrorMessageStart: 0,
		ErrorMessageEnd:   1000,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
