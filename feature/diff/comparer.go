package diff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"replay-scheduler/core/reconcile"
	"replay-scheduler/core/replay"

	"github.com/gowebpki/jcs"
)

// maxLogs bounds the diagnostic entries reported for one pair.
const maxLogs = 50

// Comparer is the default structural diff. JSON payloads are normalized,
// canonicalized and compared field by field; anything else is compared as
// text.
type Comparer struct{}

// NewComparer creates the default comparer.
func NewComparer() *Comparer {
	return &Comparer{}
}

// Compare diffs one pair. A nil side yields a missing-counterpart outcome.
func (c *Comparer) Compare(base, test *string, opts reconcile.CompareOptions) (*reconcile.Outcome, error) {
	if base == nil || test == nil {
		return missing(base, test), nil
	}

	baseVal, baseJSON := decode(*base)
	testVal, testJSON := decode(*test)
	if !baseJSON || !testJSON {
		return compareText(*base, *test), nil
	}

	n := newNormalizer(opts)
	baseVal = n.normalize(baseVal)
	testVal = n.normalize(testVal)

	baseMsg, err := canonical(baseVal)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize base: %w", err)
	}
	testMsg, err := canonical(testVal)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize test: %w", err)
	}

	outcome := &reconcile.Outcome{
		Code:             replay.DiffNoDifference,
		ProcessedBaseMsg: baseMsg,
		ProcessedTestMsg: testMsg,
	}
	if baseMsg == testMsg {
		return outcome, nil
	}

	outcome.Code = replay.DiffDifference
	var w walker
	w.walk("$", baseVal, testVal)
	outcome.Logs = w.logs
	return outcome, nil
}

func missing(base, test *string) *reconcile.Outcome {
	message := "base is missing"
	if test == nil {
		message = "test is missing"
	}
	outcome := &reconcile.Outcome{Code: replay.DiffMissing, Logs: []replay.LogEntry{{Message: message}}}
	if base != nil {
		outcome.ProcessedBaseMsg = *base
	}
	if test != nil {
		outcome.ProcessedTestMsg = *test
	}
	return outcome
}

func compareText(base, test string) *reconcile.Outcome {
	outcome := &reconcile.Outcome{
		Code:             replay.DiffNoDifference,
		ProcessedBaseMsg: base,
		ProcessedTestMsg: test,
	}
	if base != test {
		outcome.Code = replay.DiffDifference
		outcome.Logs = []replay.LogEntry{{Path: "$", Base: base, Test: test, Message: "value mismatch"}}
	}
	return outcome
}

// decode parses content as JSON. Empty content is not JSON.
func decode(content string) (any, bool) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, false
	}
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return nil, false
	}
	return v, true
}

func canonical(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	out, err := jcs.Transform(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// normalizer applies the per-pair options to a decoded payload.
type normalizer struct {
	opts reconcile.CompareOptions
	// listSort is keyed by the slash-joined path of a list.
	listSort map[string][]string
}

func newNormalizer(opts reconcile.CompareOptions) normalizer {
	n := normalizer{opts: opts, listSort: make(map[string][]string, len(opts.ListSort))}
	for listPath, keys := range opts.ListSort {
		segments := n.path(strings.Split(listPath, "/"))
		n.listSort[strings.Join(segments, "/")] = n.path(keys)
	}
	return n
}

func (n normalizer) normalize(v any) any {
	v = n.rewrite(nil, v)
	for _, p := range n.opts.Exclusions {
		v = remove(v, n.path(p))
	}
	if len(n.opts.Inclusions) > 0 {
		kept := make([][]string, 0, len(n.opts.Inclusions))
		for _, p := range n.opts.Inclusions {
			kept = append(kept, n.path(p))
		}
		v = keep(v, kept)
	}
	return v
}

func (n normalizer) path(p []string) []string {
	if !n.opts.Global.NameToLower {
		return p
	}
	lowered := make([]string, len(p))
	for i, seg := range p {
		lowered[i] = strings.ToLower(seg)
	}
	return lowered
}

// rewrite lowers keys, sorts configured lists and folds null into "".
func (n normalizer) rewrite(at []string, v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			if n.opts.Global.NameToLower {
				k = strings.ToLower(k)
			}
			out[k] = n.rewrite(append(slices.Clip(at), k), child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = n.rewrite(at, child)
		}
		if keys, ok := n.listSort[strings.Join(at, "/")]; ok {
			sortList(out, keys)
		}
		return out
	case nil:
		if n.opts.Global.NullEqualsEmpty {
			return ""
		}
		return nil
	default:
		return val
	}
}

// sortList orders object elements by the values of keys.
func sortList(list []any, keys []string) {
	sortKey := func(v any) string {
		obj, ok := v.(map[string]any)
		if !ok {
			return fmt.Sprint(v)
		}
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprint(obj[k])
		}
		return strings.Join(parts, "\x00")
	}
	slices.SortStableFunc(list, func(a, b any) int {
		return strings.Compare(sortKey(a), sortKey(b))
	})
}

// remove deletes the value at path from every object along it. Arrays are
// traversed transparently.
func remove(v any, path []string) any {
	if len(path) == 0 {
		return v
	}
	switch val := v.(type) {
	case map[string]any:
		if len(path) == 1 {
			delete(val, path[0])
			return val
		}
		if child, ok := val[path[0]]; ok {
			val[path[0]] = remove(child, path[1:])
		}
	case []any:
		for i, child := range val {
			val[i] = remove(child, path)
		}
	}
	return v
}

// keep retains only the values on the given paths.
func keep(v any, paths [][]string) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any)
		for _, p := range paths {
			if len(p) == 0 {
				return val
			}
			child, ok := val[p[0]]
			if !ok {
				continue
			}
			var rest [][]string
			whole := false
			for _, q := range paths {
				if len(q) > 0 && q[0] == p[0] {
					if len(q) == 1 {
						whole = true
					}
					rest = append(rest, q[1:])
				}
			}
			if whole {
				out[p[0]] = child
			} else {
				out[p[0]] = keep(child, rest)
			}
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = keep(child, paths)
		}
		return out
	default:
		return v
	}
}

// walker collects the differences between two normalized values.
type walker struct {
	logs []replay.LogEntry
}

func (w *walker) add(path string, base, test any, message string) {
	if len(w.logs) >= maxLogs {
		return
	}
	w.logs = append(w.logs, replay.LogEntry{Path: path, Base: render(base), Test: render(test), Message: message})
}

func (w *walker) walk(path string, base, test any) {
	switch b := base.(type) {
	case map[string]any:
		t, ok := test.(map[string]any)
		if !ok {
			w.add(path, base, test, "type mismatch")
			return
		}
		keys := make([]string, 0, len(b)+len(t))
		for k := range b {
			keys = append(keys, k)
		}
		for k := range t {
			if _, ok := b[k]; !ok {
				keys = append(keys, k)
			}
		}
		slices.Sort(keys)
		for _, k := range keys {
			bv, inBase := b[k]
			tv, inTest := t[k]
			child := path + "." + k
			switch {
			case !inBase:
				w.add(child, nil, tv, "field missing in base")
			case !inTest:
				w.add(child, bv, nil, "field missing in test")
			default:
				w.walk(child, bv, tv)
			}
		}
	case []any:
		t, ok := test.([]any)
		if !ok {
			w.add(path, base, test, "type mismatch")
			return
		}
		if len(b) != len(t) {
			w.add(path, len(b), len(t), "list size mismatch")
		}
		for i := range min(len(b), len(t)) {
			w.walk(fmt.Sprintf("%s[%d]", path, i), b[i], t[i])
		}
	default:
		if render(base) != render(test) || (base == nil) != (test == nil) {
			w.add(path, base, test, "value mismatch")
		}
	}
}

func render(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(val); err != nil {
			return fmt.Sprint(val)
		}
		return strings.TrimSuffix(buf.String(), "\n")
	}
}
