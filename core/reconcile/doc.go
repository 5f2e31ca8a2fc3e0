// Package reconcile reconciles a replayed case against its original recording.
//
// For one case the Engine loads the plan's comparison config, fetches the
// categorized interaction traces of both sides, pairs entries of the same
// category and operation key, hands every pair to the structural diff and
// writes the resulting report.
//
// # Architecture
//
// The engine owns only the pairing logic. Everything else is a collaborator
// behind an interface:
//
//   - ConfigProvider: ignore/include/exclude keys and list-sort, reference and
//     decompression rules per plan.
//   - TraceLoader: categorized traces of one stored execution.
//   - Comparer and AlignFunc: the structural diff and the pairing strategy
//     that lines up semantically equal entries before positional diffing.
//   - ReportWriter, StatusStore, ProgressTracker, EventSink: outputs.
//
// # Pairing
//
// Within a category, items are grouped by operation key. Keys present only on
// the record side are reported as missing counterparts; shared keys are
// aligned and diffed index by index up to the shorter side. When a whole side
// of a category is empty, every item of the other side is reported as missing.
//
// # Failure handling
//
// A failing diff of one pair becomes an error-coded result and the case goes
// on. Any other failure (trace loading, config, writing, or a panic) marks the
// case ERROR and records it as incomparable. Every path ends by setting the
// case status to PASS, advancing progress and emitting the COMPARE timing
// event, so PASS means "attempt finished", not "no differences".
//
// # Usage
//
//	engine := reconcile.NewEngine(reconcile.Deps{
//	    Configs:  configs,
//	    Traces:   traces,
//	    Status:   cases,
//	    Progress: progress,
//	    Writer:   writer,
//	    Events:   sink,
//	    Comparer: diff.NewComparer(),
//	    Align:    diff.Align,
//	    Logger:   log,
//	}, reconcile.DefaultOptions())
//
//	engine.Compare(ctx, caseItem, true)
package reconcile
