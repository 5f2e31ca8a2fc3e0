// Package report writes diff results produced by the reconciliation engine.
//
// Results are stored in replay_compare_results. When an Archive is
// configured, each written batch is also copied as a JSON document to
// <prefix>/<planId>/<caseId>.json in object storage; archive failures are
// logged and do not fail the write.
package report
