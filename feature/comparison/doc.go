// Package comparison runs the reconciliation engine over replay plans.
//
// The Service loads a plan's pending cases and compares them on a bounded
// worker pool; each case is independent, so the pool size only limits how
// many run at once. The Handler exposes the service over HTTP:
//
//	POST /compare/plans/:planId?useResultIds=true
//	POST /compare/cases/:caseId
//
// Both respond with a Summary of the run.
package comparison
