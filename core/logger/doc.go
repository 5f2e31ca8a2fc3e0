// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and integrates with the Fiber web framework.
//
// # Correlation
//
// Comparisons run concurrently across thousands of cases, so correlation ids are never kept in
// process-wide state. WithCorrelation binds the plan and plan item ids to a child logger, and
// NewContext/FromContext carry that logger through context.Context to every collaborator the
// engine calls. Dropping the child logger at the end of a call is all the cleanup needed.
//
// HTTP requests get the same treatment through WithRayID, which attaches the ray id set by the
// rayid middleware.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	l := logger.WithCorrelation(log, planID, planItemID)
//	ctx = logger.NewContext(ctx, l)
package logger
