// Package traces loads recorded and replayed interaction traces from object
// storage and shapes them into category holders for the reconciliation engine.
package traces
