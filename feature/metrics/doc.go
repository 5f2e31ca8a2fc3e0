// Package metrics exports reconciliation events to prometheus.
package metrics
