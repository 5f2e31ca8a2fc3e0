// Package tracking persists the lifecycle of replay plans: it loads plans
// with their action items and pending cases, records compare status
// transitions and counts processed cases toward action completion.
package tracking
