// Package observability provides the dayplan audit trail and diagnostics:
// an append-only JSON Lines event log of todo operations, metrics derived
// from it on demand, notification forwarding, and the leveled diagnostic
// logger.
package observability
