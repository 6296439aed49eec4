// Package store provides a SQLite-backed log of node evaluations.
//
// Every compute pass of a node can be appended as one row holding the
// input snapshot, the outputs and, for failed solves, the error code and
// message. The log is for diagnosis only: nothing is ever read back into a
// node.
//
// Rows are grouped by run (one CLI invocation or rig session). Within a run
// the node's logical clock orders evaluations, so all reads use
// ORDER BY seq ASC, node ASC COLLATE BINARY and never wall time.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
