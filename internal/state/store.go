// Package state keeps the history of executed statements in SQLite.
// It records one run per query invocation and one execution per statement.
package state

import "time"

// ExecutionStatus is the outcome of one statement.
type ExecutionStatus string

// Execution status values.
const (
	ExecutionStatusSuccess ExecutionStatus = "success"
	ExecutionStatusFailed  ExecutionStatus = "failed"
)

// Run is one invocation of the query command.
type Run struct {
	ID          string
	StartedAt   time.Time
	DatabaseKey string
	Format      string
}

// Execution is one statement executed during a run.
// StatementIndex is 1-based within File.
type Execution struct {
	RunID          string
	File           string
	StatementIndex int
	Statement      string
	OutputPath     string
	RowCount       int
	Status         ExecutionStatus
	Error          string
	ExecutedAt     time.Time
}
