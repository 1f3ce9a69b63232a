package model

import (
	"encoding/json"
	"time"
)

// Run is one recorded task invocation from the CLI.
type Run struct {
	ID        string
	Task      string
	Model     string // empty when dispatch failed
	OK        bool
	Error     string
	Output    json.RawMessage // task data, or its fallback when OK is false
	CreatedAt time.Time
}

// RunStore keeps a local history of task runs.
type RunStore interface {
	Record(run Run) error
	Recent(limit int) ([]Run, error)
	Cleanup(olderThan time.Duration) (int64, error)
}
