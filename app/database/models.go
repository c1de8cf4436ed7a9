package database

import (
	"time"
)

const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// Run records a single archive-and-compile run in the history database.
type Run struct {
	ID            string
	Source        string
	ReferenceDate string
	Status        string
	StartedAt     time.Time
	FinishedAt    *time.Time
	Discovered    int
	Extracted     int
	Failed        int
	Added         int
	Superseded    int
	Expired       int
	Archived      int
	DigestPath    string
	Error         string
}

// RunError records one per-record failure within a run.
type RunError struct {
	RunID   string
	URL     string
	Stage   string
	Message string
}
