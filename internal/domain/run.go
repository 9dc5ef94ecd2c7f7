package domain

import "time"

// RunStats holds statistics about a single aggregation run.
type RunStats struct {
	Fetched    int
	Unique     int
	Duplicates int
	Published  int
	Errors     int
	Duration   time.Duration
}

// RunState tracks operational state across runs. Opportunity records
// themselves are never persisted; this is bookkeeping only.
type RunState struct {
	ID             int64     `db:"id"`
	Pipeline       string    `db:"pipeline"`
	LastRunAt      time.Time `db:"last_run_at"`
	TotalRuns      int64     `db:"total_runs"`
	TotalPublished int64     `db:"total_published"`
}
