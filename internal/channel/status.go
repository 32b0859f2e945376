package channel

import "time"

// Status is a snapshot of the dispatcher's run state.
type Status struct {
	Running bool
	// RunID changes on every successful Start so overlapping observers can
	// tell restarts apart.
	RunID       string
	AccountID   string
	LastStartAt time.Time
	LastStopAt  time.Time
	LastError   string
}
