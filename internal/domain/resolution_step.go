package domain

import "time"

// ResolutionStep is one ordered entry in the audit trail of actions taken to
// resolve a request. StepNumber is unique within a request; steps are never
// renumbered after a deletion.
type ResolutionStep struct {
	ID          string
	RequestID   string
	StepNumber  int
	Description string
	CreatedByID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
