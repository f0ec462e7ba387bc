package domain

import "time"

// RevisionStatus is the lifecycle state of a revision entry.
type RevisionStatus string

const (
	RevisionPending    RevisionStatus = "pending"
	RevisionProcessing RevisionStatus = "processing"
	RevisionCompleted  RevisionStatus = "completed"
	RevisionFailed     RevisionStatus = "failed"
)

// Terminal reports whether the status ends the revision lifecycle.
func (s RevisionStatus) Terminal() bool {
	return s == RevisionCompleted || s == RevisionFailed
}

// CanTransition reports whether a transition to next is allowed.
// Transitions are monotonic: pending -> processing -> (completed|failed),
// never reversed, never out of a terminal state.
func (s RevisionStatus) CanTransition(next RevisionStatus) bool {
	switch s {
	case RevisionPending:
		return next == RevisionProcessing
	case RevisionProcessing:
		return next.Terminal()
	}
	return false
}

// RevisionMetadata is the enrichment attached at status transitions.
type RevisionMetadata struct {
	ProcessingTimeMs int64           `json:"processingTimeMs,omitempty"`
	ErrorDetail      string          `json:"errorDetail,omitempty"`
	CommandContext   *CommandContext `json:"commandContext,omitempty"`
}

// RevisionEntry is one audit record of a single command's execution
// against a content item. Entries are append-only per content id and
// retained indefinitely.
type RevisionEntry struct {
	ID        string           `json:"id"`
	ContentID string           `json:"contentId"`
	Snapshot  *ContentItem     `json:"snapshot"`
	Command   Command          `json:"command"`
	CreatedAt time.Time        `json:"createdAt"`
	Status    RevisionStatus   `json:"status"`
	Metadata  RevisionMetadata `json:"metadata"`
}
