package events

import "github.com/google/uuid"

var MutationFailedTopic = "MutationFailedEvent"

type MutationFailed struct {
	MutationID uuid.UUID
	Kind       string
	Key        string
	Error      string
	// RolledBack is false when the local revert was skipped because newer
	// state had already replaced the optimistic change; the store is
	// flagged for a full refetch instead.
	RolledBack bool
}
