package events

import "github.com/google/uuid"

var MutationCommittedTopic = "MutationCommittedEvent"

type MutationCommitted struct {
	MutationID uuid.UUID
	Kind       string
	Key        string
}
