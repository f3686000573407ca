package entities

import "time"

type TimelineEventType string

const (
	EventCreated     TimelineEventType = "created"
	EventStageChange TimelineEventType = "stage_change"
	EventNote        TimelineEventType = "note"
)

// TimelineEvent is an append-only record of something that happened to a
// candidate. Events are never edited or deleted.
type TimelineEvent struct {
	ID          int
	CandidateID int `gorm:"index"`
	Type        TimelineEventType
	FromStage   Stage
	ToStage     Stage
	Note        string
	CreatedAt   time.Time
}

func NewCreatedEvent(candidateID int) *TimelineEvent {
	return &TimelineEvent{CandidateID: candidateID, Type: EventCreated}
}

func NewStageChangeEvent(candidateID int, from, to Stage) *TimelineEvent {
	return &TimelineEvent{CandidateID: candidateID, Type: EventStageChange, FromStage: from, ToStage: to}
}

func NewNoteEvent(candidateID int, text string) *TimelineEvent {
	return &TimelineEvent{CandidateID: candidateID, Type: EventNote, Note: text}
}
