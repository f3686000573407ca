package entities

import (
	"errors"
	"time"
)

type Stage string

const (
	StageApplied  Stage = "applied"
	StageScreen   Stage = "screen"
	StageTech     Stage = "tech"
	StageOffer    Stage = "offer"
	StageHired    Stage = "hired"
	StageRejected Stage = "rejected"
)

// Stages returns every pipeline stage in board order, the terminal
// rejected column last. There is no enforced transition graph: any stage
// is reachable from any other.
func Stages() []Stage {
	return []Stage{StageApplied, StageScreen, StageTech, StageOffer, StageHired, StageRejected}
}

func ToStage(s string) (Stage, error) {
	for _, stage := range Stages() {
		if s == string(stage) {
			return stage, nil
		}
	}
	return "", errors.New("invalid candidate stage")
}

type Candidate struct {
	ID        int
	Name      string
	Email     string
	JobID     *int `gorm:"index"`
	Stage     Stage
	CreatedAt time.Time
}

func NewCandidate(name, email string, stage Stage, jobID *int) *Candidate {
	if stage == "" {
		stage = StageApplied
	}
	return &Candidate{
		Name:  name,
		Email: email,
		Stage: stage,
		JobID: jobID,
	}
}
