package entities

import (
	"encoding/json"
	"time"
)

// AssessmentResponse is one submitted answer set for a job's assessment:
// a flat map from question id to answer value. Responses are append-only.
type AssessmentResponse struct {
	ID          int
	JobID       int `gorm:"index"`
	AnswersJSON []byte
	CreatedAt   time.Time
}

func NewAssessmentResponse(jobID int, answers map[string]any) (*AssessmentResponse, error) {
	r := &AssessmentResponse{JobID: jobID}
	if err := r.SetAnswers(answers); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *AssessmentResponse) Answers() (map[string]any, error) {
	if len(r.AnswersJSON) == 0 {
		return map[string]any{}, nil
	}
	var answers map[string]any
	if err := json.Unmarshal(r.AnswersJSON, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *AssessmentResponse) SetAnswers(answers map[string]any) error {
	if answers == nil {
		answers = map[string]any{}
	}
	data, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	r.AnswersJSON = data
	return nil
}
