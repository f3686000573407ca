package entities

import (
	"encoding/json"
	"errors"
	"time"
)

type QuestionType string

const (
	SingleChoice QuestionType = "single_choice"
	MultiChoice  QuestionType = "multi_choice"
	ShortText    QuestionType = "short_text"
	LongText     QuestionType = "long_text"
	Numeric      QuestionType = "numeric"
	File         QuestionType = "file"
)

func ToQuestionType(s string) (QuestionType, error) {
	switch QuestionType(s) {
	case SingleChoice, MultiChoice, ShortText, LongText, Numeric, File:
		return QuestionType(s), nil
	default:
		return "", errors.New("invalid question type")
	}
}

type Operator string

const (
	OpEq       Operator = "eq"
	OpNeq      Operator = "neq"
	OpIncludes Operator = "includes"
	OpExcludes Operator = "excludes"
)

// VisibilityRule hides its question until the answer to QuestionID
// satisfies the comparison.
type VisibilityRule struct {
	QuestionID string   `json:"questionId"`
	Operator   Operator `json:"operator"`
	Value      any      `json:"value"`
}

type Question struct {
	ID        string          `json:"id"`
	Type      QuestionType    `json:"type"`
	Title     string          `json:"title"`
	Required  bool            `json:"required"`
	Options   []string        `json:"options,omitempty"`
	Min       *float64        `json:"min,omitempty"`
	Max       *float64        `json:"max,omitempty"`
	MaxLength *int            `json:"maxLength,omitempty"`
	VisibleIf *VisibilityRule `json:"visibleIf,omitempty"`
}

type Section struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Assessment is the per-job questionnaire: an ordered sequence of sections,
// each an ordered sequence of questions. Exactly one assessment per job.
// Sections are persisted as a JSON document.
type Assessment struct {
	JobID        int `gorm:"primaryKey"`
	SectionsJSON []byte
	UpdatedAt    time.Time
}

func NewAssessment(jobID int, sections []Section) (*Assessment, error) {
	a := &Assessment{JobID: jobID}
	if err := a.SetSections(sections); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Assessment) Sections() ([]Section, error) {
	if len(a.SectionsJSON) == 0 {
		return []Section{}, nil
	}
	var sections []Section
	if err := json.Unmarshal(a.SectionsJSON, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

func (a *Assessment) SetSections(sections []Section) error {
	if sections == nil {
		sections = []Section{}
	}
	data, err := json.Marshal(sections)
	if err != nil {
		return err
	}
	a.SectionsJSON = data
	return nil
}

// Questions flattens every section in order.
func (a *Assessment) Questions() ([]Question, error) {
	sections, err := a.Sections()
	if err != nil {
		return nil, err
	}
	var questions []Question
	for _, section := range sections {
		questions = append(questions, section.Questions...)
	}
	return questions, nil
}
