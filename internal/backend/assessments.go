package backend

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/talentflow/pipeline/internal/entities"
	"github.com/talentflow/pipeline/internal/visibility"
)

// GetAssessment returns the job's assessment, or one with empty sections
// when nothing has been saved yet.
func (a *API) GetAssessment(ctx context.Context, jobID int) (*entities.Assessment, error) {

	if _, err := a.getJob(ctx, jobID); err != nil {
		return nil, err
	}

	assessment, err := a.assessments.GetByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return entities.NewAssessment(jobID, nil)
	}
	return assessment, nil
}

// SaveAssessment replaces the job's assessment wholesale. Questions and
// sections the builder added without ids get one assigned here, and every
// visibility rule is validated before anything is written: self-references,
// dangling targets and cyclic chains are rejected rather than saved as
// permanently hidden questions.
func (a *API) SaveAssessment(ctx context.Context, jobID int, sections []entities.Section) (*entities.Assessment, error) {

	if _, err := a.getJob(ctx, jobID); err != nil {
		return nil, err
	}

	for si := range sections {
		if sections[si].ID == "" {
			sections[si].ID = uuid.NewString()
		}
		for qi := range sections[si].Questions {
			if sections[si].Questions[qi].ID == "" {
				sections[si].Questions[qi].ID = uuid.NewString()
			}
			if _, err := entities.ToQuestionType(string(sections[si].Questions[qi].Type)); err != nil {
				return nil, &ValidationError{Reason: "invalid question type"}
			}
		}
	}

	if err := visibility.ValidateRules(sections); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	if err := a.faults.inject(ctx); err != nil {
		return nil, err
	}

	assessment, err := entities.NewAssessment(jobID, sections)
	if err != nil {
		return nil, err
	}
	if err := a.assessments.Save(ctx, assessment); err != nil {
		return nil, err
	}
	return assessment, nil
}

// SubmitResponse appends one answer set for the job's assessment. Required
// questions are only enforced while visible: a question hidden by its rule
// may stay unanswered.
func (a *API) SubmitResponse(ctx context.Context, jobID int, answers map[string]any) (*entities.AssessmentResponse, error) {

	assessment, err := a.GetAssessment(ctx, jobID)
	if err != nil {
		return nil, err
	}
	questions, err := assessment.Questions()
	if err != nil {
		return nil, err
	}

	for _, question := range visibility.Filter(questions, answers) {
		if !question.Required {
			continue
		}
		answer, ok := answers[question.ID]
		if !ok || answer == nil || answer == "" {
			return nil, &ValidationError{Reason: fmt.Sprintf("question %s is required", question.ID)}
		}
	}

	if err := a.faults.inject(ctx); err != nil {
		return nil, err
	}

	response, err := entities.NewAssessmentResponse(jobID, answers)
	if err != nil {
		return nil, err
	}
	if err := a.assessments.AddResponse(ctx, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (a *API) ListResponses(ctx context.Context, jobID int) ([]entities.AssessmentResponse, error) {
	if _, err := a.getJob(ctx, jobID); err != nil {
		return nil, err
	}
	return a.assessments.GetResponses(ctx, jobID)
}
