package backend

import (
	"context"

	"github.com/talentflow/pipeline/internal/entities"
	"github.com/talentflow/pipeline/internal/repositories"
)

type CandidatesQuery struct {
	Page     int
	PageSize int
	Search   string
	Stage    entities.Stage
	JobID    *int
}

type CandidatesPage struct {
	Items      []entities.Candidate
	Pagination Pagination
}

func (a *API) ListCandidates(ctx context.Context, query CandidatesQuery) (*CandidatesPage, error) {

	page, pageSize, limit, offset := pageBounds(query.Page, query.PageSize)

	candidates, total, err := a.candidates.List(ctx, repositories.CandidatesFilter{
		Search: query.Search,
		Stage:  query.Stage,
		JobID:  query.JobID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	return &CandidatesPage{
		Items:      candidates,
		Pagination: Pagination{Page: page, PageSize: pageSize, TotalCount: int(total)},
	}, nil
}

type CreateCandidateInput struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Stage entities.Stage
	JobID *int
}

// CreateCandidate stores the candidate and appends the initial `created`
// timeline event.
func (a *API) CreateCandidate(ctx context.Context, input CreateCandidateInput) (*entities.Candidate, error) {

	if err := a.validate.Struct(input); err != nil {
		return nil, &ValidationError{Reason: "name and a valid email are required"}
	}
	if input.Stage != "" {
		if _, err := entities.ToStage(string(input.Stage)); err != nil {
			return nil, &ValidationError{Reason: "invalid candidate stage"}
		}
	}
	if input.JobID != nil {
		if _, err := a.getJob(ctx, *input.JobID); err != nil {
			return nil, err
		}
	}

	if err := a.faults.inject(ctx); err != nil {
		return nil, err
	}

	candidate := entities.NewCandidate(input.Name, input.Email, input.Stage, input.JobID)
	if err := a.candidates.Add(ctx, candidate); err != nil {
		return nil, err
	}
	if err := a.candidates.AddEvent(ctx, entities.NewCreatedEvent(candidate.ID)); err != nil {
		return nil, err
	}
	return candidate, nil
}

type CandidateUpdates struct {
	Name  *string
	Email *string
	Stage *entities.Stage
}

// UpdateCandidate patches the candidate and returns the stored record; the
// caller is expected to treat the response as authoritative for every
// field, not just the ones it sent. A stage change additionally appends a
// stage_change timeline event, observable via GetCandidateTimeline.
func (a *API) UpdateCandidate(ctx context.Context, id int, updates CandidateUpdates) (*entities.Candidate, error) {

	current, err := a.getCandidate(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if updates.Name != nil {
		if *updates.Name == "" {
			return nil, &ValidationError{Reason: "name is required"}
		}
		fields["name"] = *updates.Name
	}
	if updates.Email != nil {
		fields["email"] = *updates.Email
	}
	var stageChange *entities.TimelineEvent
	if updates.Stage != nil {
		if _, err := entities.ToStage(string(*updates.Stage)); err != nil {
			return nil, &ValidationError{Reason: "invalid candidate stage"}
		}
		fields["stage"] = *updates.Stage
		if *updates.Stage != current.Stage {
			stageChange = entities.NewStageChangeEvent(id, current.Stage, *updates.Stage)
		}
	}

	if err := a.faults.inject(ctx); err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := a.candidates.Update(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	if stageChange != nil {
		if err := a.candidates.AddEvent(ctx, stageChange); err != nil {
			return nil, err
		}
	}
	return a.getCandidate(ctx, id)
}

// UpdateCandidateStage is the patch the kanban board issues on drag-drop.
func (a *API) UpdateCandidateStage(ctx context.Context, id int, stage entities.Stage) (*entities.Candidate, error) {
	return a.UpdateCandidate(ctx, id, CandidateUpdates{Stage: &stage})
}

func (a *API) GetCandidateTimeline(ctx context.Context, id int) ([]entities.TimelineEvent, error) {
	if _, err := a.getCandidate(ctx, id); err != nil {
		return nil, err
	}
	return a.candidates.GetTimeline(ctx, id)
}

func (a *API) AppendTimelineNote(ctx context.Context, id int, text string) (*entities.TimelineEvent, error) {

	if text == "" {
		return nil, &ValidationError{Reason: "note text is required"}
	}
	if _, err := a.getCandidate(ctx, id); err != nil {
		return nil, err
	}

	if err := a.faults.inject(ctx); err != nil {
		return nil, err
	}

	event := entities.NewNoteEvent(id, text)
	if err := a.candidates.AddEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}
