// Package backend simulates the authoritative server the optimistic
// client reconciles against: the full jobs/candidates/assessments API on
// top of the sqlite mirror, with configurable fault injection on every
// mutating endpoint.
package backend

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/talentflow/pipeline/internal/entities"
	"github.com/talentflow/pipeline/internal/repositories"
	"gorm.io/gorm"
)

type jobsRepository interface {
	List(ctx context.Context, filter repositories.JobsFilter) ([]entities.Job, int64, error)
	GetByID(ctx context.Context, id int) (*entities.Job, error)
	GetBySlug(ctx context.Context, slug string) (*entities.Job, error)
	Add(ctx context.Context, job *entities.Job) error
	Update(ctx context.Context, id int, updates map[string]any) error
	Remove(ctx context.Context, id int) error
	GetAllOrdered(ctx context.Context) ([]entities.Job, error)
	SaveOrders(ctx context.Context, jobs []entities.Job) error
	ShiftAllOrders(ctx context.Context, delta int) error
}

type candidatesRepository interface {
	List(ctx context.Context, filter repositories.CandidatesFilter) ([]entities.Candidate, int64, error)
	GetByID(ctx context.Context, id int) (*entities.Candidate, error)
	Add(ctx context.Context, candidate *entities.Candidate) error
	Update(ctx context.Context, id int, updates map[string]any) error
	AddEvent(ctx context.Context, event *entities.TimelineEvent) error
	GetTimeline(ctx context.Context, candidateID int) ([]entities.TimelineEvent, error)
}

type assessmentsRepository interface {
	GetByJob(ctx context.Context, jobID int) (*entities.Assessment, error)
	Save(ctx context.Context, assessment *entities.Assessment) error
	AddResponse(ctx context.Context, response *entities.AssessmentResponse) error
	GetResponses(ctx context.Context, jobID int) ([]entities.AssessmentResponse, error)
}

type API struct {
	jobs        jobsRepository
	candidates  candidatesRepository
	assessments assessmentsRepository
	faults      *FaultPolicy
	validate    *validator.Validate
}

func New(jobs jobsRepository, candidates candidatesRepository,
	assessments assessmentsRepository, faults *FaultPolicy) *API {

	if faults == nil {
		faults = Disabled()
	}
	return &API{
		jobs:        jobs,
		candidates:  candidates,
		assessments: assessments,
		faults:      faults,
		validate:    validator.New(),
	}
}

type Pagination struct {
	Page       int
	PageSize   int
	TotalCount int
}

func pageBounds(page, pageSize int) (int, int, int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return page, pageSize, pageSize, (page - 1) * pageSize
}

func (a *API) getJob(ctx context.Context, id int) (*entities.Job, error) {
	job, err := a.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "job", ID: id}
		}
		return nil, err
	}
	return job, nil
}

func (a *API) getCandidate(ctx context.Context, id int) (*entities.Candidate, error) {
	candidate, err := a.candidates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "candidate", ID: id}
		}
		return nil, err
	}
	return candidate, nil
}
