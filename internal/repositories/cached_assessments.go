package repositories

import (
	"context"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/talentflow/pipeline/internal/entities"
)

type assessmentRepository interface {
	GetByJob(ctx context.Context, jobID int) (*entities.Assessment, error)
	Save(ctx context.Context, assessment *entities.Assessment) error
	AddResponse(ctx context.Context, response *entities.AssessmentResponse) error
	GetResponses(ctx context.Context, jobID int) ([]entities.AssessmentResponse, error)
}

// CachedAssessments is a read-through cache over the assessments
// repository. The builder refetches the assessment on every answer-driven
// preview rerender, so hits vastly outnumber writes.
type CachedAssessments struct {
	repo  assessmentRepository
	cache *gocache.Cache
}

func NewCachedAssessments(repo assessmentRepository) *CachedAssessments {
	return &CachedAssessments{repo: repo, cache: gocache.New(10*time.Minute, 20*time.Minute)}
}

func (c *CachedAssessments) GetByJob(ctx context.Context, jobID int) (*entities.Assessment, error) {
	key := strconv.Itoa(jobID)
	if value, found := c.cache.Get(key); found {
		return value.(*entities.Assessment), nil
	}

	assessment, err := c.repo.GetByJob(ctx, jobID)
	if assessment != nil && err == nil {
		c.cache.Set(key, assessment, gocache.DefaultExpiration)
	}
	return assessment, err
}

func (c *CachedAssessments) Save(ctx context.Context, assessment *entities.Assessment) error {
	err := c.repo.Save(ctx, assessment)
	if err == nil {
		c.cache.Set(strconv.Itoa(assessment.JobID), assessment, gocache.DefaultExpiration)
	}
	return err
}

func (c *CachedAssessments) AddResponse(ctx context.Context, response *entities.AssessmentResponse) error {
	return c.repo.AddResponse(ctx, response)
}

func (c *CachedAssessments) GetResponses(ctx context.Context, jobID int) ([]entities.AssessmentResponse, error) {
	return c.repo.GetResponses(ctx, jobID)
}
