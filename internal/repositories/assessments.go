package repositories

import (
	"context"
	"errors"

	"github.com/talentflow/pipeline/internal/entities"
	"gorm.io/gorm"
)

type Assessments struct {
	db *gorm.DB
}

func NewAssessmentsRepository(db *gorm.DB) *Assessments {
	return &Assessments{db: db}
}

// GetByJob returns nil without error when no assessment has been saved for
// the job yet.
func (repo *Assessments) GetByJob(ctx context.Context, jobID int) (*entities.Assessment, error) {
	var assessment entities.Assessment
	err := repo.db.WithContext(ctx).First(&assessment, "job_id = ?", jobID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assessment, nil
}

func (repo *Assessments) Save(ctx context.Context, assessment *entities.Assessment) error {
	return repo.db.WithContext(ctx).Save(assessment).Error
}

func (repo *Assessments) AddResponse(ctx context.Context, response *entities.AssessmentResponse) error {
	return repo.db.WithContext(ctx).Create(response).Error
}

func (repo *Assessments) GetResponses(ctx context.Context, jobID int) ([]entities.AssessmentResponse, error) {
	var responses []entities.AssessmentResponse
	err := repo.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at ASC, id ASC").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}
