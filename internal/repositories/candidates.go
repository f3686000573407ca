package repositories

import (
	"context"
	"strings"

	"github.com/talentflow/pipeline/internal/entities"
	"gorm.io/gorm"
)

type CandidatesFilter struct {
	Search string
	Stage  entities.Stage
	JobID  *int
	Limit  int
	Offset int
}

type Candidates struct {
	db *gorm.DB
}

func NewCandidatesRepository(db *gorm.DB) *Candidates {
	return &Candidates{db: db}
}

func (repo *Candidates) List(ctx context.Context, filter CandidatesFilter) ([]entities.Candidate, int64, error) {

	query := repo.db.WithContext(ctx).Model(&entities.Candidate{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("lower(name) LIKE ? OR lower(email) LIKE ?", pattern, pattern)
	}
	if filter.Stage != "" {
		query = query.Where("stage = ?", filter.Stage)
	}
	if filter.JobID != nil {
		query = query.Where("job_id = ?", *filter.JobID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC, id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var candidates []entities.Candidate
	if err := query.Find(&candidates).Error; err != nil {
		return nil, 0, err
	}
	return candidates, total, nil
}

func (repo *Candidates) GetByID(ctx context.Context, id int) (*entities.Candidate, error) {
	var candidate entities.Candidate
	if err := repo.db.WithContext(ctx).First(&candidate, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (repo *Candidates) Count(ctx context.Context) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&entities.Candidate{}).Count(&count).Error
	return count, err
}

func (repo *Candidates) Add(ctx context.Context, candidate *entities.Candidate) error {
	return repo.db.WithContext(ctx).Create(candidate).Error
}

func (repo *Candidates) Update(ctx context.Context, id int, updates map[string]any) error {
	return repo.db.WithContext(ctx).Model(&entities.Candidate{}).Where("id = ?", id).Updates(updates).Error
}

// AddEvent appends a timeline event. Events are insert-only; there is no
// update or delete path.
func (repo *Candidates) AddEvent(ctx context.Context, event *entities.TimelineEvent) error {
	return repo.db.WithContext(ctx).Create(event).Error
}

// GetTimeline returns a candidate's events in chronological order.
func (repo *Candidates) GetTimeline(ctx context.Context, candidateID int) ([]entities.TimelineEvent, error) {
	var timeline []entities.TimelineEvent
	err := repo.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("created_at ASC, id ASC").
		Find(&timeline).Error
	if err != nil {
		return nil, err
	}
	return timeline, nil
}
