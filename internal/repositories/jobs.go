package repositories

import (
	"context"
	"strings"

	"github.com/talentflow/pipeline/internal/entities"
	"gorm.io/gorm"
)

type JobSort string

const (
	SortOrderAsc      JobSort = "orderAsc"
	SortOrderDesc     JobSort = "orderDesc"
	SortCreatedAtAsc  JobSort = "createdAtAsc"
	SortCreatedAtDesc JobSort = "createdAtDesc"
	SortTitleAsc      JobSort = "titleAsc"
	SortTitleDesc     JobSort = "titleDesc"
)

type JobsFilter struct {
	Status entities.JobStatus
	Search string
	Tags   []string
	Sort   JobSort
	Limit  int
	Offset int
}

type Jobs struct {
	db *gorm.DB
}

func NewJobsRepository(db *gorm.DB) *Jobs {
	return &Jobs{db: db}
}

func (repo *Jobs) List(ctx context.Context, filter JobsFilter) ([]entities.Job, int64, error) {

	query := repo.db.WithContext(ctx).Model(&entities.Job{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("lower(title) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	for _, tag := range filter.Tags {
		// tags are stored comma-joined; pad both sides so a tag never
		// matches a substring of a longer tag
		query = query.Where("(',' || tags || ',') LIKE ?", "%,"+tag+",%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case SortOrderDesc:
		query = query.Order("`order` DESC")
	case SortCreatedAtAsc:
		query = query.Order("created_at ASC")
	case SortCreatedAtDesc:
		query = query.Order("created_at DESC")
	case SortTitleAsc:
		query = query.Order("title ASC")
	case SortTitleDesc:
		query = query.Order("title DESC")
	default:
		query = query.Order("`order` ASC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var jobs []entities.Job
	if err := query.Find(&jobs).Error; err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (repo *Jobs) GetByID(ctx context.Context, id int) (*entities.Job, error) {
	var job entities.Job
	if err := repo.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (repo *Jobs) GetBySlug(ctx context.Context, slug string) (*entities.Job, error) {
	var job entities.Job
	if err := repo.db.WithContext(ctx).First(&job, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (repo *Jobs) Count(ctx context.Context) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&entities.Job{}).Count(&count).Error
	return count, err
}

func (repo *Jobs) Add(ctx context.Context, job *entities.Job) error {
	return repo.db.WithContext(ctx).Create(job).Error
}

func (repo *Jobs) Update(ctx context.Context, id int, updates map[string]any) error {
	return repo.db.WithContext(ctx).Model(&entities.Job{}).Where("id = ?", id).Updates(updates).Error
}

func (repo *Jobs) Remove(ctx context.Context, id int) error {
	return repo.db.WithContext(ctx).Delete(&entities.Job{ID: id}).Error
}

// GetAllOrdered returns every job sorted by its order rank ascending.
func (repo *Jobs) GetAllOrdered(ctx context.Context) ([]entities.Job, error) {
	var jobs []entities.Job
	if err := repo.db.WithContext(ctx).Order("`order` ASC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// SaveOrders persists the order rank of each given job in one transaction.
func (repo *Jobs) SaveOrders(ctx context.Context, jobs []entities.Job) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, job := range jobs {
			err := tx.Model(&entities.Job{}).Where("id = ?", job.ID).
				Update("order", job.Order).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ShiftAllOrders moves every job's order rank by delta.
func (repo *Jobs) ShiftAllOrders(ctx context.Context, delta int) error {
	return repo.db.WithContext(ctx).Model(&entities.Job{}).Where("1 = 1").
		Update("order", gorm.Expr("`order` + ?", delta)).Error
}
