package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/talentflow/pipeline/internal/entities"
	"github.com/talentflow/pipeline/internal/repositories"
	"gorm.io/gorm"
)

type JobsQuery struct {
	Page     int
	PageSize int
	Status   entities.JobStatus
	Search   string
	Tags     []string
	Sort     repositories.JobSort
}

type JobsPage struct {
	Items      []entities.Job
	Pagination Pagination
}

func (a *API) ListJobs(ctx context.Context, query JobsQuery) (*JobsPage, error) {

	page, pageSize, limit, offset := pageBounds(query.Page, query.PageSize)

	jobs, total, err := a.jobs.List(ctx, repositories.JobsFilter{
		Status: query.Status,
		Search: query.Search,
		Tags:   query.Tags,
		Sort:   query.Sort,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	return &JobsPage{
		Items:      jobs,
		Pagination: Pagination{Page: page, PageSize: pageSize, TotalCount: int(total)},
	}, nil
}

type CreateJobInput struct {
	Title  string `validate:"required"`
	Slug   string
	Status entities.JobStatus
	Tags   []string
}

// CreateJob inserts the job at the front: it receives order 0 and every
// existing job shifts down by one.
func (a *API) CreateJob(ctx context.Context, input CreateJobInput) (*entities.Job, error) {

	if err := a.validate.Struct(input); err != nil {
		return nil, &ValidationError{Reason: "title is required"}
	}
	if input.Status == "" {
		input.Status = entities.JobActive
	}
	if _, err := entities.ToJobStatus(string(input.Status)); err != nil {
		return nil, &ValidationError{Reason: "invalid job status"}
	}

	if err := a.faults.inject(ctx); err != nil {
		return nil, err
	}

	job := entities.NewJob(input.Title, input.Slug, input.Status, input.Tags)
	slug, err := a.uniqueSlug(ctx, job.Slug)
	if err != nil {
		return nil, err
	}
	job.Slug = slug

	if err := a.jobs.ShiftAllOrders(ctx, 1); err != nil {
		return nil, err
	}
	job.Order = 0
	if err := a.jobs.Add(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// uniqueSlug appends a numeric suffix until the slug no longer collides.
func (a *API) uniqueSlug(ctx context.Context, slug string) (string, error) {
	candidate := slug
	for suffix := 2; ; suffix++ {
		_, err := a.jobs.GetBySlug(ctx, candidate)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s-%d", slug, suffix)
	}
}

type JobUpdates struct {
	Title  *string
	Slug   *string
	Status *entities.JobStatus
	Tags   *[]string
}

func (a *API) UpdateJob(ctx context.Context, id int, updates JobUpdates) (*entities.Job, error) {

	if _, err := a.getJob(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if updates.Title != nil {
		if *updates.Title == "" {
			return nil, &ValidationError{Reason: "title is required"}
		}
		fields["title"] = *updates.Title
	}
	if updates.Slug != nil {
		fields["slug"] = *updates.Slug
	}
	if updates.Status != nil {
		if _, err := entities.ToJobStatus(string(*updates.Status)); err != nil {
			return nil, &ValidationError{Reason: "invalid job status"}
		}
		fields["status"] = *updates.Status
	}
	if updates.Tags != nil {
		fields["tags"] = strings.Join(lo.Uniq(*updates.Tags), ",")
	}

	if err := a.faults.inject(ctx); err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := a.jobs.Update(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return a.getJob(ctx, id)
}

// DeleteJob removes the job and renormalizes the remaining orders back to
// a dense 0..n-1 sequence, preserving relative order.
func (a *API) DeleteJob(ctx context.Context, id int) error {

	if _, err := a.getJob(ctx, id); err != nil {
		return err
	}

	if err := a.faults.inject(ctx); err != nil {
		return err
	}

	if err := a.jobs.Remove(ctx, id); err != nil {
		return err
	}
	return a.renormalizeOrders(ctx)
}

// ReorderJob moves the job from one order rank to another and recomputes a
// dense sequence, the same splice the reference handlers perform. This is
// the endpoint the fault policy exists for.
func (a *API) ReorderJob(ctx context.Context, id, fromOrder, toOrder int) error {

	if _, err := a.getJob(ctx, id); err != nil {
		return err
	}

	if err := a.faults.inject(ctx); err != nil {
		return err
	}

	all, err := a.jobs.GetAllOrdered(ctx)
	if err != nil {
		return err
	}

	index := -1
	// the target slot is resolved before the removal, so the insertion
	// lands exactly where the caller's own splice put it
	target := len(all) - 1
	for i, job := range all {
		if job.ID == id {
			index = i
		}
		if job.Order == toOrder {
			target = i
		}
	}
	if index == -1 {
		return &NotFoundError{Entity: "job", ID: id}
	}

	moved := all[index]
	remaining := append(append([]entities.Job{}, all[:index]...), all[index+1:]...)
	if target > len(remaining) {
		target = len(remaining)
	}

	reordered := append(append(append([]entities.Job{}, remaining[:target]...), moved), remaining[target:]...)
	for i := range reordered {
		reordered[i].Order = i
	}
	return a.jobs.SaveOrders(ctx, reordered)
}

func (a *API) renormalizeOrders(ctx context.Context) error {
	all, err := a.jobs.GetAllOrdered(ctx)
	if err != nil {
		return err
	}
	for i := range all {
		all[i].Order = i
	}
	return a.jobs.SaveOrders(ctx, all)
}
