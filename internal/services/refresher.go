package services

import (
	"context"
	"fmt"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/talentflow/pipeline/internal/backend"
	"github.com/talentflow/pipeline/internal/events"
	"github.com/talentflow/pipeline/internal/logger"
	"github.com/talentflow/pipeline/internal/repositories"
	"github.com/talentflow/pipeline/internal/store"
)

type refreshBackend interface {
	ListJobs(ctx context.Context, query backend.JobsQuery) (*backend.JobsPage, error)
	ListCandidates(ctx context.Context, query backend.CandidatesQuery) (*backend.CandidatesPage, error)
}

// StoreRefresher periodically refetches the jobs page and the candidate
// list, replacing the optimistic local state with the server's. It is also
// the recovery path for a dirty store: a rollback that was skipped as stale
// relies on the next refresh to resync.
type StoreRefresher struct {
	backend refreshBackend
	store   *store.Store
	cron    *cron.Cron
}

func NewStoreRefresher(b refreshBackend, st *store.Store, bus EventBus.Bus, schedule string) (*StoreRefresher, error) {

	r := &StoreRefresher{backend: b, store: st, cron: cron.New()}

	if schedule == "" {
		schedule = "@every 30s"
	}
	if _, err := r.cron.AddFunc(schedule, r.refresh); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	if bus != nil {
		// a mutation whose rollback was skipped as stale leaves the store
		// dirty; refetch right away instead of waiting for the schedule
		if err := bus.SubscribeAsync(events.MutationFailedTopic, r.onMutationFailed, false); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *StoreRefresher) onMutationFailed(event events.MutationFailed) {
	if event.RolledBack {
		return
	}
	r.refresh()
}

func (r *StoreRefresher) Start() {
	r.cron.Start()
}

func (r *StoreRefresher) Stop() {
	<-r.cron.Stop().Done()
}

// Refresh refetches both collections with the filters and pagination the
// store currently holds and clears the dirty flag.
func (r *StoreRefresher) Refresh(ctx context.Context) error {

	jobsFilters := r.store.JobsFilters()
	jobsPage, err := r.backend.ListJobs(ctx, backend.JobsQuery{
		Page:     r.store.JobsPagination().Page,
		PageSize: r.store.JobsPagination().PageSize,
		Status:   jobsFilters.Status,
		Search:   jobsFilters.Search,
		Tags:     jobsFilters.Tags,
		Sort:     repositories.JobSort(jobsFilters.Sort),
	})
	if err != nil {
		return fmt.Errorf("failed to refresh jobs: %w", err)
	}
	r.store.SetJobs(jobsPage.Items, store.Pagination(jobsPage.Pagination))

	candidatesFilters := r.store.CandidatesFilters()
	candidatesPage, err := r.backend.ListCandidates(ctx, backend.CandidatesQuery{
		Page:     r.store.CandidatesPagination().Page,
		PageSize: r.store.CandidatesPagination().PageSize,
		Search:   candidatesFilters.Search,
		Stage:    candidatesFilters.Stage,
		JobID:    candidatesFilters.JobID,
	})
	if err != nil {
		return fmt.Errorf("failed to refresh candidates: %w", err)
	}
	r.store.SetCandidates(candidatesPage.Items, store.Pagination(candidatesPage.Pagination))

	r.store.ClearDirty()
	return nil
}

func (r *StoreRefresher) refresh() {

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := r.Refresh(ctx); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeBackend).
			Errorf("store refresh failed: %v", err)
	}
}
