// Package coordinator implements the optimistic mutation layer the jobs
// list and the candidate kanban share: apply the change locally in one
// synchronous step, issue the request, then commit or roll back when the
// backend answers.
package coordinator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
	"github.com/talentflow/pipeline/internal/entities"
	"github.com/talentflow/pipeline/internal/events"
	"github.com/talentflow/pipeline/internal/logger"
	"github.com/talentflow/pipeline/internal/metrics"
	"github.com/talentflow/pipeline/internal/store"
)

type backendClient interface {
	ReorderJob(ctx context.Context, id, fromOrder, toOrder int) error
	UpdateCandidateStage(ctx context.Context, id int, stage entities.Stage) (*entities.Candidate, error)
}

// Both reorder and stage-change failures surface the same message; the
// reference UI told reorder users about the revert but left stage changes
// with a generic banner.
const revertedMessage = "changes could not be saved and have been reverted"

type Coordinator struct {
	backend backendClient
	store   *store.Store
	bus     EventBus.Bus
	locks   sync.Map
}

func New(backend backendClient, st *store.Store, bus EventBus.Bus) *Coordinator {
	return &Coordinator{backend: backend, store: st, bus: bus}
}

// keyLock serializes reconciliations per entity key, so two mutations of
// the same candidate (or two reorders of the jobs collection) can never
// have their responses race each other.
func (c *Coordinator) keyLock(key string) *sync.Mutex {
	lock, _ := c.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// ReorderJobs moves the job at fromIndex to toIndex in the fetched page,
// synchronously, and reconciles the move against the backend in the
// background. Equal indices are a no-op: nothing changes, no request is
// issued.
func (c *Coordinator) ReorderJobs(ctx context.Context, fromIndex, toIndex int) (*Mutation, error) {

	if fromIndex == toIndex {
		return newNoopMutation(KindReorder, store.JobsKey), nil
	}

	moved, toOrder, revision, err := c.store.SpliceJobs(fromIndex, toIndex)
	if err != nil {
		return nil, err
	}

	m := newMutation(KindReorder, store.JobsKey)
	go c.reconcileReorder(ctx, m, moved, toOrder, fromIndex, toIndex, revision)
	return m, nil
}

// ReorderJobByID is the identity-based variant: it resolves the page
// indices of the moved job and its target internally, so callers never do
// page-offset arithmetic.
func (c *Coordinator) ReorderJobByID(ctx context.Context, jobID, targetID int) (*Mutation, error) {
	fromIndex, found := c.store.JobIndex(jobID)
	if !found {
		return nil, errors.New("job is not in the local state")
	}
	toIndex, found := c.store.JobIndex(targetID)
	if !found {
		return nil, errors.New("target job is not in the local state")
	}
	return c.ReorderJobs(ctx, fromIndex, toIndex)
}

func (c *Coordinator) reconcileReorder(ctx context.Context, m *Mutation,
	moved entities.Job, toOrder, fromIndex, toIndex int, revision uint64) {

	lock := c.keyLock(m.Key)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	defer func() { metrics.ReconcileDuration.Observe(time.Since(start).Seconds()) }()

	err := c.backend.ReorderJob(ctx, moved.ID, moved.Order, toOrder)
	if err == nil {
		metrics.MutationsCounter.WithLabelValues(string(m.Kind), "committed").Inc()
		c.bus.Publish(events.MutationCommittedTopic, events.MutationCommitted{
			MutationID: m.ID, Kind: string(m.Kind), Key: m.Key,
		})
		m.finish(StateCommitted, nil)
		return
	}

	m.setState(StateRollingBack)
	metrics.RollbacksCounter.Inc()

	// the exact inverse splice restores the pre-move arrangement, unless
	// newer state arrived in the meantime
	rolledBack := c.store.SpliceJobsIf(toIndex, fromIndex, revision)
	if !rolledBack {
		c.store.MarkDirty()
	}
	c.store.SetError(revertedMessage)

	log.WithField(logger.ErrorTypeField, logger.ErrorTypeBackend).
		Errorf("reorder of job %d failed: %v", moved.ID, err)
	metrics.MutationsCounter.WithLabelValues(string(m.Kind), "rolled_back").Inc()
	c.bus.Publish(events.MutationFailedTopic, events.MutationFailed{
		MutationID: m.ID, Kind: string(m.Kind), Key: m.Key, Error: err.Error(), RolledBack: rolledBack,
	})
	m.finish(StateRolledBack, err)
}

// ChangeStage moves a candidate to a new pipeline stage: synchronous local
// update, async patch, and on failure a compensating patch that restores
// the previous stage through the same validated write path. The mutation
// terminates only once that second round-trip resolves.
func (c *Coordinator) ChangeStage(ctx context.Context, candidateID int, newStage entities.Stage) (*Mutation, error) {

	if _, err := entities.ToStage(string(newStage)); err != nil {
		return nil, err
	}

	key := store.CandidateKey(candidateID)
	current, found := c.store.CandidateByID(candidateID)
	if !found {
		return nil, errors.New("candidate is not in the local state")
	}
	if current.Stage == newStage {
		return newNoopMutation(KindStageChange, key), nil
	}

	prev, revision, changed := c.store.SetCandidateStage(candidateID, newStage)
	if !changed {
		return newNoopMutation(KindStageChange, key), nil
	}

	m := newMutation(KindStageChange, key)
	go c.reconcileStageChange(ctx, m, candidateID, newStage, prev, revision)
	return m, nil
}

func (c *Coordinator) reconcileStageChange(ctx context.Context, m *Mutation,
	candidateID int, newStage, prev entities.Stage, revision uint64) {

	lock := c.keyLock(m.Key)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	defer func() { metrics.ReconcileDuration.Observe(time.Since(start).Seconds()) }()

	updated, err := c.backend.UpdateCandidateStage(ctx, candidateID, newStage)
	if err == nil {
		// server record is authoritative for every field, not just stage
		if !c.store.MergeCandidateIf(*updated, revision) {
			c.store.MarkDirty()
		}
		metrics.MutationsCounter.WithLabelValues(string(m.Kind), "committed").Inc()
		c.bus.Publish(events.MutationCommittedTopic, events.MutationCommitted{
			MutationID: m.ID, Kind: string(m.Kind), Key: m.Key,
		})
		m.finish(StateCommitted, nil)
		return
	}

	m.setState(StateRollingBack)
	metrics.RollbacksCounter.Inc()

	rolledBack := false
	restored, rollbackErr := c.backend.UpdateCandidateStage(ctx, candidateID, prev)
	if rollbackErr == nil {
		rolledBack = c.store.MergeCandidateIf(*restored, revision)
		if !rolledBack {
			c.store.MarkDirty()
		}
	} else {
		// even the compensating write failed; only a full refetch can
		// resync this candidate now
		c.store.MarkDirty()
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeBackend).
			Errorf("stage rollback for candidate %d failed: %v", candidateID, rollbackErr)
	}
	c.store.SetError(revertedMessage)

	log.WithField(logger.ErrorTypeField, logger.ErrorTypeBackend).
		Errorf("stage change for candidate %d failed: %v", candidateID, err)
	metrics.MutationsCounter.WithLabelValues(string(m.Kind), "rolled_back").Inc()
	c.bus.Publish(events.MutationFailedTopic, events.MutationFailed{
		MutationID: m.ID, Kind: string(m.Kind), Key: m.Key, Error: err.Error(), RolledBack: rolledBack,
	})
	m.finish(StateRolledBack, err)
}

// BulkChangeStage applies the same stage to every candidate sequentially,
// waiting for each reconciliation before starting the next, the way the
// reference bulk action did.
func (c *Coordinator) BulkChangeStage(ctx context.Context, candidateIDs []int, stage entities.Stage) ([]*Mutation, error) {

	var mutations []*Mutation
	var errs []error

	for _, id := range candidateIDs {
		m, err := c.ChangeStage(ctx, id, stage)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		mutations = append(mutations, m)
		if err := m.Wait(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errs = append(errs, err)
		}
	}
	return mutations, errors.Join(errs...)
}
