package services

import (
	"context"
	"errors"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/talentflow/pipeline/internal/coordinator"
	"github.com/talentflow/pipeline/internal/entities"
	"github.com/talentflow/pipeline/internal/logger"
	"golang.org/x/time/rate"
)

type mutator interface {
	ReorderJobs(ctx context.Context, fromIndex, toIndex int) (*coordinator.Mutation, error)
	ChangeStage(ctx context.Context, candidateID int, stage entities.Stage) (*coordinator.Mutation, error)
}

// Simulator stands in for the user: it issues a steady stream of random
// reorders and stage changes through the coordinator, which makes the
// optimistic apply / rollback machinery observable in logs and metrics
// without a frontend.
type Simulator struct {
	coordinator mutator
	store       storeView
	limiter     *rate.Limiter
	rng         *rand.Rand

	committed  int
	rolledBack int
}

type storeView interface {
	Jobs() []entities.Job
	Candidates() []entities.Candidate
}

func NewSimulator(c mutator, st storeView, mutationsPerSecond float32) *Simulator {
	return &Simulator{
		coordinator: c,
		store:       st,
		limiter:     rate.NewLimiter(rate.Limit(mutationsPerSecond), 1),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Simulator) Run(ctx context.Context) {

	log.Info("simulator started")
	steps := 0

	for {
		if err := s.limiter.Wait(ctx); err != nil {
			log.Infof("simulator stopped: %d committed, %d rolled back", s.committed, s.rolledBack)
			return
		}
		s.step(ctx)

		steps++
		if steps%50 == 0 {
			log.Infof("simulator: %d mutations so far, %d committed, %d rolled back",
				steps, s.committed, s.rolledBack)
		}
	}
}

func (s *Simulator) step(ctx context.Context) {

	var m *coordinator.Mutation
	var err error

	if s.rng.Float64() < 0.5 {
		m, err = s.randomReorder(ctx)
	} else {
		m, err = s.randomStageChange(ctx)
	}
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeSimulator).
			Warnf("simulated mutation rejected: %v", err)
		return
	}
	if m == nil {
		return
	}

	if err = m.Wait(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			s.rolledBack++
		}
		return
	}
	s.committed++
}

func (s *Simulator) randomReorder(ctx context.Context) (*coordinator.Mutation, error) {
	jobs := s.store.Jobs()
	if len(jobs) < 2 {
		return nil, nil
	}
	from := s.rng.Intn(len(jobs))
	to := s.rng.Intn(len(jobs))
	return s.coordinator.ReorderJobs(ctx, from, to)
}

func (s *Simulator) randomStageChange(ctx context.Context) (*coordinator.Mutation, error) {
	candidates := s.store.Candidates()
	if len(candidates) == 0 {
		return nil, nil
	}
	candidate := candidates[s.rng.Intn(len(candidates))]
	stages := entities.Stages()
	return s.coordinator.ChangeStage(ctx, candidate.ID, stages[s.rng.Intn(len(stages))])
}
