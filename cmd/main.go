package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
	"github.com/talentflow/pipeline/internal/backend"
	"github.com/talentflow/pipeline/internal/config"
	"github.com/talentflow/pipeline/internal/coordinator"
	"github.com/talentflow/pipeline/internal/logger"
	"github.com/talentflow/pipeline/internal/metrics"
	"github.com/talentflow/pipeline/internal/repositories"
	"github.com/talentflow/pipeline/internal/services"
	"github.com/talentflow/pipeline/internal/store"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer(cfg.MetricsPort)

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	jobs := repositories.NewJobsRepository(dbContext.DB)
	candidates := repositories.NewCandidatesRepository(dbContext.DB)
	assessments := repositories.NewCachedAssessments(repositories.NewAssessmentsRepository(dbContext.DB))

	seeder := services.NewSeeder(jobs, candidates, assessments)
	if err := seeder.Seed(ctx); err != nil {
		log.Fatalf("can't seed database: %v", err)
	}

	faults := backend.NewFaultPolicy(backend.FaultConfig{
		FailureRate: cfg.Backend.FailureRate,
		MinLatency:  cfg.Backend.MinLatency,
		MaxLatency:  cfg.Backend.MaxLatency,
		Seed:        cfg.Backend.Seed,
	})
	api := backend.New(jobs, candidates, assessments, faults)

	st := store.New(cfg.Simulator.ErrorClearAfter)
	bus := EventBus.New()
	coord := coordinator.New(api, st, bus)

	refresher, err := services.NewStoreRefresher(api, st, bus, cfg.Simulator.RefreshSchedule)
	if err != nil {
		log.Fatalf("can't create store refresher: %v", err)
	}
	if err := refresher.Refresh(ctx); err != nil {
		log.Fatalf("can't load initial state: %v", err)
	}
	refresher.Start()
	defer refresher.Stop()

	if cfg.Simulator.Enabled {
		simulator := services.NewSimulator(coord, st, cfg.Simulator.MutationsPerSecond)
		go simulator.Run(ctx)
	}

	<-ctx.Done()

	log.Info("Shutting down services...")
	log.Info("Services stopped.")
}
