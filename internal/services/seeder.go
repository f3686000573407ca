package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/talentflow/pipeline/internal/entities"
)

type seedJobsRepository interface {
	Count(ctx context.Context) (int64, error)
	Add(ctx context.Context, job *entities.Job) error
}

type seedCandidatesRepository interface {
	Count(ctx context.Context) (int64, error)
	Add(ctx context.Context, candidate *entities.Candidate) error
	AddEvent(ctx context.Context, event *entities.TimelineEvent) error
}

type seedAssessmentsRepository interface {
	Save(ctx context.Context, assessment *entities.Assessment) error
}

// Seeder populates an empty database with the same starting data the
// reference app ships: a page-spanning list of engineering jobs, a board
// of candidates spread across every stage, and one assessment that
// demonstrates conditional visibility.
type Seeder struct {
	jobs        seedJobsRepository
	candidates  seedCandidatesRepository
	assessments seedAssessmentsRepository
}

func NewSeeder(jobs seedJobsRepository, candidates seedCandidatesRepository,
	assessments seedAssessmentsRepository) *Seeder {
	return &Seeder{jobs: jobs, candidates: candidates, assessments: assessments}
}

func (s *Seeder) Seed(ctx context.Context) error {

	count, err := s.jobs.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count jobs: %w", err)
	}
	if count > 0 {
		log.Info("database already seeded")
		return nil
	}

	jobs, err := s.seedJobs(ctx)
	if err != nil {
		return err
	}
	if err := s.seedCandidates(ctx, jobs); err != nil {
		return err
	}
	if err := s.seedAssessment(ctx, jobs[0].ID); err != nil {
		return err
	}

	log.Info("database seeded successfully")
	return nil
}

func (s *Seeder) seedJobs(ctx context.Context) ([]entities.Job, error) {

	var jobs []entities.Job
	for i := 0; i < 25; i++ {
		location := "Remote"
		if i%2 == 0 {
			location = "On-site"
		}
		job := entities.NewJob(fmt.Sprintf("Software Engineer %d", i+1), "",
			entities.JobActive, []string{"Engineering", location})
		job.Order = i

		if err := s.jobs.Add(ctx, job); err != nil {
			return nil, fmt.Errorf("failed to seed job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

func (s *Seeder) seedCandidates(ctx context.Context, jobs []entities.Job) error {

	stages := entities.Stages()
	for i := 0; i < 40; i++ {
		jobID := jobs[i%len(jobs)].ID
		candidate := entities.NewCandidate(
			fmt.Sprintf("Candidate %d", i+1),
			fmt.Sprintf("candidate%d@example.com", i+1),
			stages[i%len(stages)],
			&jobID,
		)
		if err := s.candidates.Add(ctx, candidate); err != nil {
			return fmt.Errorf("failed to seed candidate: %w", err)
		}
		if err := s.candidates.AddEvent(ctx, entities.NewCreatedEvent(candidate.ID)); err != nil {
			return fmt.Errorf("failed to seed candidate timeline: %w", err)
		}
	}
	return nil
}

func (s *Seeder) seedAssessment(ctx context.Context, jobID int) error {

	maxLength := 500
	sections := []entities.Section{
		{
			ID:    "seed-basics",
			Title: "Basics",
			Questions: []entities.Question{
				{
					ID:       "seed-q-relocate",
					Type:     entities.SingleChoice,
					Title:    "Are you willing to relocate?",
					Required: true,
					Options:  []string{"Yes", "No"},
				},
				{
					ID:        "seed-q-city",
					Type:      entities.ShortText,
					Title:     "Which city would you prefer?",
					MaxLength: &maxLength,
					VisibleIf: &entities.VisibilityRule{
						QuestionID: "seed-q-relocate",
						Operator:   entities.OpEq,
						Value:      "Yes",
					},
				},
			},
		},
	}

	assessment, err := entities.NewAssessment(jobID, sections)
	if err != nil {
		return err
	}
	if err := s.assessments.Save(ctx, assessment); err != nil {
		return fmt.Errorf("failed to seed assessment: %w", err)
	}
	return nil
}
