package services

import (
	"context"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentflow/pipeline/internal/backend"
	"github.com/talentflow/pipeline/internal/entities"
	"github.com/talentflow/pipeline/internal/events"
	"github.com/talentflow/pipeline/internal/repositories"
	"github.com/talentflow/pipeline/internal/store"
)

type testEnv struct {
	jobs        *repositories.Jobs
	candidates  *repositories.Candidates
	assessments *repositories.CachedAssessments
	api         *backend.API
}

func newTestEnv(t *testing.T) testEnv {

	dbContext, err := repositories.NewDbContext(":memory:")
	require.NoError(t, err)
	require.NoError(t, dbContext.Migrate())
	t.Cleanup(func() { _ = dbContext.Close() })

	jobs := repositories.NewJobsRepository(dbContext.DB)
	candidates := repositories.NewCandidatesRepository(dbContext.DB)
	assessments := repositories.NewCachedAssessments(repositories.NewAssessmentsRepository(dbContext.DB))

	return testEnv{
		jobs:        jobs,
		candidates:  candidates,
		assessments: assessments,
		api:         backend.New(jobs, candidates, assessments, backend.Disabled()),
	}
}

func Test_Seed_ShouldPopulateEmptyDatabase(t *testing.T) {

	env := newTestEnv(t)
	seeder := NewSeeder(env.jobs, env.candidates, env.assessments)

	err := seeder.Seed(context.Background())
	assert.NoError(t, err)

	jobCount, err := env.jobs.Count(context.Background())
	assert.NoError(t, err)
	assert.EqualValues(t, 25, jobCount)

	candidateCount, err := env.candidates.Count(context.Background())
	assert.NoError(t, err)
	assert.EqualValues(t, 40, candidateCount)
}

func Test_Seed_ShouldKeepJobOrdersDense(t *testing.T) {

	env := newTestEnv(t)
	seeder := NewSeeder(env.jobs, env.candidates, env.assessments)
	require.NoError(t, seeder.Seed(context.Background()))

	all, err := env.jobs.GetAllOrdered(context.Background())
	assert.NoError(t, err)
	for i, job := range all {
		assert.Equal(t, i, job.Order)
	}
}

func Test_Seed_ShouldCoverEveryStage(t *testing.T) {

	env := newTestEnv(t)
	seeder := NewSeeder(env.jobs, env.candidates, env.assessments)
	require.NoError(t, seeder.Seed(context.Background()))

	for _, stage := range entities.Stages() {
		candidates, _, err := env.candidates.List(context.Background(), repositories.CandidatesFilter{Stage: stage})
		assert.NoError(t, err)
		assert.NotEmpty(t, candidates, "no seeded candidate in stage %s", stage)
	}
}

func Test_Seed_WhenAlreadyPopulated_ShouldDoNothing(t *testing.T) {

	env := newTestEnv(t)
	seeder := NewSeeder(env.jobs, env.candidates, env.assessments)
	require.NoError(t, seeder.Seed(context.Background()))
	require.NoError(t, seeder.Seed(context.Background()))

	jobCount, err := env.jobs.Count(context.Background())
	assert.NoError(t, err)
	assert.EqualValues(t, 25, jobCount)
}

func Test_Seed_ShouldSaveAssessmentWithVisibilityRule(t *testing.T) {

	env := newTestEnv(t)
	seeder := NewSeeder(env.jobs, env.candidates, env.assessments)
	require.NoError(t, seeder.Seed(context.Background()))

	all, err := env.jobs.GetAllOrdered(context.Background())
	require.NoError(t, err)

	assessment, err := env.assessments.GetByJob(context.Background(), all[0].ID)
	assert.NoError(t, err)
	require.NotNil(t, assessment)

	questions, err := assessment.Questions()
	require.NoError(t, err)

	guarded := 0
	for _, question := range questions {
		if question.VisibleIf != nil {
			guarded++
		}
	}
	assert.Greater(t, guarded, 0)
}

func Test_Refresh_ShouldReplaceLocalStateAndClearDirty(t *testing.T) {

	env := newTestEnv(t)
	seeder := NewSeeder(env.jobs, env.candidates, env.assessments)
	require.NoError(t, seeder.Seed(context.Background()))

	st := store.New(0)
	st.MarkDirty()

	refresher, err := NewStoreRefresher(env.api, st, nil, "")
	require.NoError(t, err)

	err = refresher.Refresh(context.Background())

	assert.NoError(t, err)
	assert.False(t, st.Dirty())
	assert.NotEmpty(t, st.Jobs())
	assert.NotEmpty(t, st.Candidates())
	assert.Equal(t, 25, st.JobsPagination().TotalCount)
}

func Test_Refresh_ShouldHonourStoreFilters(t *testing.T) {

	env := newTestEnv(t)
	seeder := NewSeeder(env.jobs, env.candidates, env.assessments)
	require.NoError(t, seeder.Seed(context.Background()))

	st := store.New(0)
	st.SetJobsFilters(store.JobsFilters{Tags: []string{"Remote"}})

	refresher, err := NewStoreRefresher(env.api, st, nil, "")
	require.NoError(t, err)
	require.NoError(t, refresher.Refresh(context.Background()))

	for _, job := range st.Jobs() {
		assert.True(t, job.HasTag("Remote"))
	}
}

func Test_Refresher_WhenRollbackWasSkipped_ShouldRefreshImmediately(t *testing.T) {

	env := newTestEnv(t)
	seeder := NewSeeder(env.jobs, env.candidates, env.assessments)
	require.NoError(t, seeder.Seed(context.Background()))

	st := store.New(0)
	st.MarkDirty()

	bus := EventBus.New()
	_, err := NewStoreRefresher(env.api, st, bus, "")
	require.NoError(t, err)

	bus.Publish(events.MutationFailedTopic, events.MutationFailed{Kind: "reorder", Key: store.JobsKey, RolledBack: false})

	assert.Eventually(t, func() bool {
		return !st.Dirty() && len(st.Jobs()) > 0
	}, 5*time.Second, 20*time.Millisecond)
}

func Test_NewStoreRefresher_WhenScheduleInvalid_ShouldFail(t *testing.T) {

	env := newTestEnv(t)
	_, err := NewStoreRefresher(env.api, store.New(0), nil, "every ten seconds")

	assert.Error(t, err)
}
