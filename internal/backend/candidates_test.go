package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentflow/pipeline/internal/entities"
)

func createCandidate(t *testing.T, api *API, name string) *entities.Candidate {
	candidate, err := api.CreateCandidate(context.Background(), CreateCandidateInput{
		Name:  name,
		Email: entities.Slugify(name) + "@example.com",
	})
	require.NoError(t, err)
	return candidate
}

func Test_CreateCandidate_ShouldRecordCreatedEvent(t *testing.T) {

	api, _ := newTestAPI(t)
	candidate := createCandidate(t, api, "Ada Lovelace")

	assert.Equal(t, entities.StageApplied, candidate.Stage)

	timeline, err := api.GetCandidateTimeline(context.Background(), candidate.ID)
	assert.NoError(t, err)
	require.Len(t, timeline, 1)
	assert.Equal(t, entities.EventCreated, timeline[0].Type)
}

func Test_CreateCandidate_WhenEmailInvalid_ShouldFailValidation(t *testing.T) {

	api, _ := newTestAPI(t)
	_, err := api.CreateCandidate(context.Background(), CreateCandidateInput{Name: "Ada", Email: "not-an-email"})

	assert.True(t, IsValidation(err))
}

func Test_CreateCandidate_WhenJobUnknown_ShouldReturnNotFound(t *testing.T) {

	api, _ := newTestAPI(t)
	jobID := 42
	_, err := api.CreateCandidate(context.Background(), CreateCandidateInput{
		Name: "Ada", Email: "ada@example.com", JobID: &jobID,
	})

	assert.True(t, IsNotFound(err))
}

func Test_UpdateCandidate_WhenStageChanges_ShouldAppendExactlyOneEvent(t *testing.T) {

	api, _ := newTestAPI(t)
	candidate := createCandidate(t, api, "Ada")

	updated, err := api.UpdateCandidateStage(context.Background(), candidate.ID, entities.StageScreen)

	assert.NoError(t, err)
	assert.Equal(t, entities.StageScreen, updated.Stage)

	timeline, err := api.GetCandidateTimeline(context.Background(), candidate.ID)
	assert.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, entities.EventStageChange, timeline[1].Type)
	assert.Equal(t, entities.StageApplied, timeline[1].FromStage)
	assert.Equal(t, entities.StageScreen, timeline[1].ToStage)
}

func Test_UpdateCandidate_WhenStageUnchanged_ShouldNotAppendEvent(t *testing.T) {

	api, _ := newTestAPI(t)
	candidate := createCandidate(t, api, "Ada")

	_, err := api.UpdateCandidateStage(context.Background(), candidate.ID, entities.StageApplied)
	assert.NoError(t, err)

	timeline, err := api.GetCandidateTimeline(context.Background(), candidate.ID)
	assert.NoError(t, err)
	assert.Len(t, timeline, 1)
}

func Test_UpdateCandidate_WhenStageUnknown_ShouldFailValidation(t *testing.T) {

	api, _ := newTestAPI(t)
	candidate := createCandidate(t, api, "Ada")

	interview := entities.Stage("interview")
	_, err := api.UpdateCandidate(context.Background(), candidate.ID, CandidateUpdates{Stage: &interview})

	assert.True(t, IsValidation(err))
}

func Test_UpdateCandidate_ShouldReturnWholeStoredRecord(t *testing.T) {

	api, _ := newTestAPI(t)
	candidate := createCandidate(t, api, "Ada")

	name := "Ada Lovelace"
	updated, err := api.UpdateCandidate(context.Background(), candidate.ID, CandidateUpdates{Name: &name})

	assert.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.Equal(t, candidate.Email, updated.Email)
	assert.Equal(t, candidate.Stage, updated.Stage)
}

func Test_UpdateCandidate_WhenFaultScripted_ShouldFailWithoutWriting(t *testing.T) {

	api, faults := newTestAPI(t)
	candidate := createCandidate(t, api, "Ada")

	faults.Script(ErrServerFault)
	_, err := api.UpdateCandidateStage(context.Background(), candidate.ID, entities.StageScreen)

	assert.ErrorIs(t, err, ErrServerFault)

	reloaded, err := api.getCandidate(context.Background(), candidate.ID)
	assert.NoError(t, err)
	assert.Equal(t, entities.StageApplied, reloaded.Stage)
}

func Test_AppendTimelineNote_ShouldKeepChronologicalOrder(t *testing.T) {

	api, _ := newTestAPI(t)
	candidate := createCandidate(t, api, "Ada")

	_, err := api.UpdateCandidateStage(context.Background(), candidate.ID, entities.StageScreen)
	require.NoError(t, err)
	_, err = api.AppendTimelineNote(context.Background(), candidate.ID, "strong phone screen, schedule tech round")
	require.NoError(t, err)

	timeline, err := api.GetCandidateTimeline(context.Background(), candidate.ID)
	assert.NoError(t, err)
	require.Len(t, timeline, 3)
	assert.Equal(t, entities.EventCreated, timeline[0].Type)
	assert.Equal(t, entities.EventStageChange, timeline[1].Type)
	assert.Equal(t, entities.EventNote, timeline[2].Type)
	assert.Equal(t, "strong phone screen, schedule tech round", timeline[2].Note)
}

func Test_AppendTimelineNote_WhenTextEmpty_ShouldFailValidation(t *testing.T) {

	api, _ := newTestAPI(t)
	candidate := createCandidate(t, api, "Ada")

	_, err := api.AppendTimelineNote(context.Background(), candidate.ID, "")

	assert.True(t, IsValidation(err))
}

func Test_ListCandidates_ShouldFilterByStageAndJob(t *testing.T) {

	api, _ := newTestAPI(t)
	job, err := api.CreateJob(context.Background(), CreateJobInput{Title: "Backend"})
	require.NoError(t, err)

	_, err = api.CreateCandidate(context.Background(), CreateCandidateInput{
		Name: "Ada", Email: "ada@example.com", Stage: entities.StageScreen, JobID: &job.ID,
	})
	require.NoError(t, err)
	_, err = api.CreateCandidate(context.Background(), CreateCandidateInput{
		Name: "Grace", Email: "grace@example.com", Stage: entities.StageTech, JobID: &job.ID,
	})
	require.NoError(t, err)
	createCandidate(t, api, "Unassigned")

	page, err := api.ListCandidates(context.Background(), CandidatesQuery{Stage: entities.StageScreen, JobID: &job.ID})

	assert.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.TotalCount)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Ada", page.Items[0].Name)
}

func Test_ListCandidates_ShouldSearchNameAndEmail(t *testing.T) {

	api, _ := newTestAPI(t)
	createCandidate(t, api, "Ada Lovelace")
	createCandidate(t, api, "Grace Hopper")

	page, err := api.ListCandidates(context.Background(), CandidatesQuery{Search: "lovelace"})

	assert.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Ada Lovelace", page.Items[0].Name)
}
