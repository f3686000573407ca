package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/talentflow/pipeline/internal/entities"
)

func threeJobs() []entities.Job {
	return []entities.Job{
		{ID: 1, Title: "A", Order: 0},
		{ID: 2, Title: "B", Order: 1},
		{ID: 3, Title: "C", Order: 2},
	}
}

func Test_SpliceJobs_ShouldMoveAndBumpRevision(t *testing.T) {

	st := New(0)
	st.SetJobs(threeJobs(), Pagination{Page: 1, PageSize: 3, TotalCount: 3})
	before := st.Revision(JobsKey)

	moved, toOrder, revision, err := st.SpliceJobs(0, 2)

	assert.NoError(t, err)
	assert.Equal(t, 1, moved.ID)
	assert.Equal(t, 0, moved.Order)
	assert.Equal(t, 2, toOrder)
	assert.Equal(t, before+1, revision)

	jobs := st.Jobs()
	assert.Equal(t, []int{2, 3, 1}, []int{jobs[0].ID, jobs[1].ID, jobs[2].ID})
}

func Test_SpliceJobs_WhenIndexOutOfRange_ShouldFail(t *testing.T) {

	st := New(0)
	st.SetJobs(threeJobs(), Pagination{})
	before := st.Revision(JobsKey)

	_, _, _, err := st.SpliceJobs(0, 3)

	assert.Error(t, err)
	assert.Equal(t, before, st.Revision(JobsKey))
	assert.Len(t, st.Jobs(), 3)
}

func Test_SpliceJobsIf_WhenRevisionStale_ShouldRefuse(t *testing.T) {

	st := New(0)
	st.SetJobs(threeJobs(), Pagination{})

	_, _, revision, err := st.SpliceJobs(0, 2)
	assert.NoError(t, err)

	// a refetch arrives, making the captured revision stale
	st.SetJobs(threeJobs(), Pagination{})

	assert.False(t, st.SpliceJobsIf(2, 0, revision))
	jobs := st.Jobs()
	assert.Equal(t, []int{1, 2, 3}, []int{jobs[0].ID, jobs[1].ID, jobs[2].ID})
}

func Test_SpliceJobsIf_ShouldInvertSplice(t *testing.T) {

	st := New(0)
	st.SetJobs(threeJobs(), Pagination{})

	_, _, revision, err := st.SpliceJobs(0, 2)
	assert.NoError(t, err)

	assert.True(t, st.SpliceJobsIf(2, 0, revision))
	jobs := st.Jobs()
	assert.Equal(t, []int{1, 2, 3}, []int{jobs[0].ID, jobs[1].ID, jobs[2].ID})
}

func Test_SetCandidateStage_ShouldReturnPreviousStage(t *testing.T) {

	st := New(0)
	st.SetCandidates([]entities.Candidate{{ID: 1, Stage: entities.StageApplied}}, Pagination{})

	prev, revision, changed := st.SetCandidateStage(1, entities.StageScreen)

	assert.True(t, changed)
	assert.Equal(t, entities.StageApplied, prev)
	assert.Equal(t, uint64(1), revision)

	candidate, found := st.CandidateByID(1)
	assert.True(t, found)
	assert.Equal(t, entities.StageScreen, candidate.Stage)
}

func Test_SetCandidateStage_WhenSameStage_ShouldNotBumpRevision(t *testing.T) {

	st := New(0)
	st.SetCandidates([]entities.Candidate{{ID: 1, Stage: entities.StageScreen}}, Pagination{})

	_, _, changed := st.SetCandidateStage(1, entities.StageScreen)

	assert.False(t, changed)
	assert.Equal(t, uint64(0), st.Revision(CandidateKey(1)))
}

func Test_SetCandidateStage_WhenCandidateUnknown_ShouldNotChange(t *testing.T) {

	st := New(0)
	_, _, changed := st.SetCandidateStage(42, entities.StageScreen)
	assert.False(t, changed)
}

func Test_MergeCandidateIf_WhenRevisionStale_ShouldRefuse(t *testing.T) {

	st := New(0)
	st.SetCandidates([]entities.Candidate{{ID: 1, Name: "Ada", Stage: entities.StageApplied}}, Pagination{})

	_, revision, _ := st.SetCandidateStage(1, entities.StageScreen)
	st.SetCandidateStage(1, entities.StageTech)

	merged := st.MergeCandidateIf(entities.Candidate{ID: 1, Name: "Server", Stage: entities.StageScreen}, revision)

	assert.False(t, merged)
	candidate, _ := st.CandidateByID(1)
	assert.Equal(t, "Ada", candidate.Name)
	assert.Equal(t, entities.StageTech, candidate.Stage)
}

func Test_MergeCandidateIf_ShouldReplaceWholeRecord(t *testing.T) {

	st := New(0)
	st.SetCandidates([]entities.Candidate{{ID: 1, Name: "Ada", Stage: entities.StageApplied}}, Pagination{})

	_, revision, _ := st.SetCandidateStage(1, entities.StageScreen)

	merged := st.MergeCandidateIf(entities.Candidate{ID: 1, Name: "Ada Lovelace", Stage: entities.StageScreen}, revision)

	assert.True(t, merged)
	candidate, _ := st.CandidateByID(1)
	assert.Equal(t, "Ada Lovelace", candidate.Name)
}

func Test_SetError_ShouldExpireAfterConfiguredDuration(t *testing.T) {

	st := New(50 * time.Millisecond)
	st.SetError("changes could not be saved and have been reverted")

	assert.NotEmpty(t, st.Error())
	assert.Eventually(t, func() bool { return st.Error() == "" }, time.Second, 10*time.Millisecond)
}

func Test_SetError_WhenNewerErrorArrives_ShouldKeepIt(t *testing.T) {

	st := New(50 * time.Millisecond)
	st.SetError("first")
	time.Sleep(30 * time.Millisecond)
	st.SetError("second")
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, "second", st.Error())
}

func Test_Jobs_ShouldReturnCopy(t *testing.T) {

	st := New(0)
	st.SetJobs(threeJobs(), Pagination{})

	jobs := st.Jobs()
	jobs[0].Title = "mutated"

	assert.Equal(t, "A", st.Jobs()[0].Title)
}
