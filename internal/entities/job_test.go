package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NewJob_WhenSlugAbsent_ShouldDeriveFromTitle(t *testing.T) {
	job := NewJob("Senior Go Engineer (Remote)", "", JobActive, nil)
	assert.Equal(t, "senior-go-engineer-remote", job.Slug)
}

func Test_NewJob_WhenSlugGiven_ShouldKeepIt(t *testing.T) {
	job := NewJob("Senior Go Engineer", "custom-slug", JobActive, nil)
	assert.Equal(t, "custom-slug", job.Slug)
}

func Test_NewJob_ShouldDeduplicateTags(t *testing.T) {
	job := NewJob("Engineer", "", JobActive, []string{"Remote", "Engineering", "Remote"})
	assert.Equal(t, []string{"Remote", "Engineering"}, job.TagsAsArray())
}

func Test_TagsAsArray_WhenEmpty_ShouldReturnEmptySlice(t *testing.T) {
	job := NewJob("Engineer", "", JobActive, nil)
	assert.Empty(t, job.TagsAsArray())
}

func Test_ToJobStatus_ShouldRejectUnknownValue(t *testing.T) {
	_, err := ToJobStatus("paused")
	assert.Error(t, err)
}

func Test_ToStage_ShouldAcceptEveryPipelineStage(t *testing.T) {
	for _, stage := range Stages() {
		parsed, err := ToStage(string(stage))
		assert.NoError(t, err)
		assert.Equal(t, stage, parsed)
	}
}

func Test_ToStage_ShouldRejectUnknownValue(t *testing.T) {
	_, err := ToStage("onboarding")
	assert.Error(t, err)
}
