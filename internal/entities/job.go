package entities

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/samber/lo"
)

type JobStatus string

const (
	JobActive   JobStatus = "active"
	JobArchived JobStatus = "archived"
)

func ToJobStatus(s string) (JobStatus, error) {
	switch s {
	case string(JobActive):
		return JobActive, nil
	case string(JobArchived):
		return JobArchived, nil
	default:
		return "", errors.New("invalid job status")
	}
}

// Job is an open position. Order is a dense zero-based rank unique across
// all jobs; it defines the display order and is renormalized by the backend
// after every create, delete and reorder.
type Job struct {
	ID        int
	Title     string
	Slug      string `gorm:"uniqueIndex"`
	Status    JobStatus
	Tags      string
	Order     int
	CreatedAt time.Time
}

func NewJob(title, slug string, status JobStatus, tags []string) *Job {
	if slug == "" {
		slug = Slugify(title)
	}
	return &Job{
		Title:  title,
		Slug:   slug,
		Status: status,
		Tags:   strings.Join(lo.Uniq(tags), ","),
	}
}

func (j *Job) TagsAsArray() []string {
	if j.Tags == "" {
		return []string{}
	}
	return strings.Split(j.Tags, ",")
}

func (j *Job) HasTag(tag string) bool {
	return lo.Contains(j.TagsAsArray(), tag)
}

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the title and collapses every run of non-alphanumeric
// characters into a single dash.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
