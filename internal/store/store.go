// Package store holds the client-side view of the pipeline: the fetched
// job page, the candidate list, timelines and assessments, plus the
// bookkeeping the optimistic mutation coordinator needs (per-key revisions,
// a dirty flag, a transient error). It is the only shared mutable state in
// the system and every consumer receives it explicitly.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/talentflow/pipeline/internal/entities"
)

// JobsKey is the revision key covering the ordered jobs slice as a whole;
// reorders are collection-level mutations, not per-job ones.
const JobsKey = "jobs"

func CandidateKey(id int) string {
	return fmt.Sprintf("candidate:%d", id)
}

type Pagination struct {
	Page       int
	PageSize   int
	TotalCount int
}

type JobsFilters struct {
	Status entities.JobStatus
	Search string
	Tags   []string
	Sort   string
}

type CandidatesFilters struct {
	Search string
	Stage  entities.Stage
	JobID  *int
}

type Store struct {
	mu sync.Mutex

	jobs           []entities.Job
	jobsPagination Pagination
	jobsFilters    JobsFilters

	candidates           []entities.Candidate
	candidatesPagination Pagination
	candidatesFilters    CandidatesFilters

	timelines   map[int][]entities.TimelineEvent
	assessments map[int]*entities.Assessment

	revisions map[string]uint64
	dirty     bool

	lastError     string
	errorSeq      uint64
	clearErrAfter time.Duration
}

// New builds an empty store. A positive clearErrAfter makes transient
// errors disappear on their own after that duration, the way the reference
// UI's toast does; zero keeps them until overwritten.
func New(clearErrAfter time.Duration) *Store {
	return &Store{
		timelines:     map[int][]entities.TimelineEvent{},
		assessments:   map[int]*entities.Assessment{},
		revisions:     map[string]uint64{},
		clearErrAfter: clearErrAfter,
	}
}

func (s *Store) Revision(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revisions[key]
}

// bump must be called with the lock held.
func (s *Store) bump(key string) uint64 {
	s.revisions[key]++
	return s.revisions[key]
}

func (s *Store) SetJobs(jobs []entities.Job, pagination Pagination) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append([]entities.Job{}, jobs...)
	s.jobsPagination = pagination
	s.bump(JobsKey)
}

func (s *Store) Jobs() []entities.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Job{}, s.jobs...)
}

func (s *Store) JobsPagination() Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobsPagination
}

func (s *Store) JobsFilters() JobsFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobsFilters
}

func (s *Store) SetJobsFilters(filters JobsFilters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobsFilters = filters
	s.jobsPagination.Page = 1
}

// SpliceJobs removes the job at fromIndex and reinserts it at toIndex in
// one synchronous step. It returns the moved job (with its pre-move order
// rank), the pre-move order rank of the job that sat at toIndex, and the
// new revision of the jobs collection. Indices address the currently
// fetched page.
func (s *Store) SpliceJobs(fromIndex, toIndex int) (entities.Job, int, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fromIndex < 0 || fromIndex >= len(s.jobs) || toIndex < 0 || toIndex >= len(s.jobs) {
		return entities.Job{}, 0, 0, errors.New("reorder index out of range")
	}

	moved := s.jobs[fromIndex]
	toOrder := s.jobs[toIndex].Order
	s.jobs = append(s.jobs[:fromIndex], s.jobs[fromIndex+1:]...)
	s.jobs = append(s.jobs[:toIndex], append([]entities.Job{moved}, s.jobs[toIndex:]...)...)
	return moved, toOrder, s.bump(JobsKey), nil
}

// SpliceJobsIf performs the splice only when the collection revision still
// equals expected; a stale caller must not clobber newer state.
func (s *Store) SpliceJobsIf(fromIndex, toIndex int, expected uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.revisions[JobsKey] != expected {
		return false
	}
	if fromIndex < 0 || fromIndex >= len(s.jobs) || toIndex < 0 || toIndex >= len(s.jobs) {
		return false
	}

	moved := s.jobs[fromIndex]
	s.jobs = append(s.jobs[:fromIndex], s.jobs[fromIndex+1:]...)
	s.jobs = append(s.jobs[:toIndex], append([]entities.Job{moved}, s.jobs[toIndex:]...)...)
	s.bump(JobsKey)
	return true
}

func (s *Store) JobIndex(id int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, job := range s.jobs {
		if job.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (s *Store) SetCandidates(candidates []entities.Candidate, pagination Pagination) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates = append([]entities.Candidate{}, candidates...)
	s.candidatesPagination = pagination
}

func (s *Store) Candidates() []entities.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Candidate{}, s.candidates...)
}

func (s *Store) CandidatesPagination() Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.candidatesPagination
}

func (s *Store) CandidatesFilters() CandidatesFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.candidatesFilters
}

func (s *Store) SetCandidatesFilters(filters CandidatesFilters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidatesFilters = filters
	s.candidatesPagination.Page = 1
}

func (s *Store) CandidateByID(id int) (entities.Candidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, candidate := range s.candidates {
		if candidate.ID == id {
			return candidate, true
		}
	}
	return entities.Candidate{}, false
}

// SetCandidateStage applies the optimistic stage change and returns the
// previous stage together with the candidate's new revision. changed is
// false when the candidate already sits in that stage (no revision bump)
// or is not in the local state at all.
func (s *Store) SetCandidateStage(id int, stage entities.Stage) (prev entities.Stage, revision uint64, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, candidate := range s.candidates {
		if candidate.ID != id {
			continue
		}
		prev = candidate.Stage
		if prev == stage {
			return prev, s.revisions[CandidateKey(id)], false
		}
		s.candidates[i].Stage = stage
		return prev, s.bump(CandidateKey(id)), true
	}
	return "", 0, false
}

// MergeCandidateIf replaces the locally held candidate with the server's
// authoritative record, but only while the revision captured at apply time
// is still current.
func (s *Store) MergeCandidateIf(candidate entities.Candidate, expected uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revisions[CandidateKey(candidate.ID)] != expected {
		return false
	}
	for i, existing := range s.candidates {
		if existing.ID == candidate.ID {
			s.candidates[i] = candidate
			s.bump(CandidateKey(candidate.ID))
			return true
		}
	}
	return false
}

func (s *Store) Timeline(candidateID int) []entities.TimelineEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.TimelineEvent{}, s.timelines[candidateID]...)
}

func (s *Store) SetTimeline(candidateID int, events []entities.TimelineEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timelines[candidateID] = append([]entities.TimelineEvent{}, events...)
}

func (s *Store) AppendTimelineEvent(candidateID int, event entities.TimelineEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timelines[candidateID] = append(s.timelines[candidateID], event)
}

func (s *Store) Assessment(jobID int) (*entities.Assessment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	assessment, found := s.assessments[jobID]
	return assessment, found
}

func (s *Store) SetAssessment(assessment *entities.Assessment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessments[assessment.JobID] = assessment
}

// MarkDirty flags that the local state can no longer be trusted to match
// the backend and a full refetch is required, e.g. after a failed reorder
// whose rollback was skipped as stale.
func (s *Store) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = true
}

func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *Store) ClearDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}

// SetError records a user-visible transient error, scheduling its own
// expiry when the store was built with a clear duration. A newer error
// keeps an older timer from wiping it.
func (s *Store) SetError(message string) {
	s.mu.Lock()
	s.lastError = message
	s.errorSeq++
	seq := s.errorSeq
	after := s.clearErrAfter
	s.mu.Unlock()

	if after <= 0 {
		return
	}
	time.AfterFunc(after, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.errorSeq == seq {
			s.lastError = ""
		}
	})
}

func (s *Store) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}
