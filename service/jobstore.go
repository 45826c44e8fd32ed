package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yyonggg2/MechMentorApp/model"
)

// JobStore is an in-memory store for analysis jobs. Jobs live for the
// lifetime of the process and are never evicted; that is a known scaling
// limitation for long-running deployments, not an oversight.
//
// One writer (the analysis worker) and one reader (the polling client)
// contend per job id. A single RWMutex over the map is enough.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*model.Job
}

// NewJobStore creates an empty job store.
func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[string]*model.Job),
	}
}

// Create allocates a fresh job id and inserts a pending entry. The job is
// visible to Get from the moment this returns.
func (s *JobStore) Create() *model.Job {
	now := time.Now()
	job := &model.Job{
		ID:        uuid.New().String(),
		Status:    model.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
	return job
}

// Get returns a copy of the job state, or false for an unknown id.
func (s *JobStore) Get(id string) (model.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return model.Job{}, false
	}
	return *job, true
}

// Complete moves a pending job to the complete state with its result.
// Terminal states are final: a second terminal write is ignored.
func (s *JobStore) Complete(id string, result *model.AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job, ok := s.jobs[id]; ok && !job.Terminal() {
		job.Status = model.StatusComplete
		job.Result = result
		job.UpdatedAt = time.Now()
	}
}

// Fail moves a pending job to the failed state with an error message.
// Terminal states are final: a second terminal write is ignored.
func (s *JobStore) Fail(id string, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job, ok := s.jobs[id]; ok && !job.Terminal() {
		job.Status = model.StatusFailed
		job.Error = errMsg
		job.UpdatedAt = time.Now()
	}
}

// Count returns the number of jobs in the store
func (s *JobStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
