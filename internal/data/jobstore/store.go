// Package jobstore provides the in-memory registry backing the asynchronous
// job-tracking core. Records live only for the retention window; persistence
// across restarts is explicitly out of scope.
package jobstore

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/inkwell-ai/inkwell-api/internal/data"
	"github.com/inkwell-ai/inkwell-api/internal/domain/model"
	apperrors "github.com/inkwell-ai/inkwell-api/internal/errors"
	"github.com/inkwell-ai/inkwell-api/internal/ports"
)

// Store is a mutex-guarded map of job id to job record. The zero value is not
// usable; construct with New. All methods are safe for concurrent use and
// never suspend: critical sections only copy small structs.
type Store struct {
	mu    sync.RWMutex
	jobs  map[string]model.Job
	clock data.TimeProvider
}

var _ ports.JobStore = (*Store)(nil)

// New creates an empty Store using real system time.
func New() *Store {
	return NewWithClock(&data.RealTimeProvider{})
}

// NewWithClock creates an empty Store with an injectable clock, used by tests
// to exercise eviction boundaries without sleeping.
func NewWithClock(clock data.TimeProvider) *Store {
	if clock == nil {
		clock = &data.RealTimeProvider{}
	}
	return &Store{
		jobs:  make(map[string]model.Job),
		clock: clock,
	}
}

// Create inserts a new record in processing state with null result/error.
// Duplicate ids should be unreachable given UUID generation; they are
// reported as internal invariant violations rather than user errors.
func (s *Store) Create(id string, kind model.JobKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return apperrors.Internalf("duplicate job id %q", id)
	}

	now := s.clock.Now()
	s.jobs[id] = model.Job{
		ID:            id,
		Kind:          kind,
		Status:        model.JobStatusProcessing,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
	return nil
}

// Update overwrites status, result, error, and the update timestamp for an
// existing id. It reports false when the id is absent, which is acceptable
// under the retention policy: the record may have been swept while the
// background task was still in flight.
func (s *Store) Update(id string, status model.JobStatus, result json.RawMessage, errMsg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return false
	}

	job.Status = status
	job.Result = result
	job.Error = errMsg
	job.LastUpdatedAt = s.clock.Now()
	s.jobs[id] = job
	return true
}

// Get returns a copy of the record for id, or a NotFound error.
func (s *Store) Get(id string) (model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[id]
	if !exists {
		return model.Job{}, apperrors.NotFoundf("job %q not found", id)
	}
	return job, nil
}

// Sweep deletes every record created before now-maxAge and returns the
// number removed. Eviction is unconditional: records still processing are
// removed along with terminal ones once they age out.
func (s *Store) Sweep(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().Add(-maxAge)
	removed := 0
	for id, job := range s.jobs {
		if job.CreatedAt.Before(cutoff) {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
