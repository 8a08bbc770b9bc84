package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Job statuses. A queued job moves through the stage statuses in order and
// ends as completed or failed.
const (
	StatusQueued     = "queued"
	StatusIngesting  = "ingesting"
	StatusSegmenting = "segmenting"
	StatusChunking   = "chunking"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Job tracks one analysis request through the worker pool.
type Job struct {
	mu sync.Mutex

	ID       string `json:"id"`
	Filename string `json:"filename"`
	Status   string `json:"status"`

	// Outputs maps artifact names to paths once the run completes.
	Outputs map[string]string `json:"outputs,omitempty"`
	Error   string            `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// data holds the uploaded document until a worker stages it.
	data []byte
}

// SetStatus transitions the job to status.
func (j *Job) SetStatus(status string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// Fail marks the job failed with msg.
func (j *Job) Fail(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.Error = msg
	j.UpdatedAt = time.Now()
}

// Complete marks the job completed with its output artifacts.
func (j *Job) Complete(outputs map[string]string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusCompleted
	j.Outputs = outputs
	j.UpdatedAt = time.Now()
}

// Snapshot returns a copy safe to serialize while workers mutate the job.
func (j *Job) Snapshot() Job {
	j.mu.Lock()
	defer j.mu.Unlock()
	outputs := make(map[string]string, len(j.Outputs))
	for k, v := range j.Outputs {
		outputs[k] = v
	}
	return Job{
		ID:        j.ID,
		Filename:  j.Filename,
		Status:    j.Status,
		Outputs:   outputs,
		Error:     j.Error,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// ContentHashHex returns the hex sha256 of data. Job ids derive from it so
// resubmitting the same document maps to the same id.
func ContentHashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// JobStore holds jobs in memory and expires finished ones after a TTL.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
	ttl  time.Duration
}

// NewJobStore returns a store whose finished jobs expire after ttl.
func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{jobs: make(map[string]*Job), ttl: ttl}
}

// Create registers a new queued job for the uploaded document. When a job
// with the same content already exists it is returned unchanged.
func (s *JobStore) Create(filename string, data []byte) (*Job, bool) {
	id := ContentHashHex(data)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.jobs[id]; ok {
		return existing, false
	}
	now := time.Now()
	job := &Job{
		ID:        id,
		Filename:  filename,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
		data:      data,
	}
	s.jobs[id] = job
	return job, true
}

// Get returns the job for id, or nil.
func (s *JobStore) Get(id string) *Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobs[id]
}

// Cleanup drops completed and failed jobs older than the TTL and returns
// how many were removed.
func (s *JobStore) Cleanup() int {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := (job.Status == StatusCompleted || job.Status == StatusFailed) &&
			job.UpdatedAt.Before(cutoff)
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
