package ingest

import (
	"sync"

	"github.com/RishabhSinha02/chronologicon/core/utils"
)

// Registry is the process-wide job table. It is injected where needed rather
// than held as a package global, is written by each job's own goroutine, and
// never evicts entries. A production variant would want TTL eviction and
// durable job state.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewRegistry() *Registry {
	return &Registry{jobs: map[string]*Job{}}
}

func (r *Registry) Create(id string) *Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	job := &Job{ID: id, Status: StatusProcessing, Errors: []string{}, CreatedAt: utils.NowUTC()}
	r.jobs[id] = job
	return job
}

// Get returns a snapshot copy of the job. Readers only need a progress
// snapshot, not an atomic view of a running job.
func (r *Registry) Get(id string) (*Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, false
	}
	snapshot := *job
	snapshot.Errors = append([]string(nil), job.Errors...)
	return &snapshot, true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}

func (r *Registry) markProcessed(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		job.ProcessedLines++
	}
}

func (r *Registry) markError(id, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		job.ErrorLines++
		job.Errors = append(job.Errors, msg)
	}
}

func (r *Registry) complete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok && job.Status == StatusProcessing {
		job.Status = StatusCompleted
	}
}

func (r *Registry) fail(id, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok && job.Status == StatusProcessing {
		job.Status = StatusFailed
		job.Errors = append(job.Errors, msg)
	}
}
