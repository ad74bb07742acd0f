package transcription

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/lasto/internal/domain/entities"
)

// Registry keeps transcription jobs in memory for status queries
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*entities.TranscriptionJob
	now  func() time.Time
}

// NewRegistry creates an empty job registry
func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{jobs: make(map[string]*entities.TranscriptionJob), now: now}
}

// Create registers a queued job for a pending item
func (r *Registry) Create(title, pendingID string) entities.TranscriptionJob {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	job := &entities.TranscriptionJob{
		ID:        uuid.NewString(),
		Title:     title,
		PendingID: pendingID,
		Status:    entities.JobStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.jobs[job.ID] = job
	return *job
}

// Update applies fn to a job under the registry lock
func (r *Registry) Update(id string, fn func(*entities.TranscriptionJob)) (entities.TranscriptionJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return entities.TranscriptionJob{}, fmt.Errorf("%w: %s", entities.ErrJobNotFound, id)
	}
	fn(job)
	job.UpdatedAt = r.now().UTC()
	return *job, nil
}

// Get returns a snapshot of a job
func (r *Registry) Get(id string) (entities.TranscriptionJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return entities.TranscriptionJob{}, fmt.Errorf("%w: %s", entities.ErrJobNotFound, id)
	}
	return *job, nil
}

// List returns all jobs, newest first
func (r *Registry) List() []entities.TranscriptionJob {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.TranscriptionJob, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, *job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
