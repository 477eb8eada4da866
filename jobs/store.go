// Package jobs tracks the status of asynchronous render requests.
package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"brainrot/types"
)

var (
	// ErrJobNotFound is returned by Get for an unknown id.
	ErrJobNotFound = errors.New("job not found")
	// ErrJobExists is returned by Create when the id is already taken.
	ErrJobExists = errors.New("job already exists")
)

// Store persists job snapshots.
type Store interface {
	// Create stores job only if no job with its id exists, atomically.
	Create(ctx context.Context, job types.Job) error
	Save(ctx context.Context, job types.Job) error
	Get(ctx context.Context, id string) (types.Job, error)
}

// MemoryStore keeps jobs in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]types.Job
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]types.Job)}
}

func (m *MemoryStore) Create(ctx context.Context, job types.Job) error {
	if job.ID == "" {
		return errors.New("job id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.ID]; ok {
		return ErrJobExists
	}
	m.jobs[job.ID] = job
	return nil
}

func (m *MemoryStore) Save(ctx context.Context, job types.Job) error {
	if job.ID == "" {
		return errors.New("job id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = job
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (types.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return types.Job{}, ErrJobNotFound
	}
	return job, nil
}

// Tracker records lifecycle transitions of a single job in a Store. Store
// errors are returned so callers can decide whether to log or abort.
type Tracker struct {
	store Store
	now   func() time.Time
}

func NewTracker(store Store) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

// Queue claims id for a new job in the queued state. It fails with
// ErrJobExists when the id is already in use.
func (t *Tracker) Queue(ctx context.Context, id string) (types.Job, error) {
	now := t.now()
	job := types.Job{ID: id, Status: types.JobQueued, CreatedAt: now, UpdatedAt: now}
	return job, t.store.Create(ctx, job)
}

// Stage marks the job running and records the current pipeline stage.
func (t *Tracker) Stage(ctx context.Context, id, stage string) error {
	return t.update(ctx, id, func(j *types.Job) {
		j.Status = types.JobRunning
		j.Stage = stage
	})
}

// Done marks the job finished.
func (t *Tracker) Done(ctx context.Context, id, output, videoID string) error {
	return t.update(ctx, id, func(j *types.Job) {
		j.Status = types.JobDone
		j.Stage = ""
		j.Output = output
		j.VideoID = videoID
	})
}

// Fail marks the job failed with err.
func (t *Tracker) Fail(ctx context.Context, id string, err error) error {
	return t.update(ctx, id, func(j *types.Job) {
		j.Status = types.JobFailed
		if err != nil {
			j.Error = err.Error()
		}
	})
}

func (t *Tracker) update(ctx context.Context, id string, fn func(*types.Job)) error {
	job, err := t.store.Get(ctx, id)
	if errors.Is(err, ErrJobNotFound) {
		job = types.Job{ID: id, CreatedAt: t.now()}
	} else if err != nil {
		return err
	}
	fn(&job)
	job.UpdatedAt = t.now()
	return t.store.Save(ctx, job)
}
