package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/business"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/geofence"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/job"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/worker"
)

// WorkerRepository implements worker.Repository.
type WorkerRepository struct {
	mu      sync.RWMutex
	workers map[string]worker.Worker
}

func NewWorkerRepository() *WorkerRepository {
	return &WorkerRepository{workers: make(map[string]worker.Worker)}
}

func (r *WorkerRepository) Create(ctx context.Context, w worker.Worker) (worker.Worker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now
	r.workers[w.ID] = w
	return w, nil
}

func (r *WorkerRepository) GetByID(ctx context.Context, id string) (worker.Worker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.workers[id]
	if !ok {
		return worker.Worker{}, worker.ErrWorkerNotFound
	}
	return w, nil
}

// EmploymentRepository implements worker.EmploymentRepository.
type EmploymentRepository struct {
	mu          sync.RWMutex
	employments map[string]worker.Employment
}

func NewEmploymentRepository() *EmploymentRepository {
	return &EmploymentRepository{employments: make(map[string]worker.Employment)}
}

func (r *EmploymentRepository) Create(ctx context.Context, e worker.Employment) (worker.Employment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now().UTC()
	r.employments[e.ID] = e
	return e, nil
}

func (r *EmploymentRepository) GetWorkLocation(ctx context.Context, workerID, jobID string) (*geofence.Geofence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.employments {
		if !e.Active || e.WorkerID != workerID || e.JobID != jobID {
			continue
		}
		if e.Latitude == nil || e.Longitude == nil {
			continue
		}
		return locationFence(*e.Latitude, *e.Longitude, e.RadiusMeters, true, e.LocationName, "employment work location"), nil
	}
	return nil, nil
}

// JobRepository implements job.Repository.
type JobRepository struct {
	mu   sync.RWMutex
	jobs map[string]job.Job
}

func NewJobRepository() *JobRepository {
	return &JobRepository{jobs: make(map[string]job.Job)}
}

func (r *JobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now
	r.jobs[j.ID] = j
	return j, nil
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (job.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return job.Job{}, job.ErrJobNotFound
	}
	return j, nil
}

func (r *JobRepository) GetLocation(ctx context.Context, id string) (*geofence.Geofence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, job.ErrJobNotFound
	}
	if j.Latitude == nil || j.Longitude == nil {
		return nil, nil
	}
	return locationFence(*j.Latitude, *j.Longitude, j.RadiusMeters, true, j.LocationName, "job location"), nil
}

// BusinessRepository implements business.Repository.
type BusinessRepository struct {
	mu         sync.RWMutex
	businesses map[string]business.Business
}

func NewBusinessRepository() *BusinessRepository {
	return &BusinessRepository{businesses: make(map[string]business.Business)}
}

func (r *BusinessRepository) Create(ctx context.Context, b business.Business) (business.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	r.businesses[b.ID] = b
	return b, nil
}

func (r *BusinessRepository) GetByID(ctx context.Context, id string) (business.Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.businesses[id]
	if !ok {
		return business.Business{}, business.ErrBusinessNotFound
	}
	return b, nil
}

func (r *BusinessRepository) GetLocation(ctx context.Context, id string) (*geofence.Geofence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.businesses[id]
	if !ok {
		return nil, business.ErrBusinessNotFound
	}
	if b.Latitude == nil || b.Longitude == nil {
		return nil, nil
	}
	return locationFence(*b.Latitude, *b.Longitude, b.RadiusMeters, b.LocationActive, b.LocationName, "business location"), nil
}

func locationFence(lat, lon float64, radius *float64, active bool, name *string, fallbackLabel string) *geofence.Geofence {
	r := 0.0
	if radius != nil {
		r = *radius
	}
	label := fallbackLabel
	if name != nil && *name != "" {
		label = *name
	}
	return &geofence.Geofence{
		Latitude:     lat,
		Longitude:    lon,
		RadiusMeters: geofence.ClampRadius(r),
		Active:       active,
		Label:        label,
	}
}
