// Package memory provides map-backed repositories with the same conditional
// write semantics as the PostgreSQL implementations. Used by service tests and
// local development; not meant for production data.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/shift"
)

type ShiftRepository struct {
	mu      sync.RWMutex
	records map[string]shift.ShiftRecord
}

func NewShiftRepository() *ShiftRepository {
	return &ShiftRepository{records: make(map[string]shift.ShiftRecord)}
}

// Create implements shift.Repository.
func (r *ShiftRepository) Create(ctx context.Context, rec shift.ShiftRecord) (shift.ShiftRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	rec.Version = 1
	rec.CreatedAt = now
	rec.UpdatedAt = now

	r.records[rec.ID] = cloneRecord(rec)
	return rec, nil
}

// GetByID implements shift.Repository.
func (r *ShiftRepository) GetByID(ctx context.Context, id string) (shift.ShiftRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return shift.ShiftRecord{}, shift.ErrShiftNotFound
	}
	return cloneRecord(rec), nil
}

// Update implements shift.Repository. The version check and the write happen
// under one lock, so two writers that loaded the same version cannot both win.
func (r *ShiftRepository) Update(ctx context.Context, rec shift.ShiftRecord) (shift.ShiftRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.records[rec.ID]
	if !ok {
		return shift.ShiftRecord{}, shift.ErrShiftNotFound
	}
	if stored.Version != rec.Version {
		return shift.ShiftRecord{}, shift.ErrVersionConflict
	}

	rec.Version++
	rec.UpdatedAt = time.Now().UTC()
	rec.CreatedAt = stored.CreatedAt

	r.records[rec.ID] = cloneRecord(rec)
	return rec, nil
}

// List implements shift.Repository.
func (r *ShiftRepository) List(ctx context.Context, filter shift.ShiftFilter) ([]shift.ShiftRecord, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []shift.ShiftRecord
	for _, rec := range r.records {
		if filter.WorkerID != nil && rec.WorkerID != *filter.WorkerID {
			continue
		}
		if filter.BusinessID != nil && (rec.BusinessID == nil || *rec.BusinessID != *filter.BusinessID) {
			continue
		}
		if filter.Status != nil && rec.Status != *filter.Status {
			continue
		}
		if filter.From != nil && rec.ScheduledStart.Before(*filter.From) {
			continue
		}
		if filter.To != nil && rec.ScheduledStart.After(*filter.To) {
			continue
		}
		matched = append(matched, cloneRecord(rec))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ScheduledStart.After(matched[j].ScheduledStart)
	})

	total := int64(len(matched))

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return []shift.ShiftRecord{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// ListOverdueScheduled implements shift.Repository.
func (r *ShiftRepository) ListOverdueScheduled(ctx context.Context, cutoff time.Time, limit int) ([]shift.ShiftRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var overdue []shift.ShiftRecord
	for _, rec := range r.records {
		if rec.Status != shift.StatusScheduled || rec.ClockInAt != nil {
			continue
		}
		if !rec.ScheduledEnd.Before(cutoff) {
			continue
		}
		overdue = append(overdue, cloneRecord(rec))
		if limit > 0 && len(overdue) >= limit {
			break
		}
	}
	return overdue, nil
}

// cloneRecord deep-copies pointer fields so stored state never aliases a
// caller's record.
func cloneRecord(rec shift.ShiftRecord) shift.ShiftRecord {
	rec.EmployerID = clonePtr(rec.EmployerID)
	rec.JobID = clonePtr(rec.JobID)
	rec.BusinessID = clonePtr(rec.BusinessID)
	rec.ClockInAt = clonePtr(rec.ClockInAt)
	rec.ClockOutAt = clonePtr(rec.ClockOutAt)
	if rec.JobLocation != nil {
		loc := *rec.JobLocation
		rec.JobLocation = &loc
	}
	rec.ClockInLocation = cloneEvidence(rec.ClockInLocation)
	rec.ClockOutLocation = cloneEvidence(rec.ClockOutLocation)
	return rec
}

func cloneEvidence(ev *shift.LocationEvidence) *shift.LocationEvidence {
	if ev == nil {
		return nil
	}
	out := *ev
	out.AccuracyMeters = clonePtr(ev.AccuracyMeters)
	out.AltitudeMeters = clonePtr(ev.AltitudeMeters)
	out.Heading = clonePtr(ev.Heading)
	out.SpeedMps = clonePtr(ev.SpeedMps)
	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
