package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"salon-booking-backend/internal/models"
)

// MemoryReservationRepository keeps reservations in process memory.
// Data is lost on restart.
type MemoryReservationRepository struct {
	mu      sync.RWMutex
	lastID  int64
	records []*models.Reservation
	now     func() time.Time
}

// NewMemoryReservationRepository creates an empty in-memory store
func NewMemoryReservationRepository() *MemoryReservationRepository {
	return &MemoryReservationRepository{now: time.Now}
}

// Create assigns the next id and a creation time that never goes backwards
func (r *MemoryReservationRepository) Create(ctx context.Context, req *models.CreateReservationRequest) (*models.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	createdAt := r.now().UTC()
	if n := len(r.records); n > 0 && createdAt.Before(r.records[n-1].CreatedAt) {
		createdAt = r.records[n-1].CreatedAt
	}

	r.lastID++
	res := req.ToReservation(r.lastID, createdAt)
	r.records = append(r.records, res)

	return copyReservation(res), nil
}

// List returns copies of all records ordered by created_at then id, descending
func (r *MemoryReservationRepository) List(ctx context.Context) ([]*models.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]*models.Reservation, len(r.records))
	for i, res := range r.records {
		out[i] = copyReservation(res)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Len returns the number of stored reservations
func (r *MemoryReservationRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

func copyReservation(res *models.Reservation) *models.Reservation {
	c := *res
	if res.Notes != nil {
		v := *res.Notes
		c.Notes = &v
	}
	if res.PhotoURL != nil {
		v := *res.PhotoURL
		c.PhotoURL = &v
	}
	return &c
}
