package repository

import (
	"context"
	"fmt"
	"time"

	"salon-booking-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReservationRepository handles database operations for reservations
type ReservationRepository struct {
	db *pgxpool.Pool
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create inserts a reservation; the database assigns id and created_at
func (r *ReservationRepository) Create(ctx context.Context, req *models.CreateReservationRequest) (*models.Reservation, error) {
	query := `
		INSERT INTO reservations (date, time, name, phone, school, student_id, email, location, price, treatment, notes, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`
	var id int64
	var createdAt time.Time
	err := r.db.QueryRow(ctx, query,
		req.Date, req.Time, req.Name, req.Phone, req.School, req.StudentID,
		req.Email, req.Location, req.Price, req.Treatment, req.Notes, req.PhotoURL,
	).Scan(&id, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}
	return req.ToReservation(id, createdAt), nil
}

// List retrieves all reservations, newest first
func (r *ReservationRepository) List(ctx context.Context) ([]*models.Reservation, error) {
	query := `
		SELECT id, date, time, name, phone, school, student_id, email, location, price, treatment, notes, photo_url, created_at
		FROM reservations
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	reservations := make([]*models.Reservation, 0)
	for rows.Next() {
		var res models.Reservation
		err := rows.Scan(
			&res.ID, &res.Date, &res.Time, &res.Name, &res.Phone, &res.School, &res.StudentID,
			&res.Email, &res.Location, &res.Price, &res.Treatment, &res.Notes, &res.PhotoURL, &res.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reservations: %w", err)
	}

	return reservations, nil
}

// Ping checks the database connection
func (r *ReservationRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
