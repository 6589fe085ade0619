package repository

import (
	"context"
	"fmt"
	"time"

	"salon-booking-backend/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteReservationRepository stores reservations in a single SQLite file
type SQLiteReservationRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLiteReservationRepository opens path and creates the schema if needed
func NewSQLiteReservationRepository(path string) (*SQLiteReservationRepository, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// sqlite serializes writers; one connection avoids "database is locked"
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
	}

	return &SQLiteReservationRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

// Create inserts a reservation and returns it with its assigned id
func (r *SQLiteReservationRepository) Create(ctx context.Context, req *models.CreateReservationRequest) (*models.Reservation, error) {
	createdAt := r.now()
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO reservations (date, time, name, phone, school, student_id, email, location, price, treatment, notes, photo_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.Date, req.Time, req.Name, req.Phone, req.School, req.StudentID,
		req.Email, req.Location, req.Price, req.Treatment, req.Notes, req.PhotoURL, createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read reservation id: %w", err)
	}

	return req.ToReservation(id, createdAt), nil
}

// List retrieves all reservations, newest first
func (r *SQLiteReservationRepository) List(ctx context.Context) ([]*models.Reservation, error) {
	reservations := make([]*models.Reservation, 0)
	err := r.db.SelectContext(ctx, &reservations, `
		SELECT id, date, time, name, phone, school, student_id, email, location, price, treatment, notes, photo_url, created_at
		FROM reservations
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

// Ping checks the database connection
func (r *SQLiteReservationRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the underlying database
func (r *SQLiteReservationRepository) Close() error {
	return r.db.Close()
}
