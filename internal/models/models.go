package models

import "time"

// Reservation represents a stored salon appointment request
type Reservation struct {
	ID        int64     `json:"id" db:"id"`
	Date      string    `json:"date" db:"date"`
	Time      string    `json:"time" db:"time"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	School    string    `json:"school" db:"school"`
	StudentID string    `json:"studentId" db:"student_id"`
	Email     string    `json:"email" db:"email"`
	Location  string    `json:"location" db:"location"`
	Price     string    `json:"price" db:"price"`
	Treatment string    `json:"treatment" db:"treatment"`
	Notes     *string   `json:"notes" db:"notes"`
	PhotoURL  *string   `json:"photoUrl" db:"photo_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CreateReservationRequest is the client-supplied part of a reservation.
// Identity and creation time are assigned by the store.
type CreateReservationRequest struct {
	Date      string  `json:"date" validate:"required"`
	Time      string  `json:"time" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Phone     string  `json:"phone" validate:"required"`
	School    string  `json:"school" validate:"required"`
	StudentID string  `json:"studentId" validate:"required"`
	Email     string  `json:"email" validate:"required"`
	Location  string  `json:"location" validate:"required"`
	Price     string  `json:"price" validate:"required"`
	Treatment string  `json:"treatment" validate:"required"`
	Notes     *string `json:"notes"`
	PhotoURL  *string `json:"photoUrl"`
}

// ToReservation builds the record a store persists for this request
func (r *CreateReservationRequest) ToReservation(id int64, createdAt time.Time) *Reservation {
	return &Reservation{
		ID:        id,
		Date:      r.Date,
		Time:      r.Time,
		Name:      r.Name,
		Phone:     r.Phone,
		School:    r.School,
		StudentID: r.StudentID,
		Email:     r.Email,
		Location:  r.Location,
		Price:     r.Price,
		Treatment: r.Treatment,
		Notes:     cloneString(r.Notes),
		PhotoURL:  cloneString(r.PhotoURL),
		CreatedAt: createdAt,
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
