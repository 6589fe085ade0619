package services

import (
	"errors"
	"reflect"
	"strings"

	"salon-booking-backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// ReservationValidator checks creation requests for presence of required fields.
// It does not check phone or email format, nor whether the slot is in the future.
type ReservationValidator struct {
	validate *validator.Validate
}

// NewReservationValidator creates a validator that reports fields by their JSON names
func NewReservationValidator() *ReservationValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &ReservationValidator{validate: v}
}

// Validate normalizes req in place and returns a *ValidationError naming
// every missing required field.
func (v *ReservationValidator) Validate(req *models.CreateReservationRequest) error {
	normalize(req)

	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Reason: fe.Tag()})
	}
	return &ValidationError{Fields: fields}
}

func normalize(req *models.CreateReservationRequest) {
	for _, s := range []*string{
		&req.Date, &req.Time, &req.Name, &req.Phone, &req.School,
		&req.StudentID, &req.Email, &req.Location, &req.Price, &req.Treatment,
	} {
		*s = strings.TrimSpace(*s)
	}

	if req.Notes != nil {
		notes := strings.TrimSpace(*req.Notes)
		if notes == "" {
			req.Notes = nil
		} else {
			req.Notes = &notes
		}
	}
}
