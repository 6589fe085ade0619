package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"salon-booking-backend/internal/middleware"
	"salon-booking-backend/internal/models"
	"salon-booking-backend/internal/services"

	"github.com/rs/zerolog/log"
)

const (
	// formOverhead is the body allowance on top of the photo limit for the other fields
	formOverhead = 1 << 20
	// multipartMemory is how much of a multipart body is held in memory before spilling to disk
	multipartMemory = 8 << 20
)

// ReservationHandler handles reservation-related HTTP requests
type ReservationHandler struct {
	reservationService *services.ReservationService
	maxPhotoBytes      int64
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservationService *services.ReservationService, maxPhotoBytes int64) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
		maxPhotoBytes:      maxPhotoBytes,
	}
}

// CreateReservation handles POST /api/reservations
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxPhotoBytes+formOverhead)

	req, photo, err := h.parseRequest(r)
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || errors.Is(err, services.ErrPayloadTooLarge) {
			respondError(w, services.ErrPayloadTooLarge.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			respondJSON(w, ErrorResponse{Error: verr.Error(), Fields: verr.Fields}, http.StatusBadRequest)
			return
		}
		log.Debug().Err(err).Msg("Failed to parse reservation request")
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if photo != nil {
		if c, ok := photo.Body.(io.Closer); ok {
			defer c.Close()
		}
	}

	reservation, err := h.reservationService.Create(ctx, req, photo)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			respondJSON(w, ErrorResponse{Error: verr.Error(), Fields: verr.Fields}, http.StatusBadRequest)
		case errors.Is(err, services.ErrPayloadTooLarge):
			respondError(w, err.Error(), http.StatusRequestEntityTooLarge)
		case errors.Is(err, services.ErrAttachmentWrite):
			log.Error().Err(err).Msg("Failed to store reservation photo")
			respondError(w, services.ErrAttachmentWrite.Error(), http.StatusInternalServerError)
		default:
			log.Error().Err(err).Msg("Failed to create reservation")
			respondError(w, services.ErrPersistence.Error(), http.StatusInternalServerError)
		}
		return
	}

	log.Info().
		Int64("reservation_id", reservation.ID).
		Bool("has_photo", reservation.PhotoURL != nil).
		Msg("Reservation created")

	respondJSON(w, reservation, http.StatusCreated)
}

// ListReservations handles GET /api/reservations
func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	sessionID := ""
	if sess := middleware.GetSession(r.Context()); sess != nil {
		sessionID = sess.ID
	}

	reservations, err := h.reservationService.List(r.Context())
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to list reservations")
		respondError(w, services.ErrPersistence.Error(), http.StatusInternalServerError)
		return
	}

	log.Debug().
		Str("session_id", sessionID).
		Int("count", len(reservations)).
		Msg("Reservations listed")

	respondJSON(w, reservations, http.StatusOK)
}

// parseRequest reads the reservation fields and optional photo from a
// multipart, urlencoded or JSON body.
func (h *ReservationHandler) parseRequest(r *http.Request) (*models.CreateReservationRequest, *services.Photo, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		var req models.CreateReservationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) && typeErr.Field != "" {
				return nil, nil, &services.ValidationError{Fields: []services.FieldError{
					{Field: typeErr.Field, Reason: "type"},
				}}
			}
			return nil, nil, err
		}
		return &req, nil, nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, nil, err
		}
		req := formRequest(r)

		file, header, err := r.FormFile("photo")
		if errors.Is(err, http.ErrMissingFile) {
			return req, nil, nil
		}
		if err != nil {
			return nil, nil, err
		}
		if header.Size > h.maxPhotoBytes {
			file.Close()
			return nil, nil, services.ErrPayloadTooLarge
		}
		return req, &services.Photo{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}, nil

	default:
		if err := r.ParseForm(); err != nil {
			return nil, nil, err
		}
		return formRequest(r), nil, nil
	}
}

func formRequest(r *http.Request) *models.CreateReservationRequest {
	req := &models.CreateReservationRequest{
		Date:      r.PostFormValue("date"),
		Time:      r.PostFormValue("time"),
		Name:      r.PostFormValue("name"),
		Phone:     r.PostFormValue("phone"),
		School:    r.PostFormValue("school"),
		StudentID: r.PostFormValue("studentId"),
		Email:     r.PostFormValue("email"),
		Location:  r.PostFormValue("location"),
		Price:     r.PostFormValue("price"),
		Treatment: r.PostFormValue("treatment"),
	}
	if notes := r.PostFormValue("notes"); notes != "" {
		req.Notes = &notes
	}
	return req
}
