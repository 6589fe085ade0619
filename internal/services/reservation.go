package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"salon-booking-backend/internal/models"
	"salon-booking-backend/internal/storage"

	"github.com/rs/zerolog/log"
)

const sniffLen = 512

// ReservationStore persists reservations. Create assigns ID and CreatedAt;
// List returns every record, newest first.
type ReservationStore interface {
	Create(ctx context.Context, req *models.CreateReservationRequest) (*models.Reservation, error)
	List(ctx context.Context) ([]*models.Reservation, error)
}

// AttachmentStore writes photo bytes and returns a retrievable reference
type AttachmentStore interface {
	Put(ctx context.Context, name, contentType string, body io.Reader, size int64) (string, error)
}

// Photo is an uploaded photo attached to a creation request
type Photo struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ReservationService handles reservation submission and listing
type ReservationService struct {
	store         ReservationStore
	attachments   AttachmentStore
	validator     *ReservationValidator
	maxPhotoBytes int64
}

// NewReservationService creates a new reservation service
func NewReservationService(store ReservationStore, attachments AttachmentStore, maxPhotoBytes int64) *ReservationService {
	return &ReservationService{
		store:         store,
		attachments:   attachments,
		validator:     NewReservationValidator(),
		maxPhotoBytes: maxPhotoBytes,
	}
}

// Create checks the photo size, validates req, stores the photo if any and
// persists the reservation. A photo written before a failed insert is left
// in place.
func (s *ReservationService) Create(ctx context.Context, req *models.CreateReservationRequest, photo *Photo) (*models.Reservation, error) {
	// the photo reference is assigned here, never taken from the client
	req.PhotoURL = nil

	var data []byte
	if photo != nil {
		if photo.Size > s.maxPhotoBytes {
			return nil, ErrPayloadTooLarge
		}
		var err error
		data, err = io.ReadAll(io.LimitReader(photo.Body, s.maxPhotoBytes+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read photo: %w", err)
		}
		if int64(len(data)) > s.maxPhotoBytes {
			return nil, ErrPayloadTooLarge
		}
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if photo != nil {
		ref, err := s.storePhoto(ctx, photo, data)
		if err != nil {
			return nil, err
		}
		req.PhotoURL = &ref
	}

	reservation, err := s.store.Create(ctx, req)
	if err != nil {
		if req.PhotoURL != nil {
			log.Warn().
				Str("photo_url", *req.PhotoURL).
				Msg("Reservation insert failed after photo was stored")
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	return reservation, nil
}

func (s *ReservationService) storePhoto(ctx context.Context, photo *Photo, data []byte) (string, error) {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	name, contentType := storage.NameFor(photo.Filename, photo.ContentType, head)

	ref, err := s.attachments.Put(ctx, name, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAttachmentWrite, err)
	}
	return ref, nil
}

// List returns all reservations, newest first. It never returns a nil slice.
func (s *ReservationService) List(ctx context.Context) ([]*models.Reservation, error) {
	reservations, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if reservations == nil {
		reservations = []*models.Reservation{}
	}
	return reservations, nil
}
