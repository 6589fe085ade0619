package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPayloadTooLarge    = errors.New("photo exceeds the upload size limit")
	ErrUnauthorized       = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPersistence        = errors.New("failed to store reservation")
	ErrAttachmentWrite    = errors.New("failed to store photo")
)

// FieldError names one rejected field and why
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every field a creation request failed on
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		switch f.Reason {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is required", f.Field))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is invalid", f.Field))
		}
	}
	return strings.Join(msgs, ", ")
}

// FieldNames returns the offending field names in report order
func (e *ValidationError) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return names
}
