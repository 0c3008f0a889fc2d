package model

import (
	"fmt"

	"github.com/google/uuid"
)

// FileType tags a document as a résumé or a job description.
type FileType string

const (
	FileTypeCV FileType = "CV"
	FileTypeJD FileType = "JD"
)

// Valid reports whether the value is one of the two known types.
func (t FileType) Valid() bool {
	return t == FileTypeCV || t == FileTypeJD
}

// ProcessingRequest is the inbound processing-stream message. The id is
// assigned by the upload service, not here.
type ProcessingRequest struct {
	ID       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
	Type     FileType  `json:"type"`
	UserID   string    `json:"user_id"`
	URL      string    `json:"url"`
}

// Validate checks all required fields. A malformed message fails fast; the
// queue layer decides what to do with the redelivery.
func (r *ProcessingRequest) Validate() error {
	if r.ID == uuid.Nil {
		return &ValidationError{Field: "id"}
	}
	if r.Filename == "" {
		return &ValidationError{Field: "filename"}
	}
	if !r.Type.Valid() {
		return &ValidationError{Field: "type"}
	}
	if r.UserID == "" {
		return &ValidationError{Field: "user_id"}
	}
	if r.URL == "" {
		return &ValidationError{Field: "url"}
	}
	return nil
}

// MatchRequest is the outbound matching-stream message. It carries a pointer
// to the persisted record, never the content itself; the matching stage
// re-reads the record by id. Filename and URL are legacy fields the consumer
// does not require.
type MatchRequest struct {
	FileID   string   `json:"file_id"`
	UserID   string   `json:"user_id"`
	Type     FileType `json:"type"`
	Filename string   `json:"filename,omitempty"`
	URL      string   `json:"url,omitempty"`
}

// ValidationError marks an inbound message missing or malforming a required
// field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid message: missing or invalid field %q", e.Field)
}
