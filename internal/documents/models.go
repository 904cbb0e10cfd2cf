package documents

import (
	"time"

	"github.com/google/uuid"
)

// DocumentDTO is the API representation of an uploaded document
type DocumentDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Text        string    `json:"text,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DocumentsResponse is the response for GET /v1/documents
type DocumentsResponse struct {
	Documents []DocumentDTO `json:"documents"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
