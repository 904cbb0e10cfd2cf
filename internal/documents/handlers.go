package documents

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/slimreset/slimcoach/internal/userctx"
)

// Handlers handles HTTP requests for documents
type Handlers struct {
	service *Service
}

// NewHandlers creates new handlers
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleUpload handles POST /v1/documents (multipart upload)
func (h *Handlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse multipart form")
		return
	}

	title := r.FormValue("title")

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing_file", "File is required")
		return
	}
	file.Close() // Close immediately, service will reopen

	userID := userctx.UserIDOrDefault(r.Context())
	dto, err := h.service.Upload(r.Context(), userID, title, fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileTooLarge):
			writeError(w, http.StatusBadRequest, "file_too_large", fmt.Sprintf("File exceeds maximum size of %d MB", h.service.maxUploadMB))
		case errors.Is(err, ErrUnsupportedMime):
			writeError(w, http.StatusBadRequest, "unsupported_mime", "File type not supported")
		case errors.Is(err, ErrMaxDocsExceeded):
			writeError(w, http.StatusBadRequest, "max_documents_exceeded", fmt.Sprintf("Maximum %d documents per user", h.service.maxDocuments))
		case errors.Is(err, ErrIngestFailed):
			writeError(w, http.StatusUnprocessableEntity, "ingest_failed", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dto)
}

// HandleList handles GET /v1/documents
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	userID := userctx.UserIDOrDefault(r.Context())
	dtos, err := h.service.List(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DocumentsResponse{Documents: dtos})
}

// HandleGet handles GET /v1/documents/{id}
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid document ID")
		return
	}

	userID := userctx.UserIDOrDefault(r.Context())
	dto, err := h.service.Get(r.Context(), userID, docID)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			writeError(w, http.StatusNotFound, "document_not_found", "Document not found")
		} else {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto)
}

// HandleDownload handles GET /v1/documents/{id}/download
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid document ID")
		return
	}

	userID := userctx.UserIDOrDefault(r.Context())

	downloadURL, isRedirect, err := h.service.GetDownloadURL(r.Context(), userID, docID)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			writeError(w, http.StatusNotFound, "document_not_found", "Document not found")
		} else {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	if isRedirect {
		http.Redirect(w, r, downloadURL, http.StatusFound)
		return
	}

	data, contentType, filename, err := h.service.GetData(r.Context(), userID, docID)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			writeError(w, http.StatusNotFound, "document_not_found", "Document not found")
		} else {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// HandleDelete handles DELETE /v1/documents/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid document ID")
		return
	}

	userID := userctx.UserIDOrDefault(r.Context())
	if err := h.service.Delete(r.Context(), userID, docID); err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			writeError(w, http.StatusNotFound, "document_not_found", "Document not found")
		} else {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
