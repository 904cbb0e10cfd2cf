package documents

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slimreset/slimcoach/internal/storage/memory"
)

func newTestHandlers(maxDocs int) *Handlers {
	service := NewService(memory.NewDocumentsMemoryStorage(), nil, 10, "text/plain,text/markdown,text/csv", maxDocs)
	return NewHandlers(service)
}

func uploadRequest(t *testing.T, title, filename, contentType, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if title != "" {
		writer.WriteField("title", title)
	}
	part, err := writer.CreatePart(map[string][]string{
		"Content-Disposition": {fmt.Sprintf(`form-data; name="file"; filename=%q`, filename)},
		"Content-Type":        {contentType},
	})
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write([]byte(content))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadExtractsText(t *testing.T) {
	handlers := newTestHandlers(0)

	w := httptest.NewRecorder()
	handlers.HandleUpload(w, uploadRequest(t, "Coaching Plan", "plan.txt", "text/plain", "Phase 1: 800 calories daily.\n"))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var dto DocumentDTO
	if err := json.NewDecoder(w.Body).Decode(&dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dto.Title != "Coaching Plan" {
		t.Errorf("Title = %q, want Coaching Plan", dto.Title)
	}
	if dto.Text != "Phase 1: 800 calories daily." {
		t.Errorf("Text = %q, want trimmed file content", dto.Text)
	}
}

func TestUploadDefaultsTitleToFilename(t *testing.T) {
	handlers := newTestHandlers(0)

	w := httptest.NewRecorder()
	handlers.HandleUpload(w, uploadRequest(t, "", "labs.csv", "text/csv", "date,weight\n2026-03-01,154\n"))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	var dto DocumentDTO
	json.NewDecoder(w.Body).Decode(&dto)
	if dto.Title != "labs.csv" {
		t.Errorf("Title = %q, want labs.csv", dto.Title)
	}
}

func TestUploadRejectsUnsupportedMime(t *testing.T) {
	handlers := newTestHandlers(0)

	w := httptest.NewRecorder()
	handlers.HandleUpload(w, uploadRequest(t, "", "photo.png", "image/png", "fake png data"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
	var resp ErrorResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Error.Code != "unsupported_mime" {
		t.Errorf("error code = %q, want unsupported_mime", resp.Error.Code)
	}
}

func TestUploadRejectsBinaryText(t *testing.T) {
	handlers := newTestHandlers(0)

	w := httptest.NewRecorder()
	handlers.HandleUpload(w, uploadRequest(t, "", "junk.txt", "text/plain", string([]byte{0xff, 0xfe, 0x00})))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", w.Code, w.Body.String())
	}
}

func TestUploadEnforcesMaxDocuments(t *testing.T) {
	handlers := newTestHandlers(1)

	w := httptest.NewRecorder()
	handlers.HandleUpload(w, uploadRequest(t, "", "first.txt", "text/plain", "one"))
	if w.Code != http.StatusCreated {
		t.Fatalf("first upload status = %d, want 201", w.Code)
	}

	w = httptest.NewRecorder()
	handlers.HandleUpload(w, uploadRequest(t, "", "second.txt", "text/plain", "two"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("second upload status = %d, want 400: %s", w.Code, w.Body.String())
	}
	var resp ErrorResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Error.Code != "max_documents_exceeded" {
		t.Errorf("error code = %q, want max_documents_exceeded", resp.Error.Code)
	}
}

func TestListOmitsText(t *testing.T) {
	handlers := newTestHandlers(0)

	w := httptest.NewRecorder()
	handlers.HandleUpload(w, uploadRequest(t, "", "plan.txt", "text/plain", "full plan text"))
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, want 201", w.Code)
	}

	w = httptest.NewRecorder()
	handlers.HandleList(w, httptest.NewRequest(http.MethodGet, "/v1/documents", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", w.Code)
	}

	var resp DocumentsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Documents) != 1 {
		t.Fatalf("len(Documents) = %d, want 1", len(resp.Documents))
	}
	if resp.Documents[0].Text != "" {
		t.Errorf("list entry text = %q, want empty", resp.Documents[0].Text)
	}
}

func TestDownloadServesBytes(t *testing.T) {
	handlers := newTestHandlers(0)

	w := httptest.NewRecorder()
	handlers.HandleUpload(w, uploadRequest(t, "", "plan.txt", "text/plain", "download me"))
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, want 201", w.Code)
	}
	var dto DocumentDTO
	json.NewDecoder(w.Body).Decode(&dto)

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/"+dto.ID.String()+"/download", nil)
	req.SetPathValue("id", dto.ID.String())
	w = httptest.NewRecorder()
	handlers.HandleDownload(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("download status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if got := w.Body.String(); got != "download me" {
		t.Errorf("body = %q, want original bytes", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/plain" {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
}

func TestDeleteRemovesDocument(t *testing.T) {
	handlers := newTestHandlers(0)

	w := httptest.NewRecorder()
	handlers.HandleUpload(w, uploadRequest(t, "", "plan.txt", "text/plain", "bye"))
	var dto DocumentDTO
	json.NewDecoder(w.Body).Decode(&dto)

	req := httptest.NewRequest(http.MethodDelete, "/v1/documents/"+dto.ID.String(), nil)
	req.SetPathValue("id", dto.ID.String())
	w = httptest.NewRecorder()
	handlers.HandleDelete(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/documents/"+dto.ID.String(), nil)
	req.SetPathValue("id", dto.ID.String())
	w = httptest.NewRecorder()
	handlers.HandleGet(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", w.Code)
	}
}
