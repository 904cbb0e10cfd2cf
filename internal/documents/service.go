package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"

	"github.com/slimreset/slimcoach/internal/blob"
	"github.com/slimreset/slimcoach/internal/storage"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrFileTooLarge     = errors.New("file too large")
	ErrUnsupportedMime  = errors.New("unsupported mime type")
	ErrMaxDocsExceeded  = errors.New("max documents exceeded")
	ErrIngestFailed     = errors.New("could not extract text")
)

// Service handles document upload, ingestion and retrieval
type Service struct {
	documentsStorage storage.DocumentsStorage
	blobStore        blob.Store
	ingestors        []Ingestor
	localMode        bool // true if no S3 configured
	maxUploadMB      int
	allowedMimes     []string
	maxDocuments     int
}

// NewService creates a new documents service
func NewService(documentsStorage storage.DocumentsStorage, blobStore blob.Store, maxUploadMB int, allowedMimes string, maxDocuments int) *Service {
	mimes := strings.Split(allowedMimes, ",")
	for i, m := range mimes {
		mimes[i] = strings.TrimSpace(m)
	}

	return &Service{
		documentsStorage: documentsStorage,
		blobStore:        blobStore,
		ingestors:        []Ingestor{NewPlainTextIngestor()},
		localMode:        blobStore == nil,
		maxUploadMB:      maxUploadMB,
		allowedMimes:     mimes,
		maxDocuments:     maxDocuments,
	}
}

// WithIngestor registers an additional ingestor. Later registrations win for
// content types they both support.
func (s *Service) WithIngestor(ingestor Ingestor) *Service {
	s.ingestors = append([]Ingestor{ingestor}, s.ingestors...)
	return s
}

// Upload stores an uploaded file and runs it through the matching ingestor
func (s *Service) Upload(ctx context.Context, userID, title string, fileHeader *multipart.FileHeader) (*DocumentDTO, error) {
	maxBytes := int64(s.maxUploadMB) * 1024 * 1024
	if fileHeader.Size > maxBytes {
		return nil, ErrFileTooLarge
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !s.isAllowedMime(contentType) {
		return nil, ErrUnsupportedMime
	}

	if s.maxDocuments > 0 {
		existing, err := s.documentsStorage.ListDocuments(ctx, userID, s.maxDocuments, 0)
		if err != nil {
			return nil, err
		}
		if len(existing) >= s.maxDocuments {
			return nil, ErrMaxDocsExceeded
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	text, err := s.ingest(fileHeader.Filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIngestFailed, err)
	}

	if title == "" {
		title = fileHeader.Filename
	}

	doc := &storage.Document{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		SizeBytes:   fileHeader.Size,
		Text:        text,
	}

	if s.localMode {
		if err := s.documentsStorage.CreateDocument(ctx, doc); err != nil {
			return nil, err
		}
		if err := s.documentsStorage.PutDocumentBlob(ctx, doc.ID, data, contentType); err != nil {
			_ = s.documentsStorage.DeleteDocument(ctx, doc.ID)
			return nil, fmt.Errorf("failed to store blob: %w", err)
		}
	} else {
		objectKey := fmt.Sprintf("documents/%s/%s", userID, doc.ID.String())
		if _, err := s.blobStore.PutObject(ctx, objectKey, data, contentType); err != nil {
			return nil, fmt.Errorf("failed to upload to S3: %w", err)
		}
		doc.ObjectKey = &objectKey
		if err := s.documentsStorage.CreateDocument(ctx, doc); err != nil {
			_ = s.blobStore.DeleteObject(ctx, objectKey)
			return nil, err
		}
	}

	return toDTO(doc, true), nil
}

// Get retrieves a document by ID
func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (*DocumentDTO, error) {
	doc, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toDTO(doc, true), nil
}

// List lists the user's documents, newest first. Text is omitted from list
// entries.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]DocumentDTO, error) {
	docs, err := s.documentsStorage.ListDocuments(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	dtos := make([]DocumentDTO, len(docs))
	for i := range docs {
		dtos[i] = *toDTO(&docs[i], false)
	}
	return dtos, nil
}

// Delete removes a document and its blob
func (s *Service) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	doc, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	if !s.localMode && doc.ObjectKey != nil && *doc.ObjectKey != "" {
		_ = s.blobStore.DeleteObject(ctx, *doc.ObjectKey)
	}

	return s.documentsStorage.DeleteDocument(ctx, id)
}

// GetDownloadURL returns a presigned URL and whether to redirect. Local mode
// serves bytes directly and returns redirect=false.
func (s *Service) GetDownloadURL(ctx context.Context, userID string, id uuid.UUID) (string, bool, error) {
	doc, err := s.owned(ctx, userID, id)
	if err != nil {
		return "", false, err
	}

	if s.localMode {
		return "", false, nil
	}

	if doc.ObjectKey == nil || *doc.ObjectKey == "" {
		return "", false, errors.New("object key not found")
	}

	presignedURL, err := s.blobStore.PresignGet(ctx, *doc.ObjectKey, 900)
	if err != nil {
		return "", false, fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return presignedURL, true, nil
}

// GetData retrieves the raw bytes for download
func (s *Service) GetData(ctx context.Context, userID string, id uuid.UUID) ([]byte, string, string, error) {
	doc, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, "", "", err
	}

	if s.localMode {
		data, contentType, err := s.documentsStorage.GetDocumentBlob(ctx, id)
		if err != nil {
			return nil, "", "", err
		}
		return data, contentType, doc.Filename, nil
	}

	if doc.ObjectKey == nil || *doc.ObjectKey == "" {
		return nil, "", "", errors.New("object key not found")
	}
	data, err := s.blobStore.GetObject(ctx, *doc.ObjectKey)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to get object from S3: %w", err)
	}
	return data, doc.ContentType, doc.Filename, nil
}

func (s *Service) owned(ctx context.Context, userID string, id uuid.UUID) (*storage.Document, error) {
	doc, err := s.documentsStorage.GetDocument(ctx, id)
	if err != nil {
		return nil, ErrDocumentNotFound
	}
	if doc.UserID != userID {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

func (s *Service) ingest(filename, contentType string, data []byte) (string, error) {
	for _, ingestor := range s.ingestors {
		if ingestor.Supports(contentType) {
			return ingestor.Ingest(filename, data)
		}
	}
	return "", fmt.Errorf("no ingestor for %s", contentType)
}

func (s *Service) isAllowedMime(contentType string) bool {
	for _, allowed := range s.allowedMimes {
		if strings.EqualFold(contentType, allowed) {
			return true
		}
	}
	return false
}

func toDTO(doc *storage.Document, includeText bool) *DocumentDTO {
	dto := &DocumentDTO{
		ID:          doc.ID,
		Title:       doc.Title,
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		SizeBytes:   doc.SizeBytes,
		CreatedAt:   doc.CreatedAt,
	}
	if includeText {
		dto.Text = doc.Text
	}
	return dto
}
