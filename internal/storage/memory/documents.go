package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/slimreset/slimcoach/internal/storage"
)

type documentBlob struct {
	data        []byte
	contentType string
}

type DocumentsMemoryStorage struct {
	mu    sync.RWMutex
	docs  map[uuid.UUID]*storage.Document
	blobs map[uuid.UUID]documentBlob
}

func NewDocumentsMemoryStorage() *DocumentsMemoryStorage {
	return &DocumentsMemoryStorage{
		docs:  make(map[uuid.UUID]*storage.Document),
		blobs: make(map[uuid.UUID]documentBlob),
	}
}

func (s *DocumentsMemoryStorage) CreateDocument(ctx context.Context, doc *storage.Document) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	s.docs[doc.ID] = doc
	return nil
}

func (s *DocumentsMemoryStorage) GetDocument(ctx context.Context, id uuid.UUID) (*storage.Document, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, exists := s.docs[id]
	if !exists {
		return nil, fmt.Errorf("document not found")
	}
	return doc, nil
}

func (s *DocumentsMemoryStorage) ListDocuments(ctx context.Context, userID string, limit, offset int) ([]storage.Document, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []storage.Document
	for _, d := range s.docs {
		if d.UserID == userID {
			filtered = append(filtered, *d)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	start := offset
	if start > len(filtered) {
		return []storage.Document{}, nil
	}

	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end], nil
}

func (s *DocumentsMemoryStorage) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[id]; !exists {
		return fmt.Errorf("document not found")
	}

	delete(s.docs, id)
	delete(s.blobs, id)
	return nil
}

func (s *DocumentsMemoryStorage) PutDocumentBlob(ctx context.Context, id uuid.UUID, data []byte, contentType string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := append([]byte(nil), data...)
	s.blobs[id] = documentBlob{data: buf, contentType: contentType}
	return nil
}

func (s *DocumentsMemoryStorage) GetDocumentBlob(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, exists := s.blobs[id]
	if !exists {
		return nil, "", fmt.Errorf("document blob not found")
	}
	return append([]byte(nil), blob.data...), blob.contentType, nil
}
