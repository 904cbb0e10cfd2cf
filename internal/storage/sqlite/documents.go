package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/slimreset/slimcoach/internal/storage"
)

type DocumentsSQLiteStorage struct {
	db *sql.DB
}

func (s *DocumentsSQLiteStorage) CreateDocument(ctx context.Context, doc *storage.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO documents (id, user_id, title, filename, content_type, size_bytes, object_key, text, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var objectKey sql.NullString
	if doc.ObjectKey != nil {
		objectKey = sql.NullString{String: *doc.ObjectKey, Valid: true}
	}
	if _, err := s.db.ExecContext(ctx, query,
		doc.ID.String(), doc.UserID, doc.Title, doc.Filename, doc.ContentType,
		doc.SizeBytes, objectKey, doc.Text, doc.CreatedAt); err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (s *DocumentsSQLiteStorage) GetDocument(ctx context.Context, id uuid.UUID) (*storage.Document, error) {
	query := `SELECT id, user_id, title, filename, content_type, size_bytes, object_key, text, created_at
              FROM documents WHERE id = ?`

	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, id.String()))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("document not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

func (s *DocumentsSQLiteStorage) ListDocuments(ctx context.Context, userID string, limit, offset int) ([]storage.Document, error) {
	query := `SELECT id, user_id, title, filename, content_type, size_bytes, object_key, text, created_at
              FROM documents WHERE user_id = ?
              ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := []storage.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, *doc)
	}
	return out, rows.Err()
}

func (s *DocumentsSQLiteStorage) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("document not found")
	}
	return nil
}

func (s *DocumentsSQLiteStorage) PutDocumentBlob(ctx context.Context, id uuid.UUID, data []byte, contentType string) error {
	query := `UPDATE documents SET blob_data = ?, content_type = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, data, contentType, id.String())
	if err != nil {
		return fmt.Errorf("put document blob: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("put document blob: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("document not found")
	}
	return nil
}

func (s *DocumentsSQLiteStorage) GetDocumentBlob(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	query := `SELECT blob_data, content_type FROM documents WHERE id = ?`

	var data []byte
	var contentType string
	err := s.db.QueryRowContext(ctx, query, id.String()).Scan(&data, &contentType)
	if err == sql.ErrNoRows {
		return nil, "", fmt.Errorf("document not found")
	}
	if err != nil {
		return nil, "", fmt.Errorf("get document blob: %w", err)
	}
	if data == nil {
		return nil, "", fmt.Errorf("document blob not found")
	}
	return data, contentType, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row rowScanner) (*storage.Document, error) {
	var doc storage.Document
	var id string
	var objectKey sql.NullString
	if err := row.Scan(&id, &doc.UserID, &doc.Title, &doc.Filename, &doc.ContentType,
		&doc.SizeBytes, &objectKey, &doc.Text, &doc.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse document id: %w", err)
	}
	doc.ID = parsed
	if objectKey.Valid {
		doc.ObjectKey = &objectKey.String
	}
	return &doc, nil
}
