package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/slimreset/slimcoach/internal/storage"
)

type PostgresDocumentsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresDocumentsStorage(pool *pgxpool.Pool) *PostgresDocumentsStorage {
	return &PostgresDocumentsStorage{pool: pool}
}

func (s *PostgresDocumentsStorage) CreateDocument(ctx context.Context, doc *storage.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO documents (id, user_id, title, filename, content_type, size_bytes, object_key, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		doc.ID,
		strings.TrimSpace(doc.UserID),
		doc.Title,
		doc.Filename,
		doc.ContentType,
		doc.SizeBytes,
		doc.ObjectKey,
		doc.Text,
		doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (s *PostgresDocumentsStorage) GetDocument(ctx context.Context, id uuid.UUID) (*storage.Document, error) {
	const query = `
		SELECT id, user_id, title, filename, content_type, size_bytes, object_key, text, created_at
		FROM documents
		WHERE id = $1
	`

	var doc storage.Document
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Title,
		&doc.Filename,
		&doc.ContentType,
		&doc.SizeBytes,
		&doc.ObjectKey,
		&doc.Text,
		&doc.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("document not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

func (s *PostgresDocumentsStorage) ListDocuments(ctx context.Context, userID string, limit, offset int) ([]storage.Document, error) {
	const query = `
		SELECT id, user_id, title, filename, content_type, size_bytes, object_key, text, created_at
		FROM documents
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, strings.TrimSpace(userID), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []storage.Document{}
	for rows.Next() {
		var doc storage.Document
		if err := rows.Scan(
			&doc.ID,
			&doc.UserID,
			&doc.Title,
			&doc.Filename,
			&doc.ContentType,
			&doc.SizeBytes,
			&doc.ObjectKey,
			&doc.Text,
			&doc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *PostgresDocumentsStorage) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM documents WHERE id = $1`

	result, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("document not found")
	}
	return nil
}

func (s *PostgresDocumentsStorage) PutDocumentBlob(ctx context.Context, id uuid.UUID, data []byte, contentType string) error {
	const query = `
		UPDATE documents
		SET blob_data = $2, content_type = $3
		WHERE id = $1
	`

	result, err := s.pool.Exec(ctx, query, id, data, contentType)
	if err != nil {
		return fmt.Errorf("put document blob: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("document not found")
	}
	return nil
}

func (s *PostgresDocumentsStorage) GetDocumentBlob(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	const query = `SELECT blob_data, content_type FROM documents WHERE id = $1`

	var data []byte
	var contentType string
	err := s.pool.QueryRow(ctx, query, id).Scan(&data, &contentType)
	if errors.Is(err, pgx.ErrNoRows) {
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
