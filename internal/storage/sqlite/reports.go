package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/slimreset/slimcoach/internal/storage"
)

type ReportsSQLiteStorage struct {
	db *sql.DB
}

func (s *ReportsSQLiteStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now

	query := `INSERT INTO reports (id, user_id, format, from_date, to_date, object_key, size_bytes, status, error, data, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var objectKey, errMsg sql.NullString
	if report.ObjectKey != nil {
		objectKey = sql.NullString{String: *report.ObjectKey, Valid: true}
	}
	if report.Error != nil {
		errMsg = sql.NullString{String: *report.Error, Valid: true}
	}
	if _, err := s.db.ExecContext(ctx, query,
		report.ID.String(), report.UserID, report.Format, report.FromDate, report.ToDate,
		objectKey, report.SizeBytes, report.Status, errMsg, report.Data,
		report.CreatedAt, report.UpdatedAt); err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

func (s *ReportsSQLiteStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	query := `SELECT id, user_id, format, from_date, to_date, object_key, size_bytes, status, error, data, created_at, updated_at
              FROM reports WHERE id = ?`

	r, err := scanReport(s.db.QueryRowContext(ctx, query, id.String()))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return r, nil
}

func (s *ReportsSQLiteStorage) ListReports(ctx context.Context, userID string, limit, offset int) ([]storage.ReportMeta, error) {
	query := `SELECT id, user_id, format, from_date, to_date, object_key, size_bytes, status, error, data, created_at, updated_at
              FROM reports WHERE user_id = ?
              ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	out := []storage.ReportMeta{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *ReportsSQLiteStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("report not found")
	}
	return nil
}

func scanReport(row rowScanner) (*storage.ReportMeta, error) {
	var r storage.ReportMeta
	var id string
	var objectKey, errMsg sql.NullString
	if err := row.Scan(&id, &r.UserID, &r.Format, &r.FromDate, &r.ToDate,
		&objectKey, &r.SizeBytes, &r.Status, &errMsg, &r.Data,
		&r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse report id: %w", err)
	}
	r.ID = parsed
	if objectKey.Valid {
		r.ObjectKey = &objectKey.String
	}
	if errMsg.Valid {
		r.Error = &errMsg.String
	}
	return &r, nil
}
