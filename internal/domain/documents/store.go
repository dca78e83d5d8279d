package documents

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("document not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Insert(ctx context.Context, tenantID string, d Document, content []byte) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO documents (tenant_id, employee_id, title, category, content_type, size_bytes, content, uploaded_by)
    VALUES ($1,NULLIF($2,'')::uuid,$3,NULLIF($4,''),$5,$6,$7,$8)
    RETURNING id
  `, tenantID, d.EmployeeID, d.Title, d.Category, d.ContentType, len(content), content, d.UploadedBy).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Meta(ctx context.Context, tenantID, docID string) (*Document, error) {
	var d Document
	err := s.DB.QueryRow(ctx, `
    SELECT id, COALESCE(employee_id::text, ''), title, COALESCE(category, ''), content_type, size_bytes, uploaded_by::text, created_at
    FROM documents
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, docID).Scan(&d.ID, &d.EmployeeID, &d.Title, &d.Category, &d.ContentType, &d.SizeBytes, &d.UploadedBy, &d.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Content fetches the payload separately from Meta so list endpoints never
// drag megabytes of bytea across the pool.
func (s *Store) Content(ctx context.Context, tenantID, docID string) (*Document, []byte, error) {
	var d Document
	var content []byte
	err := s.DB.QueryRow(ctx, `
    SELECT id, COALESCE(employee_id::text, ''), title, COALESCE(category, ''), content_type, size_bytes, uploaded_by::text, created_at, content
    FROM documents
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, docID).Scan(&d.ID, &d.EmployeeID, &d.Title, &d.Category, &d.ContentType, &d.SizeBytes, &d.UploadedBy, &d.CreatedAt, &content)
	if err == pgx.ErrNoRows {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return &d, content, nil
}

func (s *Store) ListForEmployee(ctx context.Context, tenantID, employeeID string) ([]Document, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, COALESCE(employee_id::text, ''), title, COALESCE(category, ''), content_type, size_bytes, uploaded_by::text, created_at
    FROM documents
    WHERE tenant_id = $1 AND employee_id = $2
    ORDER BY created_at DESC
  `, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.EmployeeID, &d.Title, &d.Category, &d.ContentType, &d.SizeBytes, &d.UploadedBy, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, tenantID, docID string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM documents
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, docID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
