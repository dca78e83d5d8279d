package assets

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound        = errors.New("asset not found")
	ErrAlreadyAssigned = errors.New("asset already assigned")
	ErrNotAssigned     = errors.New("asset is not assigned")
)

const assetColumns = `
  id, tag, name,
  COALESCE(category, ''),
  COALESCE(serial_number, ''),
  status, purchased_at, created_at, updated_at`

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func scanAsset(row pgx.Row) (*Asset, error) {
	var a Asset
	err := row.Scan(&a.ID, &a.Tag, &a.Name, &a.Category, &a.SerialNumber, &a.Status, &a.PurchasedAt, &a.CreatedAt, &a.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) Get(ctx context.Context, tenantID, assetID string) (*Asset, error) {
	return scanAsset(s.DB.QueryRow(ctx, `
    SELECT`+assetColumns+`
    FROM assets
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, assetID))
}

func (s *Store) List(ctx context.Context, tenantID, status string) ([]Asset, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+assetColumns+`
    FROM assets
    WHERE tenant_id = $1 AND ($2 = '' OR status = $2)
    ORDER BY tag
  `, tenantID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Asset
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.ID, &a.Tag, &a.Name, &a.Category, &a.SerialNumber, &a.Status, &a.PurchasedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, tenantID string, a Asset) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO assets (tenant_id, tag, name, category, serial_number, status, purchased_at)
    VALUES ($1,$2,$3,NULLIF($4,''),NULLIF($5,''),$6,$7)
    RETURNING id
  `, tenantID, a.Tag, a.Name, a.Category, a.SerialNumber, StatusAvailable, a.PurchasedAt).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Retire(ctx context.Context, tenantID, assetID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE assets
    SET status = $3, updated_at = now()
    WHERE tenant_id = $1 AND id = $2 AND status = $4
  `, tenantID, assetID, StatusRetired, StatusAvailable)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Assign moves an available asset to an employee inside one transaction so a
// concurrent assign of the same asset loses cleanly.
func (s *Store) Assign(ctx context.Context, tenantID, assetID, employeeID, note string) (string, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
    UPDATE assets
    SET status = $3, updated_at = now()
    WHERE tenant_id = $1 AND id = $2 AND status = $4
  `, tenantID, assetID, StatusAssigned, StatusAvailable)
	if err != nil {
		return "", err
	}
	if tag.RowsAffected() == 0 {
		return "", ErrAlreadyAssigned
	}

	var id string
	err = tx.QueryRow(ctx, `
    INSERT INTO asset_assignments (tenant_id, asset_id, employee_id, note)
    VALUES ($1,$2,$3,NULLIF($4,''))
    RETURNING id
  `, tenantID, assetID, employeeID, note).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, tx.Commit(ctx)
}

func (s *Store) Return(ctx context.Context, tenantID, assetID string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
    UPDATE asset_assignments
    SET returned_at = now()
    WHERE tenant_id = $1 AND asset_id = $2 AND returned_at IS NULL
  `, tenantID, assetID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotAssigned
	}

	if _, err := tx.Exec(ctx, `
    UPDATE assets
    SET status = $3, updated_at = now()
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, assetID, StatusAvailable); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) AssignmentsForEmployee(ctx context.Context, tenantID, employeeID string) ([]Assignment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, asset_id, employee_id, assigned_at, returned_at, COALESCE(note, '')
    FROM asset_assignments
    WHERE tenant_id = $1 AND employee_id = $2
    ORDER BY assigned_at DESC
  `, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.AssetID, &a.EmployeeID, &a.AssignedAt, &a.ReturnedAt, &a.Note); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
