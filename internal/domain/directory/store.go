package directory

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("employee not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
  id, tenant_id, COALESCE(user_id::text, ''), first_name, last_name, email,
  COALESCE(phone, ''), COALESCE(department, ''), COALESCE(title, ''),
  COALESCE(manager_id::text, ''), COALESCE(avatar_url, ''),
  start_date, status, created_at, updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.TenantID, &e.UserID, &e.FirstName, &e.LastName, &e.Email,
		&e.Phone, &e.Department, &e.Title, &e.ManagerID, &e.AvatarURL,
		&e.StartDate, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err == pgx.ErrNoRows {
		return Employee{}, ErrNotFound
	}
	return e, err
}

func (s *Store) Get(ctx context.Context, tenantID, employeeID string) (Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, employeeID)
	return scanEmployee(row)
}

func (s *Store) ByUserID(ctx context.Context, tenantID, userID string) (Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE tenant_id = $1 AND user_id = $2
  `, tenantID, userID)
	return scanEmployee(row)
}

// List returns active employees, optionally filtered by a case-
// insensitive name/email/department search term.
func (s *Store) List(ctx context.Context, tenantID, search string, limit, offset int) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE tenant_id = $1
      AND status = 'active'
      AND ($2 = '' OR first_name ILIKE '%' || $2 || '%'
                   OR last_name ILIKE '%' || $2 || '%'
                   OR email ILIKE '%' || $2 || '%'
                   OR department ILIKE '%' || $2 || '%')
    ORDER BY last_name, first_name
    LIMIT $3 OFFSET $4
  `, tenantID, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, tenantID string, in EmployeeInput, startDate *time.Time) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (tenant_id, first_name, last_name, email, phone, department, title, manager_id, start_date, status)
    VALUES ($1,$2,$3,$4,NULLIF($5,''),NULLIF($6,''),NULLIF($7,''),NULLIF($8,'')::uuid,$9,'active')
    RETURNING id
  `, tenantID, in.FirstName, in.LastName, in.Email, in.Phone, in.Department, in.Title, in.ManagerID, startDate).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, tenantID, employeeID string, in EmployeeInput, startDate *time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET first_name = $3, last_name = $4, email = $5,
        phone = NULLIF($6,''), department = NULLIF($7,''), title = NULLIF($8,''),
        manager_id = NULLIF($9,'')::uuid, start_date = $10, updated_at = now()
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, employeeID, in.FirstName, in.LastName, in.Email, in.Phone, in.Department, in.Title, in.ManagerID, startDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes: directory entries disappear from listings but
// history (leave, attendance, assets) keeps its references.
func (s *Store) Deactivate(ctx context.Context, tenantID, employeeID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET status = 'inactive', updated_at = now()
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
