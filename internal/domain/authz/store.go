package authz

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// Overrides returns the per-tenant grant rows for a role. Only modules
// with a stored row are present; everything else falls back to defaults.
func (s *Store) Overrides(ctx context.Context, tenantID string, role Role) (ModulePermissionSet, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT module, can_read, can_write, can_delete
    FROM role_module_permissions
    WHERE tenant_id = $1 AND role = $2
  `, tenantID, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := ModulePermissionSet{}
	for rows.Next() {
		var module string
		var perm ModulePermission
		if err := rows.Scan(&module, &perm.CanRead, &perm.CanWrite, &perm.CanDelete); err != nil {
			return nil, err
		}
		out[module] = perm
	}
	return out, rows.Err()
}

func (s *Store) UpsertOverride(ctx context.Context, tenantID string, role Role, module string, perm ModulePermission) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO role_module_permissions (tenant_id, role, module, can_read, can_write, can_delete)
    VALUES ($1,$2,$3,$4,$5,$6)
    ON CONFLICT (tenant_id, role, module)
    DO UPDATE SET can_read = $4, can_write = $5, can_delete = $6, updated_at = now()
  `, tenantID, string(role), module, perm.CanRead, perm.CanWrite, perm.CanDelete)
	return err
}

func (s *Store) DeleteOverride(ctx context.Context, tenantID string, role Role, module string) error {
	_, err := s.DB.Exec(ctx, `
    DELETE FROM role_module_permissions
    WHERE tenant_id = $1 AND role = $2 AND module = $3
  `, tenantID, string(role), module)
	return err
}

func (s *Store) UpdateUserRole(ctx context.Context, tenantID, userID string, role Role) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users SET role = $3, updated_at = now()
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, userID, string(role))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UserAccount is the admin-panel view of a user row.
type UserAccount struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	Status      string `json:"status"`
}

func (s *Store) ListUsers(ctx context.Context, tenantID string, limit, offset int) ([]UserAccount, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, email, display_name, role, status
    FROM users
    WHERE tenant_id = $1
    ORDER BY email
    LIMIT $2 OFFSET $3
  `, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UserAccount
	for rows.Next() {
		var u UserAccount
		if err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &u.Role, &u.Status); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) UserRole(ctx context.Context, tenantID, userID string) (Role, error) {
	var label string
	err := s.DB.QueryRow(ctx, `
    SELECT role FROM users WHERE tenant_id = $1 AND id = $2
  `, tenantID, userID).Scan(&label)
	if err == pgx.ErrNoRows {
		return RoleUnknown, nil
	}
	if err != nil {
		return RoleUnknown, err
	}
	return ParseRole(label), nil
}
