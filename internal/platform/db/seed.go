package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"herohub/internal/domain/auth"
	"herohub/internal/domain/authz"
	"herohub/internal/platform/config"
)

// Seed ensures the tenant and the bootstrap accounts exist. Role module
// grants need no seeding: the in-code defaults apply until the admin
// panel writes overrides.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	tenantID, err := ensureTenant(ctx, pool, cfg.SeedTenantName)
	if err != nil {
		return err
	}

	if cfg.SeedAdminEmail != "" {
		if err := ensureUser(ctx, pool, tenantID, authz.RoleAdmin, "Administrator", cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			return err
		}
	}

	if cfg.SeedSuperAdminEmail != "" {
		if err := ensureUser(ctx, pool, tenantID, authz.RoleSuperAdmin, "System Administrator", cfg.SeedSuperAdminEmail, cfg.SeedSuperAdminPassword); err != nil {
			return err
		}
	}

	return nil
}

func ensureTenant(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM tenants WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = pool.QueryRow(ctx, "INSERT INTO tenants (name) VALUES ($1) RETURNING id", name).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, tenantID string, role authz.Role, displayName, email, password string) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE tenant_id = $1 AND email = $2", tenantID, email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (tenant_id, email, password_hash, display_name, role, status)
    VALUES ($1,$2,$3,$4,$5,'active')
  `, tenantID, email, hash, displayName, string(role))
	return err
}
