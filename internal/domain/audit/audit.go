package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Actions recorded in the trail. Handlers pass these rather than free-form
// strings so the log stays filterable.
const (
	ActionLogin          = "auth.login"
	ActionLoginFailed    = "auth.login_failed"
	ActionLogout         = "auth.logout"
	ActionRoleChanged    = "admin.role_changed"
	ActionGrantChanged   = "admin.grant_changed"
	ActionGrantCleared   = "admin.grant_cleared"
	ActionLeaveDecided   = "leave.decided"
	ActionDocumentUpload = "document.uploaded"
	ActionDocumentDelete = "document.deleted"
	ActionAssetAssigned  = "asset.assigned"
	ActionAssetReturned  = "asset.returned"
)

type Entry struct {
	ID        string          `json:"id"`
	ActorID   string          `json:"actorId"`
	Action    string          `json:"action"`
	Entity    string          `json:"entity,omitempty"`
	EntityID  string          `json:"entityId,omitempty"`
	RequestID string          `json:"requestId,omitempty"`
	IP        string          `json:"ip,omitempty"`
	Detail    json.RawMessage `json:"detail,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Filter struct {
	Action  string
	Entity  string
	ActorID string
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

// Record never fails a business operation: callers log the returned error and
// move on.
func (s *Service) Record(ctx context.Context, tenantID, actorID, action, entity, entityID, requestID, ip string, detail any) error {
	var detailJSON []byte
	if detail != nil {
		payload, err := json.Marshal(detail)
		if err != nil {
			return err
		}
		detailJSON = payload
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_log (tenant_id, actor_user_id, action, entity, entity_id, detail, request_id, ip)
    VALUES (NULLIF($1,'')::uuid,NULLIF($2,'')::uuid,$3,NULLIF($4,''),NULLIF($5,''),$6,NULLIF($7,''),NULLIF($8,''))
  `, tenantID, actorID, action, entity, entityID, detailJSON, requestID, ip)
	return err
}

func (s *Service) Count(ctx context.Context, tenantID string, filter Filter) (int, error) {
	query, args := buildQuery("SELECT COUNT(1)", tenantID, filter)
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Service) List(ctx context.Context, tenantID string, filter Filter, limit, offset int) ([]Entry, error) {
	query, args := buildQuery(`
    SELECT id, COALESCE(actor_user_id::text, ''), action,
           COALESCE(entity, ''), COALESCE(entity_id, ''),
           COALESCE(request_id, ''), COALESCE(ip, ''), detail, created_at`, tenantID, filter)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Entity, &e.EntityID, &e.RequestID, &e.IP, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func buildQuery(prefix, tenantID string, filter Filter) (string, []any) {
	query := prefix + " FROM audit_log WHERE tenant_id = $1"
	args := []any{tenantID}
	if filter.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", len(args)+1)
		args = append(args, filter.Action)
	}
	if filter.Entity != "" {
		query += fmt.Sprintf(" AND entity = $%d", len(args)+1)
		args = append(args, filter.Entity)
	}
	if filter.ActorID != "" {
		query += fmt.Sprintf(" AND actor_user_id::text = $%d", len(args)+1)
		args = append(args, filter.ActorID)
	}
	return query, args
}
