package leave

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("leave request not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListTypes(ctx context.Context, tenantID string) ([]LeaveType, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, code, is_paid, created_at
    FROM leave_types
    WHERE tenant_id = $1
    ORDER BY name
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaveType
	for rows.Next() {
		var lt LeaveType
		if err := rows.Scan(&lt.ID, &lt.Name, &lt.Code, &lt.IsPaid, &lt.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, lt)
	}
	return out, rows.Err()
}

func (s *Store) CreateType(ctx context.Context, tenantID, name, code string, isPaid bool) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_types (tenant_id, name, code, is_paid)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, tenantID, name, code, isPaid).Scan(&id)
	return id, err
}

const requestColumns = `
  id, employee_id, leave_type_id, start_date, end_date, start_half, end_half,
  days, COALESCE(reason, ''), status, COALESCE(decided_by::text, ''), decided_at,
  COALESCE(decision_note, ''), created_at`

func scanRequest(row pgx.Row) (Request, error) {
	var r Request
	err := row.Scan(&r.ID, &r.EmployeeID, &r.LeaveTypeID, &r.StartDate, &r.EndDate,
		&r.StartHalf, &r.EndHalf, &r.Days, &r.Reason, &r.Status, &r.DecidedBy,
		&r.DecidedAt, &r.DecisionNote, &r.CreatedAt)
	if err == pgx.ErrNoRows {
		return Request{}, ErrNotFound
	}
	return r, err
}

func (s *Store) GetRequest(ctx context.Context, tenantID, requestID string) (Request, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, requestID)
	return scanRequest(row)
}

// ListRequests returns requests for one employee, or for the whole
// tenant when employeeID is empty (the approver view).
func (s *Store) ListRequests(ctx context.Context, tenantID, employeeID, status string) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE tenant_id = $1
      AND ($2 = '' OR employee_id = $2::uuid)
      AND ($3 = '' OR status = $3)
    ORDER BY created_at DESC
    LIMIT 200
  `, tenantID, employeeID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) CreateRequest(ctx context.Context, tenantID string, r Request) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (tenant_id, employee_id, leave_type_id, start_date, end_date, start_half, end_half, days, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NULLIF($9,''),$10)
    RETURNING id
  `, tenantID, r.EmployeeID, r.LeaveTypeID, r.StartDate, r.EndDate, r.StartHalf, r.EndHalf, r.Days, r.Reason, StatusPending).Scan(&id)
	return id, err
}

// Decide moves a request to a new status, enforcing the lifecycle in a
// single statement so two approvers cannot race past each other.
func (s *Store) Decide(ctx context.Context, tenantID, requestID, fromStatus, toStatus, deciderID, note string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $4, decided_by = NULLIF($5,'')::uuid, decided_at = now(), decision_note = NULLIF($6,'')
    WHERE tenant_id = $1 AND id = $2 AND status = $3
  `, tenantID, requestID, fromStatus, toStatus, deciderID, note)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}

func (s *Store) Balance(ctx context.Context, tenantID, employeeID, leaveTypeID string) (float64, error) {
	var days float64
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(days, 0)
    FROM leave_balances
    WHERE tenant_id = $1 AND employee_id = $2 AND leave_type_id = $3
  `, tenantID, employeeID, leaveTypeID).Scan(&days)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	return days, err
}

func (s *Store) Balances(ctx context.Context, tenantID, employeeID string) ([]Balance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, leave_type_id, days
    FROM leave_balances
    WHERE tenant_id = $1 AND employee_id = $2
  `, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Balance
	for rows.Next() {
		var b Balance
		if err := rows.Scan(&b.EmployeeID, &b.LeaveTypeID, &b.Days); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) AdjustBalance(ctx context.Context, tenantID, employeeID, leaveTypeID string, delta float64) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO leave_balances (tenant_id, employee_id, leave_type_id, days)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (tenant_id, employee_id, leave_type_id)
    DO UPDATE SET days = leave_balances.days + $4
  `, tenantID, employeeID, leaveTypeID, delta)
	return err
}
