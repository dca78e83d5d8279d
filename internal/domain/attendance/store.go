package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrAlreadyCheckedIn = errors.New("already checked in today")
	ErrNotCheckedIn     = errors.New("no open check-in today")
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListMonth(ctx context.Context, tenantID, employeeID string, year int, month time.Month) ([]Punch, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, day, check_in, check_out, COALESCE(source, ''), COALESCE(note, '')
    FROM attendance_records
    WHERE tenant_id = $1 AND employee_id = $2 AND day >= $3 AND day < $4
    ORDER BY day
  `, tenantID, employeeID, first, next)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Punch
	for rows.Next() {
		var p Punch
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.Day, &p.CheckIn, &p.CheckOut, &p.Source, &p.Note); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CheckIn opens today's record. The unique (tenant, employee, day) index
// turns a double check-in into ErrAlreadyCheckedIn.
func (s *Store) CheckIn(ctx context.Context, tenantID, employeeID, source string, at time.Time) (string, error) {
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance_records (tenant_id, employee_id, day, check_in, source)
    VALUES ($1,$2,$3,$4,NULLIF($5,''))
    ON CONFLICT (tenant_id, employee_id, day) DO NOTHING
    RETURNING id
  `, tenantID, employeeID, day, at, source).Scan(&id)
	if err == pgx.ErrNoRows {
		return "", ErrAlreadyCheckedIn
	}
	return id, err
}

func (s *Store) CheckOut(ctx context.Context, tenantID, employeeID string, at time.Time) error {
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	tag, err := s.DB.Exec(ctx, `
    UPDATE attendance_records
    SET check_out = $4
    WHERE tenant_id = $1 AND employee_id = $2 AND day = $3 AND check_in IS NOT NULL AND check_out IS NULL
  `, tenantID, employeeID, day, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotCheckedIn
	}
	return nil
}
