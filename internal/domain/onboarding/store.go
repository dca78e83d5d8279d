package onboarding

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrTemplateNotFound = errors.New("onboarding template not found")
	ErrTaskNotFound     = errors.New("onboarding task not found")
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateTemplate(ctx context.Context, tenantID string, in TemplateInput) (string, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var id string
	if err := tx.QueryRow(ctx, `
    INSERT INTO onboarding_templates (tenant_id, name)
    VALUES ($1,$2)
    RETURNING id
  `, tenantID, in.Name).Scan(&id); err != nil {
		return "", err
	}

	for i, item := range in.Items {
		if _, err := tx.Exec(ctx, `
      INSERT INTO onboarding_template_items (template_id, title, due_in_days, sort_order)
      VALUES ($1,$2,$3,$4)
    `, id, item.Title, item.DueInDays, i); err != nil {
			return "", err
		}
	}
	return id, tx.Commit(ctx)
}

func (s *Store) GetTemplate(ctx context.Context, tenantID, templateID string) (*Template, error) {
	var t Template
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, created_at
    FROM onboarding_templates
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, templateID).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT id, title, due_in_days, sort_order
    FROM onboarding_template_items
    WHERE template_id = $1
    ORDER BY sort_order
  `, t.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var item TemplateItem
		if err := rows.Scan(&item.ID, &item.Title, &item.DueInDays, &item.SortOrder); err != nil {
			return nil, err
		}
		t.Items = append(t.Items, item)
	}
	return &t, rows.Err()
}

func (s *Store) ListTemplates(ctx context.Context, tenantID string) ([]Template, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, created_at
    FROM onboarding_templates
    WHERE tenant_id = $1
    ORDER BY name
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		var t Template
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) InsertTasks(ctx context.Context, tenantID, employeeID string, tasks []Task) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, task := range tasks {
		if _, err := tx.Exec(ctx, `
      INSERT INTO onboarding_tasks (tenant_id, employee_id, title, status, due_at, sort_order)
      VALUES ($1,$2,$3,$4,$5,$6)
    `, tenantID, employeeID, task.Title, task.Status, task.DueAt, task.SortOrder); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) TasksForEmployee(ctx context.Context, tenantID, employeeID string) ([]Task, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, title, status, due_at, completed_at, sort_order
    FROM onboarding_tasks
    WHERE tenant_id = $1 AND employee_id = $2
    ORDER BY sort_order
  `, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.EmployeeID, &t.Title, &t.Status, &t.DueAt, &t.CompletedAt, &t.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) SetTaskStatus(ctx context.Context, tenantID, taskID, status string) error {
	var completed any
	if status == TaskDone {
		completed = time.Now().UTC()
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE onboarding_tasks
    SET status = $3, completed_at = $4
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, taskID, status, completed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// OverdueTasks feeds the reminder job: pending tasks whose due date passed.
func (s *Store) OverdueTasks(ctx context.Context, now time.Time) ([]Task, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, title, status, due_at, completed_at, sort_order
    FROM onboarding_tasks
    WHERE status = $1 AND due_at IS NOT NULL AND due_at < $2
    ORDER BY due_at
  `, TaskPending, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.EmployeeID, &t.Title, &t.Status, &t.DueAt, &t.CompletedAt, &t.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
