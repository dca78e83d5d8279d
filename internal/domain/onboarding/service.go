package onboarding

import (
	"context"
	"fmt"
	"time"
)

type Service struct {
	Store *Store
	Now   func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{Store: store, Now: time.Now}
}

func (s *Service) CreateTemplate(ctx context.Context, tenantID string, in TemplateInput) (string, error) {
	return s.Store.CreateTemplate(ctx, tenantID, in)
}

func (s *Service) ListTemplates(ctx context.Context, tenantID string) ([]Template, error) {
	return s.Store.ListTemplates(ctx, tenantID)
}

func (s *Service) GetTemplate(ctx context.Context, tenantID, templateID string) (*Template, error) {
	return s.Store.GetTemplate(ctx, tenantID, templateID)
}

// Start instantiates a template as the employee's task checklist. Due dates
// are computed from the start date, not from the call time.
func (s *Service) Start(ctx context.Context, tenantID, employeeID, templateID string, startDate time.Time) error {
	tpl, err := s.Store.GetTemplate(ctx, tenantID, templateID)
	if err != nil {
		return err
	}
	tasks := BuildTasks(tpl, employeeID, startDate)
	return s.Store.InsertTasks(ctx, tenantID, employeeID, tasks)
}

func (s *Service) TasksForEmployee(ctx context.Context, tenantID, employeeID string) ([]Task, error) {
	return s.Store.TasksForEmployee(ctx, tenantID, employeeID)
}

func (s *Service) SetTaskStatus(ctx context.Context, tenantID, taskID, status string) error {
	switch status {
	case TaskPending, TaskDone, TaskSkipped:
	default:
		return fmt.Errorf("unknown task status %q", status)
	}
	return s.Store.SetTaskStatus(ctx, tenantID, taskID, status)
}

// BuildTasks expands template items into concrete tasks ordered as authored.
func BuildTasks(tpl *Template, employeeID string, startDate time.Time) []Task {
	tasks := make([]Task, 0, len(tpl.Items))
	for _, item := range tpl.Items {
		task := Task{
			EmployeeID: employeeID,
			Title:      item.Title,
			Status:     TaskPending,
			SortOrder:  item.SortOrder,
		}
		due := startDate.AddDate(0, 0, item.DueInDays)
		task.DueAt = &due
		tasks = append(tasks, task)
	}
	return tasks
}
