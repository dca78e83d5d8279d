package onboarding

import "time"

const (
	TaskPending = "pending"
	TaskDone    = "done"
	TaskSkipped = "skipped"
)

type Template struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Items     []TemplateItem `json:"items"`
	CreatedAt time.Time      `json:"createdAt"`
}

type TemplateItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	DueInDays int    `json:"dueInDays"`
	SortOrder int    `json:"sortOrder"`
}

type TemplateInput struct {
	Name  string              `json:"name" validate:"required,max=200"`
	Items []TemplateItemInput `json:"items" validate:"required,min=1,dive"`
}

type TemplateItemInput struct {
	Title     string `json:"title" validate:"required,max=200"`
	DueInDays int    `json:"dueInDays" validate:"min=0,max=365"`
}

type Task struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employeeId"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	SortOrder   int        `json:"sortOrder"`
}
