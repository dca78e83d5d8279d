package onboarding

import (
	"testing"
	"time"
)

func TestBuildTasksComputesDueDatesFromStart(t *testing.T) {
	tpl := &Template{
		Name: "Engineering",
		Items: []TemplateItem{
			{Title: "Sign contract", DueInDays: 0, SortOrder: 0},
			{Title: "Laptop setup", DueInDays: 1, SortOrder: 1},
			{Title: "Security training", DueInDays: 14, SortOrder: 2},
		},
	}
	start := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	tasks := BuildTasks(tpl, "emp-1", start)
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.Status != TaskPending {
			t.Errorf("task %q status = %q, want pending", task.Title, task.Status)
		}
		if task.EmployeeID != "emp-1" {
			t.Errorf("task %q employee = %q", task.Title, task.EmployeeID)
		}
	}
	if got := *tasks[0].DueAt; !got.Equal(start) {
		t.Errorf("first task due %v, want start date", got)
	}
	if got := *tasks[2].DueAt; !got.Equal(start.AddDate(0, 0, 14)) {
		t.Errorf("training due %v, want start+14d", got)
	}
}

func TestBuildTasksPreservesAuthoredOrder(t *testing.T) {
	tpl := &Template{
		Items: []TemplateItem{
			{Title: "b", SortOrder: 1},
			{Title: "a", SortOrder: 0},
		},
	}
	tasks := BuildTasks(tpl, "emp-1", time.Now())
	if tasks[0].Title != "b" || tasks[0].SortOrder != 1 {
		t.Fatalf("expansion must not reorder items: %+v", tasks)
	}
}

func TestBuildTasksEmptyTemplate(t *testing.T) {
	tasks := BuildTasks(&Template{}, "emp-1", time.Now())
	if len(tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(tasks))
	}
}
