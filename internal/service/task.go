package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/metrics"
	"github.com/nextgen-hub/studenthub/internal/notify"
	"github.com/nextgen-hub/studenthub/internal/storage"
)

type TaskRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description,omitempty" validate:"max=2000"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    string     `json:"priority" validate:"required,oneof=low medium high"`
	Status      string     `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress completed"`
}

func ValidateTaskRequest(body *TaskRequest) error {
	return validateStruct(body)
}

// TaskQuery is the list filter taken from the query string.
type TaskQuery struct {
	Status string `form:"status" validate:"omitempty,oneof=all pending in_progress completed overdue"`
	Search string `form:"search" validate:"max=200"`
	Sort   string `form:"sort" validate:"omitempty,oneof=due_date priority created_at"`
}

func ValidateTaskQuery(q *TaskQuery) error {
	return validateStruct(q)
}

// applyStatus sets status and keeps CompletedAt in step with it.
func applyStatus(t *internal.Task, status string, now time.Time) {
	if status == "" {
		status = internal.TaskPending
	}
	switch {
	case status == internal.TaskCompleted && t.CompletedAt == nil:
		t.CompletedAt = &now
	case status != internal.TaskCompleted:
		t.CompletedAt = nil
	}
	t.Status = status
}

func CreateTask(ctx context.Context, repo storage.TaskRepository, pub notify.Publisher, user *internal.User, body *TaskRequest) (*internal.Task, error) {
	now := time.Now()
	task := &internal.Task{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Title:       body.Title,
		Description: body.Description,
		DueDate:     body.DueDate,
		Priority:    body.Priority,
		CreatedAt:   now,
	}
	applyStatus(task, body.Status, now)
	if err := repo.SaveTask(ctx, task); err != nil {
		return nil, err
	}
	publish(pub, TableTasks, notify.OpInsert, user.ID, task.ID)
	return task, nil
}

// UpdateTask replaces the editable fields of one of the user's tasks. An empty
// status keeps the current one.
func UpdateTask(ctx context.Context, repo storage.TaskRepository, pub notify.Publisher, user *internal.User, id string, body *TaskRequest) (*internal.Task, error) {
	task, err := repo.GetTask(ctx, user.ID, id)
	if err != nil {
		return nil, err
	}
	task.Title = body.Title
	task.Description = body.Description
	task.DueDate = body.DueDate
	task.Priority = body.Priority
	status := body.Status
	if status == "" {
		status = task.Status
	}
	applyStatus(task, status, time.Now())
	if err := repo.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	publish(pub, TableTasks, notify.OpUpdate, user.ID, task.ID)
	return task, nil
}

func DeleteTask(ctx context.Context, repo storage.TaskRepository, pub notify.Publisher, user *internal.User, id string) error {
	if err := repo.DeleteTask(ctx, user.ID, id); err != nil {
		return err
	}
	publish(pub, TableTasks, notify.OpDelete, user.ID, id)
	return nil
}

// ListTasks returns the user's tasks filtered and sorted per q, with overdue
// tasks reported as such.
func ListTasks(ctx context.Context, repo storage.TaskRepository, user *internal.User, q TaskQuery, now time.Time) ([]internal.Task, error) {
	tasks, err := repo.ListTasks(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	out := metrics.FilterTasks(tasks, metrics.TaskFilter{Status: q.Status, Search: q.Search}, now)
	metrics.SortTasks(out, q.Sort)
	return out, nil
}
