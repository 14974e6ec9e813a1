package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nextgen-hub/studenthub/internal"
)

func TestEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.Equal(t, internal.TaskOverdue, EffectiveStatus(internal.Task{Status: internal.TaskPending, DueDate: &past}, now))
	assert.Equal(t, internal.TaskOverdue, EffectiveStatus(internal.Task{Status: internal.TaskInProgress, DueDate: &past}, now))
	assert.Equal(t, internal.TaskCompleted, EffectiveStatus(internal.Task{Status: internal.TaskCompleted, DueDate: &past}, now))
	assert.Equal(t, internal.TaskPending, EffectiveStatus(internal.Task{Status: internal.TaskPending, DueDate: &future}, now))
	assert.Equal(t, internal.TaskPending, EffectiveStatus(internal.Task{Status: internal.TaskPending}, now))
}

func TestFilterTasks(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -2)
	tasks := []internal.Task{
		{ID: "1", Title: "Essay draft", Description: "history", Status: internal.TaskPending, DueDate: &past},
		{ID: "2", Title: "Math set", Description: "Chapter 4 problems", Status: internal.TaskPending},
		{ID: "3", Title: "Lab report", Status: internal.TaskCompleted, DueDate: &past},
	}

	got := FilterTasks(tasks, TaskFilter{Status: internal.TaskOverdue}, now)
	assert.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, internal.TaskPending, tasks[0].Status, "input must not be mutated")

	got = FilterTasks(tasks, TaskFilter{Search: "CHAPTER"}, now)
	assert.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	got = FilterTasks(tasks, TaskFilter{Status: "all"}, now)
	assert.Len(t, got, 3)
}

func TestSortTasks(t *testing.T) {
	d1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 3)
	tasks := []internal.Task{
		{ID: "a", Priority: "low", CreatedAt: d1},
		{ID: "b", Priority: "high", DueDate: &d2, CreatedAt: d2},
		{ID: "c", Priority: "medium", DueDate: &d1, CreatedAt: d1.AddDate(0, 0, 1)},
	}
	ids := func() []string {
		out := []string{}
		for _, t := range tasks {
			out = append(out, t.ID)
		}
		return out
	}

	SortTasks(tasks, "due_date")
	assert.Equal(t, []string{"c", "b", "a"}, ids())

	SortTasks(tasks, "priority")
	assert.Equal(t, []string{"b", "c", "a"}, ids())

	SortTasks(tasks, "created_at")
	assert.Equal(t, []string{"b", "c", "a"}, ids())
}
