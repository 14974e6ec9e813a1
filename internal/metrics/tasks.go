package metrics

import (
	"sort"
	"strings"
	"time"

	"github.com/nextgen-hub/studenthub/internal"
)

type TaskFilter struct {
	Status string // "" or "all" matches everything
	Search string
}

// EffectiveStatus reports TaskOverdue for an unfinished task whose due date has
// passed, and the stored status otherwise.
func EffectiveStatus(t internal.Task, now time.Time) string {
	if t.Status != internal.TaskCompleted && t.DueDate != nil && t.DueDate.Before(now) {
		return internal.TaskOverdue
	}
	return t.Status
}

// FilterTasks returns copies of the matching tasks with Status replaced by the
// effective status.
func FilterTasks(tasks []internal.Task, f TaskFilter, now time.Time) []internal.Task {
	search := strings.ToLower(f.Search)
	out := make([]internal.Task, 0, len(tasks))
	for _, t := range tasks {
		t.Status = EffectiveStatus(t, now)
		if f.Status != "" && f.Status != "all" && t.Status != f.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

var priorityOrder = map[string]int{"high": 0, "medium": 1, "low": 2}

// SortTasks orders tasks in place by "due_date" (soonest first, undated last),
// "priority" (high first) or "created_at" (newest first). Unknown keys leave the
// order untouched.
func SortTasks(tasks []internal.Task, by string) {
	switch by {
	case "due_date":
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := tasks[i].DueDate, tasks[j].DueDate
			if a == nil || b == nil {
				return a != nil && b == nil
			}
			return a.Before(*b)
		})
	case "priority":
		sort.SliceStable(tasks, func(i, j int) bool {
			return rankPriority(tasks[i].Priority) < rankPriority(tasks[j].Priority)
		})
	case "created_at":
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		})
	}
}

func rankPriority(p string) int {
	if r, ok := priorityOrder[p]; ok {
		return r
	}
	return len(priorityOrder)
}
