// Package metrics aggregates per-project task state for dashboards. Every
// call recomputes from the tasks it is handed; nothing is cached and no
// staleness guarantee is offered.
package metrics

import (
	"math"
	"time"

	"taskflow/internal/model"
)

// ProjectMetrics summarizes the tasks of one project as of a given date.
// The status and priority buckets are dense: every enum value is present,
// zero when no task matches.
type ProjectMetrics struct {
	TotalTasks      int                        `json:"total_tasks"`
	CompletionRate  float64                    `json:"completion_rate"`
	OverdueTasks    int                        `json:"overdue_tasks"`
	DueNext7Days    int                        `json:"due_next_7_days"`
	TasksByStatus   map[model.TaskStatus]int   `json:"tasks_by_status"`
	TasksByPriority map[model.TaskPriority]int `json:"tasks_by_priority"`
}

// Compute builds the metrics for a project's tasks as of asOf (a date at
// midnight). A task is overdue when its due date is set, lies before asOf
// and the task is not done; it is due in the next 7 days when the due date
// falls in [asOf, asOf+7d] and the task is not done. The completion rate is
// the done share as a percentage rounded half-up to one decimal, 0.0 for an
// empty project.
func Compute(tasks []model.Task, asOf time.Time) ProjectMetrics {
	m := ProjectMetrics{
		TasksByStatus: map[model.TaskStatus]int{
			model.TaskStatusTodo:       0,
			model.TaskStatusInProgress: 0,
			model.TaskStatusReview:     0,
			model.TaskStatusDone:       0,
		},
		TasksByPriority: map[model.TaskPriority]int{
			model.TaskPriorityLow:    0,
			model.TaskPriorityMedium: 0,
			model.TaskPriorityHigh:   0,
			model.TaskPriorityUrgent: 0,
		},
	}

	horizon := asOf.AddDate(0, 0, 7)

	for _, t := range tasks {
		m.TotalTasks++
		m.TasksByStatus[t.Status]++
		m.TasksByPriority[t.Priority]++

		if t.DueDate == nil || t.Status == model.TaskStatusDone {
			continue
		}
		if t.DueDate.Before(asOf) {
			m.OverdueTasks++
		} else if !t.DueDate.After(horizon) {
			m.DueNext7Days++
		}
	}

	if m.TotalTasks > 0 {
		done := m.TasksByStatus[model.TaskStatusDone]
		rate := float64(done) / float64(m.TotalTasks) * 100
		m.CompletionRate = math.Round(rate*10) / 10
	}

	return m
}
