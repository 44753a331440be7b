package policy

import (
	"sort"

	"taskflow/internal/model"
)

var statusRank = map[model.TaskStatus]int{
	model.TaskStatusTodo:       1,
	model.TaskStatusInProgress: 2,
	model.TaskStatusReview:     3,
	model.TaskStatusDone:       4,
}

func rankOf(s model.TaskStatus) int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return 5
}

// SortTasks applies the deterministic task ordering used by every task
// listing: status rank (todo, inprogress, review, done, unknown last), then
// due date ascending with missing due dates last, then id descending. The
// id tiebreak makes the order total.
func SortTasks(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return taskLess(tasks[i], tasks[j])
	})
}

func taskLess(a, b model.Task) bool {
	ra, rb := rankOf(a.Status), rankOf(b.Status)
	if ra != rb {
		return ra < rb
	}
	switch {
	case a.DueDate == nil && b.DueDate != nil:
		return false
	case a.DueDate != nil && b.DueDate == nil:
		return true
	case a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
		return a.DueDate.Before(*b.DueDate)
	}
	return a.ID > b.ID
}
