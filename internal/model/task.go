package model

import "time"

// TaskStatus represents the workflow state of a task. Transitions are
// unrestricted: any status may move to any other, by the managing manager
// or by the assignee.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "inprogress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
)

// TaskPriority represents the urgency of a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Task is a unit of work inside a project, assigned to exactly one
// specialist. The assignee must be a project member holding the specialist
// role at the moment of assignment; the constraint is not re-checked later,
// so a specialist removed from the project keeps their existing tasks.
type Task struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	ProjectID   uint         `json:"project_id" gorm:"not null;index"`
	UserID      uint         `json:"user_id" gorm:"not null;index"` // assignee
	Title       string       `json:"title" gorm:"size:255;not null"`
	Description string       `json:"description" gorm:"type:text"`
	Priority    TaskPriority `json:"priority" gorm:"type:varchar(20);not null;index"`
	Status      TaskStatus   `json:"status" gorm:"type:varchar(20);not null;index"`
	DueDate     *time.Time   `json:"due_date" gorm:"type:date"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	Project Project `json:"-" gorm:"foreignKey:ProjectID"`
	User    User    `json:"-" gorm:"foreignKey:UserID"`
}
