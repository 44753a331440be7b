package model

import "time"

// Comment is a note written by a task's assignee. Only the author may delete
// it, and only while the task is still assigned to them.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TaskID    uint      `json:"task_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"` // author
	Content   string    `json:"content" gorm:"size:2000;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Task Task `json:"-" gorm:"foreignKey:TaskID"`
	User User `json:"-" gorm:"foreignKey:UserID"`
}
