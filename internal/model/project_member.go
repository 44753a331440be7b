package model

import "time"

// ProjectMember is the explicit User-Project association table. One row per
// (project, user) pair, enforced by the composite unique index. Admins never
// hold a row here; membership is what grants a manager visibility of a
// project and makes a specialist assignable to its tasks.
type ProjectMember struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProjectID uint      `json:"project_id" gorm:"not null;uniqueIndex:idx_project_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_project_user"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Project Project `json:"-" gorm:"foreignKey:ProjectID"`
	User    User    `json:"-" gorm:"foreignKey:UserID"`
}
