package model

import "time"

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusPlanned   ProjectStatus = "planned"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

// Project is a unit of work owned by a manager and staffed through
// ProjectMember rows. Deleting a project cascades to its tasks (and
// transitively their comments and attachments) and its membership rows;
// the cascade is applied in the repository, inside one transaction.
type Project struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Name        string        `json:"name" gorm:"size:255;not null"`
	Description string        `json:"description" gorm:"type:text"`
	Status      ProjectStatus `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	StartDate   *time.Time    `json:"start_date" gorm:"type:date"`
	EndDate     *time.Time    `json:"end_date" gorm:"type:date"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
