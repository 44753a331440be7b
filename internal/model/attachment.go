package model

import "time"

// Attachment is a file reference uploaded by a task's assignee. The file
// itself lives on an external host; FilePath is an opaque URL and the file
// content is never inspected here. Deletion follows the same ownership rules
// as Comment.
type Attachment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TaskID    uint      `json:"task_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"` // uploader
	FileName  string    `json:"file_name" gorm:"size:255;not null"`
	FilePath  string    `json:"file_path" gorm:"size:2048;not null"`
	FileSize  int64     `json:"file_size" gorm:"not null;default:0"`
	MimeType  string    `json:"mime_type" gorm:"size:120;not null;default:'application/octet-stream'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Task Task `json:"-" gorm:"foreignKey:TaskID"`
	User User `json:"-" gorm:"foreignKey:UserID"`
}
