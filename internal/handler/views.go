package handler

import (
	"time"

	"taskflow/internal/model"
	"taskflow/internal/repository"
	"taskflow/internal/service"
)

// The view structs are the explicit projections returned to clients. Which
// relations a response carries is decided by the view type the handler
// picks, never by whether a relation happened to be loaded.

// UserView is the public projection of a user.
type UserView struct {
	ID           uint       `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         model.Role `json:"role"`
	ProfilePhoto *string    `json:"profile_photo"`
	CreatedAt    time.Time  `json:"created_at"`
}

func newUserView(u model.User) UserView {
	return UserView{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		ProfilePhoto: u.ProfilePhoto,
		CreatedAt:    u.CreatedAt,
	}
}

func newUserViews(users []model.User) []UserView {
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, newUserView(u))
	}
	return views
}

// ProjectView is the summary projection of a project. TaskCount is present
// on listing responses only.
type ProjectView struct {
	ID          uint                `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Status      model.ProjectStatus `json:"status"`
	StartDate   *string             `json:"start_date"`
	EndDate     *string             `json:"end_date"`
	TaskCount   *int64              `json:"task_count,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func newProjectView(p model.Project) ProjectView {
	return ProjectView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		StartDate:   formatDate(p.StartDate),
		EndDate:     formatDate(p.EndDate),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func newProjectListView(rows []repository.ProjectWithTaskCount) []ProjectView {
	views := make([]ProjectView, 0, len(rows))
	for _, row := range rows {
		v := newProjectView(row.Project)
		count := row.TaskCount
		v.TaskCount = &count
		views = append(views, v)
	}
	return views
}

// ProjectDetailView is the full projection of one project.
type ProjectDetailView struct {
	ProjectView
	Members []UserView `json:"members"`
	Tasks   []TaskView `json:"tasks"`
}

func newProjectDetailView(detail *service.ProjectDetail) ProjectDetailView {
	tasks := make([]TaskView, 0, len(detail.Tasks))
	for _, t := range detail.Tasks {
		tasks = append(tasks, newTaskView(t))
	}
	return ProjectDetailView{
		ProjectView: newProjectView(detail.Project),
		Members:     newUserViews(detail.Members),
		Tasks:       tasks,
	}
}

// TaskView is the projection of a task. Assignee and Project are filled when
// the handler's projection includes them.
type TaskView struct {
	ID          uint               `json:"id"`
	ProjectID   uint               `json:"project_id"`
	UserID      uint               `json:"user_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Priority    model.TaskPriority `json:"priority"`
	Status      model.TaskStatus   `json:"status"`
	DueDate     *string            `json:"due_date"`
	Assignee    *UserView          `json:"assignee,omitempty"`
	Project     *ProjectView       `json:"project,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func newTaskView(t model.Task) TaskView {
	v := TaskView{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		DueDate:     formatDate(t.DueDate),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.User.ID != 0 {
		assignee := newUserView(t.User)
		v.Assignee = &assignee
	}
	return v
}

func newTaskWithProjectView(t model.Task) TaskView {
	v := newTaskView(t)
	if t.Project.ID != 0 {
		project := newProjectView(t.Project)
		v.Project = &project
	}
	return v
}

// CommentView is the projection of a comment with its author.
type CommentView struct {
	ID        uint      `json:"id"`
	TaskID    uint      `json:"task_id"`
	UserID    uint      `json:"user_id"`
	Content   string    `json:"content"`
	Author    *UserView `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newCommentView(c model.Comment) CommentView {
	v := CommentView{
		ID:        c.ID,
		TaskID:    c.TaskID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
	if c.User.ID != 0 {
		author := newUserView(c.User)
		v.Author = &author
	}
	return v
}

func newCommentViews(comments []model.Comment) []CommentView {
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, newCommentView(c))
	}
	return views
}

// AttachmentView is the projection of an attachment with its uploader.
type AttachmentView struct {
	ID        uint      `json:"id"`
	TaskID    uint      `json:"task_id"`
	UserID    uint      `json:"user_id"`
	FileName  string    `json:"file_name"`
	FilePath  string    `json:"file_path"`
	FileSize  int64     `json:"file_size"`
	MimeType  string    `json:"mime_type"`
	Uploader  *UserView `json:"uploader,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newAttachmentView(a model.Attachment) AttachmentView {
	v := AttachmentView{
		ID:        a.ID,
		TaskID:    a.TaskID,
		UserID:    a.UserID,
		FileName:  a.FileName,
		FilePath:  a.FilePath,
		FileSize:  a.FileSize,
		MimeType:  a.MimeType,
		CreatedAt: a.CreatedAt,
	}
	if a.User.ID != 0 {
		uploader := newUserView(a.User)
		v.Uploader = &uploader
	}
	return v
}

func newAttachmentViews(attachments []model.Attachment) []AttachmentView {
	views := make([]AttachmentView, 0, len(attachments))
	for _, a := range attachments {
		views = append(views, newAttachmentView(a))
	}
	return views
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
