package repository

import (
	"context"

	"gorm.io/gorm"

	"taskflow/internal/model"
)

// TaskRepository defines task persistence operations.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, task *model.Task) error
	UpdateStatus(ctx context.Context, taskID uint, status model.TaskStatus) error
	FindByIDInProject(ctx context.Context, taskID, projectID uint) (*model.Task, error)
	FindByIDForAssignee(ctx context.Context, taskID, userID uint) (*model.Task, error)
	FindByID(ctx context.Context, taskID uint) (*model.Task, error)
	ListByProject(ctx context.Context, projectID uint) ([]model.Task, error)
	ListByAssignee(ctx context.Context, userID uint) ([]model.Task, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create creates a new task.
func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// Update persists changes to an existing task.
func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// UpdateStatus updates only the status column of a task.
func (r *taskRepository) UpdateStatus(ctx context.Context, taskID uint, status model.TaskStatus) error {
	return r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", taskID).
		Update("status", status).Error
}

// FindByIDInProject finds a task scoped to one project. A task belonging to
// another project yields gorm.ErrRecordNotFound.
func (r *taskRepository) FindByIDInProject(ctx context.Context, taskID, projectID uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", taskID, projectID).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByIDForAssignee finds a task only if it is assigned to the given user.
// A task assigned elsewhere yields gorm.ErrRecordNotFound, hiding its
// existence from the caller.
func (r *taskRepository) FindByIDForAssignee(ctx context.Context, taskID, userID uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Project").
		Where("id = ? AND user_id = ?", taskID, userID).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByID finds a task by id alone. Used for ownership linkage checks.
func (r *taskRepository) FindByID(ctx context.Context, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByProject returns a project's tasks with their assignees, unordered;
// callers apply the ordering policy.
func (r *taskRepository) ListByProject(ctx context.Context, projectID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByAssignee returns a user's tasks with their projects, unordered;
// callers apply the ordering policy.
func (r *taskRepository) ListByAssignee(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Project").
		Where("user_id = ?", userID).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
