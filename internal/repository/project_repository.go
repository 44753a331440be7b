package repository

import (
	"context"

	"gorm.io/gorm"

	"taskflow/internal/model"
)

// ProjectWithTaskCount is a project row annotated with its task count, for
// the manager's project list.
type ProjectWithTaskCount struct {
	model.Project
	TaskCount int64 `json:"task_count"`
}

// ProjectRepository defines project and membership persistence operations.
// Membership is the explicit project_members table; every scoped lookup
// joins through it.
type ProjectRepository interface {
	CreateWithMembers(ctx context.Context, project *model.Project, managerID uint, memberIDs []uint) error
	Update(ctx context.Context, project *model.Project) error
	FindByIDForMember(ctx context.Context, projectID, userID uint) (*model.Project, error)
	ListForMember(ctx context.Context, userID uint) ([]ProjectWithTaskCount, error)
	CountTasks(ctx context.Context, projectID uint) (int64, error)
	DeleteCascade(ctx context.Context, projectID uint) error

	IsMember(ctx context.Context, projectID, userID uint) (bool, error)
	ListMembers(ctx context.Context, projectID uint) ([]model.User, error)
	AddMembers(ctx context.Context, projectID uint, userIDs []uint) error
	RemoveMember(ctx context.Context, projectID, userID uint) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// CreateWithMembers creates a project, its implicit owner membership and any
// initial member rows as one all-or-nothing unit. A failure leaves no
// membership rows behind.
func (r *projectRepository) CreateWithMembers(ctx context.Context, project *model.Project, managerID uint, memberIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		rows := []model.ProjectMember{{ProjectID: project.ID, UserID: managerID}}
		for _, id := range memberIDs {
			rows = append(rows, model.ProjectMember{ProjectID: project.ID, UserID: id})
		}
		return tx.Create(&rows).Error
	})
}

// Update persists changes to an existing project.
func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// FindByIDForMember returns the project only when a membership row exists
// for (userID, projectID). A project outside the user's scope produces the
// same gorm.ErrRecordNotFound as a project that does not exist.
func (r *projectRepository) FindByIDForMember(ctx context.Context, projectID, userID uint) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("projects.id = ? AND project_members.user_id = ?", projectID, userID).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListForMember returns the projects the user belongs to, most recently
// updated first, each with its task count.
func (r *projectRepository) ListForMember(ctx context.Context, userID uint) ([]ProjectWithTaskCount, error) {
	var projects []ProjectWithTaskCount
	err := r.db.WithContext(ctx).Model(&model.Project{}).
		Select("projects.*, (SELECT COUNT(*) FROM tasks WHERE tasks.project_id = projects.id) AS task_count").
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Order("projects.updated_at DESC").
		Scan(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// CountTasks counts the tasks of a project.
func (r *projectRepository) CountTasks(ctx context.Context, projectID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

// DeleteCascade removes a project with its tasks, their comments and
// attachments, and every membership row, in one transaction.
func (r *projectRepository) DeleteCascade(ctx context.Context, projectID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint
		if err := tx.Model(&model.Task{}).Where("project_id = ?", projectID).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&model.Attachment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", projectID).Delete(&model.Task{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&model.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Project{}, projectID).Error
	})
}

// IsMember reports whether a membership row exists for (userID, projectID).
func (r *projectRepository) IsMember(ctx context.Context, projectID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

// ListMembers returns the users holding a membership row for the project.
func (r *projectRepository) ListMembers(ctx context.Context, projectID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Joins("JOIN project_members ON project_members.user_id = users.id").
		Where("project_members.project_id = ?", projectID).
		Order("users.id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// AddMembers inserts membership rows for the given users, skipping pairs
// that already exist. The whole batch applies in one transaction.
func (r *projectRepository) AddMembers(ctx context.Context, projectID uint, userIDs []uint) error {
	if len(userIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []uint
		err := tx.Model(&model.ProjectMember{}).
			Where("project_id = ? AND user_id IN ?", projectID, userIDs).
			Pluck("user_id", &existing).Error
		if err != nil {
			return err
		}
		present := make(map[uint]struct{}, len(existing))
		for _, id := range existing {
			present[id] = struct{}{}
		}
		var rows []model.ProjectMember
		for _, id := range userIDs {
			if _, ok := present[id]; ok {
				continue
			}
			rows = append(rows, model.ProjectMember{ProjectID: projectID, UserID: id})
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// RemoveMember deletes the membership row for (userID, projectID).
func (r *projectRepository) RemoveMember(ctx context.Context, projectID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.ProjectMember{}).Error
}
