package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskflow/internal/apperrors"
	"taskflow/internal/model"
	"taskflow/internal/policy"
	"taskflow/internal/repository"
)

// TaskInput carries the fields a manager sets when creating or updating a
// task. Creation and reassignment run the exact same assignee validation.
type TaskInput struct {
	UserID      uint
	Title       string
	Description string
	Priority    model.TaskPriority
	Status      model.TaskStatus
	DueDate     *time.Time
}

// TaskDetail is the full projection of one task for its assignee: the task
// with its project, plus comments and attachments newest first.
type TaskDetail struct {
	Task        model.Task
	Comments    []model.Comment
	Attachments []model.Attachment
}

// TaskService handles the manager-side task mutations and the specialist's
// own-task surface.
type TaskService interface {
	CreateTask(ctx context.Context, p *model.Principal, projectID uint, input TaskInput) (*model.Task, error)
	UpdateTask(ctx context.Context, p *model.Principal, projectID, taskID uint, input TaskInput) (*model.Task, error)

	MyTasks(ctx context.Context, p *model.Principal) ([]model.Task, error)
	MyTaskDetails(ctx context.Context, p *model.Principal, taskID uint) (*TaskDetail, error)
	UpdateMyTaskStatus(ctx context.Context, p *model.Principal, taskID uint, status model.TaskStatus) (*model.Task, error)
}

type taskService struct {
	taskRepo       repository.TaskRepository
	projectRepo    repository.ProjectRepository
	userRepo       repository.UserRepository
	commentRepo    repository.CommentRepository
	attachmentRepo repository.AttachmentRepository
}

// NewTaskService creates a new task service.
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
	attachmentRepo repository.AttachmentRepository,
) TaskService {
	return &taskService{
		taskRepo:       taskRepo,
		projectRepo:    projectRepo,
		userRepo:       userRepo,
		commentRepo:    commentRepo,
		attachmentRepo: attachmentRepo,
	}
}

// CreateTask creates a task on a project the manager belongs to. The
// assignee must exist, be a project member and hold the specialist role at
// this moment; the constraint is not re-checked afterwards.
func (s *taskService) CreateTask(ctx context.Context, p *model.Principal, projectID uint, input TaskInput) (*model.Task, error) {
	if err := policy.Authorize(p, model.RoleManager); err != nil {
		return nil, err
	}
	project, err := s.resolveProject(ctx, p, projectID)
	if err != nil {
		return nil, err
	}
	assignee, err := s.validateAssignee(ctx, project.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		ProjectID:   project.ID,
		UserID:      input.UserID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      input.Status,
		DueDate:     input.DueDate,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	task.User = *assignee
	return task, nil
}

// UpdateTask updates a task of a project the manager belongs to, running the
// same assignee validation as creation.
func (s *taskService) UpdateTask(ctx context.Context, p *model.Principal, projectID, taskID uint, input TaskInput) (*model.Task, error) {
	if err := policy.Authorize(p, model.RoleManager); err != nil {
		return nil, err
	}
	project, err := s.resolveProject(ctx, p, projectID)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByIDInProject(ctx, taskID, project.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, taskNotFound()
		}
		return nil, fmt.Errorf("load task: %w", err)
	}

	assignee, err := s.validateAssignee(ctx, project.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	task.UserID = input.UserID
	task.Title = input.Title
	task.Description = input.Description
	task.Priority = input.Priority
	task.Status = input.Status
	task.DueDate = input.DueDate

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	task.User = *assignee
	return task, nil
}

// MyTasks returns the specialist's tasks in listing order.
func (s *taskService) MyTasks(ctx context.Context, p *model.Principal) ([]model.Task, error) {
	if err := policy.Authorize(p, model.RoleSpecialist); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListByAssignee(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	policy.SortTasks(tasks)
	return tasks, nil
}

// MyTaskDetails returns one of the specialist's tasks with its comments and
// attachments. A task assigned to someone else is reported as not found.
func (s *taskService) MyTaskDetails(ctx context.Context, p *model.Principal, taskID uint) (*TaskDetail, error) {
	if err := policy.Authorize(p, model.RoleSpecialist); err != nil {
		return nil, err
	}
	task, err := s.resolveOwnTask(ctx, p, taskID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByTask(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	attachments, err := s.attachmentRepo.ListByTask(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}

	return &TaskDetail{Task: *task, Comments: comments, Attachments: attachments}, nil
}

// UpdateMyTaskStatus lets the assignee move their task to any status; there
// is no workflow restriction on transitions.
func (s *taskService) UpdateMyTaskStatus(ctx context.Context, p *model.Principal, taskID uint, status model.TaskStatus) (*model.Task, error) {
	if err := policy.Authorize(p, model.RoleSpecialist); err != nil {
		return nil, err
	}
	task, err := s.resolveOwnTask(ctx, p, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateStatus(ctx, task.ID, status); err != nil {
		return nil, fmt.Errorf("update task status: %w", err)
	}
	task.Status = status
	return task, nil
}

func (s *taskService) resolveProject(ctx context.Context, p *model.Principal, projectID uint) (*model.Project, error) {
	project, err := s.projectRepo.FindByIDForMember(ctx, projectID, p.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, projectNotFound()
		}
		return nil, fmt.Errorf("load project: %w", err)
	}
	return project, nil
}

// resolveOwnTask returns the task only when it is assigned to the principal,
// hiding the existence of anyone else's tasks.
func (s *taskService) resolveOwnTask(ctx context.Context, p *model.Principal, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByIDForAssignee(ctx, taskID, p.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, taskNotFound()
		}
		return nil, fmt.Errorf("load task: %w", err)
	}
	return task, nil
}

func (s *taskService) validateAssignee(ctx context.Context, projectID, userID uint) (*model.User, error) {
	assignee, err := s.userRepo.FindByID(ctx, userID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("load assignee: %w", err)
	}
	isMember := false
	if assignee != nil {
		isMember, err = s.projectRepo.IsMember(ctx, projectID, userID)
		if err != nil {
			return nil, fmt.Errorf("check membership: %w", err)
		}
	}
	if err := policy.ValidateAssignee(assignee, isMember); err != nil {
		return nil, err
	}
	return assignee, nil
}

func taskNotFound() *apperrors.Error {
	return apperrors.NotFound("Task not found.", "task", "The task does not exist or you have no access.")
}
