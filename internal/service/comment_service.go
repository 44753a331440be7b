package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskflow/internal/apperrors"
	"taskflow/internal/model"
	"taskflow/internal/policy"
	"taskflow/internal/repository"
)

// CommentService handles comments on the specialist's own tasks.
type CommentService interface {
	AddComment(ctx context.Context, p *model.Principal, taskID uint, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, p *model.Principal, commentID uint) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
}

// NewCommentService creates a new comment service.
func NewCommentService(commentRepo repository.CommentRepository, taskRepo repository.TaskRepository, userRepo repository.UserRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
	}
}

// AddComment creates a comment on a task assigned to the principal. Tasks
// assigned to anyone else are reported as not found.
func (s *commentService) AddComment(ctx context.Context, p *model.Principal, taskID uint, content string) (*model.Comment, error) {
	if err := policy.Authorize(p, model.RoleSpecialist); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByIDForAssignee(ctx, taskID, p.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, taskNotFound()
		}
		return nil, fmt.Errorf("load task: %w", err)
	}

	comment := &model.Comment{
		TaskID:  task.ID,
		UserID:  p.ID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	author, err := s.userRepo.FindByID(ctx, p.ID)
	if err == nil {
		comment.User = *author
	}
	return comment, nil
}

// DeleteComment removes a comment. Only the author may delete it, and only
// while the comment's task is still assigned to them; a task reassigned
// since the comment was written makes deletion forbidden despite authorship.
func (s *commentService) DeleteComment(ctx context.Context, p *model.Principal, commentID uint) error {
	if err := policy.Authorize(p, model.RoleSpecialist); err != nil {
		return err
	}

	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("Comment not found.", "comment", "No comment exists with the given id.")
		}
		return fmt.Errorf("load comment: %w", err)
	}

	task, err := s.taskRepo.FindByID(ctx, comment.TaskID)
	if err != nil {
		return fmt.Errorf("load task: %w", err)
	}
	if err := policy.AuthorizeItemDelete(p, comment.UserID, task.UserID, "comment"); err != nil {
		return err
	}

	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
