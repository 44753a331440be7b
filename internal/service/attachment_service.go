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

// AttachmentInput carries the fields of an upload already relayed to the
// external file host; FilePath is the opaque URL it returned.
type AttachmentInput struct {
	FileName string
	FilePath string
	FileSize *int64
	MimeType *string
}

// AttachmentService handles file references on the specialist's own tasks.
type AttachmentService interface {
	AddAttachment(ctx context.Context, p *model.Principal, taskID uint, input AttachmentInput) (*model.Attachment, error)
	DeleteAttachment(ctx context.Context, p *model.Principal, attachmentID uint) error
}

type attachmentService struct {
	attachmentRepo repository.AttachmentRepository
	taskRepo       repository.TaskRepository
	userRepo       repository.UserRepository
}

// NewAttachmentService creates a new attachment service.
func NewAttachmentService(attachmentRepo repository.AttachmentRepository, taskRepo repository.TaskRepository, userRepo repository.UserRepository) AttachmentService {
	return &attachmentService{
		attachmentRepo: attachmentRepo,
		taskRepo:       taskRepo,
		userRepo:       userRepo,
	}
}

// AddAttachment records a file reference on a task assigned to the
// principal. Size and mime type are optional and defaulted.
func (s *attachmentService) AddAttachment(ctx context.Context, p *model.Principal, taskID uint, input AttachmentInput) (*model.Attachment, error) {
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

	attachment := &model.Attachment{
		TaskID:   task.ID,
		UserID:   p.ID,
		FileName: input.FileName,
		FilePath: input.FilePath,
		MimeType: "application/octet-stream",
	}
	if input.FileSize != nil {
		attachment.FileSize = *input.FileSize
	}
	if input.MimeType != nil && *input.MimeType != "" {
		attachment.MimeType = *input.MimeType
	}

	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		return nil, fmt.Errorf("create attachment: %w", err)
	}

	uploader, err := s.userRepo.FindByID(ctx, p.ID)
	if err == nil {
		attachment.User = *uploader
	}
	return attachment, nil
}

// DeleteAttachment removes a file reference under the same ownership rules
// as comment deletion: author identity plus current task linkage.
func (s *attachmentService) DeleteAttachment(ctx context.Context, p *model.Principal, attachmentID uint) error {
	if err := policy.Authorize(p, model.RoleSpecialist); err != nil {
		return err
	}

	attachment, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("Attachment not found.", "attachment", "No attachment exists with the given id.")
		}
		return fmt.Errorf("load attachment: %w", err)
	}

	task, err := s.taskRepo.FindByID(ctx, attachment.TaskID)
	if err != nil {
		return fmt.Errorf("load task: %w", err)
	}
	if err := policy.AuthorizeItemDelete(p, attachment.UserID, task.UserID, "attachment"); err != nil {
		return err
	}

	if err := s.attachmentRepo.Delete(ctx, attachment.ID); err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	return nil
}
