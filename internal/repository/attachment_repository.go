package repository

import (
	"context"

	"gorm.io/gorm"

	"taskflow/internal/model"
)

// AttachmentRepository defines attachment persistence operations.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *model.Attachment) error
	FindByID(ctx context.Context, id uint) (*model.Attachment, error)
	ListByTask(ctx context.Context, taskID uint) ([]model.Attachment, error)
	Delete(ctx context.Context, id uint) error
}

type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new attachment repository.
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

// Create creates a new attachment record.
func (r *attachmentRepository) Create(ctx context.Context, attachment *model.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

// FindByID finds an attachment by id.
func (r *attachmentRepository) FindByID(ctx context.Context, id uint) (*model.Attachment, error) {
	var attachment model.Attachment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

// ListByTask returns a task's attachments with their uploaders, newest first.
func (r *attachmentRepository) ListByTask(ctx context.Context, taskID uint) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("task_id = ?", taskID).
		Order("id DESC").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// Delete removes an attachment record. The externally hosted file is not
// touched; only the reference is dropped.
func (r *attachmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Attachment{}, id).Error
}
