package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskflow/internal/model"
	"taskflow/internal/service"
)

// SpecialistHandler handles the specialist's own-task endpoints.
type SpecialistHandler struct {
	taskService       service.TaskService
	commentService    service.CommentService
	attachmentService service.AttachmentService
}

// NewSpecialistHandler creates a new specialist handler.
func NewSpecialistHandler(taskService service.TaskService, commentService service.CommentService, attachmentService service.AttachmentService) *SpecialistHandler {
	return &SpecialistHandler{
		taskService:       taskService,
		commentService:    commentService,
		attachmentService: attachmentService,
	}
}

// UpdateStatusRequest represents a status change on an assigned task.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=todo inprogress review done"`
}

// AddCommentRequest represents a new comment on an assigned task.
type AddCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// AddAttachmentRequest represents a file reference already uploaded to the
// external file host.
type AddAttachmentRequest struct {
	FileName string  `json:"file_name" validate:"required,max=255"`
	FilePath string  `json:"file_path" validate:"required,url,max=2048"`
	FileSize *int64  `json:"file_size" validate:"omitempty,gte=0"`
	MimeType *string `json:"mime_type" validate:"omitempty,max=120"`
}

// MyTasks godoc
// @Summary List the tasks assigned to the current specialist
// @Tags specialist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Router /my/tasks [get]
func (h *SpecialistHandler) MyTasks(c echo.Context) error {
	tasks, err := h.taskService.MyTasks(c.Request().Context(), principalFrom(c))
	if err != nil {
		return respondError(c, err)
	}

	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, newTaskWithProjectView(t))
	}
	return respond(c, http.StatusOK, "Tasks loaded.", map[string][]TaskView{
		"tasks": views,
	})
}

// TaskDetails godoc
// @Summary Get one assigned task with comments and attachments
// @Tags specialist
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task id"
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /my/tasks/{id} [get]
func (h *SpecialistHandler) TaskDetails(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	detail, err := h.taskService.MyTaskDetails(c.Request().Context(), principalFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Task details loaded.", map[string]interface{}{
		"task":        newTaskWithProjectView(detail.Task),
		"comments":    newCommentViews(detail.Comments),
		"attachments": newAttachmentViews(detail.Attachments),
	})
}

// UpdateTaskStatus godoc
// @Summary Change the status of an assigned task
// @Tags specialist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task id"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Failure 422 {object} Envelope
// @Router /my/tasks/{id}/status [put]
func (h *SpecialistHandler) UpdateTaskStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	task, err := h.taskService.UpdateMyTaskStatus(c.Request().Context(), principalFrom(c), id, model.TaskStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Task status updated.", map[string]TaskView{
		"task": newTaskView(*task),
	})
}

// AddComment godoc
// @Summary Comment on an assigned task
// @Tags specialist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param taskId path int true "Task id"
// @Param request body AddCommentRequest true "Comment data"
// @Success 201 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Failure 422 {object} Envelope
// @Router /my/tasks/{taskId}/comments [post]
func (h *SpecialistHandler) AddComment(c echo.Context) error {
	taskID, err := pathID(c, "taskId")
	if err != nil {
		return respondError(c, err)
	}

	var req AddCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	comment, err := h.commentService.AddComment(c.Request().Context(), principalFrom(c), taskID, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Comment added.", map[string]CommentView{
		"comment": newCommentView(*comment),
	})
}

// DeleteComment godoc
// @Summary Delete an own comment
// @Tags specialist
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment id"
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /my/comments/{id} [delete]
func (h *SpecialistHandler) DeleteComment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.commentService.DeleteComment(c.Request().Context(), principalFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Comment deleted.", nil)
}

// AddAttachment godoc
// @Summary Attach a file reference to an assigned task
// @Tags specialist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param taskId path int true "Task id"
// @Param request body AddAttachmentRequest true "Attachment data"
// @Success 201 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Failure 422 {object} Envelope
// @Router /my/tasks/{taskId}/attachments [post]
func (h *SpecialistHandler) AddAttachment(c echo.Context) error {
	taskID, err := pathID(c, "taskId")
	if err != nil {
		return respondError(c, err)
	}

	var req AddAttachmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	attachment, err := h.attachmentService.AddAttachment(c.Request().Context(), principalFrom(c), taskID, service.AttachmentInput{
		FileName: req.FileName,
		FilePath: req.FilePath,
		FileSize: req.FileSize,
		MimeType: req.MimeType,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Attachment added.", map[string]AttachmentView{
		"attachment": newAttachmentView(*attachment),
	})
}

// DeleteAttachment godoc
// @Summary Delete an own attachment
// @Tags specialist
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attachment id"
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /my/attachments/{id} [delete]
func (h *SpecialistHandler) DeleteAttachment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.attachmentService.DeleteAttachment(c.Request().Context(), principalFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Attachment deleted.", nil)
}
