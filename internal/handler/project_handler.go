package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"taskflow/internal/model"
	"taskflow/internal/service"
)

// ProjectHandler handles the manager's project, membership, task and
// metrics endpoints.
type ProjectHandler struct {
	projectService service.ProjectService
	taskService    service.TaskService
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(projectService service.ProjectService, taskService service.TaskService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, taskService: taskService}
}

// CreateProjectRequest represents a project creation request, optionally
// with initial members.
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,oneof=planned active completed archived"`
	StartDate   string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	MemberIDs   []uint `json:"member_ids" validate:"omitempty,dive,gte=1"`
}

// UpdateProjectRequest represents a project update request.
type UpdateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"required,oneof=planned active completed archived"`
	StartDate   string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// AddMembersRequest represents a batch member-add request.
type AddMembersRequest struct {
	UserIDs []uint `json:"user_ids" validate:"required,min=1,dive,gte=1"`
}

// TaskRequest represents a task create or update request; both run the same
// assignee validation.
type TaskRequest struct {
	UserID      uint   `json:"user_id" validate:"required,gte=1"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high urgent"`
	Status      string `json:"status" validate:"required,oneof=todo inprogress review done"`
	DueDate     string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// ListProjects godoc
// @Summary List the manager's projects
// @Tags manager
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Router /manager/projects [get]
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	projects, err := h.projectService.ListProjects(c.Request().Context(), principalFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Projects loaded.", map[string][]ProjectView{
		"projects": newProjectListView(projects),
	})
}

// ProjectDetails godoc
// @Summary Get one project with members and ordered tasks
// @Tags manager
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project id"
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /manager/projects/{id} [get]
func (h *ProjectHandler) ProjectDetails(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	detail, err := h.projectService.ProjectDetails(c.Request().Context(), principalFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Project details loaded.", map[string]ProjectDetailView{
		"project": newProjectDetailView(detail),
	})
}

// CreateProject godoc
// @Summary Create a project
// @Tags manager
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProjectRequest true "Project data"
// @Success 201 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 422 {object} Envelope
// @Router /manager/projects [post]
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	var req CreateProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	project, err := h.projectService.CreateProject(c.Request().Context(), principalFrom(c), service.CreateProjectInput{
		ProjectInput: service.ProjectInput{
			Name:        req.Name,
			Description: req.Description,
			Status:      model.ProjectStatus(req.Status),
			StartDate:   parseDate(req.StartDate),
			EndDate:     parseDate(req.EndDate),
		},
		MemberIDs: req.MemberIDs,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Project created.", map[string]ProjectView{
		"project": newProjectView(*project),
	})
}

// UpdateProject godoc
// @Summary Update a project
// @Tags manager
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project id"
// @Param request body UpdateProjectRequest true "Project data"
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Failure 422 {object} Envelope
// @Router /manager/projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	project, err := h.projectService.UpdateProject(c.Request().Context(), principalFrom(c), id, service.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      model.ProjectStatus(req.Status),
		StartDate:   parseDate(req.StartDate),
		EndDate:     parseDate(req.EndDate),
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Project updated.", map[string]ProjectView{
		"project": newProjectView(*project),
	})
}

// DeleteProject godoc
// @Summary Delete a project and everything under it
// @Tags manager
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project id"
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /manager/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.projectService.DeleteProject(c.Request().Context(), principalFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Project deleted.", nil)
}

// ListMembers godoc
// @Summary List a project's members
// @Tags manager
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project id"
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /manager/projects/{id}/members [get]
func (h *ProjectHandler) ListMembers(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	members, err := h.projectService.ListMembers(c.Request().Context(), principalFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Project members loaded.", map[string][]UserView{
		"users": newUserViews(members),
	})
}

// AddMembers godoc
// @Summary Add members to a project
// @Tags manager
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project id"
// @Param request body AddMembersRequest true "User ids"
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Failure 422 {object} Envelope
// @Router /manager/projects/{id}/members [post]
func (h *ProjectHandler) AddMembers(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req AddMembersRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	members, err := h.projectService.AddMembers(c.Request().Context(), principalFrom(c), id, req.UserIDs)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Members added.", map[string][]UserView{
		"users": newUserViews(members),
	})
}

// RemoveMember godoc
// @Summary Remove a member from a project
// @Tags manager
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project id"
// @Param userId path int true "User id"
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Failure 409 {object} Envelope
// @Router /manager/projects/{id}/members/{userId} [delete]
func (h *ProjectHandler) RemoveMember(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}

	members, err := h.projectService.RemoveMember(c.Request().Context(), principalFrom(c), id, userID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Member removed from the project.", map[string][]UserView{
		"users": newUserViews(members),
	})
}

// CreateTask godoc
// @Summary Create a task on a project
// @Tags manager
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project id"
// @Param request body TaskRequest true "Task data"
// @Success 201 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Failure 422 {object} Envelope
// @Router /manager/projects/{id}/tasks [post]
func (h *ProjectHandler) CreateTask(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req TaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), principalFrom(c), id, taskInputFrom(req))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Task created.", map[string]TaskView{
		"task": newTaskView(*task),
	})
}

// UpdateTask godoc
// @Summary Update a task on a project
// @Tags manager
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project id"
// @Param taskId path int true "Task id"
// @Param request body TaskRequest true "Task data"
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Failure 422 {object} Envelope
// @Router /manager/projects/{id}/tasks/{taskId} [put]
func (h *ProjectHandler) UpdateTask(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	taskID, err := pathID(c, "taskId")
	if err != nil {
		return respondError(c, err)
	}

	var req TaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), principalFrom(c), id, taskID, taskInputFrom(req))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Task updated.", map[string]TaskView{
		"task": newTaskView(*task),
	})
}

// ProjectMetrics godoc
// @Summary Get task metrics for a project
// @Tags manager
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project id"
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /manager/projects/{id}/metrics [get]
func (h *ProjectHandler) ProjectMetrics(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	m, err := h.projectService.ProjectMetrics(c.Request().Context(), principalFrom(c), id, today)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Project metrics loaded.", map[string]interface{}{
		"metrics": m,
	})
}

func taskInputFrom(req TaskRequest) service.TaskInput {
	return service.TaskInput{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    model.TaskPriority(req.Priority),
		Status:      model.TaskStatus(req.Status),
		DueDate:     parseDate(req.DueDate),
	}
}
