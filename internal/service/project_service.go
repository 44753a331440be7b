package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskflow/internal/apperrors"
	"taskflow/internal/metrics"
	"taskflow/internal/model"
	"taskflow/internal/policy"
	"taskflow/internal/repository"
)

// ProjectInput carries the mutable fields of a project.
type ProjectInput struct {
	Name        string
	Description string
	Status      model.ProjectStatus
	StartDate   *time.Time
	EndDate     *time.Time
}

// CreateProjectInput additionally carries the optional initial member list.
type CreateProjectInput struct {
	ProjectInput
	MemberIDs []uint
}

// ProjectDetail is the full projection of one project: the project row, its
// members and its tasks in listing order. Chosen explicitly by the caller;
// there is no conditional inclusion of relations.
type ProjectDetail struct {
	Project model.Project
	Members []model.User
	Tasks   []model.Task
}

// ProjectService handles the manager's project surface. Every operation
// resolves the project through the principal's membership first: a project
// outside the manager's scope is reported as not found, never as forbidden.
type ProjectService interface {
	ListProjects(ctx context.Context, p *model.Principal) ([]repository.ProjectWithTaskCount, error)
	ProjectDetails(ctx context.Context, p *model.Principal, projectID uint) (*ProjectDetail, error)
	CreateProject(ctx context.Context, p *model.Principal, input CreateProjectInput) (*model.Project, error)
	UpdateProject(ctx context.Context, p *model.Principal, projectID uint, input ProjectInput) (*model.Project, error)
	DeleteProject(ctx context.Context, p *model.Principal, projectID uint) error
	ListMembers(ctx context.Context, p *model.Principal, projectID uint) ([]model.User, error)
	AddMembers(ctx context.Context, p *model.Principal, projectID uint, userIDs []uint) ([]model.User, error)
	RemoveMember(ctx context.Context, p *model.Principal, projectID, userID uint) ([]model.User, error)
	ProjectMetrics(ctx context.Context, p *model.Principal, projectID uint, asOf time.Time) (*metrics.ProjectMetrics, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new project service.
func NewProjectService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, userRepo repository.UserRepository) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
	}
}

// resolveProject returns the project only when the manager holds a
// membership row for it. Anything else, including an existing project the
// manager cannot see, is the same NotFound outcome.
func (s *projectService) resolveProject(ctx context.Context, p *model.Principal, projectID uint) (*model.Project, error) {
	project, err := s.projectRepo.FindByIDForMember(ctx, projectID, p.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, projectNotFound()
		}
		return nil, fmt.Errorf("load project: %w", err)
	}
	return project, nil
}

// ListProjects returns the manager's projects, most recently updated first.
func (s *projectService) ListProjects(ctx context.Context, p *model.Principal) ([]repository.ProjectWithTaskCount, error) {
	if err := policy.Authorize(p, model.RoleManager); err != nil {
		return nil, err
	}
	projects, err := s.projectRepo.ListForMember(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// ProjectDetails returns one project with its members and ordered tasks.
func (s *projectService) ProjectDetails(ctx context.Context, p *model.Principal, projectID uint) (*ProjectDetail, error) {
	if err := policy.Authorize(p, model.RoleManager); err != nil {
		return nil, err
	}
	project, err := s.resolveProject(ctx, p, projectID)
	if err != nil {
		return nil, err
	}

	members, err := s.projectRepo.ListMembers(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	tasks, err := s.taskRepo.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	policy.SortTasks(tasks)

	return &ProjectDetail{Project: *project, Members: members, Tasks: tasks}, nil
}

// CreateProject creates a project and its membership rows in one
// transaction. The acting manager always becomes a member; optional initial
// members are screened like any member-add batch.
func (s *projectService) CreateProject(ctx context.Context, p *model.Principal, input CreateProjectInput) (*model.Project, error) {
	if err := policy.Authorize(p, model.RoleManager); err != nil {
		return nil, err
	}
	if err := validateDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.ProjectStatusActive
	}

	memberIDs := policy.FilterSelf(p.ID, input.MemberIDs)
	if len(memberIDs) > 0 {
		users, err := s.loadExistingUsers(ctx, memberIDs, "member_ids")
		if err != nil {
			return nil, err
		}
		if err := policy.ScreenNewMembers(users); err != nil {
			return nil, err
		}
	}

	project := &model.Project{
		Name:        input.Name,
		Description: input.Description,
		Status:      status,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	if err := s.projectRepo.CreateWithMembers(ctx, project, p.ID, memberIDs); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

// UpdateProject updates a project the manager belongs to.
func (s *projectService) UpdateProject(ctx context.Context, p *model.Principal, projectID uint, input ProjectInput) (*model.Project, error) {
	if err := policy.Authorize(p, model.RoleManager); err != nil {
		return nil, err
	}
	project, err := s.resolveProject(ctx, p, projectID)
	if err != nil {
		return nil, err
	}
	if err := validateDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	project.Name = input.Name
	project.Description = input.Description
	project.Status = input.Status
	project.StartDate = input.StartDate
	project.EndDate = input.EndDate

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return project, nil
}

// DeleteProject removes a project the manager belongs to, cascading its
// tasks, their comments and attachments, and all membership rows.
func (s *projectService) DeleteProject(ctx context.Context, p *model.Principal, projectID uint) error {
	if err := policy.Authorize(p, model.RoleManager); err != nil {
		return err
	}
	project, err := s.resolveProject(ctx, p, projectID)
	if err != nil {
		return err
	}
	if err := s.projectRepo.DeleteCascade(ctx, project.ID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// ListMembers returns a project's members.
func (s *projectService) ListMembers(ctx context.Context, p *model.Principal, projectID uint) ([]model.User, error) {
	if err := policy.Authorize(p, model.RoleManager); err != nil {
		return nil, err
	}
	project, err := s.resolveProject(ctx, p, projectID)
	if err != nil {
		return nil, err
	}
	members, err := s.projectRepo.ListMembers(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// AddMembers adds users to a project. Any administrator in the batch aborts
// the whole request; the acting manager's own id is silently dropped; users
// already on the project are skipped rather than duplicated.
func (s *projectService) AddMembers(ctx context.Context, p *model.Principal, projectID uint, userIDs []uint) ([]model.User, error) {
	if err := policy.Authorize(p, model.RoleManager); err != nil {
		return nil, err
	}
	project, err := s.resolveProject(ctx, p, projectID)
	if err != nil {
		return nil, err
	}

	users, err := s.loadExistingUsers(ctx, dedupe(userIDs), "user_ids")
	if err != nil {
		return nil, err
	}
	if err := policy.ScreenNewMembers(users); err != nil {
		return nil, err
	}

	ids := policy.FilterSelf(p.ID, userIDs)
	if err := s.projectRepo.AddMembers(ctx, project.ID, ids); err != nil {
		return nil, fmt.Errorf("add members: %w", err)
	}

	members, err := s.projectRepo.ListMembers(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// RemoveMember removes a user from a project. Removing yourself is a
// conflict; removing someone who is not a member is not found.
func (s *projectService) RemoveMember(ctx context.Context, p *model.Principal, projectID, userID uint) ([]model.User, error) {
	if err := policy.Authorize(p, model.RoleManager); err != nil {
		return nil, err
	}
	project, err := s.resolveProject(ctx, p, projectID)
	if err != nil {
		return nil, err
	}
	if err := policy.CheckSelfRemove(p, userID); err != nil {
		return nil, err
	}

	isMember, err := s.projectRepo.IsMember(ctx, project.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !isMember {
		return nil, apperrors.NotFound("The user is not a project member.", "user", "The user with the given id is not a member of the project.")
	}

	if err := s.projectRepo.RemoveMember(ctx, project.ID, userID); err != nil {
		return nil, fmt.Errorf("remove member: %w", err)
	}

	members, err := s.projectRepo.ListMembers(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// ProjectMetrics recomputes the project's task metrics as of the given date.
func (s *projectService) ProjectMetrics(ctx context.Context, p *model.Principal, projectID uint, asOf time.Time) (*metrics.ProjectMetrics, error) {
	if err := policy.Authorize(p, model.RoleManager); err != nil {
		return nil, err
	}
	project, err := s.resolveProject(ctx, p, projectID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	m := metrics.Compute(tasks, asOf)
	return &m, nil
}

// loadExistingUsers loads the given ids and fails with a field-level
// validation error when any of them does not exist.
func (s *projectService) loadExistingUsers(ctx context.Context, ids []uint, field string) ([]model.User, error) {
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if len(users) != len(ids) {
		return nil, apperrors.Validation("Some users cannot be added.", apperrors.FieldErrors{
			field: {"Some of the selected users do not exist."},
		})
	}
	return users, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func validateDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return apperrors.Validation("The data is not valid.", apperrors.FieldErrors{
			"end_date": {"The end date must be on or after the start date."},
		})
	}
	return nil
}

func projectNotFound() *apperrors.Error {
	return apperrors.NotFound("Project not found.", "project", "The project does not exist or you have no access.")
}
