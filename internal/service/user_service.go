package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskflow/internal/apperrors"
	"taskflow/internal/cache"
	"taskflow/internal/model"
	"taskflow/internal/policy"
	"taskflow/internal/repository"
)

// CreateUserInput carries the fields an administrator sets when creating a
// user. Unlike self-registration, the role is freely chosen.
type CreateUserInput struct {
	Name         string
	Email        string
	Password     string
	Role         model.Role
	ProfilePhoto *string
}

// UpdateUserInput carries the fields an administrator may change on a user.
// A nil Password leaves the credential untouched.
type UpdateUserInput struct {
	Name     string
	Email    string
	Role     model.Role
	Password *string
}

// UserService handles administrator user management.
type UserService interface {
	ListUsers(ctx context.Context, p *model.Principal) ([]model.User, error)
	CreateUser(ctx context.Context, p *model.Principal, input CreateUserInput) (*model.User, error)
	UpdateUser(ctx context.Context, p *model.Principal, id uint, input UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, p *model.Principal, id uint) error
}

type userService struct {
	userRepo repository.UserRepository
	cache    *cache.Client
}

// NewUserService creates a new user management service.
func NewUserService(userRepo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{userRepo: userRepo, cache: cache}
}

// ListUsers returns every user in the system, newest first.
func (s *userService) ListUsers(ctx context.Context, p *model.Principal) ([]model.User, error) {
	if err := policy.Authorize(p, model.RoleAdmin); err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateUser creates a user with an admin-chosen role.
func (s *userService) CreateUser(ctx context.Context, p *model.Principal, input CreateUserInput) (*model.User, error) {
	if err := policy.Authorize(p, model.RoleAdmin); err != nil {
		return nil, err
	}
	if err := s.checkEmailFree(ctx, input.Email, 0); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashed),
		Role:         input.Role,
		ProfilePhoto: input.ProfilePhoto,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// UpdateUser changes a user's name, email and role, optionally resetting the
// password.
func (s *userService) UpdateUser(ctx context.Context, p *model.Principal, id uint, input UpdateUserInput) (*model.User, error) {
	if err := policy.Authorize(p, model.RoleAdmin); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, userNotFound()
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := s.checkEmailFree(ctx, input.Email, user.ID); err != nil {
		return nil, err
	}

	user.Name = input.Name
	user.Email = input.Email
	user.Role = input.Role
	if input.Password != nil && *input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	_ = s.cache.Delete(ctx, principalCacheKey(user.ID))
	return user, nil
}

// DeleteUser removes a user. Self-deletion is blocked, and so is deleting a
// user who is still assigned to any task; authored comments, attachments and
// membership rows cascade.
func (s *userService) DeleteUser(ctx context.Context, p *model.Principal, id uint) error {
	if err := policy.Authorize(p, model.RoleAdmin); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return userNotFound()
		}
		return fmt.Errorf("load user: %w", err)
	}
	if err := policy.CheckSelfDelete(p, user.ID); err != nil {
		return err
	}

	assigned, err := s.userRepo.CountAssignedTasks(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("count assigned tasks: %w", err)
	}
	if assigned > 0 {
		return apperrors.Conflict("Deletion is not allowed.", "user", "The user is assigned to existing tasks.")
	}

	if err := s.userRepo.DeleteCascade(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	_ = s.cache.Delete(ctx, principalCacheKey(user.ID))
	return nil
}

func (s *userService) checkEmailFree(ctx context.Context, email string, selfID uint) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check email: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return apperrors.Validation("The data is not valid.", apperrors.FieldErrors{
			"email": {"The email is already taken."},
		})
	}
	return nil
}

func userNotFound() *apperrors.Error {
	return apperrors.NotFound("User not found.", "user", "No user exists with the given id.")
}
