package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"taskflow/internal/apperrors"
	"taskflow/internal/model"
)

var adminPrincipal = &model.Principal{ID: 1, Role: model.RoleAdmin}

func TestUserService_CreateUser(t *testing.T) {
	tests := []struct {
		name           string
		principal      *model.Principal
		input          CreateUserInput
		setupMock      func(*MockUserRepository)
		expectedStatus int
	}{
		{
			name:      "admin creates a manager",
			principal: adminPrincipal,
			input:     CreateUserInput{Name: "Marko", Email: "marko@example.com", Password: "secret1", Role: model.RoleManager},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "marko@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:           "manager cannot create users",
			principal:      &model.Principal{ID: 2, Role: model.RoleManager},
			input:          CreateUserInput{Email: "x@example.com"},
			setupMock:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:      "email already taken",
			principal: adminPrincipal,
			input:     CreateUserInput{Name: "Dup", Email: "taken@example.com", Password: "secret1", Role: model.RoleSpecialist},
			setupMock: func(m *MockUserRepository) {
				taken := &model.User{ID: 7, Email: "taken@example.com"}
				m.On("FindByEmail", mock.Anything, "taken@example.com").Return(taken, nil)
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewUserService(mockRepo, nil)
			user, err := service.CreateUser(context.Background(), tt.principal, tt.input)

			if tt.expectedStatus != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedStatus, apperrors.From(err).Status)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.input.Role, user.Role)
				assert.NotEmpty(t, user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_UpdateUser(t *testing.T) {
	t.Run("keeping your own email is not a collision", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		existing := &model.User{ID: 5, Name: "Old", Email: "same@example.com", Role: model.RoleSpecialist, PasswordHash: "hash"}
		mockRepo.On("FindByID", mock.Anything, uint(5)).Return(existing, nil)
		mockRepo.On("FindByEmail", mock.Anything, "same@example.com").Return(existing, nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		service := NewUserService(mockRepo, nil)
		user, err := service.UpdateUser(context.Background(), adminPrincipal, 5, UpdateUserInput{
			Name:  "New Name",
			Email: "same@example.com",
			Role:  model.RoleManager,
		})

		assert.NoError(t, err)
		assert.Equal(t, "New Name", user.Name)
		assert.Equal(t, model.RoleManager, user.Role)
		// No password in the input leaves the credential untouched.
		assert.Equal(t, "hash", user.PasswordHash)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		service := NewUserService(mockRepo, nil)
		_, err := service.UpdateUser(context.Background(), adminPrincipal, 99, UpdateUserInput{Email: "x@example.com"})

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, apperrors.From(err).Status)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	tests := []struct {
		name           string
		targetID       uint
		setupMock      func(*MockUserRepository)
		expectedStatus int
		expectedDetail string
	}{
		{
			name:     "successful deletion cascades",
			targetID: 8,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(8)).Return(&model.User{ID: 8}, nil)
				m.On("CountAssignedTasks", mock.Anything, uint(8)).Return(int64(0), nil)
				m.On("DeleteCascade", mock.Anything, uint(8)).Return(nil)
			},
		},
		{
			name:     "self-deletion is blocked",
			targetID: 1,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, Role: model.RoleAdmin}, nil)
			},
			expectedStatus: http.StatusConflict,
			expectedDetail: "You cannot delete your own account.",
		},
		{
			name:     "assigned tasks block deletion",
			targetID: 8,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(8)).Return(&model.User{ID: 8}, nil)
				m.On("CountAssignedTasks", mock.Anything, uint(8)).Return(int64(3), nil)
			},
			expectedStatus: http.StatusConflict,
			expectedDetail: "The user is assigned to existing tasks.",
		},
		{
			name:     "unknown user",
			targetID: 42,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(42)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewUserService(mockRepo, nil)
			err := service.DeleteUser(context.Background(), adminPrincipal, tt.targetID)

			if tt.expectedStatus != 0 {
				assert.Error(t, err)
				appErr := apperrors.From(err)
				assert.Equal(t, tt.expectedStatus, appErr.Status)
				if tt.expectedDetail != "" {
					assert.Equal(t, []string{tt.expectedDetail}, appErr.Fields["user"])
				}
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
