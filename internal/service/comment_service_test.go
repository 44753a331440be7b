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

func TestCommentService_AddComment(t *testing.T) {
	t.Run("comment on an own task", func(t *testing.T) {
		commentRepo := new(MockCommentRepository)
		taskRepo := new(MockTaskRepository)
		userRepo := new(MockUserRepository)

		task := &model.Task{ID: 20, UserID: 4}
		taskRepo.On("FindByIDForAssignee", mock.Anything, uint(20), uint(4)).Return(task, nil)
		commentRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Comment")).Return(nil)
		userRepo.On("FindByID", mock.Anything, uint(4)).Return(&model.User{ID: 4, Name: "Ivan"}, nil)

		service := NewCommentService(commentRepo, taskRepo, userRepo)
		comment, err := service.AddComment(context.Background(), specialistPrincipal, 20, "Looks good.")

		assert.NoError(t, err)
		assert.Equal(t, uint(20), comment.TaskID)
		assert.Equal(t, uint(4), comment.UserID)
		assert.Equal(t, "Ivan", comment.User.Name)
	})

	t.Run("someone else's task is not found", func(t *testing.T) {
		commentRepo := new(MockCommentRepository)
		taskRepo := new(MockTaskRepository)
		taskRepo.On("FindByIDForAssignee", mock.Anything, uint(20), uint(4)).Return(nil, gorm.ErrRecordNotFound)

		service := NewCommentService(commentRepo, taskRepo, new(MockUserRepository))
		_, err := service.AddComment(context.Background(), specialistPrincipal, 20, "Hello")

		assert.Equal(t, http.StatusNotFound, apperrors.From(err).Status)
		commentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCommentService_DeleteComment(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockCommentRepository, *MockTaskRepository)
		expectedStatus int
	}{
		{
			name: "author deletes own comment on own task",
			setupMock: func(commentRepo *MockCommentRepository, taskRepo *MockTaskRepository) {
				commentRepo.On("FindByID", mock.Anything, uint(30)).Return(&model.Comment{ID: 30, TaskID: 20, UserID: 4}, nil)
				taskRepo.On("FindByID", mock.Anything, uint(20)).Return(&model.Task{ID: 20, UserID: 4}, nil)
				commentRepo.On("Delete", mock.Anything, uint(30)).Return(nil)
			},
		},
		{
			name: "missing comment",
			setupMock: func(commentRepo *MockCommentRepository, taskRepo *MockTaskRepository) {
				commentRepo.On("FindByID", mock.Anything, uint(30)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "someone else's comment",
			setupMock: func(commentRepo *MockCommentRepository, taskRepo *MockTaskRepository) {
				commentRepo.On("FindByID", mock.Anything, uint(30)).Return(&model.Comment{ID: 30, TaskID: 20, UserID: 7}, nil)
				taskRepo.On("FindByID", mock.Anything, uint(20)).Return(&model.Task{ID: 20, UserID: 4}, nil)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "task reassigned since the comment was written",
			setupMock: func(commentRepo *MockCommentRepository, taskRepo *MockTaskRepository) {
				commentRepo.On("FindByID", mock.Anything, uint(30)).Return(&model.Comment{ID: 30, TaskID: 20, UserID: 4}, nil)
				// Authored by the principal, but the task now belongs to
				// someone else; authorship alone is not enough.
				taskRepo.On("FindByID", mock.Anything, uint(20)).Return(&model.Task{ID: 20, UserID: 7}, nil)
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commentRepo := new(MockCommentRepository)
			taskRepo := new(MockTaskRepository)
			tt.setupMock(commentRepo, taskRepo)

			service := NewCommentService(commentRepo, taskRepo, new(MockUserRepository))
			err := service.DeleteComment(context.Background(), specialistPrincipal, 30)

			if tt.expectedStatus != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedStatus, apperrors.From(err).Status)
			} else {
				assert.NoError(t, err)
			}

			commentRepo.AssertExpectations(t)
			taskRepo.AssertExpectations(t)
		})
	}
}
