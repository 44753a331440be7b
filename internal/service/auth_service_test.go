package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskflow/internal/apperrors"
	"taskflow/internal/auth"
	"taskflow/internal/model"
)

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name           string
		email          string
		password       string
		nameField      string
		setupMock      func(*MockUserRepository, *MockTokenStore)
		expectedStatus int
	}{
		{
			name:      "successful registration",
			email:     "new@example.com",
			password:  "password123",
			nameField: "New User",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				mRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:      "email already taken",
			email:     "existing@example.com",
			password:  "password123",
			nameField: "Existing User",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			jwtService := auth.NewJWTService("test-secret")
			service := NewAuthService(mockRepo, jwtService, mockTokenStore, nil)

			user, accessToken, refreshToken, err := service.Register(context.Background(), tt.nameField, tt.email, tt.password, nil)

			if tt.expectedStatus != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedStatus, apperrors.From(err).Status)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, model.RoleSpecialist, user.Role)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)

	tests := []struct {
		name       string
		email      string
		password   string
		setupMock  func(*MockUserRepository, *MockTokenStore)
		expectFail bool
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				user := &model.User{ID: 4, Email: "test@example.com", PasswordHash: string(hashedPassword), Role: model.RoleManager}
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)
				mToken.On("StoreRefreshToken", mock.Anything, uint(4), mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:     "unknown email",
			email:    "missing@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "missing@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectFail: true,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "nope",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				user := &model.User{ID: 4, Email: "test@example.com", PasswordHash: string(hashedPassword)}
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)
			},
			expectFail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			jwtService := auth.NewJWTService("test-secret")
			service := NewAuthService(mockRepo, jwtService, mockTokenStore, nil)

			user, accessToken, refreshToken, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectFail {
				assert.Error(t, err)
				appErr := apperrors.From(err)
				// Both failure modes yield the same answer so the caller
				// cannot probe which emails exist.
				assert.Equal(t, http.StatusUnauthorized, appErr.Status)
				assert.Equal(t, "Login failed.", appErr.Message)
				assert.Nil(t, user)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	refreshID, refreshToken, err := jwtService.GenerateRefreshToken(9, model.RoleSpecialist)
	assert.NoError(t, err)

	t.Run("current token is accepted", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshTokenID", mock.Anything, uint(9)).Return(refreshID, nil)
		mockRepo.On("FindByID", mock.Anything, uint(9)).Return(&model.User{ID: 9, Role: model.RoleSpecialist}, nil)

		service := NewAuthService(mockRepo, jwtService, mockTokenStore, nil)
		accessToken, err := service.RefreshToken(context.Background(), refreshToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
	})

	t.Run("token superseded by a later login is rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshTokenID", mock.Anything, uint(9)).Return("another-token-id", nil)

		service := NewAuthService(mockRepo, jwtService, mockTokenStore, nil)
		accessToken, err := service.RefreshToken(context.Background(), refreshToken)

		assert.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, apperrors.From(err).Status)
		assert.Empty(t, accessToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		service := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore), nil)
		accessToken, err := service.RefreshToken(context.Background(), "not-a-jwt")

		assert.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, apperrors.From(err).Status)
		assert.Empty(t, accessToken)
	})
}

func TestAuthService_ResolvePrincipal(t *testing.T) {
	claims := &auth.Claims{UserID: 3, Role: model.RoleSpecialist}
	claims.ID = "token-id"

	t.Run("role comes from the stored user, not the token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("IsAccessTokenBlacklisted", mock.Anything, "token-id").Return(false, nil)
		mockRepo.On("FindByID", mock.Anything, uint(3)).Return(&model.User{ID: 3, Role: model.RoleManager}, nil)

		service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), mockTokenStore, nil)
		p, err := service.ResolvePrincipal(context.Background(), claims)

		assert.NoError(t, err)
		assert.NotNil(t, p)
		assert.Equal(t, uint(3), p.ID)
		assert.Equal(t, model.RoleManager, p.Role)
	})

	t.Run("blacklisted token resolves to no principal", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("IsAccessTokenBlacklisted", mock.Anything, "token-id").Return(true, nil)

		service := NewAuthService(new(MockUserRepository), auth.NewJWTService("test-secret"), mockTokenStore, nil)
		p, err := service.ResolvePrincipal(context.Background(), claims)

		assert.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("deleted user resolves to no principal", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("IsAccessTokenBlacklisted", mock.Anything, "token-id").Return(false, nil)
		mockRepo.On("FindByID", mock.Anything, uint(3)).Return(nil, gorm.ErrRecordNotFound)

		service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), mockTokenStore, nil)
		p, err := service.ResolvePrincipal(context.Background(), claims)

		assert.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestAuthService_Logout(t *testing.T) {
	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("BlacklistAccessToken", mock.Anything, "token-id", auth.AccessTokenExpiry).Return(nil)
	mockTokenStore.On("DeleteRefreshToken", mock.Anything, uint(6)).Return(nil)

	service := NewAuthService(new(MockUserRepository), auth.NewJWTService("test-secret"), mockTokenStore, nil)
	err := service.Logout(context.Background(), 6, "token-id")

	assert.NoError(t, err)
	mockTokenStore.AssertExpectations(t)
}
