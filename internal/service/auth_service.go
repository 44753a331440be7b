package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskflow/internal/apperrors"
	"taskflow/internal/auth"
	"taskflow/internal/cache"
	"taskflow/internal/model"
	"taskflow/internal/repository"
)

const (
	bcryptCost        = 10
	principalCacheTTL = 5 * time.Minute
)

// AuthService handles registration, login and the current user's profile.
type AuthService interface {
	Register(ctx context.Context, name, email, password string, profilePhoto *string) (*model.User, string, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, string, error)
	Logout(ctx context.Context, userID uint, accessTokenID string) error
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	UpdateProfile(ctx context.Context, p *model.Principal, name string, profilePhoto *string) (*model.User, error)
	ResolvePrincipal(ctx context.Context, claims *auth.Claims) (*model.Principal, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	cache      *cache.Client
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, cache *cache.Client) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		cache:      cache,
	}
}

func principalCacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// Register creates a specialist account. Self-registration never grants any
// other role; only an administrator can create managers or admins.
func (s *authService) Register(ctx context.Context, name, email, password string, profilePhoto *string) (*model.User, string, string, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, "", "", fmt.Errorf("check user existence: %w", err)
	}
	if existing != nil {
		return nil, "", "", apperrors.Validation("Registration failed.", apperrors.FieldErrors{
			"email": {"The email is already taken."},
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         model.RoleSpecialist,
		ProfilePhoto: profilePhoto,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", "", fmt.Errorf("create user: %w", err)
	}

	accessToken, refreshToken, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, "", "", err
	}
	return user, accessToken, refreshToken, nil
}

// Login authenticates by email and password and issues a fresh token pair.
// Issuing replaces any previously stored refresh token, so a user has at
// most one live session.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, string, error) {
	failure := &apperrors.Error{
		Status:  http.StatusUnauthorized,
		Message: "Login failed.",
		Fields:  apperrors.FieldErrors{"auth": {"Incorrect email or password."}},
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", "", failure
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", failure
	}

	accessToken, refreshToken, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, "", "", err
	}
	return user, accessToken, refreshToken, nil
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (string, string, error) {
	_, accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return "", "", fmt.Errorf("generate access token: %w", err)
	}
	refreshID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.tokenStore.StoreRefreshToken(ctx, user.ID, refreshID, auth.RefreshTokenExpiry); err != nil {
		return "", "", fmt.Errorf("store refresh token: %w", err)
	}
	return accessToken, refreshToken, nil
}

// Logout revokes the current access token and drops the stored refresh token.
func (s *authService) Logout(ctx context.Context, userID uint, accessTokenID string) error {
	if accessTokenID != "" {
		if err := s.tokenStore.BlacklistAccessToken(ctx, accessTokenID, auth.AccessTokenExpiry); err != nil {
			return fmt.Errorf("blacklist access token: %w", err)
		}
	}
	return s.tokenStore.DeleteRefreshToken(ctx, userID)
}

// RefreshToken exchanges a valid, current refresh token for a new access
// token. A token superseded by a later login is rejected.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	invalid := &apperrors.Error{
		Status:  http.StatusUnauthorized,
		Message: "Session expired.",
		Fields:  apperrors.FieldErrors{"auth": {"Invalid or expired refresh token."}},
	}

	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", invalid
	}
	storedID, err := s.tokenStore.GetRefreshTokenID(ctx, claims.UserID)
	if err != nil || storedID != claims.ID {
		return "", invalid
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", invalid
	}
	_, accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// UpdateProfile lets any authenticated user change their own name and,
// optionally, profile photo. Role and email stay admin-only.
func (s *authService) UpdateProfile(ctx context.Context, p *model.Principal, name string, profilePhoto *string) (*model.User, error) {
	if p == nil {
		return nil, apperrors.Unauthenticated()
	}

	user, err := s.userRepo.FindByID(ctx, p.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.Unauthenticated()
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	user.Name = name
	if profilePhoto != nil {
		user.ProfilePhoto = profilePhoto
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	_ = s.cache.Delete(ctx, principalCacheKey(user.ID))
	return user, nil
}

// ResolvePrincipal turns validated token claims into the acting principal.
// Revoked tokens resolve to nothing, and the role comes from the stored user
// (cached briefly), not from the token, so role changes take effect within
// the cache TTL.
func (s *authService) ResolvePrincipal(ctx context.Context, claims *auth.Claims) (*model.Principal, error) {
	if claims == nil {
		return nil, nil
	}
	if blacklisted, _ := s.tokenStore.IsAccessTokenBlacklisted(ctx, claims.ID); blacklisted {
		return nil, nil
	}

	if data, _ := s.cache.Get(ctx, principalCacheKey(claims.UserID)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &model.Principal{ID: cached.ID, Role: cached.Role}, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, principalCacheKey(user.ID), payload, principalCacheTTL)
	}
	return &model.Principal{ID: user.ID, Role: user.Role}, nil
}
