package auth

import (
	"context"
	"fmt"
	"time"

	"taskflow/internal/cache"
)

const (
	refreshTokenKeyPrefix = "refresh_token:user:"
	accessTokenKeyPrefix  = "blacklist:access_token:"
)

// TokenStoreInterface defines the interface for token storage operations.
// Refresh tokens are keyed by user, so issuing a new one replaces the old:
// one live session per user.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, userID uint, tokenID string, ttl time.Duration) error
	GetRefreshTokenID(ctx context.Context, userID uint) (string, error)
	DeleteRefreshToken(ctx context.Context, userID uint) error
	BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore handles storage and retrieval of tokens in Redis.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// StoreRefreshToken stores the id of a user's current refresh token with TTL,
// overwriting any previously issued one.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, userID uint, tokenID string, ttl time.Duration) error {
	key := fmt.Sprintf("%s%d", refreshTokenKeyPrefix, userID)
	return s.cache.Set(ctx, key, []byte(tokenID), ttl)
}

// GetRefreshTokenID returns the id of the user's current refresh token.
func (s *TokenStore) GetRefreshTokenID(ctx context.Context, userID uint) (string, error) {
	key := fmt.Sprintf("%s%d", refreshTokenKeyPrefix, userID)
	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		return "", fmt.Errorf("refresh token not found")
	}
	return string(data), nil
}

// DeleteRefreshToken removes the user's refresh token from Redis.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, userID uint) error {
	key := fmt.Sprintf("%s%d", refreshTokenKeyPrefix, userID)
	return s.cache.Delete(ctx, key)
}

// BlacklistAccessToken adds an access token to the blacklist until it expires.
func (s *TokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	key := accessTokenKeyPrefix + tokenID
	// Store a simple marker
	return s.cache.Set(ctx, key, []byte("1"), ttl)
}

// IsAccessTokenBlacklisted reports whether an access token has been revoked.
func (s *TokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	key := accessTokenKeyPrefix + tokenID
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}
