package auth

import (
	"context"
	"time"

	"vlabgallery/internal/cache"
)

const deniedTokenKeyPrefix = "denylist:token:"

// TokenStoreInterface defines the interface for token revocation storage.
type TokenStoreInterface interface {
	DenyToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenDenied(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore keeps a short-lived denylist of revoked token IDs in Redis.
// Entries expire with the token itself, so the set stays small. Redis being
// unreachable fails open: a revoked token is then accepted until expiry,
// which matches the stateless-token design this store only softens.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// DenyToken marks a token ID as revoked until its natural expiry.
func (s *TokenStore) DenyToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired, nothing to deny
	}
	key := deniedTokenKeyPrefix + tokenID
	return s.cache.Set(ctx, key, []byte("1"), ttl)
}

// IsTokenDenied checks whether a token ID has been revoked.
func (s *TokenStore) IsTokenDenied(ctx context.Context, tokenID string) (bool, error) {
	key := deniedTokenKeyPrefix + tokenID
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return false, nil // fail open
	}
	return data != nil, nil
}
