package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ledgerbook/debt-ledger/internal/core/domain"
)

// RevocationStore remembers signed-out token ids until the token would have
// expired on its own.
// Key format: revoked:<token_id>
type RevocationStore struct {
	client *redis.Client
}

// NewRevocationStore creates a RevocationStore wrapping the given Redis client.
func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client}
}

// Revoke marks the token id as revoked for ttl.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revocationKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: revoke token: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether the token id has been signed out.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revocationKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: revocation check: %v", domain.ErrStoreUnavailable, err)
	}
	return n > 0, nil
}

func revocationKey(tokenID string) string {
	return "revoked:" + tokenID
}
