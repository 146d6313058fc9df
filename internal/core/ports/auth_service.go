package ports

import (
	"context"
	"time"

	"github.com/ledgerbook/debt-ledger/internal/core/domain"
)

// Session is the result of a successful sign-up or sign-in.
type Session struct {
	Token     string          `json:"token"`
	TokenID   string          `json:"-"`
	Identity  domain.Identity `json:"identity"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// TokenClaims is the verified content of a session token.
type TokenClaims struct {
	Identity  domain.Identity
	TokenID   string
	ExpiresAt time.Time
}

// AuthService registers accounts and issues and verifies session tokens.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Verify(token string) (*TokenClaims, error)
}

// RevocationStore remembers signed-out tokens until they would have expired.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
