package ports

import (
	"context"

	"github.com/ledgerbook/debt-ledger/internal/core/domain"
)

// SessionEvent names a session state change.
type SessionEvent string

const (
	SessionSignedIn  SessionEvent = "signed_in"
	SessionSignedOut SessionEvent = "signed_out"
)

// SessionChange is delivered to session observers.
// Identity is the zero value after sign-out; Subject always names the account.
type SessionChange struct {
	Event    SessionEvent
	Subject  string
	Identity domain.Identity
}

// SessionPublisher delivers session changes, possibly asynchronously.
type SessionPublisher interface {
	Publish(change SessionChange)
}

// SessionGate wraps authentication and exposes session state to callers.
type SessionGate interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, claims TokenClaims) error
	// Authenticate verifies a bearer token and rejects revoked ones.
	Authenticate(ctx context.Context, token string) (*TokenClaims, error)
	CurrentIdentity(ctx context.Context) (domain.Identity, bool)
	OnSessionChange(fn func(SessionChange)) (unsubscribe func())
}
