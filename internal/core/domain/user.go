package domain

import (
	"context"
	"time"
)

// User is a stored account. The ID doubles as the owner key of every ledger record.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the authenticated principal as seen by the ledger.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// IsZero reports whether the identity carries no id.
func (i Identity) IsZero() bool {
	return i.ID == ""
}

// Identity returns the minimal profile of u.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email}
}

type identityKey struct{}

// ContextWithIdentity returns a copy of ctx carrying id.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored by ContextWithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.IsZero() {
		return Identity{}, false
	}
	return id, true
}
