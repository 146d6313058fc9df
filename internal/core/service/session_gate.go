package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerbook/debt-ledger/internal/core/domain"
	"github.com/ledgerbook/debt-ledger/internal/core/ports"
	"github.com/ledgerbook/debt-ledger/internal/pkg/metrics"
)

// SessionGate wraps the auth service and the revocation store. The identity of
// a request travels on its context; this type holds only the observer list.
type SessionGate struct {
	auth        ports.AuthService
	revocations ports.RevocationStore
	log         zerolog.Logger
	now         func() time.Time

	mu        sync.RWMutex
	observers map[uint64]func(ports.SessionChange)
	nextID    uint64
	publisher ports.SessionPublisher
}

func NewSessionGate(auth ports.AuthService, revocations ports.RevocationStore, log zerolog.Logger) *SessionGate {
	return &SessionGate{
		auth:        auth,
		revocations: revocations,
		log:         log,
		now:         time.Now,
		observers:   make(map[uint64]func(ports.SessionChange)),
	}
}

// UsePublisher routes session changes through p instead of delivering them
// inline. p is expected to call Deliver.
func (g *SessionGate) UsePublisher(p ports.SessionPublisher) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.publisher = p
}

// SignUp registers an account and signs it in.
func (g *SessionGate) SignUp(ctx context.Context, email, password string) (*ports.Session, error) {
	if _, err := g.auth.Register(ctx, email, password); err != nil {
		g.recordFailure(err)
		return nil, err
	}
	return g.SignIn(ctx, email, password)
}

func (g *SessionGate) SignIn(ctx context.Context, email, password string) (*ports.Session, error) {
	sess, err := g.auth.Login(ctx, email, password)
	if err != nil {
		g.recordFailure(err)
		return nil, err
	}

	g.log.Info().Str("user_id", sess.Identity.ID).Msg("signed in")
	g.publish(ports.SessionChange{
		Event:    ports.SessionSignedIn,
		Subject:  sess.Identity.ID,
		Identity: sess.Identity,
	})
	return sess, nil
}

// SignOut revokes the token described by claims for the rest of its lifetime.
func (g *SessionGate) SignOut(ctx context.Context, claims ports.TokenClaims) error {
	if claims.Identity.IsZero() || claims.TokenID == "" {
		return domain.ErrUnauthenticated
	}

	ttl := claims.ExpiresAt.Sub(g.now())
	if ttl > 0 {
		if err := g.revocations.Revoke(ctx, claims.TokenID, ttl); err != nil {
			return fmt.Errorf("sign out: %w", err)
		}
	}

	g.log.Info().Str("user_id", claims.Identity.ID).Msg("signed out")
	g.publish(ports.SessionChange{
		Event:   ports.SessionSignedOut,
		Subject: claims.Identity.ID,
	})
	return nil
}

// Authenticate verifies a bearer token and rejects revoked ones.
func (g *SessionGate) Authenticate(ctx context.Context, token string) (*ports.TokenClaims, error) {
	claims, err := g.auth.Verify(token)
	if err != nil {
		return nil, err
	}
	revoked, err := g.revocations.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}

func (g *SessionGate) CurrentIdentity(ctx context.Context) (domain.Identity, bool) {
	return domain.IdentityFromContext(ctx)
}

// OnSessionChange registers fn and returns a function that removes it.
func (g *SessionGate) OnSessionChange(fn func(ports.SessionChange)) func() {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.observers[id] = fn
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.observers, id)
			g.mu.Unlock()
		})
	}
}

// Deliver hands change to every current observer.
func (g *SessionGate) Deliver(change ports.SessionChange) {
	g.mu.RLock()
	fns := make([]func(ports.SessionChange), 0, len(g.observers))
	for _, fn := range g.observers {
		fns = append(fns, fn)
	}
	g.mu.RUnlock()

	metrics.SessionEventsTotal.WithLabelValues(string(change.Event)).Inc()
	for _, fn := range fns {
		fn(change)
	}
}

func (g *SessionGate) publish(change ports.SessionChange) {
	g.mu.RLock()
	p := g.publisher
	g.mu.RUnlock()

	if p != nil {
		p.Publish(change)
		return
	}
	g.Deliver(change)
}

func (g *SessionGate) recordFailure(err error) {
	reason := "error"
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		reason = "invalid_credentials"
	case errors.Is(err, domain.ErrAccountExists):
		reason = "account_exists"
	case errors.Is(err, domain.ErrInvalidInput):
		reason = "invalid_input"
	}
	metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
}
