package handler

import (
	"time"

	"github.com/ledgerbook/debt-ledger/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// --- Request / Response types ---

type credentialsRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      domain.Identity `json:"user"`
}

type settleRequest struct {
	Settled *bool `json:"settled" validate:"required"`
}

type idResponse struct {
	ID string `json:"id"`
}
