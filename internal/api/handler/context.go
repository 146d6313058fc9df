package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ledgerbook/debt-ledger/internal/core/domain"
	"github.com/ledgerbook/debt-ledger/internal/core/ports"
)

// Context keys set by the Auth middleware.
const (
	ContextIdentity = "identity"
	ContextClaims   = "claims"
)

// ctxIdentity returns the identity injected by the Auth middleware. A missing
// identity means the route was reached without the middleware.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, _ := c.Get(ContextIdentity).(domain.Identity)
	if id.IsZero() {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return id, nil
}

func ctxClaims(c echo.Context) (ports.TokenClaims, error) {
	claims, _ := c.Get(ContextClaims).(ports.TokenClaims)
	if claims.Identity.IsZero() {
		return ports.TokenClaims{}, domain.ErrUnauthenticated
	}
	return claims, nil
}

// bind decodes the request body, reporting malformed payloads as 400.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return nil
}
