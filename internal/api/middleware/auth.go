package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ledgerbook/debt-ledger/internal/api/handler"
	"github.com/ledgerbook/debt-ledger/internal/core/domain"
	"github.com/ledgerbook/debt-ledger/internal/core/ports"
)

// Auth verifies the bearer token through the session gate and injects the
// identity into both the echo context and the request context.
func Auth(gate ports.SessionGate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			req := c.Request()
			claims, err := gate.Authenticate(req.Context(), parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrStoreUnavailable) {
					return err
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(handler.ContextIdentity, claims.Identity)
			c.Set(handler.ContextClaims, *claims)
			c.SetRequest(req.WithContext(domain.ContextWithIdentity(req.Context(), claims.Identity)))

			return next(c)
		}
	}
}
