package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/ledgerbook/debt-ledger/internal/api/handler"
	"github.com/ledgerbook/debt-ledger/internal/api/middleware"
	"github.com/ledgerbook/debt-ledger/internal/core/ports"
)

// Dependencies are the services the router exposes over HTTP.
type Dependencies struct {
	Ledger ports.LedgerService
	Gate   ports.SessionGate
	Checks map[string]handler.Checker
	Log    zerolog.Logger
	// Registerer receives the HTTP metrics; nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "ledger",
		Registerer: deps.Registerer,
	}))

	authHandler := handler.NewAuthHandler(deps.Gate)
	personHandler := handler.NewPersonHandler(deps.Ledger)
	txHandler := handler.NewTransactionHandler(deps.Ledger)
	healthHandler := handler.NewHealthHandler(deps.Checks)
	requireAuth := middleware.Auth(deps.Gate)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.SignUp)
	e.POST("/auth/signin", authHandler.SignIn)
	e.POST("/auth/signout", authHandler.SignOut, requireAuth)
	e.GET("/auth/me", authHandler.Me, requireAuth)

	// --- Ledger routes ---
	v1 := e.Group("/v1", requireAuth)

	v1.GET("/people", personHandler.List)
	v1.POST("/people", personHandler.Create)
	v1.GET("/people/:id", personHandler.Get)
	v1.PATCH("/people/:id", personHandler.Update)
	v1.DELETE("/people/:id", personHandler.Delete)
	v1.GET("/people/:id/transactions", personHandler.Transactions)
	v1.GET("/people/:id/balance", personHandler.Balance)

	v1.GET("/transactions", txHandler.List)
	v1.POST("/transactions", txHandler.Create)
	v1.GET("/transactions/:id", txHandler.Get)
	v1.PATCH("/transactions/:id", txHandler.Update)
	v1.DELETE("/transactions/:id", txHandler.Delete)
	v1.POST("/transactions/:id/settle", txHandler.Settle)

	v1.GET("/summary", txHandler.Summary)

	// --- Operations (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
