package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/ledgerbook/debt-ledger/docs"
	"github.com/ledgerbook/debt-ledger/internal/api"
	"github.com/ledgerbook/debt-ledger/internal/api/handler"
	"github.com/ledgerbook/debt-ledger/internal/core/ports"
	"github.com/ledgerbook/debt-ledger/internal/core/service"
	"github.com/ledgerbook/debt-ledger/internal/infrastructure/config"
	mongodb "github.com/ledgerbook/debt-ledger/internal/infrastructure/db/mongo"
	redisdb "github.com/ledgerbook/debt-ledger/internal/infrastructure/db/redis"
	"github.com/ledgerbook/debt-ledger/internal/infrastructure/queue"
	"github.com/ledgerbook/debt-ledger/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "ledger-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:         cfg.Redis.Addr,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongodb.NewAuthRepository(db)
	people := mongodb.NewPersonRepository(db)
	transactions := mongodb.NewTransactionRepository(db)
	for name, ensure := range map[string]func(context.Context) error{
		"users":        users.EnsureIndexes,
		"people":       people.EnsureIndexes,
		"transactions": transactions.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Warn().Err(err).Str("collection", name).Msg("ensure indexes failed")
		}
	}

	auth := service.NewAuthService(users, cfg.JWTSecret, cfg.SessionTTL)
	gate := service.NewSessionGate(auth, redisdb.NewRevocationStore(rdb), logger.Component("session"))
	ledger := service.NewLedgerService(people, transactions, logger.Component("ledger"))

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.SessionWorkers, gate.Deliver, logger.Component("dispatcher"))
	dispatcher.Start(workerCtx)
	gate.UsePublisher(dispatcher)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	sessionLog := logger.Component("session")
	unsubscribe := gate.OnSessionChange(func(change ports.SessionChange) {
		sessionLog.Info().
			Str("event", string(change.Event)).
			Str("user_id", change.Subject).
			Msg("session changed")
	})
	defer unsubscribe()

	e := api.NewRouter(api.Dependencies{
		Ledger: ledger,
		Gate:   gate,
		Checks: map[string]handler.Checker{
			"mongodb": func(ctx context.Context) error { return mongodb.Ping(ctx, client) },
			"redis":   func(ctx context.Context) error { return redisdb.Ping(ctx, rdb) },
		},
		Log: logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
