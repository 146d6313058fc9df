package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ledgerbook/debt-ledger/internal/core/domain"
)

const defaultTimeout = 5 * time.Second

// Config holds the connection settings of the revocation store.
// Zero durations and sizes fall back to go-redis defaults.
type Config struct {
	Addr         string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (cfg Config) options() *redis.Options {
	return &redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// Connect opens a client and pings it. A failed ping closes the client and
// reports ErrStoreUnavailable.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(cfg.options())
	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Ping reports whether Redis answers within defaultTimeout.
func Ping(ctx context.Context, client *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: redis ping %s: %v", domain.ErrStoreUnavailable, client.Options().Addr, err)
	}
	return nil
}
