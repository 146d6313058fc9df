package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ledgerbook/debt-ledger/internal/core/domain"
)

func TestConfig_Options(t *testing.T) {
	opts := Config{
		Addr:         "cache:6379",
		DB:           2,
		PoolSize:     20,
		DialTimeout:  time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 3 * time.Second,
	}.options()

	if opts.Addr != "cache:6379" || opts.DB != 2 || opts.PoolSize != 20 {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.DialTimeout != time.Second || opts.ReadTimeout != 2*time.Second || opts.WriteTimeout != 3*time.Second {
		t.Fatalf("unexpected timeouts %+v", opts)
	}
}

func TestConnect_UnreachableIsStoreUnavailable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
