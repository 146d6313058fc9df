package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// SessionTTL is the lifetime of an issued token.
	SessionTTL time.Duration `env:"SESSION_TTL, default=720h"`
	// SessionWorkers is the number of session-change delivery workers.
	SessionWorkers int `env:"SESSION_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=debt_ledger"`
}

type RedisConfig struct {
	Addr         string        `env:"REDIS_ADDR,          default=localhost:6379"`
	DB           int           `env:"REDIS_DB,            default=0"`
	PoolSize     int           `env:"REDIS_POOL_SIZE,     default=10"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT,  default=5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT,  default=3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT, default=3s"`
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}

// Load reads an optional .env file and then the process environment.
// Variables already present in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return process(ctx, envconfig.OsLookuper())
}

func process(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
