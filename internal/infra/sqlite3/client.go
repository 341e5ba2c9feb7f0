package sqlite3

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const defaultConnTimeout = 10 * time.Second

type config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnTimeout     time.Duration
}

type Option func(*config)

func WithDSN(dsn string) Option {
	return func(c *config) { c.DSN = dsn }
}

func WithMaxOpenConns(maxOpen int) Option {
	return func(c *config) { c.MaxOpenConns = maxOpen }
}

func WithMaxIdleConns(maxIdle int) Option {
	return func(c *config) { c.MaxIdleConns = maxIdle }
}

func WithConnMaxLifetime(lifetime time.Duration) Option {
	return func(c *config) { c.ConnMaxLifetime = lifetime }
}

// DB wraps the sqlx handle so callers stay off the driver import.
type DB struct {
	*sqlx.DB
}

func New(ctx context.Context, opts ...Option) (*DB, error) {
	cfg := &config{
		DSN:             ":memory:",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnTimeout:     defaultConnTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := sqlx.Open("sqlite3", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite3 database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite3 database: %w", err)
	}

	return &DB{DB: db}, nil
}
