package environment

import (
	"context"
	"log/slog"
	"time"

	"wecom-bot/internal/config"
	slackinfra "wecom-bot/internal/infra/slack"
	"wecom-bot/internal/infra/sqlite3"
	"wecom-bot/internal/layant"
)

type Clients struct {
	// SQLiteDB is nil unless the sqlite credential store is selected.
	SQLiteDB *sqlite3.DB
	Slack    *slackinfra.Client
	Layant   *layant.Client
}

func newClients(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Clients, error) {
	var c Clients

	if cfg.Auth.Store == "sqlite" {
		db, err := provideSQLiteDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.SQLiteDB = db
	}

	slackClient, err := slackinfra.NewClient(
		cfg.Slack.BotToken,
		cfg.Slack.AppToken,
		cfg.Slack.RateLimit.RPS,
		cfg.Slack.RateLimit.Burst,
		logger.With("component", "slack"),
	)
	if err != nil {
		return nil, err
	}
	c.Slack = slackClient

	c.Layant = layant.NewClient(layant.Config{
		BaseURL: cfg.Layant.BaseURL,
		Lang:    cfg.Layant.Lang,
		Timeout: cfg.Layant.Timeout,
		RPS:     cfg.Layant.RateLimit.RPS,
		Burst:   cfg.Layant.RateLimit.Burst,
	}, logger.With("component", "layant"))

	return &c, nil
}

func provideSQLiteDB(ctx context.Context, cfg config.Config) (*sqlite3.DB, error) {
	maxLifetimeStr := cfg.DB.MaxLifetime
	if maxLifetimeStr == "" {
		maxLifetimeStr = "5m"
	}
	maxLifetime, err := time.ParseDuration(maxLifetimeStr)
	if err != nil {
		return nil, err
	}

	opts := []sqlite3.Option{
		sqlite3.WithDSN(cfg.DB.Path),
		sqlite3.WithMaxOpenConns(cfg.DB.MaxOpenConns),
		sqlite3.WithMaxIdleConns(cfg.DB.MaxIdleConns),
		sqlite3.WithConnMaxLifetime(maxLifetime),
	}

	return sqlite3.New(ctx, opts...)
}
