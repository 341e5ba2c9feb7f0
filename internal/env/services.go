package environment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"wecom-bot/internal/auth"
	"wecom-bot/internal/config"
	"wecom-bot/internal/pricing"
	"wecom-bot/internal/slackbot"
	"wecom-bot/internal/slackbot/flows/manage"
	"wecom-bot/internal/storage"
	"wecom-bot/internal/stories/subscription"
	"wecom-bot/internal/workers"
	"wecom-bot/internal/workers/autorenew"
)

type Services struct {
	Router  *slackbot.Router
	Workers *workers.Manager
}

func newServices(ctx context.Context, clients *Clients, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	var s Services

	store, err := provideCredentialStore(ctx, clients, cfg)
	if err != nil {
		return nil, err
	}

	provider := auth.NewLoginProvider(clients.Layant, cfg.Auth.Username, cfg.Auth.Password,
		logger.With("component", "auth"))
	credentials := auth.NewCache(store, provider, logger.With("component", "auth"))

	// The cache logs in through the same client it supplies tokens to,
	// so the token source is wired after construction.
	clients.Layant.SetTokenSource(credentials)

	table := pricing.Default()
	if cfg.Pricing.Path != "" {
		table, err = pricing.Load(cfg.Pricing.Path)
		if err != nil {
			return nil, errors.Wrap(err, "load pricing table")
		}
	}

	subscriptionService := subscription.NewService(clients.Layant, logger.With("component", "subscription"))

	manageHandler := manage.NewHandler(clients.Slack, subscriptionService, table,
		logger.With("component", "manage"))

	s.Router = slackbot.NewRouter(clients.Slack, manageHandler, logger.With("component", "router"))

	var workerList []workers.Worker
	if cfg.AutoRenew.Enabled {
		workerList = append(workerList, autorenew.NewWorker(
			subscriptionService,
			cfg.AutoRenew.Numbers,
			cfg.AutoRenew.Schedule,
			logger.With("component", "autorenew"),
		))
	}
	s.Workers = workers.NewManager(logger.With("component", "workers"), workerList...)

	return &s, nil
}

func provideCredentialStore(ctx context.Context, clients *Clients, cfg *config.Config) (auth.Store, error) {
	switch cfg.Auth.Store {
	case "file", "":
		return auth.NewFileStore(cfg.Auth.TokenPath), nil
	case "sqlite":
		if clients.SQLiteDB == nil {
			return nil, errors.New("sqlite credential store selected but no database configured")
		}
		storageImpl := storage.New(clients.SQLiteDB.DB)
		if err := storageImpl.EnsureSchema(ctx); err != nil {
			return nil, errors.Wrap(err, "ensure storage schema")
		}
		return storageImpl, nil
	default:
		return nil, fmt.Errorf("unknown credential store %q", cfg.Auth.Store)
	}
}
