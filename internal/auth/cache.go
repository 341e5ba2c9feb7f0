package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"wecom-bot/internal/metrics"
)

// Cache hands out the shared credential, refreshing it on demand. The
// whole validate-then-refresh-then-persist sequence runs under one
// mutex, so N concurrent callers holding an expired credential trigger
// exactly one login.
type Cache struct {
	store    Store
	provider Provider
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	current Credential
}

func NewCache(store Store, provider Provider, logger *slog.Logger) *Cache {
	return &Cache{
		store:    store,
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// Get returns a usable credential, refreshing and persisting a new one
// when the cached credential is absent, unreadable, or expired. When
// both the store and the provider fail it reports ErrUnavailable.
func (c *Cache) Get(ctx context.Context) (Credential, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.current.Usable(now) {
		return c.current, nil
	}

	if cred, ok := c.loadStored(ctx, now); ok {
		c.current = cred
		return cred, nil
	}

	cred, err := c.provider.Refresh(ctx)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	metrics.TokenRefreshes.Inc()

	if err := c.store.Save(ctx, cred.Token); err != nil {
		// The credential is still good for this process lifetime.
		c.logger.Warn("Failed to persist refreshed credential", slog.Any("error", err))
	}

	c.current = cred
	return cred, nil
}

// Token implements layant.TokenSource.
func (c *Cache) Token(ctx context.Context) (string, error) {
	cred, err := c.Get(ctx)
	if err != nil {
		return "", err
	}
	return cred.Token, nil
}

func (c *Cache) loadStored(ctx context.Context, now time.Time) (Credential, bool) {
	raw, err := c.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoCredential) {
			c.logger.Warn("Failed to read stored credential", slog.Any("error", err))
		}
		return Credential{}, false
	}

	cred, err := ParseCredential(raw)
	if err != nil {
		c.logger.Info("Stored token invalid, refreshing", slog.Any("error", err))
		return Credential{}, false
	}
	if !cred.Usable(now) {
		c.logger.Info("Stored token expired, refreshing",
			slog.Time("expired_at", cred.ExpiresAt))
		return Credential{}, false
	}
	return cred, true
}
