package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"wecom-bot/internal/layant"
)

type loginAPI interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// LoginProvider exchanges the statically configured identity for a
// fresh credential. It never retries: retry policy belongs to callers.
type LoginProvider struct {
	api      loginAPI
	username string
	password string
	logger   *slog.Logger
}

func NewLoginProvider(api loginAPI, username, password string, logger *slog.Logger) *LoginProvider {
	return &LoginProvider{
		api:      api,
		username: username,
		password: password,
		logger:   logger,
	}
}

func (p *LoginProvider) Refresh(ctx context.Context) (Credential, error) {
	token, err := p.api.Login(ctx, p.username, p.password)
	if err != nil {
		if errors.Is(err, layant.ErrRemoteRejected) {
			return Credential{}, fmt.Errorf("%w: %v", ErrLoginRejected, err)
		}
		return Credential{}, fmt.Errorf("login exchange: %w", err)
	}

	cred, err := ParseCredential(token)
	if err != nil {
		// The carrier handed us a token we cannot read the expiry of.
		// Pass it through so the current call can proceed; it will not
		// be reused.
		p.logger.Warn("Fresh token has no readable expiry", slog.Any("error", err))
		return Credential{Token: token}, nil
	}
	return cred, nil
}
