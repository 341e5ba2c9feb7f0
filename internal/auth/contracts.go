package auth

import "context"

type (
	// Store persists one opaque credential blob.
	Store interface {
		Load(ctx context.Context) (string, error)
		Save(ctx context.Context, token string) error
	}

	// Provider performs the login exchange producing a fresh credential.
	Provider interface {
		Refresh(ctx context.Context) (Credential, error)
	}
)
