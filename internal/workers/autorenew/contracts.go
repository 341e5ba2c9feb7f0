package autorenew

import "context"

type (
	// Renewer renews a subscription when its expiry is close enough.
	Renewer interface {
		RenewIfExpiring(ctx context.Context, phoneNumber string) (bool, error)
	}
)
