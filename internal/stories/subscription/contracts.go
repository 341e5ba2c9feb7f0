package subscription

import (
	"context"

	"wecom-bot/internal/layant"
)

type apiClient interface {
	GetSubscription(ctx context.Context, phoneNumber string) ([]layant.SubscriptionEntry, error)
	CheckSubscription(ctx context.Context, phoneNumber string) (layant.SubscriptionCheck, error)
	Extend(ctx context.Context, params layant.DealParams) error
	ActivateLine(ctx context.Context, params layant.DealParams) error
	Renew(ctx context.Context, number string) error
	SalesByNumber(ctx context.Context, number string) ([]layant.Sale, error)
}
