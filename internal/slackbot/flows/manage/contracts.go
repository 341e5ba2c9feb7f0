package manage

import (
	"context"

	"github.com/slack-go/slack"

	"wecom-bot/internal/stories/subscription"
)

type (
	slackGateway interface {
		PostEphemeral(ctx context.Context, channelID, userID string, options ...slack.MsgOption) error
		OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error
	}

	subscriptionService interface {
		Snapshot(ctx context.Context, phoneNumber string) (*subscription.Snapshot, error)
		Execute(ctx context.Context, action subscription.PendingAction) error
	}
)
