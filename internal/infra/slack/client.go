package slack

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	slackapi "github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
	"golang.org/x/time/rate"
)

// Client wraps the Slack Web API plus a socket-mode connection, with
// rate limiting on outbound calls.
type Client struct {
	api     *slackapi.Client
	sock    *socketmode.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewClient(botToken, appToken string, rps float64, burst int, logger *slog.Logger) (*Client, error) {
	if !strings.HasPrefix(botToken, "xoxb-") {
		return nil, fmt.Errorf("bot token must have the xoxb- prefix")
	}
	if !strings.HasPrefix(appToken, "xapp-") {
		return nil, fmt.Errorf("app token must have the xapp- prefix")
	}

	api := slackapi.New(botToken, slackapi.OptionAppLevelToken(appToken))

	if burst <= 0 {
		burst = 1
	}
	return &Client{
		api:     api,
		sock:    socketmode.New(api),
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
	}, nil
}

// Run keeps the socket-mode connection open until the context ends.
func (c *Client) Run(ctx context.Context) error {
	c.logger.Info("Slack socket-mode client running")
	return c.sock.RunContext(ctx)
}

// Events returns the inbound event channel.
func (c *Client) Events() <-chan socketmode.Event {
	return c.sock.Events
}

// Ack acknowledges a socket-mode request, optionally with a payload.
func (c *Client) Ack(req socketmode.Request, payload ...interface{}) {
	c.sock.Ack(req, payload...)
}

// PostEphemeral sends a message visible only to the given user.
func (c *Client) PostEphemeral(ctx context.Context, channelID, userID string, options ...slackapi.MsgOption) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiting: %w", err)
	}

	if _, err := c.api.PostEphemeralContext(ctx, channelID, userID, options...); err != nil {
		c.logger.Error("Failed to post ephemeral message",
			slog.String("channel_id", channelID),
			slog.String("user_id", userID),
			slog.Any("error", err))
		return fmt.Errorf("post ephemeral: %w", err)
	}
	return nil
}

// OpenView opens a modal against the interaction's trigger id.
func (c *Client) OpenView(ctx context.Context, triggerID string, view slackapi.ModalViewRequest) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiting: %w", err)
	}

	if _, err := c.api.OpenViewContext(ctx, triggerID, view); err != nil {
		c.logger.Error("Failed to open modal", slog.Any("error", err))
		return fmt.Errorf("open view: %w", err)
	}
	return nil
}
