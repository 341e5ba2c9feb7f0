package slackbot

import (
	"context"
	"log/slog"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"wecom-bot/internal/metrics"
	"wecom-bot/internal/slackbot/flows/manage"
	"wecom-bot/internal/slackbot/messages"
)

type socketAcker interface {
	Ack(req socketmode.Request, payload ...interface{})
}

// Router acknowledges inbound socket-mode events within the platform
// deadline and dispatches the actual work to the workflow handler.
// Every event is handled independently; there is no session state to
// order them by.
type Router struct {
	sock   socketAcker
	manage *manage.Handler
	logger *slog.Logger
}

func NewRouter(sock socketAcker, manageHandler *manage.Handler, logger *slog.Logger) *Router {
	return &Router{
		sock:   sock,
		manage: manageHandler,
		logger: logger,
	}
}

// Route acks the event and hands it off. The remote work continues
// after the ack and reports through follow-up ephemerals.
func (r *Router) Route(evt *socketmode.Event) error {
	switch evt.Type {
	case socketmode.EventTypeSlashCommand:
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok || evt.Request == nil {
			return nil
		}
		metrics.WorkflowEvents.WithLabelValues("command").Inc()
		r.sock.Ack(*evt.Request, map[string]interface{}{
			"response_type": "ephemeral",
			"text":          messages.Processing,
		})
		go r.dispatch("command", func(ctx context.Context) error {
			return r.manage.HandleCommand(ctx, cmd)
		})

	case socketmode.EventTypeInteractive:
		cb, ok := evt.Data.(slack.InteractionCallback)
		if !ok || evt.Request == nil {
			return nil
		}
		r.sock.Ack(*evt.Request)

		switch cb.Type {
		case slack.InteractionTypeBlockActions:
			metrics.WorkflowEvents.WithLabelValues("action").Inc()
			go r.dispatch("action", func(ctx context.Context) error {
				return r.manage.HandleBlockAction(ctx, cb)
			})
		case slack.InteractionTypeViewSubmission:
			metrics.WorkflowEvents.WithLabelValues("submit").Inc()
			go r.dispatch("submit", func(ctx context.Context) error {
				return r.manage.HandleViewSubmission(ctx, cb)
			})
		case slack.InteractionTypeViewClosed:
			// Dismissal is a no-op transition.
			metrics.WorkflowEvents.WithLabelValues("close").Inc()
		}
	}
	return nil
}

func (r *Router) dispatch(eventType string, fn func(ctx context.Context) error) {
	if err := fn(context.Background()); err != nil {
		r.logger.Error("Event handling failed",
			slog.String("event_type", eventType),
			slog.Any("error", err))
	}
}
