package manage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/slack-go/slack"

	"wecom-bot/internal/dates"
	"wecom-bot/internal/pricing"
	"wecom-bot/internal/slackbot/messages"
	"wecom-bot/internal/slackbot/payload"
	"wecom-bot/internal/stories/subscription"
)

// Action and callback identifiers round-tripped through Slack.
const (
	ActionRequestExtend     = "request_extend_subscription"
	ActionRequestActivate   = "request_activate_subscription"
	CallbackConfirmExtend   = "confirm_extend_subscription"
	CallbackConfirmActivate = "confirm_activate_subscription"
)

// Handler drives the stateless manage-subscription workflow: command →
// display → confirmation modal → execution. The only state between
// steps is the encoded context Slack round-trips in the UI payloads.
type Handler struct {
	gateway slackGateway
	service subscriptionService
	pricing pricing.Table
	logger  *slog.Logger
}

func NewHandler(gateway slackGateway, service subscriptionService, table pricing.Table, logger *slog.Logger) *Handler {
	return &Handler{
		gateway: gateway,
		service: service,
		pricing: table,
		logger:  logger,
	}
}

// HandleCommand fetches a snapshot for the requested number and posts
// it with exactly one action control: Extend for an active line,
// Activate otherwise.
func (h *Handler) HandleCommand(ctx context.Context, cmd slack.SlashCommand) error {
	phoneNumber := strings.TrimSpace(cmd.Text)
	if phoneNumber == "" {
		return h.gateway.PostEphemeral(ctx, cmd.ChannelID, cmd.UserID,
			slack.MsgOptionText(messages.EmptyNumber, false))
	}

	snapshot, err := h.service.Snapshot(ctx, phoneNumber)
	if err != nil {
		h.logger.Error("Snapshot lookup failed",
			slog.String("number", phoneNumber),
			slog.Any("error", err))
		return h.sendGenericError(ctx, cmd.ChannelID, cmd.UserID)
	}

	token, err := payload.Encode(*snapshot)
	if err != nil {
		h.logger.Error("Failed to encode workflow context",
			slog.String("number", phoneNumber),
			slog.Any("error", err))
		return h.sendGenericError(ctx, cmd.ChannelID, cmd.UserID)
	}

	return h.gateway.PostEphemeral(ctx, cmd.ChannelID, cmd.UserID,
		slack.MsgOptionText("Subscription Details", false),
		slack.MsgOptionBlocks(h.snapshotBlocks(snapshot, token)...))
}

// snapshotBlocks renders the snapshot fields plus the single action
// button carrying the encoded context.
func (h *Handler) snapshotBlocks(s *subscription.Snapshot, token string) []slack.Block {
	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, "*Number:*\n"+s.Number, false, false),
		slack.NewTextBlockObject(slack.MarkdownType, "*Usage:*\n"+messages.FormatUsage(s.Usage.InternetUsed, s.Usage.VoiceUsed, s.Usage.MessagesUsed), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, "*Start:*\n"+dates.SlackDate(s.StartDate), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, "*Expiration:*\n"+dates.SlackDate(s.EndDate), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, "*Status:*\n"+messages.FormatStatus(s.IsActive), false, false),
	}

	actionID, label := ActionRequestActivate, messages.ButtonActivate
	if s.IsActive {
		actionID, label = ActionRequestExtend, messages.ButtonExtend
	}
	button := slack.NewButtonBlockElement(actionID, token,
		slack.NewTextBlockObject(slack.PlainTextType, label, false, false))
	button.Style = slack.StylePrimary

	return []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, "*Subscription*", false, false), nil, nil),
		slack.NewSectionBlock(nil, fields, nil),
		slack.NewActionBlock("subscription_actions", button),
	}
}

// HandleBlockAction decodes the clicked button's context and opens the
// confirmation modal, embedding the same encoded context unchanged so
// the preview and the eventual execution derive from one capture.
func (h *Handler) HandleBlockAction(ctx context.Context, cb slack.InteractionCallback) error {
	if len(cb.ActionCallback.BlockActions) == 0 {
		return nil
	}
	action := cb.ActionCallback.BlockActions[0]

	var kind pricing.Kind
	var verb, callbackID string
	switch action.ActionID {
	case ActionRequestExtend:
		kind, verb, callbackID = pricing.KindExtend, messages.ButtonExtend, CallbackConfirmExtend
	case ActionRequestActivate:
		kind, verb, callbackID = pricing.KindActivate, messages.ButtonActivate, CallbackConfirmActivate
	default:
		return nil
	}

	snapshot, err := payload.Decode(action.Value)
	if err != nil {
		h.logger.Error("Rejected workflow context on click", slog.Any("error", err))
		return h.sendGenericError(ctx, h.replyChannel(cb), cb.User.ID)
	}

	priced, err := h.pricing.Resolve(kind)
	if err != nil {
		return err
	}

	newExpiry, err := dates.AddDays(snapshot.EndDate, priced.DurationDays)
	if err != nil {
		h.logger.Error("Snapshot carries unparseable expiration",
			slog.String("end_date", snapshot.EndDate),
			slog.Any("error", err))
		return h.sendGenericError(ctx, h.replyChannel(cb), cb.User.ID)
	}

	view := h.confirmModal(verb, callbackID, action.Value, snapshot, priced, newExpiry)
	return h.gateway.OpenView(ctx, cb.TriggerID, view)
}

func (h *Handler) confirmModal(verb, callbackID, token string, s subscription.Snapshot, priced pricing.Action, newExpiry string) slack.ModalViewRequest {
	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, "*Current Expiration Date:*\n"+dates.SlackDate(s.EndDate), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Duration:*\n%d days", priced.DurationDays), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, "*New Expiration Date:*\n"+dates.SlackDate(newExpiry), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, "*Cost:*\n"+messages.FormatCost(h.pricing.Currency, priced.Cost), false, false),
	}

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      callbackID,
		PrivateMetadata: token,
		Title:           slack.NewTextBlockObject(slack.PlainTextType, messages.FormatModalTitle(verb, s.Number), false, false),
		Submit:          slack.NewTextBlockObject(slack.PlainTextType, verb, true, false),
		Close:           slack.NewTextBlockObject(slack.PlainTextType, messages.ModalClose, true, false),
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			slack.NewSectionBlock(nil, fields, nil),
		}},
	}
}

// HandleViewSubmission executes the confirmed action from the context
// captured at display time. A stale snapshot is accepted by design:
// what the operator saw is what is submitted.
func (h *Handler) HandleViewSubmission(ctx context.Context, cb slack.InteractionCallback) error {
	var kind subscription.ActionKind
	var priceKind pricing.Kind
	var processing, success string
	switch cb.View.CallbackID {
	case CallbackConfirmExtend:
		kind, priceKind = subscription.ActionExtend, pricing.KindExtend
		processing, success = messages.ProcessingExtension, messages.ExtendSuccess
	case CallbackConfirmActivate:
		kind, priceKind = subscription.ActionActivate, pricing.KindActivate
		processing, success = messages.ProcessingActivation, messages.ActivateSuccess
	default:
		return nil
	}

	snapshot, err := payload.Decode(cb.View.PrivateMetadata)
	if err != nil {
		h.logger.Error("Rejected workflow context on submit", slog.Any("error", err))
		return h.sendGenericError(ctx, cb.User.ID, cb.User.ID)
	}

	priced, err := h.pricing.Resolve(priceKind)
	if err != nil {
		return err
	}

	if err := h.gateway.PostEphemeral(ctx, cb.User.ID, cb.User.ID,
		slack.MsgOptionText(processing, false)); err != nil {
		h.logger.Warn("Failed to post processing notice", slog.Any("error", err))
	}

	err = h.service.Execute(ctx, subscription.PendingAction{
		Kind:         kind,
		Number:       snapshot.Number,
		DurationDays: priced.DurationDays,
		Cost:         priced.Cost,
	})
	if err != nil {
		h.logger.Error("Action execution failed",
			slog.String("number", snapshot.Number),
			slog.String("kind", string(kind)),
			slog.Any("error", err))
		return h.gateway.PostEphemeral(ctx, cb.User.ID, cb.User.ID,
			slack.MsgOptionText(messages.ActionFailed, false))
	}

	return h.gateway.PostEphemeral(ctx, cb.User.ID, cb.User.ID,
		slack.MsgOptionText(success, false))
}

func (h *Handler) sendGenericError(ctx context.Context, channelID, userID string) error {
	return h.gateway.PostEphemeral(ctx, channelID, userID,
		slack.MsgOptionText(messages.GenericError, false))
}

// replyChannel picks where error ephemerals go: the originating channel
// when Slack provides it, the user's DM otherwise.
func (h *Handler) replyChannel(cb slack.InteractionCallback) string {
	if cb.Channel.ID != "" {
		return cb.Channel.ID
	}
	return cb.User.ID
}
