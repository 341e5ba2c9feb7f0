package subscription

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"wecom-bot/internal/dates"
	"wecom-bot/internal/layant"
)

// renewWindow is how close to expiry a number must be before
// RenewIfExpiring acts on it.
const renewWindow = 7 * 24 * time.Hour

type Service struct {
	api    apiClient
	logger *slog.Logger
	now    func() time.Time
}

func NewService(api apiClient, logger *slog.Logger) *Service {
	return &Service{
		api:    api,
		logger: logger,
		now:    time.Now,
	}
}

// Snapshot fetches the subscription window and usage for a number and
// folds them into one immutable snapshot.
func (s *Service) Snapshot(ctx context.Context, phoneNumber string) (*Snapshot, error) {
	entries, err := s.api.GetSubscription(ctx, phoneNumber)
	if err != nil {
		return nil, errors.WithMessage(err, "get subscription")
	}
	if len(entries) == 0 {
		return nil, errors.WithMessagef(layant.ErrNotFound, "number %s", phoneNumber)
	}
	entry := entries[0]

	check, err := s.api.CheckSubscription(ctx, phoneNumber)
	if err != nil {
		return nil, errors.WithMessage(err, "check subscription")
	}

	return &Snapshot{
		Number:    entry.Number,
		StartDate: entry.StartDate,
		EndDate:   entry.EndDate,
		IsActive:  check.Active(),
		Usage: Usage{
			VoiceUsed:         check.VoiceUsed,
			VoiceSize:         check.VoiceSize,
			MessagesUsed:      check.MessagesUsed,
			MessagesSize:      check.MessagesSize,
			InternetUsed:      check.InternetUsedMB,
			InternetSize:      check.InternetSize,
			ExternalVoiceUsed: check.ExternalVoiceUsed,
			ExternalVoiceSize: check.ExternalVoiceSize,
			PackageUsage:      check.PackageUsage,
		},
	}, nil
}

// Execute performs the confirmed mutation. Extend always runs for the
// resolved duration. Activate tries the number's eligible sales first
// and falls back to duration-based activation when none apply.
func (s *Service) Execute(ctx context.Context, action PendingAction) error {
	switch action.Kind {
	case ActionExtend:
		return s.extend(ctx, action)
	case ActionActivate:
		return s.activate(ctx, action)
	default:
		return errors.Errorf("unknown action kind: %s", action.Kind)
	}
}

func (s *Service) extend(ctx context.Context, action PendingAction) error {
	params := layant.DealParams{
		Number:   action.Number,
		Duration: lo.ToPtr(action.DurationDays),
		UserPaid: true,
	}
	if err := s.api.Extend(ctx, params); err != nil {
		return errors.WithMessage(err, "extend deal")
	}

	s.logger.Info("Subscription extended",
		slog.String("number", action.Number),
		slog.Int("duration_days", action.DurationDays))
	return nil
}

func (s *Service) activate(ctx context.Context, action PendingAction) error {
	params := layant.DealParams{
		Number:   action.Number,
		UserPaid: true,
	}

	if saleID, ok := s.eligibleSale(ctx, action.Number); ok {
		params.SaleID = lo.ToPtr(saleID)
	} else {
		params.Duration = lo.ToPtr(action.DurationDays)
	}

	if err := s.api.ActivateLine(ctx, params); err != nil {
		return errors.WithMessage(err, "activate line")
	}

	s.logger.Info("Subscription activated",
		slog.String("number", action.Number),
		slog.Any("sale_id", params.SaleID),
		slog.Any("duration_days", params.Duration))
	return nil
}

// eligibleSale resolves the first eligible sale for a number. Lookup
// failures degrade to duration-based activation instead of failing the
// whole action.
func (s *Service) eligibleSale(ctx context.Context, number string) (int64, bool) {
	sales, err := s.api.SalesByNumber(ctx, number)
	if err != nil {
		s.logger.Warn("Sales lookup failed, activating by duration",
			slog.String("number", number),
			slog.Any("error", err))
		return 0, false
	}
	if len(sales) == 0 {
		return 0, false
	}
	return sales[0].ID, true
}

// RenewIfExpiring renews a number only when its expiration date falls
// within the renewal window. It reports whether a renewal was sent.
func (s *Service) RenewIfExpiring(ctx context.Context, number string) (bool, error) {
	entries, err := s.api.GetSubscription(ctx, number)
	if err != nil {
		return false, errors.WithMessage(err, "get subscription")
	}
	if len(entries) == 0 {
		return false, errors.WithMessagef(layant.ErrNotFound, "number %s", number)
	}

	expiresAt, err := dates.Parse(entries[0].EndDate)
	if err != nil {
		return false, errors.WithMessage(err, "parse expiration date")
	}

	if expiresAt.After(s.now().Add(renewWindow)) {
		return false, nil
	}

	if err := s.api.Renew(ctx, number); err != nil {
		return false, errors.WithMessage(err, "renew subscription")
	}
	s.logger.Info("Subscription renewed",
		slog.String("number", number),
		slog.Time("was_expiring_at", expiresAt))
	return true, nil
}
