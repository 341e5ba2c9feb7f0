package autorenew

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Worker walks a fixed watchlist of numbers and renews each one whose
// expiry falls inside the renewal window.
type Worker struct {
	renewer   Renewer
	watchlist []string
	schedule  string
	logger    *slog.Logger
	cron      *cron.Cron
}

func NewWorker(renewer Renewer, watchlist []string, schedule string, logger *slog.Logger) *Worker {
	return &Worker{
		renewer:   renewer,
		watchlist: watchlist,
		schedule:  schedule,
		logger:    logger,
		cron:      cron.New(),
	}
}

// Name returns the worker name
func (w *Worker) Name() string {
	return "autorenew"
}

// Start schedules the renewal sweep.
func (w *Worker) Start() error {
	_, err := w.cron.AddFunc(w.schedule, func() {
		w.run(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule autorenew worker: %w", err)
	}

	w.cron.Start()
	return nil
}

// Stop stops the worker
func (w *Worker) Stop() {
	w.cron.Stop()
}

// run sweeps the watchlist. One failing number does not stop the sweep.
func (w *Worker) run(ctx context.Context) {
	w.logger.Info("Starting autorenew sweep", "numbers", len(w.watchlist))

	for _, number := range w.watchlist {
		renewed, err := w.renewer.RenewIfExpiring(ctx, number)
		if err != nil {
			w.logger.Error("Autorenew check failed",
				"number", number,
				"error", err)
			continue
		}
		if renewed {
			w.logger.Info("Subscription renewed", "number", number)
		}
	}

	w.logger.Info("Autorenew sweep completed")
}
