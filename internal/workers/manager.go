package workers

import (
	"fmt"
	"log/slog"
)

// Manager starts and stops a set of workers together.
type Manager struct {
	workers []Worker
	logger  *slog.Logger
}

func NewManager(logger *slog.Logger, workers ...Worker) *Manager {
	return &Manager{
		workers: workers,
		logger:  logger,
	}
}

// Start starts every worker, failing fast on the first error.
func (m *Manager) Start() error {
	m.logger.Info("Starting workers", "worker_count", len(m.workers))

	for _, worker := range m.workers {
		if err := worker.Start(); err != nil {
			return fmt.Errorf("failed to start worker %s: %w", worker.Name(), err)
		}
		m.logger.Info("Worker started", "name", worker.Name())
	}

	return nil
}

// Stop stops all workers.
func (m *Manager) Stop() {
	for _, worker := range m.workers {
		m.logger.Info("Stopping worker", "name", worker.Name())
		worker.Stop()
	}
	m.logger.Info("All workers stopped")
}
