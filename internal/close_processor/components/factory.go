package components

import (
	"log/slog"

	"github.com/realestate-cashflow/internal/close_processor/service"
	"github.com/realestate-cashflow/internal/config"
)

// CreateProcessingService wires the validator and closer behind a worker pool.
// A pool that cannot be built degrades to sequential processing.
func CreateProcessingService(
	closer service.CloseRunner,
	logger *slog.Logger,
	cfg *config.Config,
) service.ProcessingService {
	baseService := service.NewProcessingService(
		NewRequestValidator(logger.With("component", "request_validator")),
		closer,
		logger,
	)

	workerPoolService, err := service.NewWorkerPoolProcessingService(
		baseService,
		service.WorkerPoolConfig{Size: cfg.WorkerPool.Size},
		logger.With("component", "worker_pool"),
	)
	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool processing service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
