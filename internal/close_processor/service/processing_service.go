package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/realestate-cashflow/internal/domain/shared"
)

type ProcessingServiceImpl struct {
	validator RequestValidator
	closer    CloseRunner
	logger    *slog.Logger
}

func NewProcessingService(validator RequestValidator, closer CloseRunner, logger *slog.Logger) ProcessingService {
	return &ProcessingServiceImpl{
		validator: validator,
		closer:    closer,
		logger:    logger,
	}
}

// ProcessCloseRequest validates the request and runs one close.
// Validation failures come back as ErrInvalidCloseRequest.
func (s *ProcessingServiceImpl) ProcessCloseRequest(ctx context.Context, request *shared.CloseRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Processing close request",
		"request_id", request.RequestID.String(),
		"kind", request.Kind,
		"source", request.Source,
	)

	cmd, err := s.validator.Validate(ctx, request)
	if err != nil {
		logger.Warn("Close request rejected", "request_id", request.RequestID.String(), "error", err)
		return ErrInvalidCloseRequest{Reason: err}
	}

	snapshot, err := s.closer.Close(ctx, *cmd)
	if err != nil {
		logger.Error("Close generation failed", "request_id", request.RequestID.String(), "error", err)
		return fmt.Errorf("close request %s failed: %w", request.RequestID.String(), err)
	}

	logger.Info("Close request completed",
		"request_id", request.RequestID.String(),
		"snapshot_id", snapshot.ID.String(),
	)
	return nil
}
