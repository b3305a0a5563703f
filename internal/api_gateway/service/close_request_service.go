package service

import (
	"context"
	"log/slog"

	"github.com/realestate-cashflow/internal/domain/shared"
	"github.com/realestate-cashflow/internal/platform/messaging/producers"
)

// CloseRequestServiceImpl implements the CloseRequestService interface
type CloseRequestServiceImpl struct {
	producer producers.MessagePublisher
	logger   *slog.Logger
}

// NewCloseRequestService creates a new close request service
func NewCloseRequestService(logger *slog.Logger, producer producers.MessagePublisher) CloseRequestService {
	return &CloseRequestServiceImpl{
		producer: producer,
		logger:   logger,
	}
}

// RequestClose publishes req keyed by its request id
func (s *CloseRequestServiceImpl) RequestClose(ctx context.Context, req *shared.CloseRequest) error {
	key := req.RequestID.String()
	if err := s.producer.Publish(ctx, key, req); err != nil {
		s.logger.Error("Failed to publish close request",
			"request_id", key,
			"kind", req.Kind,
			"correlation_id", req.CorrelationID,
			"error", err,
		)
		return err
	}

	s.logger.Info("Close request published",
		"request_id", key,
		"kind", req.Kind,
		"date_from", req.DateFrom,
		"date_to", req.DateTo,
		"requested_by", req.RequestedBy,
	)
	return nil
}
