package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/realestate-cashflow/internal/close_processor/service"
	"github.com/realestate-cashflow/internal/domain/shared"
	"github.com/realestate-cashflow/internal/platform/messaging/producers"
)

// CloseRequestHandler handles close request messages from Kafka
type CloseRequestHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

func NewCloseRequestHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *CloseRequestHandler {
	return &CloseRequestHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage returns nil when the message may be committed
func (h *CloseRequestHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var request shared.CloseRequest
	if err := json.Unmarshal(value, &request); err != nil {
		h.logger.Error("Failed to unmarshal close request from Kafka message", "error", err, "message_key", string(key))
		return h.deadLetter(ctx, key, value, fmt.Errorf("failed to unmarshal close request: %w", err))
	}

	logger := h.logger
	if request.CorrelationID != "" {
		logger = h.logger.With("correlation_id", request.CorrelationID)
	}

	err := h.processingService.ProcessCloseRequest(ctx, &request)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrInvalidCloseRequest{}):
		return h.deadLetter(ctx, key, value, err)
	default:
		logger.Error("Failed to process close request", "request_id", request.RequestID.String(), "error", err)
		return err
	}
}

// deadLetter parks the message; the offset is only committed when the DLQ write succeeds
func (h *CloseRequestHandler) deadLetter(ctx context.Context, key, value []byte, cause error) error {
	if h.producer == nil {
		return cause
	}
	if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, cause.Error()); dlqErr != nil {
		h.logger.Error("Failed to publish message to DLQ",
			"dlq_error", dlqErr,
			"original_error", cause,
			"message_key", string(key),
		)
		return cause
	}
	h.logger.Info("Unprocessable close request moved to DLQ", "message_key", string(key), "reason", cause.Error())
	return nil
}
