package components

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/realestate-cashflow/internal/domain/cashflow"
	"github.com/realestate-cashflow/internal/domain/closes"
	"github.com/realestate-cashflow/internal/domain/shared"
	"github.com/realestate-cashflow/internal/close_processor/service"
	"github.com/realestate-cashflow/internal/reporting"
)

var ErrMissingRequestID = errors.New("request_id is required")

type RequestValidatorImpl struct {
	logger *slog.Logger
}

func NewRequestValidator(logger *slog.Logger) service.RequestValidator {
	return &RequestValidatorImpl{logger: logger}
}

// Validate checks the request and maps it onto a close command.
// Queued closes always see restricted entities: the snapshot is an internal record.
func (v *RequestValidatorImpl) Validate(_ context.Context, request *shared.CloseRequest) (*reporting.CloseCommand, error) {
	if request.RequestID == uuid.Nil {
		return nil, ErrMissingRequestID
	}

	kind, err := closes.ParseKind(request.Kind)
	if err != nil {
		return nil, err
	}

	window, err := cashflow.ParseWindow(request.DateFrom, request.DateTo)
	if err != nil {
		return nil, err
	}
	if kind == closes.KindLegacy && window == nil {
		return nil, cashflow.ErrPartialWindow
	}

	requestID := request.RequestID
	cmd := &reporting.CloseCommand{
		Kind:              kind,
		Window:            window,
		RequestedBy:       request.RequestedBy,
		IncludeRestricted: true,
		RequestID:         &requestID,
		CorrelationID:     request.CorrelationID,
	}
	if cmd.RequestedBy == "" {
		cmd.RequestedBy = string(request.Source)
	}

	v.logger.Debug("Close request validated", "request_id", requestID.String(), "kind", string(kind))
	return cmd, nil
}
