package service

import (
	"context"

	"github.com/realestate-cashflow/internal/domain/closes"
	"github.com/realestate-cashflow/internal/domain/shared"
	"github.com/realestate-cashflow/internal/reporting"
)

// ProcessingService defines the interface for processing close requests.
type ProcessingService interface {
	ProcessCloseRequest(ctx context.Context, request *shared.CloseRequest) error
}

// RequestValidator turns a close request into a close command
type RequestValidator interface {
	Validate(ctx context.Context, request *shared.CloseRequest) (*reporting.CloseCommand, error)
}

// CloseRunner generates and stores one snapshot
type CloseRunner interface {
	Close(ctx context.Context, cmd reporting.CloseCommand) (*closes.Snapshot, error)
}
