package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/realestate-cashflow/internal/domain/closes"
	"github.com/realestate-cashflow/internal/domain/shared"
	"github.com/realestate-cashflow/internal/reporting"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) ProcessCloseRequest(ctx context.Context, request *shared.CloseRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

type MockRequestValidator struct {
	mock.Mock
}

func (m *MockRequestValidator) Validate(ctx context.Context, request *shared.CloseRequest) (*reporting.CloseCommand, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reporting.CloseCommand), args.Error(1)
}

type MockCloseRunner struct {
	mock.Mock
}

func (m *MockCloseRunner) Close(ctx context.Context, cmd reporting.CloseCommand) (*closes.Snapshot, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*closes.Snapshot), args.Error(1)
}
