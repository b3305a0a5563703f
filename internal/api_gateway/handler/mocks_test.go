package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/realestate-cashflow/internal/api_gateway/middleware"
	"github.com/realestate-cashflow/internal/domain/cashflow"
	"github.com/realestate-cashflow/internal/domain/closes"
	"github.com/realestate-cashflow/internal/domain/shared"
	"github.com/realestate-cashflow/internal/reporting"
	"github.com/stretchr/testify/mock"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) ComputeTotals(ctx context.Context, window *cashflow.Window, opts reporting.ComposeOptions) (*cashflow.Report, error) {
	args := m.Called(ctx, window, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashflow.Report), args.Error(1)
}

func (m *MockReportService) GenerateClose(ctx context.Context, cmd reporting.CloseCommand) (*closes.Snapshot, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*closes.Snapshot), args.Error(1)
}

func (m *MockReportService) GetLatestClose(ctx context.Context, kind closes.Kind) (*closes.Snapshot, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*closes.Snapshot), args.Error(1)
}

func (m *MockReportService) GetClose(ctx context.Context, id uuid.UUID) (*closes.Snapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*closes.Snapshot), args.Error(1)
}

func (m *MockReportService) ListCloses(ctx context.Context, kind closes.Kind, page, perPage int) ([]*closes.Snapshot, int64, error) {
	args := m.Called(ctx, kind, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*closes.Snapshot), args.Get(1).(int64), args.Error(2)
}

type MockCloseRequestService struct {
	mock.Mock
}

func (m *MockCloseRequestService) RequestClose(ctx context.Context, req *shared.CloseRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// Response with a typed payload, for decoding in tests
type typedResponse[T any] struct {
	Data          T          `json:"data"`
	Error         *ErrorInfo `json:"error"`
	CorrelationID string     `json:"correlation_id"`
	Meta          *MetaInfo  `json:"meta"`
}

const privilegedUser = "owner@agency.com"

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.CorrelationID(), middleware.Caller([]string{privilegedUser}))
	return router
}
