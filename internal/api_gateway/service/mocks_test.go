package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/realestate-cashflow/internal/domain/cashflow"
	"github.com/realestate-cashflow/internal/domain/closes"
	"github.com/realestate-cashflow/internal/reporting"
	"github.com/stretchr/testify/mock"
)

type MockCloseManager struct {
	mock.Mock
}

func (m *MockCloseManager) Compute(ctx context.Context, window *cashflow.Window, opts reporting.ComposeOptions) (*cashflow.Report, error) {
	args := m.Called(ctx, window, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashflow.Report), args.Error(1)
}

func (m *MockCloseManager) Close(ctx context.Context, cmd reporting.CloseCommand) (*closes.Snapshot, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*closes.Snapshot), args.Error(1)
}

func (m *MockCloseManager) Latest(ctx context.Context, kind closes.Kind) (*closes.Snapshot, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*closes.Snapshot), args.Error(1)
}

func (m *MockCloseManager) Get(ctx context.Context, id uuid.UUID) (*closes.Snapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*closes.Snapshot), args.Error(1)
}

func (m *MockCloseManager) List(ctx context.Context, kind closes.Kind, limit, offset int) ([]*closes.Snapshot, int64, error) {
	args := m.Called(ctx, kind, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*closes.Snapshot), args.Get(1).(int64), args.Error(2)
}

type MockMessagingProducer struct {
	mock.Mock
}

func (m *MockMessagingProducer) Publish(ctx context.Context, key string, value any) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagingProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
