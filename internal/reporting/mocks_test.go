package reporting

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/realestate-cashflow/internal/domain/cashflow"
	"github.com/realestate-cashflow/internal/domain/closes"
	"github.com/realestate-cashflow/internal/domain/lookup"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type MockLookupRepository struct {
	mock.Mock
}

func (m *MockLookupRepository) TransactionTypeIDByName(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLookupRepository) SourceEntityIDByName(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLookupRepository) ListSourceEntities(ctx context.Context) ([]lookup.SourceEntity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lookup.SourceEntity), args.Error(1)
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) SumByCurrency(ctx context.Context, filter cashflow.SumFilter) ([]cashflow.CurrencySum, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cashflow.CurrencySum), args.Error(1)
}

func (m *MockLedgerRepository) PaymentMethodBreakdown(ctx context.Context, filter cashflow.BreakdownFilter) ([]cashflow.PaymentMethodRow, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cashflow.PaymentMethodRow), args.Error(1)
}

func (m *MockLedgerRepository) ServiceBreakdown(ctx context.Context, filter cashflow.BreakdownFilter) ([]cashflow.ServiceRow, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cashflow.ServiceRow), args.Error(1)
}

func (m *MockLedgerRepository) TemporalTransactions(ctx context.Context, window cashflow.Window) ([]cashflow.TemporalRow, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cashflow.TemporalRow), args.Error(1)
}

type MockCloseRepository struct {
	mock.Mock
}

func (m *MockCloseRepository) Save(ctx context.Context, snapshot *closes.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockCloseRepository) GetByID(ctx context.Context, id uuid.UUID) (*closes.Snapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*closes.Snapshot), args.Error(1)
}

func (m *MockCloseRepository) GetLatest(ctx context.Context, kind closes.Kind) (*closes.Snapshot, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*closes.Snapshot), args.Error(1)
}

func (m *MockCloseRepository) List(ctx context.Context, kind closes.Kind, limit, offset int) ([]*closes.Snapshot, error) {
	args := m.Called(ctx, kind, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*closes.Snapshot), args.Error(1)
}

func (m *MockCloseRepository) Count(ctx context.Context, kind closes.Kind) (int64, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).(int64), args.Error(1)
}

type MockComposer struct {
	mock.Mock
}

func (m *MockComposer) ComputeTotals(ctx context.Context, window *cashflow.Window, opts ComposeOptions) (*cashflow.Report, error) {
	args := m.Called(ctx, window, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashflow.Report), args.Error(1)
}

type MockLegacyGenerator struct {
	mock.Mock
}

func (m *MockLegacyGenerator) Generate(ctx context.Context, window cashflow.Window) (*cashflow.LegacyReport, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashflow.LegacyReport), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyClose(ctx context.Context, notice CloseNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}
