package reporting

import (
	"context"
	"errors"
	"testing"

	"github.com/realestate-cashflow/internal/domain/cashflow"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_SumBucketsAndDefaults(t *testing.T) {
	ctx := context.Background()
	ledger := new(MockLedgerRepository)
	window := january()
	filter := cashflow.SumFilter{TypeID: incomeID, Column: cashflow.ColumnAmount, Window: window}
	ledger.On("SumByCurrency", ctx, filter).Return([]cashflow.CurrencySum{
		{Code: "USD", Total: decimal.RequireFromString("100.25")},
		{Code: "VEF", Total: decimal.NewFromInt(1000)},
		{Code: "BS", Total: decimal.NewFromInt(500)},
		{Code: "GBP", Total: decimal.NewFromInt(77)},
	}, nil)

	agg := NewAggregator(newTestLogger(), ledger)

	totals, err := agg.Sum(ctx, SumQuery{TypeID: incomeID, Column: cashflow.ColumnAmount, Window: window})
	require.NoError(t, err)
	assert.Equal(t, cashflow.Totals{BS: 1500, USD: 100.25, EUR: 0}, totals)

	text, err := agg.SumText(ctx, SumQuery{TypeID: incomeID, Column: cashflow.ColumnAmount, Window: window})
	require.NoError(t, err)
	assert.Equal(t, cashflow.TextTotals{BS: "1500", USD: "100.25", EUR: "0"}, text)
}

func TestAggregator_NoRows(t *testing.T) {
	ctx := context.Background()
	ledger := new(MockLedgerRepository)
	entity := int64(5)
	ledger.On("SumByCurrency", ctx, cashflow.SumFilter{TypeID: payableID, Column: cashflow.ColumnTotalDue, EntityID: &entity}).
		Return([]cashflow.CurrencySum{}, nil)

	agg := NewAggregator(newTestLogger(), ledger)

	text, err := agg.SumText(ctx, SumQuery{TypeID: payableID, Column: cashflow.ColumnTotalDue, EntityID: &entity})
	require.NoError(t, err)
	assert.Equal(t, cashflow.TextTotals{BS: "0", USD: "0", EUR: "0"}, text)

	totals, err := agg.Sum(ctx, SumQuery{TypeID: payableID, Column: cashflow.ColumnTotalDue, EntityID: &entity})
	require.NoError(t, err)
	assert.Equal(t, cashflow.Totals{}, totals)
}

func TestAggregator_ErrorPropagates(t *testing.T) {
	ctx := context.Background()
	ledger := new(MockLedgerRepository)
	dbErr := errors.New("statement timeout")
	ledger.On("SumByCurrency", ctx, cashflow.SumFilter{TypeID: expenseID, Column: cashflow.ColumnAmount}).Return(nil, dbErr)

	agg := NewAggregator(newTestLogger(), ledger)

	_, err := agg.Sum(ctx, SumQuery{TypeID: expenseID, Column: cashflow.ColumnAmount})
	assert.ErrorIs(t, err, dbErr)
	_, err = agg.SumText(ctx, SumQuery{TypeID: expenseID, Column: cashflow.ColumnAmount})
	assert.ErrorIs(t, err, dbErr)
}

func TestAggregator_RejectsInvertedWindow(t *testing.T) {
	ledger := new(MockLedgerRepository)
	agg := NewAggregator(newTestLogger(), ledger)

	inverted := &cashflow.Window{From: day(31), To: day(1)}
	_, err := agg.Sum(context.Background(), SumQuery{TypeID: incomeID, Column: cashflow.ColumnAmount, Window: inverted})
	assert.ErrorIs(t, err, cashflow.ErrInvertedWindow)
	ledger.AssertNotCalled(t, "SumByCurrency")
}

func TestAggregator_TemporalRowsNeverCount(t *testing.T) {
	ledger := &fakeLedger{payments: []fakePayment{
		{TxID: 1, Date: day(5), TypeID: incomeID, Code: "USD", Amount: "100"},
		{TxID: 2, Date: day(5), TypeID: incomeID, Code: "USD", Amount: "900", Temporal: true, TemporalID: 50},
		{TxID: 3, Date: day(6), TypeID: incomeID, Code: "EUR", Amount: "30", Temporal: true, TemporalID: 50},
	}}
	agg := NewAggregator(newTestLogger(), ledger)

	for _, w := range []*cashflow.Window{nil, january()} {
		totals, err := agg.Sum(context.Background(), SumQuery{TypeID: incomeID, Column: cashflow.ColumnAmount, Window: w})
		require.NoError(t, err)
		assert.Equal(t, cashflow.Totals{USD: 100}, totals)
	}
}
