package cashflow

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SumFilter narrows one currency aggregation
type SumFilter struct {
	TypeID   int64
	Column   Column
	Window   *Window // nil sums over all dates
	EntityID *int64  // nil sums over all entities
}

// CurrencySum is one grouped row of an aggregation, keyed by the raw currency code
type CurrencySum struct {
	Code  string
	Total decimal.Decimal
}

// BreakdownFilter scopes the grouped income/expense/payable queries.
// Payables sum totalDue over both the income and the payable types.
type BreakdownFilter struct {
	IncomeTypeID  int64
	ExpenseTypeID int64
	PayableTypeID int64
	Window        *Window
	EntityID      *int64
}

// PaymentMethodRow groups an entity's payments by way to pay and currency
type PaymentMethodRow struct {
	WayToPay     string
	CurrencyCode string
	Income       decimal.Decimal
	Expense      decimal.Decimal
	Payable      decimal.Decimal
}

// ServiceRow groups payments by service label and currency; NULL labels arrive as ""
type ServiceRow struct {
	Service      string
	CurrencyCode string
	Income       decimal.Decimal
	Expense      decimal.Decimal
	Payable      decimal.Decimal
}

// TemporalRow is one temporal transaction with its amount summed for one currency.
// CurrencyCode is "" when the transaction has no payments.
type TemporalRow struct {
	TransactionID         int64
	TemporalTransactionID int64
	Date                  time.Time
	Location              string
	CreatedBy             string
	CurrencyCode          string
	Amount                decimal.Decimal
}

// LedgerRepository runs the read-only aggregations over cash_flows and cash_flow_payments.
// Temporal transactions are excluded from every query except TemporalTransactions.
type LedgerRepository interface {
	SumByCurrency(ctx context.Context, filter SumFilter) ([]CurrencySum, error)
	PaymentMethodBreakdown(ctx context.Context, filter BreakdownFilter) ([]PaymentMethodRow, error)
	ServiceBreakdown(ctx context.Context, filter BreakdownFilter) ([]ServiceRow, error)
	TemporalTransactions(ctx context.Context, window Window) ([]TemporalRow, error)
}
