package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/realestate-cashflow/internal/domain/cashflow"
	"github.com/realestate-cashflow/internal/platform/persistence"
	"github.com/shopspring/decimal"
)

// Sums are returned as text so that no precision is lost before decimal parsing.
const (
	sumByCurrencyQuery = `
		SELECT c.code,
			COALESCE(SUM(CAST(CASE $2::text
				WHEN 'amount' THEN p.amount
				WHEN 'pendingToCollect' THEN p.pending_to_collect
				WHEN 'totalDue' THEN p.total_due
				WHEN 'incomeByThird' THEN p.income_by_third
			END AS DECIMAL)), 0)::text AS total
		FROM cash_flow_payments p
		JOIN cash_flows t ON t.id = p.cash_flow_id
		JOIN currencies c ON c.id = p.currency_id
		WHERE p.transaction_type_id = $1
			AND t.is_temporal_transaction = false
			AND ($3::date IS NULL OR t.date BETWEEN $3::date AND $4::date)
			AND ($5::bigint IS NULL OR p.source_entity_id = $5::bigint)
		GROUP BY c.code
		ORDER BY c.code
	`
	paymentMethodBreakdownQuery = `
		SELECT w.name, c.code,
			COALESCE(SUM(CASE WHEN tt.id = $1 THEN CAST(p.amount AS DECIMAL) ELSE 0 END), 0)::text AS income,
			COALESCE(SUM(CASE WHEN tt.id = $2 THEN CAST(p.amount AS DECIMAL) ELSE 0 END), 0)::text AS expense,
			COALESCE(SUM(CASE WHEN tt.id IN ($1, $3) THEN CAST(COALESCE(p.total_due, 0) AS DECIMAL) ELSE 0 END), 0)::text AS payable
		FROM cash_flow_payments p
		JOIN cash_flows t ON t.id = p.cash_flow_id
		JOIN currencies c ON c.id = p.currency_id
		JOIN transaction_types tt ON tt.id = p.transaction_type_id
		JOIN ways_to_pay w ON w.id = p.way_to_pay_id
		WHERE t.is_temporal_transaction = false
			AND tt.id IN ($1, $2, $3)
			AND ($4::date IS NULL OR t.date BETWEEN $4::date AND $5::date)
			AND ($6::bigint IS NULL OR p.source_entity_id = $6::bigint)
		GROUP BY w.name, c.code
		ORDER BY w.name, c.code
	`
	serviceBreakdownQuery = `
		SELECT COALESCE(p.service, '') AS service, c.code,
			COALESCE(SUM(CASE WHEN tt.id = $1 THEN CAST(p.amount AS DECIMAL) ELSE 0 END), 0)::text AS income,
			COALESCE(SUM(CASE WHEN tt.id = $2 THEN CAST(p.amount AS DECIMAL) ELSE 0 END), 0)::text AS expense,
			COALESCE(SUM(CASE WHEN tt.id IN ($1, $3) THEN CAST(COALESCE(p.total_due, 0) AS DECIMAL) ELSE 0 END), 0)::text AS payable
		FROM cash_flow_payments p
		JOIN cash_flows t ON t.id = p.cash_flow_id
		JOIN currencies c ON c.id = p.currency_id
		JOIN transaction_types tt ON tt.id = p.transaction_type_id
		WHERE t.is_temporal_transaction = false
			AND tt.id IN ($1, $2, $3)
			AND ($4::date IS NULL OR t.date BETWEEN $4::date AND $5::date)
			AND ($6::bigint IS NULL OR p.source_entity_id = $6::bigint)
		GROUP BY COALESCE(p.service, ''), c.code
		ORDER BY 1, c.code
	`
	temporalTransactionsQuery = `
		SELECT t.id, t.temporal_transaction_id, t.date,
			COALESCE(t.location, ''), COALESCE(t.created_by, ''),
			COALESCE(c.code, ''), COALESCE(SUM(CAST(p.amount AS DECIMAL)), 0)::text
		FROM cash_flows t
		LEFT JOIN cash_flow_payments p ON p.cash_flow_id = t.id
		LEFT JOIN currencies c ON c.id = p.currency_id
		WHERE t.is_temporal_transaction = true
			AND t.temporal_transaction_id IS NOT NULL
			AND t.date BETWEEN $1::date AND $2::date
		GROUP BY t.id, t.temporal_transaction_id, t.date, t.location, t.created_by, c.code
		ORDER BY t.temporal_transaction_id, t.id
	`
)

// LedgerRepository implements cashflow.LedgerRepository for PostgreSQL
type LedgerRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewLedgerRepository creates the read-only aggregation repository over the ledger tables
func NewLedgerRepository(logger *slog.Logger, db *persistence.PostgresDB) cashflow.LedgerRepository {
	return &LedgerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// SumByCurrency sums one payment column per currency code
func (r *LedgerRepository) SumByCurrency(ctx context.Context, filter cashflow.SumFilter) ([]cashflow.CurrencySum, error) {
	if !filter.Column.Valid() {
		return nil, cashflow.ErrUnknownColumn{Column: filter.Column}
	}

	from, to := windowArgs(filter.Window)
	rows, err := r.querier.Query(ctx, sumByCurrencyQuery,
		filter.TypeID,
		string(filter.Column),
		from,
		to,
		entityArg(filter.EntityID),
	)
	if err != nil {
		r.logger.Error("Failed to sum payments by currency", "type_id", filter.TypeID, "column", filter.Column, "error", err)
		return nil, fmt.Errorf("failed to sum payments by currency: %w", err)
	}
	defer rows.Close()

	var sums []cashflow.CurrencySum
	for rows.Next() {
		var code, total string
		if err := rows.Scan(&code, &total); err != nil {
			r.logger.Error("Failed to scan currency sum", "error", err)
			return nil, fmt.Errorf("failed to scan currency sum: %w", err)
		}
		amount, err := decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("failed to parse sum %q for %s: %w", total, code, err)
		}
		sums = append(sums, cashflow.CurrencySum{Code: code, Total: amount})
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating currency sum rows", "error", err)
		return nil, fmt.Errorf("error iterating currency sum rows: %w", err)
	}

	return sums, nil
}

// PaymentMethodBreakdown groups income, expense and payables by way to pay and currency
func (r *LedgerRepository) PaymentMethodBreakdown(ctx context.Context, filter cashflow.BreakdownFilter) ([]cashflow.PaymentMethodRow, error) {
	rows, err := r.queryBreakdown(ctx, paymentMethodBreakdownQuery, filter)
	if err != nil {
		r.logger.Error("Failed to query payment method breakdown", "error", err)
		return nil, fmt.Errorf("failed to query payment method breakdown: %w", err)
	}
	defer rows.Close()

	var out []cashflow.PaymentMethodRow
	for rows.Next() {
		var row cashflow.PaymentMethodRow
		var income, expense, payable string
		if err := rows.Scan(&row.WayToPay, &row.CurrencyCode, &income, &expense, &payable); err != nil {
			r.logger.Error("Failed to scan payment method row", "error", err)
			return nil, fmt.Errorf("failed to scan payment method row: %w", err)
		}
		if row.Income, row.Expense, row.Payable, err = parseTriple(income, expense, payable); err != nil {
			return nil, fmt.Errorf("failed to parse payment method row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating payment method rows", "error", err)
		return nil, fmt.Errorf("error iterating payment method rows: %w", err)
	}

	return out, nil
}

// ServiceBreakdown groups income, expense and payables by service label and currency
func (r *LedgerRepository) ServiceBreakdown(ctx context.Context, filter cashflow.BreakdownFilter) ([]cashflow.ServiceRow, error) {
	rows, err := r.queryBreakdown(ctx, serviceBreakdownQuery, filter)
	if err != nil {
		r.logger.Error("Failed to query service breakdown", "error", err)
		return nil, fmt.Errorf("failed to query service breakdown: %w", err)
	}
	defer rows.Close()

	var out []cashflow.ServiceRow
	for rows.Next() {
		var row cashflow.ServiceRow
		var income, expense, payable string
		if err := rows.Scan(&row.Service, &row.CurrencyCode, &income, &expense, &payable); err != nil {
			r.logger.Error("Failed to scan service row", "error", err)
			return nil, fmt.Errorf("failed to scan service row: %w", err)
		}
		if row.Income, row.Expense, row.Payable, err = parseTriple(income, expense, payable); err != nil {
			return nil, fmt.Errorf("failed to parse service row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating service rows", "error", err)
		return nil, fmt.Errorf("error iterating service rows: %w", err)
	}

	return out, nil
}

// TemporalTransactions lists temporal rows in the window with their amount per currency
func (r *LedgerRepository) TemporalTransactions(ctx context.Context, window cashflow.Window) ([]cashflow.TemporalRow, error) {
	rows, err := r.querier.Query(ctx, temporalTransactionsQuery, window.From, window.To)
	if err != nil {
		r.logger.Error("Failed to query temporal transactions", "window", window.String(), "error", err)
		return nil, fmt.Errorf("failed to query temporal transactions: %w", err)
	}
	defer rows.Close()

	var out []cashflow.TemporalRow
	for rows.Next() {
		var row cashflow.TemporalRow
		var amount string
		if err := rows.Scan(&row.TransactionID, &row.TemporalTransactionID, &row.Date,
			&row.Location, &row.CreatedBy, &row.CurrencyCode, &amount); err != nil {
			r.logger.Error("Failed to scan temporal transaction", "error", err)
			return nil, fmt.Errorf("failed to scan temporal transaction: %w", err)
		}
		if row.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("failed to parse temporal amount %q: %w", amount, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating temporal transaction rows", "error", err)
		return nil, fmt.Errorf("error iterating temporal transaction rows: %w", err)
	}

	return out, nil
}

func (r *LedgerRepository) queryBreakdown(ctx context.Context, query string, filter cashflow.BreakdownFilter) (pgx.Rows, error) {
	from, to := windowArgs(filter.Window)
	return r.querier.Query(ctx, query,
		filter.IncomeTypeID,
		filter.ExpenseTypeID,
		filter.PayableTypeID,
		from,
		to,
		entityArg(filter.EntityID),
	)
}

// windowArgs returns untyped nils for an absent window so that "$n IS NULL" holds
func windowArgs(w *cashflow.Window) (any, any) {
	if w == nil {
		return nil, nil
	}
	return w.From, w.To
}

func entityArg(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func parseTriple(a, b, c string) (decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	da, err := decimal.NewFromString(a)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	db, err := decimal.NewFromString(b)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	dc, err := decimal.NewFromString(c)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	return da, db, dc, nil
}
