package reporting

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/realestate-cashflow/internal/domain/cashflow"
	"github.com/realestate-cashflow/internal/domain/lookup"
	"github.com/shopspring/decimal"
)

const (
	globalPrecision = 0
	detailPrecision = 2
)

// ComposeOptions tunes a single report generation
type ComposeOptions struct {
	IncludeRestricted bool   // privileged callers also see restricted entities
	Entity            string // limit the per-entity breakdown to this entity name
}

// Composer builds the totals report. All queries run sequentially and the first
// error aborts the whole report.
type Composer struct {
	resolver   *LookupResolver
	aggregator *Aggregator
	lookups    lookup.Repository
	ledger     cashflow.LedgerRepository
	logger     *slog.Logger
}

func NewComposer(logger *slog.Logger, resolver *LookupResolver, aggregator *Aggregator, lookups lookup.Repository, ledger cashflow.LedgerRepository) *Composer {
	return &Composer{
		resolver:   resolver,
		aggregator: aggregator,
		lookups:    lookups,
		ledger:     ledger,
		logger:     logger.With("component", "composer"),
	}
}

// typeIDs are the transaction types every report needs
type typeIDs struct {
	income     int64
	expense    int64
	receivable int64
	payable    int64
}

// ComputeTotals composes the report over window; a nil window covers all time
func (c *Composer) ComputeTotals(ctx context.Context, window *cashflow.Window, opts ComposeOptions) (*cashflow.Report, error) {
	ids, err := c.resolveTypes(ctx)
	if err != nil {
		return nil, err
	}

	income, err := c.sum(ctx, ids.income, cashflow.ColumnAmount, window, nil)
	if err != nil {
		return nil, err
	}
	expense, err := c.sum(ctx, ids.expense, cashflow.ColumnAmount, window, nil)
	if err != nil {
		return nil, err
	}

	receivables, err := c.receivables(ctx, ids, window)
	if err != nil {
		return nil, err
	}
	payables, err := c.payables(ctx, ids, window, nil)
	if err != nil {
		return nil, err
	}

	profit := income.Sub(expense).Sub(payables).Round(globalPrecision)
	available := income.Sub(expense).Round(globalPrecision)

	byEntity, err := c.entityBreakdown(ctx, ids, window, opts)
	if err != nil {
		return nil, err
	}

	byService, err := c.serviceBreakdown(ctx, ids, window)
	if err != nil {
		return nil, err
	}

	report := &cashflow.Report{
		CashFlow: cashflow.CashFlowSection{
			Income:    income.Totals(),
			Expense:   expense.Totals(),
			Available: available.Totals(),
		},
		Accounts: cashflow.AccountsSection{
			Receivables: receivables.Totals(),
			Payables:    payables.Totals(),
		},
		Analysis: cashflow.AnalysisSection{
			Profit:            profit.Totals(),
			AvailableByEntity: byEntity,
			ProfitByService:   byService,
		},
		Summary: cashflow.SummarySection{
			TotalIncome:    income.Totals(),
			TotalExpense:   expense.Totals(),
			NetProfit:      profit.Totals(),
			TotalAvailable: available.Totals(),
		},
	}

	c.logger.Info("totals composed",
		"window", windowLabel(window),
		"entities", len(byEntity),
		"services", len(byService))

	return report, nil
}

func (c *Composer) resolveTypes(ctx context.Context) (typeIDs, error) {
	var ids typeIDs
	targets := []struct {
		name string
		dst  *int64
	}{
		{lookup.TransactionTypeIncome, &ids.income},
		{lookup.TransactionTypeExpense, &ids.expense},
		{lookup.TransactionTypeReceivable, &ids.receivable},
		{lookup.TransactionTypePayable, &ids.payable},
	}
	for _, t := range targets {
		id, err := c.resolver.ResolveTransactionTypeID(ctx, t.name)
		if err != nil {
			return typeIDs{}, fmt.Errorf("failed to resolve transaction type %q: %w", t.name, err)
		}
		*t.dst = id
	}
	return ids, nil
}

func (c *Composer) sum(ctx context.Context, typeID int64, column cashflow.Column, window *cashflow.Window, entityID *int64) (cashflow.Amounts, error) {
	return c.aggregator.SumAmounts(ctx, SumQuery{TypeID: typeID, Column: column, Window: window, EntityID: entityID})
}

// receivables = Ingreso.pendingToCollect + Cuenta por cobrar.pendingToCollect
func (c *Composer) receivables(ctx context.Context, ids typeIDs, window *cashflow.Window) (cashflow.Amounts, error) {
	fromIncome, err := c.sum(ctx, ids.income, cashflow.ColumnPendingToCollect, window, nil)
	if err != nil {
		return cashflow.Amounts{}, err
	}
	fromReceivables, err := c.sum(ctx, ids.receivable, cashflow.ColumnPendingToCollect, window, nil)
	if err != nil {
		return cashflow.Amounts{}, err
	}
	return fromIncome.Add(fromReceivables), nil
}

// payables = Ingreso.totalDue + Cuenta por pagar.totalDue
func (c *Composer) payables(ctx context.Context, ids typeIDs, window *cashflow.Window, entityID *int64) (cashflow.Amounts, error) {
	fromIncome, err := c.sum(ctx, ids.income, cashflow.ColumnTotalDue, window, entityID)
	if err != nil {
		return cashflow.Amounts{}, err
	}
	fromPayables, err := c.sum(ctx, ids.payable, cashflow.ColumnTotalDue, window, entityID)
	if err != nil {
		return cashflow.Amounts{}, err
	}
	return fromIncome.Add(fromPayables), nil
}

func (c *Composer) visibleEntities(ctx context.Context, opts ComposeOptions) ([]lookup.SourceEntity, error) {
	entities, err := c.lookups.ListSourceEntities(ctx)
	if err != nil {
		return nil, err
	}

	var onlyID int64
	if opts.Entity != "" {
		if onlyID, err = c.resolver.ResolveEntityID(ctx, opts.Entity); err != nil {
			return nil, fmt.Errorf("failed to resolve source entity %q: %w", opts.Entity, err)
		}
	}

	visible := make([]lookup.SourceEntity, 0, len(entities))
	for _, e := range entities {
		if e.Restricted && !opts.IncludeRestricted {
			continue
		}
		if onlyID != 0 && e.ID != onlyID {
			continue
		}
		visible = append(visible, e)
	}
	return visible, nil
}

func (c *Composer) entityBreakdown(ctx context.Context, ids typeIDs, window *cashflow.Window, opts ComposeOptions) ([]cashflow.EntityAvailability, error) {
	entities, err := c.visibleEntities(ctx, opts)
	if err != nil {
		return nil, err
	}

	out := make([]cashflow.EntityAvailability, 0, len(entities))
	for _, e := range entities {
		entityID := e.ID

		income, err := c.sum(ctx, ids.income, cashflow.ColumnAmount, window, &entityID)
		if err != nil {
			return nil, err
		}
		expense, err := c.sum(ctx, ids.expense, cashflow.ColumnAmount, window, &entityID)
		if err != nil {
			return nil, err
		}
		payables, err := c.payables(ctx, ids, window, &entityID)
		if err != nil {
			return nil, err
		}

		methods, err := c.paymentMethods(ctx, ids, window, entityID)
		if err != nil {
			return nil, err
		}

		out = append(out, cashflow.EntityAvailability{
			Entity:         e.Name,
			EntityID:       e.ID,
			Income:         income.Round(detailPrecision).Totals(),
			Expense:        expense.Round(detailPrecision).Totals(),
			Payables:       payables.Round(detailPrecision).Totals(),
			Available:      income.Sub(expense).Round(detailPrecision).Totals(),
			Profit:         income.Sub(expense).Sub(payables).Round(detailPrecision).Totals(),
			PaymentMethods: methods,
		})
	}
	return out, nil
}

// flows accumulates the three grouped sums of one breakdown bucket
type flows struct {
	income  cashflow.Amounts
	expense cashflow.Amounts
	payable cashflow.Amounts
}

func (f *flows) add(b cashflow.Bucket, income, expense, payable decimal.Decimal) {
	f.income.AddTo(b, income)
	f.expense.AddTo(b, expense)
	f.payable.AddTo(b, payable)
}

func (c *Composer) paymentMethods(ctx context.Context, ids typeIDs, window *cashflow.Window, entityID int64) ([]cashflow.PaymentMethodBreakdown, error) {
	rows, err := c.ledger.PaymentMethodBreakdown(ctx, breakdownFilter(ids, window, &entityID))
	if err != nil {
		return nil, err
	}

	var order []string
	groups := make(map[string]*flows)
	for _, row := range rows {
		b, ok := c.aggregator.bucket(row.CurrencyCode)
		if !ok {
			continue
		}
		g, seen := groups[row.WayToPay]
		if !seen {
			g = &flows{}
			groups[row.WayToPay] = g
			order = append(order, row.WayToPay)
		}
		g.add(b, row.Income, row.Expense, row.Payable)
	}

	out := make([]cashflow.PaymentMethodBreakdown, 0, len(order))
	for _, name := range order {
		g := groups[name]
		out = append(out, cashflow.PaymentMethodBreakdown{
			WayToPay:  name,
			Income:    g.income.Round(detailPrecision).Totals(),
			Expense:   g.expense.Round(detailPrecision).Totals(),
			Payables:  g.payable.Round(detailPrecision).Totals(),
			Available: g.income.Sub(g.expense).Round(detailPrecision).Totals(),
		})
	}
	return out, nil
}

func (c *Composer) serviceBreakdown(ctx context.Context, ids typeIDs, window *cashflow.Window) ([]cashflow.ServiceProfit, error) {
	rows, err := c.ledger.ServiceBreakdown(ctx, breakdownFilter(ids, window, nil))
	if err != nil {
		return nil, err
	}

	var order []string
	groups := make(map[string]*flows)
	for _, row := range rows {
		b, ok := c.aggregator.bucket(row.CurrencyCode)
		if !ok {
			continue
		}
		label := strings.TrimSpace(row.Service)
		if label == "" {
			label = cashflow.NoServiceLabel
		}
		g, seen := groups[label]
		if !seen {
			g = &flows{}
			groups[label] = g
			order = append(order, label)
		}
		g.add(b, row.Income, row.Expense, row.Payable)
	}

	out := make([]cashflow.ServiceProfit, 0, len(order))
	for _, label := range order {
		g := groups[label]
		out = append(out, cashflow.ServiceProfit{
			Service:  label,
			Income:   g.income.Totals(),
			Expense:  g.expense.Totals(),
			Payables: g.payable.Totals(),
			Profit:   g.income.Sub(g.expense).Sub(g.payable).Round(detailPrecision).Totals(),
		})
	}
	return out, nil
}

func breakdownFilter(ids typeIDs, window *cashflow.Window, entityID *int64) cashflow.BreakdownFilter {
	return cashflow.BreakdownFilter{
		IncomeTypeID:  ids.income,
		ExpenseTypeID: ids.expense,
		PayableTypeID: ids.payable,
		Window:        window,
		EntityID:      entityID,
	}
}

func windowLabel(w *cashflow.Window) string {
	if w == nil {
		return "all"
	}
	return w.String()
}
