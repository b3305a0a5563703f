package reporting

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/realestate-cashflow/internal/domain/cashflow"
	"github.com/realestate-cashflow/internal/domain/lookup"
)

// LegacyGenerator produces the older close shape: windowed and all-time income and
// expense as text, plus the temporal transfer groups of the window.
// New report fields belong in Composer.
type LegacyGenerator struct {
	resolver   *LookupResolver
	aggregator *Aggregator
	ledger     cashflow.LedgerRepository
	logger     *slog.Logger
}

func NewLegacyGenerator(logger *slog.Logger, resolver *LookupResolver, aggregator *Aggregator, ledger cashflow.LedgerRepository) *LegacyGenerator {
	return &LegacyGenerator{
		resolver:   resolver,
		aggregator: aggregator,
		ledger:     ledger,
		logger:     logger.With("component", "legacy_generator"),
	}
}

// Generate builds the legacy report for window
func (g *LegacyGenerator) Generate(ctx context.Context, window cashflow.Window) (*cashflow.LegacyReport, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	incomeID, err := g.resolver.ResolveTransactionTypeID(ctx, lookup.TransactionTypeIncome)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve transaction type %q: %w", lookup.TransactionTypeIncome, err)
	}
	expenseID, err := g.resolver.ResolveTransactionTypeID(ctx, lookup.TransactionTypeExpense)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve transaction type %q: %w", lookup.TransactionTypeExpense, err)
	}

	windowed, err := g.totals(ctx, incomeID, expenseID, &window)
	if err != nil {
		return nil, err
	}
	allTime, err := g.totals(ctx, incomeID, expenseID, nil)
	if err != nil {
		return nil, err
	}

	rows, err := g.ledger.TemporalTransactions(ctx, window)
	if err != nil {
		return nil, err
	}
	groups := g.groupTemporal(rows)

	g.logger.Info("legacy close generated", "window", window.String(), "temporal_groups", len(groups))

	return &cashflow.LegacyReport{
		Totals:               []cashflow.LegacyTotals{windowed, allTime},
		TemporalTransactions: groups,
	}, nil
}

func (g *LegacyGenerator) totals(ctx context.Context, incomeID, expenseID int64, window *cashflow.Window) (cashflow.LegacyTotals, error) {
	income, err := g.aggregator.SumText(ctx, SumQuery{TypeID: incomeID, Column: cashflow.ColumnAmount, Window: window})
	if err != nil {
		return cashflow.LegacyTotals{}, err
	}
	expense, err := g.aggregator.SumText(ctx, SumQuery{TypeID: expenseID, Column: cashflow.ColumnAmount, Window: window})
	if err != nil {
		return cashflow.LegacyTotals{}, err
	}
	return cashflow.LegacyTotals{Income: income, Expense: expense}, nil
}

// groupTemporal folds rows ordered by temporal id then transaction id. The lowest
// transaction id of a group is the origin, the highest the destination; the group
// amount is the origin's payments.
func (g *LegacyGenerator) groupTemporal(rows []cashflow.TemporalRow) []cashflow.TemporalGroup {
	type pending struct {
		group  cashflow.TemporalGroup
		amount cashflow.Amounts
	}

	var order []int64
	byID := make(map[int64]*pending)
	for _, row := range rows {
		p, seen := byID[row.TemporalTransactionID]
		if !seen {
			p = &pending{group: cashflow.TemporalGroup{
				TemporalTransactionID: row.TemporalTransactionID,
				OriginID:              row.TransactionID,
				Origin:                row.Location,
				CreatedBy:             row.CreatedBy,
				Date:                  row.Date,
			}}
			byID[row.TemporalTransactionID] = p
			order = append(order, row.TemporalTransactionID)
		}

		if row.TransactionID < p.group.OriginID {
			p.group.OriginID = row.TransactionID
			p.group.Origin = row.Location
			p.group.CreatedBy = row.CreatedBy
			p.group.Date = row.Date
			p.amount = cashflow.Amounts{}
		}
		if row.TransactionID >= p.group.DestinationID {
			p.group.DestinationID = row.TransactionID
			p.group.Destination = row.Location
		}

		if row.TransactionID == p.group.OriginID && row.CurrencyCode != "" {
			if b, ok := g.aggregator.bucket(row.CurrencyCode); ok {
				p.amount.AddTo(b, row.Amount)
			}
		}
	}

	out := make([]cashflow.TemporalGroup, 0, len(order))
	for _, id := range order {
		p := byID[id]
		p.group.Amount = p.amount.Text()
		out = append(out, p.group)
	}
	return out
}
