package reporting

import (
	"context"
	"log/slog"

	"github.com/realestate-cashflow/internal/domain/cashflow"
)

// SumQuery selects what one aggregation sums
type SumQuery struct {
	TypeID   int64
	Column   cashflow.Column
	Window   *cashflow.Window // nil for all time
	EntityID *int64           // nil for every entity
}

// Aggregator sums payment columns into the three currency buckets
type Aggregator struct {
	ledger cashflow.LedgerRepository
	logger *slog.Logger
}

func NewAggregator(logger *slog.Logger, ledger cashflow.LedgerRepository) *Aggregator {
	return &Aggregator{
		ledger: ledger,
		logger: logger.With("component", "aggregator"),
	}
}

// SumAmounts returns the exact per-bucket sums. Temporal transactions never contribute.
// Codes without a bucket are dropped.
func (a *Aggregator) SumAmounts(ctx context.Context, q SumQuery) (cashflow.Amounts, error) {
	if q.Window != nil {
		if err := q.Window.Validate(); err != nil {
			return cashflow.Amounts{}, err
		}
	}

	sums, err := a.ledger.SumByCurrency(ctx, cashflow.SumFilter{
		TypeID:   q.TypeID,
		Column:   q.Column,
		Window:   q.Window,
		EntityID: q.EntityID,
	})
	if err != nil {
		return cashflow.Amounts{}, err
	}

	var out cashflow.Amounts
	for _, s := range sums {
		if b, ok := a.bucket(s.Code); ok {
			out.AddTo(b, s.Total)
		}
	}
	return out, nil
}

// Sum returns the sums as floating point
func (a *Aggregator) Sum(ctx context.Context, q SumQuery) (cashflow.Totals, error) {
	amounts, err := a.SumAmounts(ctx, q)
	if err != nil {
		return cashflow.Totals{}, err
	}
	return amounts.Totals(), nil
}

// SumText returns the sums as decimal strings, "0" for empty buckets
func (a *Aggregator) SumText(ctx context.Context, q SumQuery) (cashflow.TextTotals, error) {
	amounts, err := a.SumAmounts(ctx, q)
	if err != nil {
		return cashflow.TextTotals{}, err
	}
	return amounts.Text(), nil
}

// bucket maps a currency code and logs the codes that are dropped
func (a *Aggregator) bucket(code string) (cashflow.Bucket, bool) {
	b, ok := cashflow.BucketForCode(code)
	if !ok {
		a.logger.Debug("dropping unmapped currency", "code", code)
	}
	return b, ok
}
