package reporting

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/realestate-cashflow/internal/domain/cashflow"
	"github.com/realestate-cashflow/internal/domain/lookup"
	"github.com/shopspring/decimal"
)

// Seeded type ids used by the fakes
const (
	incomeID     int64 = 1
	expenseID    int64 = 2
	receivableID int64 = 3
	payableID    int64 = 4
)

// fakePayment is one ledger line joined with its transaction
type fakePayment struct {
	TxID       int64
	Date       time.Time
	Temporal   bool
	TemporalID int64
	Location   string
	CreatedBy  string

	TypeID   int64
	Code     string
	WayToPay string
	EntityID int64 // 0 for none
	Service  *string
	Amount   string
	Pending  string
	TotalDue string
}

func dec(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	return decimal.RequireFromString(s)
}

func (p fakePayment) column(c cashflow.Column) decimal.Decimal {
	switch c {
	case cashflow.ColumnPendingToCollect:
		return dec(p.Pending)
	case cashflow.ColumnTotalDue:
		return dec(p.TotalDue)
	case cashflow.ColumnIncomeByThird:
		return decimal.Zero
	}
	return dec(p.Amount)
}

func inWindow(w *cashflow.Window, d time.Time) bool {
	return w == nil || (!d.Before(w.From) && !d.After(w.To))
}

func entityMatches(id *int64, entity int64) bool {
	return id == nil || *id == entity
}

// fakeLedger evaluates the ledger queries over an in-memory payment list
type fakeLedger struct {
	mu       sync.Mutex
	payments []fakePayment
	calls    int
}

func (f *fakeLedger) SumByCurrency(_ context.Context, filter cashflow.SumFilter) ([]cashflow.CurrencySum, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	totals := map[string]decimal.Decimal{}
	for _, p := range f.payments {
		if p.Temporal || p.TypeID != filter.TypeID || !inWindow(filter.Window, p.Date) || !entityMatches(filter.EntityID, p.EntityID) {
			continue
		}
		totals[p.Code] = totals[p.Code].Add(p.column(filter.Column))
	}

	codes := make([]string, 0, len(totals))
	for code := range totals {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]cashflow.CurrencySum, 0, len(codes))
	for _, code := range codes {
		out = append(out, cashflow.CurrencySum{Code: code, Total: totals[code]})
	}
	return out, nil
}

type groupedFlows struct {
	income, expense, payable decimal.Decimal
}

func (f *fakeLedger) grouped(filter cashflow.BreakdownFilter, label func(fakePayment) string) ([]string, []string, map[[2]string]*groupedFlows) {
	groups := map[[2]string]*groupedFlows{}
	var keys [][2]string
	for _, p := range f.payments {
		if p.Temporal || !inWindow(filter.Window, p.Date) || !entityMatches(filter.EntityID, p.EntityID) {
			continue
		}
		if p.TypeID != filter.IncomeTypeID && p.TypeID != filter.ExpenseTypeID && p.TypeID != filter.PayableTypeID {
			continue
		}
		key := [2]string{label(p), p.Code}
		g, ok := groups[key]
		if !ok {
			g = &groupedFlows{}
			groups[key] = g
			keys = append(keys, key)
		}
		switch p.TypeID {
		case filter.IncomeTypeID:
			g.income = g.income.Add(dec(p.Amount))
			g.payable = g.payable.Add(dec(p.TotalDue))
		case filter.ExpenseTypeID:
			g.expense = g.expense.Add(dec(p.Amount))
		case filter.PayableTypeID:
			g.payable = g.payable.Add(dec(p.TotalDue))
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	labels := make([]string, len(keys))
	codes := make([]string, len(keys))
	for i, k := range keys {
		labels[i], codes[i] = k[0], k[1]
	}
	return labels, codes, groups
}

func (f *fakeLedger) PaymentMethodBreakdown(_ context.Context, filter cashflow.BreakdownFilter) ([]cashflow.PaymentMethodRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	labels, codes, groups := f.grouped(filter, func(p fakePayment) string { return p.WayToPay })
	out := make([]cashflow.PaymentMethodRow, 0, len(labels))
	for i := range labels {
		g := groups[[2]string{labels[i], codes[i]}]
		out = append(out, cashflow.PaymentMethodRow{WayToPay: labels[i], CurrencyCode: codes[i], Income: g.income, Expense: g.expense, Payable: g.payable})
	}
	return out, nil
}

func (f *fakeLedger) ServiceBreakdown(_ context.Context, filter cashflow.BreakdownFilter) ([]cashflow.ServiceRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	labels, codes, groups := f.grouped(filter, func(p fakePayment) string {
		if p.Service == nil {
			return ""
		}
		return *p.Service
	})
	out := make([]cashflow.ServiceRow, 0, len(labels))
	for i := range labels {
		g := groups[[2]string{labels[i], codes[i]}]
		out = append(out, cashflow.ServiceRow{Service: labels[i], CurrencyCode: codes[i], Income: g.income, Expense: g.expense, Payable: g.payable})
	}
	return out, nil
}

func (f *fakeLedger) TemporalTransactions(_ context.Context, window cashflow.Window) ([]cashflow.TemporalRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	var out []cashflow.TemporalRow
	for _, p := range f.payments {
		if !p.Temporal || p.TemporalID == 0 || !inWindow(&window, p.Date) {
			continue
		}
		merged := false
		for i := range out {
			if out[i].TransactionID == p.TxID && out[i].CurrencyCode == p.Code {
				out[i].Amount = out[i].Amount.Add(dec(p.Amount))
				merged = true
			}
		}
		if !merged {
			out = append(out, cashflow.TemporalRow{
				TransactionID:         p.TxID,
				TemporalTransactionID: p.TemporalID,
				Date:                  p.Date,
				Location:              p.Location,
				CreatedBy:             p.CreatedBy,
				CurrencyCode:          p.Code,
				Amount:                dec(p.Amount),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TemporalTransactionID != out[j].TemporalTransactionID {
			return out[i].TemporalTransactionID < out[j].TemporalTransactionID
		}
		return out[i].TransactionID < out[j].TransactionID
	})
	return out, nil
}

// fakeLookups serves the seeded transaction types and a fixed entity list
type fakeLookups struct {
	mu       sync.Mutex
	entities []lookup.SourceEntity
	queries  int
}

func (f *fakeLookups) TransactionTypeIDByName(_ context.Context, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	switch name {
	case lookup.TransactionTypeIncome:
		return incomeID, nil
	case lookup.TransactionTypeExpense:
		return expenseID, nil
	case lookup.TransactionTypeReceivable:
		return receivableID, nil
	case lookup.TransactionTypePayable:
		return payableID, nil
	}
	return 0, lookup.ErrNotFound{Kind: lookup.KindTransactionType, Name: name}
}

func (f *fakeLookups) SourceEntityIDByName(_ context.Context, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	for _, e := range f.entities {
		if e.Name == name {
			return e.ID, nil
		}
	}
	return 0, lookup.ErrNotFound{Kind: lookup.KindSourceEntity, Name: name}
}

func (f *fakeLookups) ListSourceEntities(context.Context) ([]lookup.SourceEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]lookup.SourceEntity(nil), f.entities...), nil
}

func strPtr(s string) *string { return &s }

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func january() *cashflow.Window {
	return &cashflow.Window{From: day(1), To: day(31)}
}
