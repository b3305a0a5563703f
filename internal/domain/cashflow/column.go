package cashflow

import "fmt"

// Column selects the monetary field of a payment that is summed
type Column string

const (
	ColumnAmount           Column = "amount"
	ColumnPendingToCollect Column = "pendingToCollect"
	ColumnTotalDue         Column = "totalDue"
	ColumnIncomeByThird    Column = "incomeByThird"
)

// ErrUnknownColumn is returned for a column outside the fixed set
type ErrUnknownColumn struct {
	Column Column
}

func (e ErrUnknownColumn) Error() string {
	return fmt.Sprintf("unknown payment column: %q", string(e.Column))
}

// Valid reports whether c is one of the summable columns
func (c Column) Valid() bool {
	switch c {
	case ColumnAmount, ColumnPendingToCollect, ColumnTotalDue, ColumnIncomeByThird:
		return true
	}
	return false
}
