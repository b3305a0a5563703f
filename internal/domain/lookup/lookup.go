package lookup

// Transaction type names seeded in the back office. Matching is exact.
const (
	TransactionTypeIncome     = "Ingreso"
	TransactionTypeExpense    = "Egreso"
	TransactionTypeReceivable = "Cuenta por cobrar"
	TransactionTypePayable    = "Cuenta por pagar"
	TransactionTypeThirdParty = "Ingreso a cuenta de terceros"
)

// Kind names a family of configuration rows
type Kind string

const (
	KindTransactionType Kind = "transaction_type"
	KindSourceEntity    Kind = "source_entity"
)

// TransactionType is a named ledger category
type TransactionType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SourceEntity is a named cash-holding account or location.
// Restricted entities are hidden from non-privileged report views.
type SourceEntity struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Restricted bool   `json:"restricted"`
}
