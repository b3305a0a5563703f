package cashflow

import "time"

// NoServiceLabel groups payments without a service label
const NoServiceLabel = "Sin Servicio"

// Report is the composed totals close
type Report struct {
	CashFlow CashFlowSection `json:"flujoDeEfectivo"`
	Accounts AccountsSection `json:"cuentas"`
	Analysis AnalysisSection `json:"analisis"`
	Summary  SummarySection  `json:"resumen"`
}

type CashFlowSection struct {
	Income    Totals `json:"ingreso"`
	Expense   Totals `json:"egreso"`
	Available Totals `json:"disponibilidad"`
}

type AccountsSection struct {
	Receivables Totals `json:"cuentasPorCobrar"`
	Payables    Totals `json:"cuentasPorPagar"`
}

type AnalysisSection struct {
	Profit            Totals               `json:"utilidad"`
	AvailableByEntity []EntityAvailability `json:"disponibilidadPorEntidad"`
	ProfitByService   []ServiceProfit      `json:"utilidadPorServicio"`
}

// EntityAvailability is the per source entity breakdown, rounded to cents
type EntityAvailability struct {
	Entity         string                   `json:"entidad"`
	EntityID       int64                    `json:"id"`
	Income         Totals                   `json:"ingreso"`
	Expense        Totals                   `json:"egreso"`
	Payables       Totals                   `json:"cuentasPorPagar"`
	Available      Totals                   `json:"disponibilidad"`
	Profit         Totals                   `json:"utilidad"`
	PaymentMethods []PaymentMethodBreakdown `json:"formasDePago"`
}

type PaymentMethodBreakdown struct {
	WayToPay  string `json:"formaDePago"`
	Income    Totals `json:"ingreso"`
	Expense   Totals `json:"egreso"`
	Payables  Totals `json:"cuentasPorPagar"`
	Available Totals `json:"disponibilidad"`
}

type ServiceProfit struct {
	Service  string `json:"servicio"`
	Income   Totals `json:"ingreso"`
	Expense  Totals `json:"egreso"`
	Payables Totals `json:"cuentasPorPagar"`
	Profit   Totals `json:"utilidad"`
}

type SummarySection struct {
	TotalIncome    Totals `json:"ingresoTotal"`
	TotalExpense   Totals `json:"egresoTotal"`
	NetProfit      Totals `json:"utilidadNeta"`
	TotalAvailable Totals `json:"disponibilidadTotal"`
}

// LegacyReport is the superseded close shape kept for older consumers
type LegacyReport struct {
	Totals               []LegacyTotals  `json:"totales"` // [windowed, all time]
	TemporalTransactions []TemporalGroup `json:"transaccionesTemporales"`
}

type LegacyTotals struct {
	Income  TextTotals `json:"ingreso"`
	Expense TextTotals `json:"egreso"`
}

// TemporalGroup is an in-transit transfer: rows sharing one temporal transaction id
type TemporalGroup struct {
	TemporalTransactionID int64      `json:"idTransaccionTemporal"`
	OriginID              int64      `json:"idOrigen"`
	DestinationID         int64      `json:"idDestino"`
	Origin                string     `json:"origen"`
	Destination           string     `json:"destino"`
	CreatedBy             string     `json:"creadoPor"`
	Date                  time.Time  `json:"fecha"`
	Amount                TextTotals `json:"monto"`
}
