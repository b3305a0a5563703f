package cashflow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_JSONShape(t *testing.T) {
	raw, err := json.Marshal(Report{})
	require.NoError(t, err)

	var shape map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &shape))

	assert.ElementsMatch(t, []string{"flujoDeEfectivo", "cuentas", "analisis", "resumen"}, keys(shape))
	assert.ElementsMatch(t, []string{"ingreso", "egreso", "disponibilidad"}, keys(shape["flujoDeEfectivo"]))
	assert.ElementsMatch(t, []string{"cuentasPorCobrar", "cuentasPorPagar"}, keys(shape["cuentas"]))
	assert.ElementsMatch(t, []string{"utilidad", "disponibilidadPorEntidad", "utilidadPorServicio"}, keys(shape["analisis"]))
	assert.ElementsMatch(t, []string{"ingresoTotal", "egresoTotal", "utilidadNeta", "disponibilidadTotal"}, keys(shape["resumen"]))
}

func TestColumn_Valid(t *testing.T) {
	for _, c := range []Column{ColumnAmount, ColumnPendingToCollect, ColumnTotalDue, ColumnIncomeByThird} {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, Column("amount; DROP TABLE").Valid())
	assert.Equal(t, `unknown payment column: "x"`, ErrUnknownColumn{Column: "x"}.Error())
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
