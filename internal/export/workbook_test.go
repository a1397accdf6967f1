package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/stockflow/internal/orderparser"
	"github.com/andresuchdata/stockflow/internal/simulation"
)

func openWorkbook(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWriteOrders(t *testing.T) {
	days := orderparser.ParseLines([]string{
		"145SweaterXL200TshirtM",
		"nothing here",
		"135 Sweater XL",
	})

	var buf bytes.Buffer
	require.NoError(t, WriteOrders(&buf, days))

	f := openWorkbook(t, &buf)
	rows, err := f.GetRows(ordersSheet)
	require.NoError(t, err)

	// header + two fused orders + empty day + one spaced order
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Day", "Line", "Quantity", "Clothing type", "Size"}, rows[0])
	assert.Equal(t, []string{"1", "145SweaterXL200TshirtM", "145", "Sweater", "XL"}, rows[1])
	assert.Equal(t, []string{"1", "145SweaterXL200TshirtM", "200", "Tshirt", "M"}, rows[2])
	assert.Equal(t, []string{"2", "nothing here"}, rows[3])
	assert.Equal(t, []string{"3", "135 Sweater XL", "135", "Sweater", "XL"}, rows[4])
}

func TestWriteSimulation(t *testing.T) {
	result := &simulation.Result{
		FinalStock: simulation.Ledger{"cotton": 900, "fabric": 1200},
		Reorders: []simulation.Reorder{
			{Day: 2, ArrivalDay: 9, Material: "fabric", Quantity: 1195.5},
		},
		Days: []simulation.DayRecord{
			{Day: 1, Line: "10 Tshirt M", Demand: map[string]float64{"fabric": 10}, Stock: simulation.Ledger{"cotton": 900, "fabric": 1210}},
		},
		DaysRun:      1,
		EOQ:          1195.5,
		ReorderPoint: 1958.9,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSimulation(&buf, result))

	f := openWorkbook(t, &buf)
	assert.Equal(t, []string{summarySheet, reordersSheet, daysSheet}, f.GetSheetList())

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"cotton", "900", "0", "0"}, summary[1])
	assert.Equal(t, []string{"fabric", "1200", "1", "1195.5"}, summary[2])

	reorders, err := f.GetRows(reordersSheet)
	require.NoError(t, err)
	require.Len(t, reorders, 2)
	assert.Equal(t, []string{"2", "9", "fabric", "1195.5"}, reorders[1])

	trace, err := f.GetRows(daysSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Day", "Line", "demand cotton", "demand fabric", "stock cotton", "stock fabric"}, trace[0])
	assert.Equal(t, []string{"1", "10 Tshirt M", "0", "10", "900", "1210"}, trace[1])
}

func TestWriteSimulation_Nil(t *testing.T) {
	assert.Error(t, WriteSimulation(&bytes.Buffer{}, nil))
}
