// Package export writes parsed orders and simulation runs to xlsx workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/stockflow/internal/orderparser"
	"github.com/andresuchdata/stockflow/internal/simulation"
)

const (
	ordersSheet   = "Orders"
	daysSheet     = "Days"
	reordersSheet = "Reorders"
	summarySheet  = "Summary"
)

// WriteOrders writes one row per parsed order: day, source line, quantity,
// clothing type and size. Lines without orders are kept with empty order cells.
func WriteOrders(w io.Writer, days []orderparser.Day) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(ordersSheet)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}

	row := 1
	write := func(values ...any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return sw.SetRow(cell, values)
	}

	if err := write("Day", "Line", "Quantity", "Clothing type", "Size"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, d := range days {
		if len(d.Orders) == 0 {
			if err := write(d.Index, d.Text); err != nil {
				return fmt.Errorf("write day %d: %w", d.Index, err)
			}
			continue
		}
		for _, o := range d.Orders {
			if err := write(d.Index, d.Text, o.Quantity, o.ClothingType, o.Size); err != nil {
				return fmt.Errorf("write day %d: %w", d.Index, err)
			}
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush orders sheet: %w", err)
	}

	_, err = f.WriteTo(w)
	return err
}

// WriteSimulation writes a run as three sheets: per-day stock (when the run
// was traced), every reorder, and the per-material summary with final stock.
func WriteSimulation(w io.Writer, result *simulation.Result) error {
	if result == nil {
		return fmt.Errorf("nothing to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{reordersSheet, daysSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	materialKeys := result.FinalStock.Keys()

	totals := make(map[string]simulation.MaterialSummary)
	for _, s := range result.Summary() {
		totals[s.Material] = s
	}
	rows := [][]any{{"Material", "Final stock", "Reorders", "Reordered quantity"}}
	for _, m := range materialKeys {
		s := totals[m]
		rows = append(rows, []any{m, result.FinalStock[m], s.Orders, s.Quantity})
	}
	rows = append(rows, []any{}, []any{"EOQ", result.EOQ}, []any{"Reorder point", result.ReorderPoint}, []any{"Days run", result.DaysRun})
	if err := setRows(f, summarySheet, rows); err != nil {
		return err
	}

	rows = [][]any{{"Day", "Arrival day", "Material", "Quantity"}}
	for _, r := range result.Reorders {
		rows = append(rows, []any{r.Day, r.ArrivalDay, r.Material, r.Quantity})
	}
	if err := setRows(f, reordersSheet, rows); err != nil {
		return err
	}

	header := []any{"Day", "Line"}
	for _, m := range materialKeys {
		header = append(header, "demand "+m)
	}
	for _, m := range materialKeys {
		header = append(header, "stock "+m)
	}
	rows = [][]any{header}
	for _, d := range result.Days {
		row := []any{d.Day, d.Line}
		for _, m := range materialKeys {
			row = append(row, d.Demand[m])
		}
		for _, m := range materialKeys {
			row = append(row, d.Stock[m])
		}
		rows = append(rows, row)
	}
	if err := setRows(f, daysSheet, rows); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
