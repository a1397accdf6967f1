package drive

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadXLSXLines returns one order line per row of the first sheet, with the
// non-empty cells of each row joined by a single space. Rows with no content
// still yield an empty line so that row numbers stay aligned with days.
func ReadXLSXLines(xlsxPath string) ([]string, error) {
	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file %s: %w", xlsxPath, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file %s has no sheets", xlsxPath)
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row from %s: %w", xlsxPath, err)
		}
		cells := make([]string, 0, len(record))
		for _, c := range record {
			if c = strings.TrimSpace(c); c != "" {
				cells = append(cells, c)
			}
		}
		lines = append(lines, strings.Join(cells, " "))
	}

	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating rows in %s: %w", xlsxPath, err)
	}

	return lines, nil
}

// convertXLSXToText writes the lines of the first sheet of xlsxPath to txtPath.
func convertXLSXToText(xlsxPath, txtPath string) error {
	lines, err := ReadXLSXLines(xlsxPath)
	if err != nil {
		return err
	}

	out, err := os.Create(txtPath)
	if err != nil {
		return fmt.Errorf("failed to create text file %s: %w", txtPath, err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	for _, l := range lines {
		if _, err := w.WriteString(l + "\n"); err != nil {
			return fmt.Errorf("failed to write line to %s: %w", txtPath, err)
		}
	}
	return w.Flush()
}
