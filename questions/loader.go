// Package questions loads the candidate question pool from the Excel
// workbook maintained outside the application.
package questions

import (
	"fmt"
	"strings"

	"whysapp/errors"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

// LoadPool reads the first column of every sheet, in sheet order,
// preserving row order within a sheet. Blank cells are dropped,
// duplicates are kept. A missing or corrupt workbook aborts the load;
// a partial pool is never returned.
func LoadPool(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrSourceUnreadable, err)
	}
	defer f.Close()

	var pool []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %v", errors.ErrSourceUnreadable, sheet, err)
		}
		for _, row := range rows {
			if len(row) == 0 {
				continue
			}
			pool = append(pool, row[0])
		}
	}

	return lo.Filter(pool, func(q string, _ int) bool {
		return strings.TrimSpace(q) != ""
	}), nil
}
