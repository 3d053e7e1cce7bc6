package roster

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/danielholmes839/attendance-list/internal/layout"
)

// ParseWorkbook reads the named sheet, or the active one when sheet is empty.
// The first row is a header.
func ParseWorkbook(r io.Reader, sheet string) ([]layout.Person, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	people := []layout.Person{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if p, ok := person(row); ok {
			people = append(people, p)
		}
	}

	return people, nil
}
