// Package workbook renders generated sheets into an xlsx file.
package workbook

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"github.com/danielholmes839/attendance-list/internal/formula"
	"github.com/danielholmes839/attendance-list/internal/layout"
)

const defaultSheet = "Sheet1"

// ErrDuplicateSheet is returned when two sheets share a name. Sheet names
// compare case-insensitively.
var ErrDuplicateSheet = errors.New("sheet already exists")

type Writer struct {
	Fs     afero.Fs
	Logger *slog.Logger
}

// Write renders sheets in order and saves them to path, replacing any file
// already there.
func (w *Writer) Write(path string, sheets []layout.Sheet) error {
	start := time.Now()

	f, err := Render(sheets)
	if err != nil {
		return err
	}
	defer f.Close()

	out, err := w.Fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := f.WriteTo(out); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	if w.Logger != nil {
		w.Logger.Info("wrote workbook", "path", path, "sheets", len(sheets), "dur", time.Since(start).String())
	}
	return nil
}

// Render builds the workbook in memory. The caller closes the file.
func Render(sheets []layout.Sheet) (*excelize.File, error) {
	r := &renderer{
		f:          excelize.NewFile(),
		styles:     map[layout.Style]int{},
		highlights: map[string]int{},
	}

	for i, s := range sheets {
		if err := r.sheet(i, s); err != nil {
			r.f.Close()
			return nil, fmt.Errorf("render sheet %q: %w", s.Name, err)
		}
	}

	return r.f, nil
}

type renderer struct {
	f          *excelize.File
	styles     map[layout.Style]int
	highlights map[string]int
}

func (r *renderer) sheet(i int, s layout.Sheet) error {
	if i == 0 {
		if err := r.f.SetSheetName(defaultSheet, s.Name); err != nil {
			return err
		}
	} else {
		idx, err := r.f.GetSheetIndex(s.Name)
		if err != nil {
			return err
		}
		if idx != -1 {
			return ErrDuplicateSheet
		}
		if _, err := r.f.NewSheet(s.Name); err != nil {
			return err
		}
	}

	for _, c := range s.Cells {
		if err := r.cell(s.Name, c); err != nil {
			return err
		}
	}

	if err := r.conditionalFormats(s.Name, s.Highlights); err != nil {
		return err
	}

	for _, w := range s.Widths {
		first, err := excelize.ColumnNumberToName(w.FirstCol)
		if err != nil {
			return err
		}
		last, err := excelize.ColumnNumberToName(w.LastCol)
		if err != nil {
			return err
		}
		if err := r.f.SetColWidth(s.Name, first, last, w.Width); err != nil {
			return err
		}
	}

	return nil
}

func (r *renderer) cell(sheet string, c layout.Cell) error {
	name, err := excelize.CoordinatesToCellName(c.Col, c.Row)
	if err != nil {
		return err
	}

	switch {
	case c.Formula != "":
		err = r.f.SetCellFormula(sheet, name, c.Formula)
	case c.Value != nil:
		err = r.f.SetCellValue(sheet, name, c.Value)
	}
	if err != nil {
		return fmt.Errorf("cell %s: %w", name, err)
	}

	if c.Style == (layout.Style{}) {
		return nil
	}

	id, err := r.style(c.Style)
	if err != nil {
		return err
	}
	return r.f.SetCellStyle(sheet, name, name, id)
}

func (r *renderer) style(s layout.Style) (int, error) {
	if id, ok := r.styles[s]; ok {
		return id, nil
	}

	style := &excelize.Style{}
	if s.Fill != "" {
		style.Fill = solidFill(s.Fill)
	}

	switch s.Align {
	case layout.AlignCenter:
		style.Alignment = &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	case layout.AlignRotated:
		style.Alignment = &excelize.Alignment{Horizontal: "left", Vertical: "bottom", TextRotation: 90}
	}

	if s.DateFormat != "" {
		numFmt := s.DateFormat
		style.CustomNumFmt = &numFmt
	}

	if s.Bold {
		style.Font = &excelize.Font{Bold: true}
	}

	id, err := r.f.NewStyle(style)
	if err != nil {
		return 0, err
	}
	r.styles[s] = id
	return id, nil
}

// conditionalFormats registers all rules of a range with a single call, in
// the order they were generated.
func (r *renderer) conditionalFormats(sheet string, highlights []layout.Highlight) error {
	order := []string{}
	rules := map[string][]excelize.ConditionalFormatOptions{}

	for _, h := range highlights {
		ref := h.Span.Ref()
		if ref == "" {
			continue
		}

		id, err := r.highlight(h.Fill)
		if err != nil {
			return err
		}

		if _, ok := rules[ref]; !ok {
			order = append(order, ref)
		}
		rules[ref] = append(rules[ref], excelize.ConditionalFormatOptions{
			Type:     "cell",
			Criteria: "==",
			Format:   id,
			Value:    formula.Quote(h.Value),
		})
	}

	for _, ref := range order {
		if err := r.f.SetConditionalFormat(sheet, ref, rules[ref]); err != nil {
			return fmt.Errorf("conditional format %s: %w", ref, err)
		}
	}
	return nil
}

func (r *renderer) highlight(fill string) (int, error) {
	if id, ok := r.highlights[fill]; ok {
		return id, nil
	}

	id, err := r.f.NewConditionalStyle(&excelize.Style{Fill: solidFill(fill)})
	if err != nil {
		return 0, err
	}
	r.highlights[fill] = id
	return id, nil
}

func solidFill(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Color: []string{"#" + color}, Pattern: 1}
}
