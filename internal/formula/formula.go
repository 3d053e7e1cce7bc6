// Package formula renders spreadsheet formula text from integer cell ranges.
// Nothing outside this package builds A1 references by hand.
package formula

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Span is a rectangular block of cells, 1-based and inclusive.
type Span struct {
	FirstCol int
	FirstRow int
	LastCol  int
	LastRow  int
}

func Cell(col, row int) Span {
	return Span{FirstCol: col, FirstRow: row, LastCol: col, LastRow: row}
}

// Column spans count rows of col starting at firstRow. A count of zero gives
// an empty span.
func Column(col, firstRow, count int) Span {
	return Span{FirstCol: col, FirstRow: firstRow, LastCol: col, LastRow: firstRow + count - 1}
}

// Row spans the columns first..last of row.
func Row(row, first, last int) Span {
	return Span{FirstCol: first, FirstRow: row, LastCol: last, LastRow: row}
}

func (s Span) Empty() bool {
	return s.FirstCol <= 0 || s.FirstRow <= 0 || s.LastCol < s.FirstCol || s.LastRow < s.FirstRow
}

func (s Span) Single() bool {
	return !s.Empty() && s.FirstCol == s.LastCol && s.FirstRow == s.LastRow
}

// Ref renders the span as C4 or C4:E4. Empty spans render as "".
func (s Span) Ref() string {
	return s.ref(false)
}

// Abs renders the span with absolute references, e.g. $B$2.
func (s Span) Abs() string {
	return s.ref(true)
}

func (s Span) ref(abs bool) string {
	if s.Empty() {
		return ""
	}

	first, _ := excelize.CoordinatesToCellName(s.FirstCol, s.FirstRow, abs)
	if s.Single() {
		return first
	}
	last, _ := excelize.CoordinatesToCellName(s.LastCol, s.LastRow, abs)
	return first + ":" + last
}

// Runs groups columns of a single row into maximal contiguous spans.
func Runs(cols []int, row int) []Span {
	if len(cols) == 0 {
		return nil
	}

	sorted := make([]int, len(cols))
	copy(sorted, cols)
	sort.Ints(sorted)

	spans := []Span{}
	current := Cell(sorted[0], row)
	for _, col := range sorted[1:] {
		if col == current.LastCol {
			continue
		}
		if col == current.LastCol+1 {
			current.LastCol = col
			continue
		}
		spans = append(spans, current)
		current = Cell(col, row)
	}
	return append(spans, current)
}

// Quote renders s as a string literal.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// CountIf counts cells equal to value across spans. Several spans are summed,
// no spans give the constant 0.
func CountIf(spans []Span, value string) string {
	return countIf(spans, Quote(value))
}

// CountOnOrBeforeToday counts date cells that are not in the future. The
// result depends on the day the workbook is opened.
func CountOnOrBeforeToday(spans []Span) string {
	return countIf(spans, `"<="&TODAY()`)
}

func countIf(spans []Span, criteria string) string {
	terms := []string{}
	for _, s := range spans {
		if s.Empty() {
			continue
		}
		terms = append(terms, fmt.Sprintf("COUNTIF(%s,%s)", s.Ref(), criteria))
	}

	switch len(terms) {
	case 0:
		return "0"
	case 1:
		return terms[0]
	}
	return "SUM(" + strings.Join(terms, ",") + ")"
}

// Quota is numerator divided by the denominator cell as a percentage. A zero
// denominator yields an empty string instead of #DIV/0!.
func Quota(numerator string, denominator Span) string {
	return fmt.Sprintf(`IFERROR(%s/%s*100,"")`, numerator, denominator.Abs())
}
