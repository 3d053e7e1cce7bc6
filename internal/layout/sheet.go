package layout

import (
	"github.com/danielholmes839/attendance-list/internal/calendar"
	"github.com/danielholmes839/attendance-list/internal/formula"
)

type Align int

const (
	AlignDefault Align = iota
	AlignCenter
	// AlignRotated is bottom-left with the text turned 90 degrees.
	AlignRotated
)

// Style is comparable so writers can cache one native style per value.
type Style struct {
	Fill       string
	Align      Align
	DateFormat string
	Bold       bool
}

// Cell is a literal value or a formula. Formulas carry no leading "=".
type Cell struct {
	Col     int
	Row     int
	Value   any
	Formula string
	Style   Style
}

// Highlight fills a cell of Span when its text equals Value.
type Highlight struct {
	Span  formula.Span
	Value string
	Fill  string
}

type Width struct {
	FirstCol int
	LastCol  int
	Width    float64
}

type Sheet struct {
	Name       string
	Layout     Layout
	Cells      []Cell
	Highlights []Highlight
	Widths     []Width
}

// Cell returns the cell at col, row.
func (s Sheet) Cell(col, row int) (Cell, bool) {
	for _, c := range s.Cells {
		if c.Col == col && c.Row == row {
			return c, true
		}
	}
	return Cell{}, false
}

type Labels struct {
	Elapsed   string
	LastName  string
	FirstName string
	Quota     string
	Games     string
	Total     string
	Legend    string
}

func DefaultLabels() Labels {
	return Labels{
		Elapsed:   "Trainings bis heute:",
		LastName:  "Nachname",
		FirstName: "Vorname",
		Quota:     "Präsenz (%)",
		Games:     "Anz. Spiele",
		Total:     "TOTAL:",
		Legend:    "Legende:",
	}
}

type Options struct {
	Labels     Labels
	DateFormat string
}

func DefaultOptions() Options {
	return Options{
		Labels:     DefaultLabels(),
		DateFormat: "DD.MM.YYYY",
	}
}

// Generate lays out one team sheet from the sessions cal built. Empty
// sessions or an empty roster still produce the header, the summary columns,
// the totals row and the legend.
func Generate(name string, cal calendar.Config, sessions []calendar.Session, roster []Person, opts Options) Sheet {
	l := NewLayout(sessions, len(roster), cal.FirstColumn())
	b := &builder{
		sheet: Sheet{Name: name, Layout: l},
		opts:  opts,
	}

	b.header()
	b.people(roster)
	b.totals()
	b.legend()
	b.widths()

	return b.sheet
}

type builder struct {
	sheet Sheet
	opts  Options
}

func (b *builder) set(col, row int, value any, style Style) {
	b.sheet.Cells = append(b.sheet.Cells, Cell{Col: col, Row: row, Value: value, Style: style})
}

func (b *builder) setFormula(col, row int, text string, style Style) {
	if text == "" {
		b.set(col, row, "", style)
		return
	}
	b.sheet.Cells = append(b.sheet.Cells, Cell{Col: col, Row: row, Formula: text, Style: style})
}

func (b *builder) header() {
	l := b.sheet.Layout
	labels := b.opts.Labels

	b.set(LastNameColumn, TitleRow, b.sheet.Name, Style{Bold: true})
	b.set(LastNameColumn, ElapsedRow, labels.Elapsed, Style{})
	b.setFormula(ElapsedCell.FirstCol, ElapsedCell.FirstRow, l.ElapsedFormula(), Style{})

	b.set(LastNameColumn, HeaderRow, labels.LastName, Style{Bold: true})
	b.set(FirstNameColumn, HeaderRow, labels.FirstName, Style{Bold: true})

	for _, s := range l.Sessions {
		style := Style{Align: AlignRotated, DateFormat: b.opts.DateFormat}
		switch s.Category {
		case calendar.Game:
			style.Fill = gameHeaderColor
		case calendar.ExtraPractice:
			style.Fill = extraHeaderColor
		}
		b.set(s.Column, HeaderRow, s.Date, style)
	}

	b.set(l.QuotaColumn, HeaderRow, labels.Quota, Style{Align: AlignRotated})
	b.set(l.GameCountColumn, HeaderRow, labels.Games, Style{Align: AlignRotated})
}

func (b *builder) people(roster []Person) {
	l := b.sheet.Layout
	center := Style{Align: AlignCenter}

	for i, p := range roster {
		row := l.PersonRow(i)
		b.set(LastNameColumn, row, p.LastName, Style{})
		b.set(FirstNameColumn, row, p.FirstName, Style{})

		for _, s := range l.Sessions {
			b.sheet.Cells = append(b.sheet.Cells, Cell{Col: s.Column, Row: row, Style: center})
		}

		b.setFormula(l.QuotaColumn, row, l.QuotaFormula(row), center)
		b.setFormula(l.GameCountColumn, row, l.GameCountFormula(row), center)
	}

	for _, s := range l.Sessions {
		span := l.PersonSpan(s.Column)
		if span.Empty() {
			continue
		}
		for _, status := range Statuses {
			b.sheet.Highlights = append(b.sheet.Highlights, Highlight{
				Span:  span,
				Value: status.Code,
				Fill:  status.Color,
			})
		}
	}
}

func (b *builder) totals() {
	l := b.sheet.Layout

	b.set(LastNameColumn, l.TotalRow, b.opts.Labels.Total, Style{Bold: true})
	b.set(FirstNameColumn, l.TotalRow, l.PersonCount, Style{})

	for _, s := range l.Sessions {
		b.setFormula(s.Column, l.TotalRow, l.TotalFormula(s.Column), Style{Align: AlignCenter})
	}
}

func (b *builder) legend() {
	row := b.sheet.Layout.LegendStartRow

	b.set(LastNameColumn, row, b.opts.Labels.Legend, Style{Bold: true})
	for i, status := range Statuses {
		b.set(LastNameColumn, row+1+i, status.LegendText(), Style{Fill: status.Color})
	}
}

func (b *builder) widths() {
	l := b.sheet.Layout

	b.sheet.Widths = append(b.sheet.Widths, Width{FirstCol: LastNameColumn, LastCol: FirstNameColumn, Width: 20})
	if len(l.Sessions) > 0 {
		first := l.Sessions[0].Column
		last := l.Sessions[len(l.Sessions)-1].Column
		b.sheet.Widths = append(b.sheet.Widths, Width{FirstCol: first, LastCol: last, Width: 4})
	}
	b.sheet.Widths = append(b.sheet.Widths, Width{FirstCol: l.QuotaColumn, LastCol: l.GameCountColumn, Width: 7})
}
