package layout

import (
	"github.com/danielholmes839/attendance-list/internal/calendar"
	"github.com/danielholmes839/attendance-list/internal/formula"
)

const (
	TitleRow       = 1
	ElapsedRow     = 2
	HeaderRow      = 3
	FirstPersonRow = 4

	LastNameColumn  = 1
	FirstNameColumn = 2
)

type Person struct {
	LastName  string
	FirstName string
}

// ElapsedCell holds the number of sessions up to today. Every quota formula
// divides by it.
var ElapsedCell = formula.Cell(2, ElapsedRow)

// Layout places the sessions, people and summary blocks of one sheet. Every
// index derives from the session list and the roster size.
type Layout struct {
	Sessions        []calendar.Session
	QuotaColumn     int
	GameCountColumn int
	FirstPersonRow  int
	PersonCount     int
	TotalRow        int
	LegendStartRow  int
}

// NewLayout lays out sessions and personCount people. base is the column the
// summary columns start at when there are no sessions.
func NewLayout(sessions []calendar.Session, personCount, base int) Layout {
	if base <= 0 {
		base = calendar.BaseColumn
	}

	quota := base
	if len(sessions) > 0 {
		quota = sessions[len(sessions)-1].Column + 1
	}

	return Layout{
		Sessions:        sessions,
		QuotaColumn:     quota,
		GameCountColumn: quota + 1,
		FirstPersonRow:  FirstPersonRow,
		PersonCount:     personCount,
		TotalRow:        FirstPersonRow + personCount + 2,
		LegendStartRow:  FirstPersonRow + personCount + 4,
	}
}

// PersonRow is the row of the i-th person of the roster.
func (l Layout) PersonRow(i int) int {
	return l.FirstPersonRow + i
}

// PersonSpan covers exactly the person rows of col.
func (l Layout) PersonSpan(col int) formula.Span {
	return formula.Column(col, l.FirstPersonRow, l.PersonCount)
}

// PracticeColumns are the columns counted for the presence quota.
func (l Layout) PracticeColumns() []int {
	return calendar.Columns(l.Sessions, calendar.RegularPractice, calendar.ExtraPractice)
}

func (l Layout) GameColumns() []int {
	return calendar.Columns(l.Sessions, calendar.Game)
}

// ElapsedColumns are the sessions that count towards the quota denominator.
// Extra practice columns only exist while an extra range is active.
func (l Layout) ElapsedColumns() []int {
	return calendar.Columns(l.Sessions, calendar.RegularPractice, calendar.Game, calendar.ExtraPractice)
}

// ElapsedFormula counts the header dates that are on or before today.
func (l Layout) ElapsedFormula() string {
	return formula.CountOnOrBeforeToday(formula.Runs(l.ElapsedColumns(), HeaderRow))
}

// QuotaFormula returns the presence percentage of the person on row, or ""
// when there are no practice columns.
func (l Layout) QuotaFormula(row int) string {
	cols := l.PracticeColumns()
	if len(cols) == 0 {
		return ""
	}
	return formula.Quota(formula.CountIf(formula.Runs(cols, row), Present), ElapsedCell)
}

// GameCountFormula returns the number of games attended by the person on row,
// or "" when there are no game columns.
func (l Layout) GameCountFormula(row int) string {
	cols := l.GameColumns()
	if len(cols) == 0 {
		return ""
	}
	return formula.CountIf(formula.Runs(cols, row), GameAttended)
}

// TotalFormula counts the present marks of col over the person rows. With an
// empty roster it is the constant 0.
func (l Layout) TotalFormula(col int) string {
	return formula.CountIf([]formula.Span{l.PersonSpan(col)}, Present)
}
