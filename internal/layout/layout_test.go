package layout

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/danielholmes839/attendance-list/internal/calendar"
)

func day(t *testing.T, text string) time.Time {
	t.Helper()
	d, err := calendar.ParseDate(text)
	if err != nil {
		t.Fatalf("parse %q: %v", text, err)
	}
	return d
}

func roster(n int) []Person {
	people := make([]Person, n)
	for i := range people {
		people[i] = Person{LastName: fmt.Sprintf("Last%d", i), FirstName: fmt.Sprintf("First%d", i)}
	}
	return people
}

func firstWeekOfJuly(t *testing.T) []calendar.Session {
	return calendar.Build(calendar.DefaultConfig(), calendar.DateRange{Start: day(t, "2025-07-01"), End: day(t, "2025-07-07")})
}

func mustCell(t *testing.T, s Sheet, col, row int) Cell {
	t.Helper()
	c, ok := s.Cell(col, row)
	if !ok {
		t.Fatalf("no cell at col %d row %d", col, row)
	}
	return c
}

func TestNewLayout_SummaryColumnsFollowSessions(t *testing.T) {
	l := NewLayout(firstWeekOfJuly(t), 16, calendar.BaseColumn)

	if l.QuotaColumn != 6 || l.GameCountColumn != 7 {
		t.Fatalf("quota %d, games %d, want 6, 7", l.QuotaColumn, l.GameCountColumn)
	}
	if l.TotalRow != 22 || l.LegendStartRow != 24 {
		t.Fatalf("total row %d, legend row %d, want 22, 24", l.TotalRow, l.LegendStartRow)
	}
}

func TestNewLayout_NoSessions(t *testing.T) {
	l := NewLayout(nil, 2, calendar.BaseColumn)
	if l.QuotaColumn != calendar.BaseColumn || l.GameCountColumn != calendar.BaseColumn+1 {
		t.Fatalf("quota %d, games %d", l.QuotaColumn, l.GameCountColumn)
	}
}

func TestGenerate_FirstWeekOfJuly(t *testing.T) {
	s := Generate("Team Da", calendar.DefaultConfig(), firstWeekOfJuly(t), roster(2), DefaultOptions())

	if got := mustCell(t, s, 1, 1).Value; got != "Team Da" {
		t.Fatalf("title = %v", got)
	}
	if got := mustCell(t, s, 2, 2).Formula; got != `COUNTIF(C3:E3,"<="&TODAY())` {
		t.Fatalf("elapsed formula = %q", got)
	}

	for col, want := range map[int]string{3: "2025-07-02", 4: "2025-07-05", 5: "2025-07-07"} {
		c := mustCell(t, s, col, HeaderRow)
		d, ok := c.Value.(time.Time)
		if !ok || !d.Equal(day(t, want)) {
			t.Fatalf("header col %d = %v, want %s", col, c.Value, want)
		}
		if c.Style.DateFormat != "DD.MM.YYYY" || c.Style.Align != AlignRotated {
			t.Fatalf("header col %d style = %+v", col, c.Style)
		}
	}
	if mustCell(t, s, 4, HeaderRow).Style.Fill != gameHeaderColor {
		t.Fatalf("game header must be filled")
	}
	if mustCell(t, s, 6, HeaderRow).Value != "Präsenz (%)" || mustCell(t, s, 7, HeaderRow).Value != "Anz. Spiele" {
		t.Fatalf("summary headers missing")
	}

	// practice columns C and E are split by the game in D
	if got := mustCell(t, s, 6, 5).Formula; got != `IFERROR(SUM(COUNTIF(C5,"a"),COUNTIF(E5,"a"))/$B$2*100,"")` {
		t.Fatalf("quota formula = %q", got)
	}
	if got := mustCell(t, s, 7, 5).Formula; got != `COUNTIF(D5,"s")` {
		t.Fatalf("game formula = %q", got)
	}
}

func TestGenerate_ThreePeopleTwoPracticesOneGame(t *testing.T) {
	sessions := calendar.Build(calendar.DefaultConfig(), calendar.DateRange{Start: day(t, "2025-07-07"), End: day(t, "2025-07-12")})
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %+v", sessions)
	}

	s := Generate("Team Db", calendar.DefaultConfig(), sessions, roster(3), DefaultOptions())
	for i := 0; i < 3; i++ {
		row := FirstPersonRow + i

		quota := mustCell(t, s, 6, row).Formula
		want := fmt.Sprintf(`IFERROR(COUNTIF(C%d:D%d,"a")/$B$2*100,"")`, row, row)
		if quota != want {
			t.Fatalf("row %d quota = %q, want %q", row, quota, want)
		}

		games := mustCell(t, s, 7, row).Formula
		if games != fmt.Sprintf(`COUNTIF(E%d,"s")`, row) {
			t.Fatalf("row %d games = %q", row, games)
		}

		if got := mustCell(t, s, 1, row).Value; got != fmt.Sprintf("Last%d", i) {
			t.Fatalf("row %d last name = %v", row, got)
		}
	}
}

func TestGenerate_EmptyRoster(t *testing.T) {
	s := Generate("Team Da", calendar.DefaultConfig(), firstWeekOfJuly(t), nil, DefaultOptions())
	l := s.Layout

	if l.TotalRow != FirstPersonRow+2 || l.LegendStartRow != FirstPersonRow+4 {
		t.Fatalf("total row %d, legend row %d", l.TotalRow, l.LegendStartRow)
	}
	for _, session := range l.Sessions {
		c := mustCell(t, s, session.Column, l.TotalRow)
		if c.Formula != "0" {
			t.Fatalf("total col %d = %q, want 0", session.Column, c.Formula)
		}
	}
	if got := mustCell(t, s, 2, l.TotalRow).Value; got != 0 {
		t.Fatalf("roster size = %v", got)
	}
	if len(s.Highlights) != 0 {
		t.Fatalf("no highlight rules expected without people, got %d", len(s.Highlights))
	}
	if _, ok := s.Cell(6, HeaderRow); !ok {
		t.Fatalf("quota header missing")
	}
}

func TestGenerate_NoSessions(t *testing.T) {
	s := Generate("Team Da", calendar.DefaultConfig(), nil, roster(2), DefaultOptions())

	if got := mustCell(t, s, 2, 2).Formula; got != "0" {
		t.Fatalf("elapsed = %q", got)
	}
	for row := FirstPersonRow; row < FirstPersonRow+2; row++ {
		for _, col := range []int{3, 4} {
			c := mustCell(t, s, col, row)
			if c.Formula != "" || c.Value != "" {
				t.Fatalf("col %d row %d must be blank, got %+v", col, row, c)
			}
		}
	}
}

func TestGenerate_CalendarBaseColumn(t *testing.T) {
	cal := calendar.DefaultConfig()
	cal.BaseColumn = 5
	labels := DefaultLabels()

	for _, tc := range []struct {
		name      string
		start     string
		end       string
		wantQuota int
	}{
		{name: "no sessions", start: "2025-07-03", end: "2025-07-04", wantQuota: 5},
		{name: "one week", start: "2025-07-01", end: "2025-07-07", wantQuota: 8},
	} {
		sessions := calendar.Build(cal, calendar.DateRange{Start: day(t, tc.start), End: day(t, tc.end)})
		s := Generate("Team Da", cal, sessions, roster(1), DefaultOptions())

		if s.Layout.QuotaColumn != tc.wantQuota || s.Layout.GameCountColumn != tc.wantQuota+1 {
			t.Fatalf("%s: summary columns %d, %d", tc.name, s.Layout.QuotaColumn, s.Layout.GameCountColumn)
		}
		if got := mustCell(t, s, tc.wantQuota, HeaderRow).Value; got != labels.Quota {
			t.Fatalf("%s: quota header = %v", tc.name, got)
		}
	}
}

func TestGenerate_NoGames(t *testing.T) {
	// Monday to Wednesday
	sessions := calendar.Build(calendar.DefaultConfig(), calendar.DateRange{Start: day(t, "2025-07-07"), End: day(t, "2025-07-09")})
	s := Generate("Team Da", calendar.DefaultConfig(), sessions, roster(1), DefaultOptions())

	if c := mustCell(t, s, s.Layout.GameCountColumn, FirstPersonRow); c.Formula != "" {
		t.Fatalf("game count must be blank, got %q", c.Formula)
	}
	if c := mustCell(t, s, s.Layout.QuotaColumn, FirstPersonRow); c.Formula == "" {
		t.Fatalf("quota must be set")
	}
}

func TestGenerate_ExtraPracticeCountsForQuota(t *testing.T) {
	friday := day(t, "2025-08-01")
	cfg := calendar.DefaultConfig().WithExtra(&calendar.DateRange{Start: friday, End: friday})
	sessions := calendar.Build(cfg, calendar.DateRange{Start: friday, End: friday})

	s := Generate("Team Da", calendar.DefaultConfig(), sessions, roster(1), DefaultOptions())
	if got := mustCell(t, s, 2, 2).Formula; got != `COUNTIF(C3,"<="&TODAY())` {
		t.Fatalf("elapsed = %q", got)
	}
	if got := mustCell(t, s, 4, 4).Formula; got != `IFERROR(COUNTIF(C4,"a")/$B$2*100,"")` {
		t.Fatalf("quota = %q", got)
	}
	if mustCell(t, s, 3, HeaderRow).Style.Fill != extraHeaderColor {
		t.Fatalf("extra header must be filled")
	}
}

func TestTotalFormula_SpansRoster(t *testing.T) {
	sessions := firstWeekOfJuly(t)
	for n := 0; n <= 40; n++ {
		l := NewLayout(sessions, n, calendar.BaseColumn)
		got := l.TotalFormula(3)

		want := "0"
		if n > 0 {
			want = fmt.Sprintf(`COUNTIF(C4:C%d,"a")`, FirstPersonRow+n-1)
			if n == 1 {
				want = `COUNTIF(C4,"a")`
			}
		}
		if got != want {
			t.Fatalf("n=%d: total = %q, want %q", n, got, want)
		}
		if l.TotalRow != FirstPersonRow+n+2 {
			t.Fatalf("n=%d: total row %d", n, l.TotalRow)
		}
	}
}

func TestGenerate_HighlightRules(t *testing.T) {
	s := Generate("Team Da", calendar.DefaultConfig(), firstWeekOfJuly(t), roster(16), DefaultOptions())

	if len(s.Highlights) != 3*len(Statuses) {
		t.Fatalf("highlights = %d, want %d", len(s.Highlights), 3*len(Statuses))
	}
	for _, h := range s.Highlights {
		if h.Span.FirstRow != 4 || h.Span.LastRow != 19 || h.Span.FirstCol != h.Span.LastCol {
			t.Fatalf("unexpected highlight span %+v", h.Span)
		}
	}
}

func TestGenerate_Legend(t *testing.T) {
	s := Generate("Team Da", calendar.DefaultConfig(), firstWeekOfJuly(t), roster(3), DefaultOptions())
	row := s.Layout.LegendStartRow

	if got := mustCell(t, s, 1, row).Value; got != "Legende:" {
		t.Fatalf("legend title = %v", got)
	}
	for i, status := range Statuses {
		c := mustCell(t, s, 1, row+1+i)
		text, _ := c.Value.(string)
		if !strings.HasPrefix(text, status.Code+" = ") || c.Style.Fill != status.Color {
			t.Fatalf("legend row %d = %+v", row+1+i, c)
		}
	}
}

func TestElapsedFormula_IsLive(t *testing.T) {
	// The elapsed count is evaluated by the spreadsheet against TODAY(), so
	// the quota shown changes over time without regenerating the workbook.
	l := NewLayout(firstWeekOfJuly(t), 1, calendar.BaseColumn)
	if !strings.Contains(l.ElapsedFormula(), "TODAY()") {
		t.Fatalf("elapsed formula must compare against TODAY(): %q", l.ElapsedFormula())
	}
}
