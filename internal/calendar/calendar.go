package calendar

import (
	"fmt"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

const (
	DateFormat = "2006-01-02"

	// BaseColumn is the first session column; columns 1 and 2 hold the names.
	BaseColumn = 3
)

type Category int

const (
	RegularPractice Category = iota
	Game
	ExtraPractice
)

func (c Category) String() string {
	switch c {
	case RegularPractice:
		return "regular-practice"
	case Game:
		return "game"
	case ExtraPractice:
		return "extra-practice"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Session is a date that gets its own column in the attendance sheet.
type Session struct {
	Date     time.Time
	Category Category
	Column   int
}

type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls inside the range, bounds included.
func (r DateRange) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(Day(r.Start)) && !d.After(Day(r.End))
}

func (r DateRange) Validate() error {
	if Day(r.Start).After(Day(r.End)) {
		return fmt.Errorf("start %s is after end %s", r.Start.Format(DateFormat), r.End.Format(DateFormat))
	}
	return nil
}

func (r DateRange) String() string {
	return r.Start.Format(DateFormat) + ".." + r.End.Format(DateFormat)
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDate(text string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, text, time.UTC)
}

// Config decides which weekdays are sessions. A Config without practice
// weekdays, the zero value included, classifies dates like DefaultConfig.
type Config struct {
	PracticeWeekdays mapset.Set[time.Weekday]
	GameWeekday      time.Weekday
	ExtraWeekday     time.Weekday

	// Extra enables ExtraWeekday sessions inside this range. Nil disables them.
	Extra *DateRange

	// BaseColumn is the column of the first session. Zero means BaseColumn.
	BaseColumn int
}

func DefaultConfig() Config {
	return Config{
		PracticeWeekdays: mapset.NewSet(time.Monday, time.Wednesday),
		GameWeekday:      time.Saturday,
		ExtraWeekday:     time.Friday,
		BaseColumn:       BaseColumn,
	}
}

// NewConfig builds a Config and rejects weekday sets that overlap, since a
// date must map to exactly one category.
func NewConfig(practice []time.Weekday, game, extra time.Weekday) (Config, error) {
	set := mapset.NewSet(practice...)
	if set.Cardinality() == 0 {
		return Config{}, fmt.Errorf("no practice weekdays")
	}
	if set.Contains(game) {
		return Config{}, fmt.Errorf("game weekday %s is also a practice weekday", game)
	}
	if set.Contains(extra) {
		return Config{}, fmt.Errorf("extra weekday %s is also a practice weekday", extra)
	}
	if game == extra {
		return Config{}, fmt.Errorf("game weekday %s is also the extra weekday", game)
	}

	return Config{
		PracticeWeekdays: set,
		GameWeekday:      game,
		ExtraWeekday:     extra,
		BaseColumn:       BaseColumn,
	}, nil
}

// WithExtra returns a copy of cfg with the extra range set.
func (cfg Config) WithExtra(r *DateRange) Config {
	cfg.Extra = r
	return cfg
}

// FirstColumn is the column of the first session. Sheets without sessions
// start their summary columns here.
func (cfg Config) FirstColumn() int {
	if cfg.BaseColumn <= 0 {
		return BaseColumn
	}
	return cfg.BaseColumn
}

func (cfg Config) withDefaults() Config {
	if cfg.PracticeWeekdays != nil && cfg.PracticeWeekdays.Cardinality() > 0 {
		return cfg
	}
	def := DefaultConfig()
	def.Extra = cfg.Extra
	def.BaseColumn = cfg.BaseColumn
	return def
}

// Classify returns the category of d, or false when d is not a session.
func (cfg Config) Classify(d time.Time) (Category, bool) {
	cfg = cfg.withDefaults()
	wd := d.Weekday()

	switch {
	case cfg.PracticeWeekdays.Contains(wd):
		return RegularPractice, true
	case wd == cfg.GameWeekday:
		return Game, true
	case wd == cfg.ExtraWeekday && cfg.Extra != nil && cfg.Extra.Contains(d):
		return ExtraPractice, true
	}
	return 0, false
}

// Build enumerates every date of r and returns the sessions in date order.
// Columns start at cfg.FirstColumn and are contiguous. The caller validates r.
func Build(cfg Config, r DateRange) []Session {
	cfg = cfg.withDefaults()

	sessions := []Session{}
	col := cfg.FirstColumn()
	end := Day(r.End)

	for d := Day(r.Start); !d.After(end); d = d.AddDate(0, 0, 1) {
		category, ok := cfg.Classify(d)
		if !ok {
			continue
		}

		sessions = append(sessions, Session{
			Date:     d,
			Category: category,
			Column:   col,
		})
		col++
	}

	return sessions
}

// Columns returns the columns of the sessions whose category is in categories.
func Columns(sessions []Session, categories ...Category) []int {
	want := mapset.NewSet(categories...)

	cols := []int{}
	for _, s := range sessions {
		if want.Contains(s.Category) {
			cols = append(cols, s.Column)
		}
	}
	return cols
}

// Count returns how many sessions of each category there are.
func Count(sessions []Session) map[Category]int {
	counts := map[Category]int{}
	for _, s := range sessions {
		counts[s.Category]++
	}
	return counts
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts English weekday names in any case.
func ParseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", name)
	}
	return wd, nil
}
