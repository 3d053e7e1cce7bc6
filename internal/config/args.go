package config

import (
	"errors"
	"fmt"

	"github.com/danielholmes839/attendance-list/internal/calendar"
)

var (
	ErrArgCount      = errors.New("exactly two or four date arguments must be specified")
	ErrDateFormat    = errors.New("please enter the date values in the format YYYY-MM-DD")
	ErrInvertedRange = errors.New("start date must not be after the end date")
)

// Ranges is the primary range and the optional extra-practice range.
type Ranges struct {
	Primary calendar.DateRange
	Extra   *calendar.DateRange
}

// ParseArgs validates the positional arguments:
// <start> <end> [<extra-start> <extra-end>].
func ParseArgs(args []string) (Ranges, error) {
	if len(args) != 2 && len(args) != 4 {
		return Ranges{}, fmt.Errorf("%w, got %d", ErrArgCount, len(args))
	}

	dates := make([]calendar.DateRange, 0, 2)
	for i := 0; i < len(args); i += 2 {
		r, err := parseRange(args[i], args[i+1])
		if err != nil {
			if i > 0 {
				return Ranges{}, fmt.Errorf("extra range: %w", err)
			}
			return Ranges{}, err
		}
		dates = append(dates, r)
	}

	ranges := Ranges{Primary: dates[0]}
	if len(dates) == 2 {
		ranges.Extra = &dates[1]
	}
	return ranges, nil
}

func parseRange(startText, endText string) (calendar.DateRange, error) {
	start, err := calendar.ParseDate(startText)
	if err != nil {
		return calendar.DateRange{}, fmt.Errorf("%w: %q", ErrDateFormat, startText)
	}
	end, err := calendar.ParseDate(endText)
	if err != nil {
		return calendar.DateRange{}, fmt.Errorf("%w: %q", ErrDateFormat, endText)
	}

	r := calendar.DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return calendar.DateRange{}, fmt.Errorf("%w: %v", ErrInvertedRange, err)
	}
	return r, nil
}
