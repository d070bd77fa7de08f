package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InvalidDateError reports a date token that could not be resolved into
// a calendar date. It carries the original input so callers can surface
// it without re-deriving context.
type InvalidDateError struct {
	Input  string
	Reason string
}

func (e *InvalidDateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid date %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("invalid date %q", e.Input)
}

// Parse resolves a date literal in one of three shapes:
//
//	2026-01-14          ISO, always tried first
//	14/Jan/2026         day / month abbreviation / year
//	2026/ene/14         year / month abbreviation / day
//
// The slash shapes are disambiguated by the first token: a value that
// parses as an integer greater than 31 is a year, anything else a day.
// The resulting time is midnight UTC.
func Parse(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, &InvalidDateError{Input: input, Reason: "empty"}
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, &InvalidDateError{Input: input, Reason: "unrecognized format"}
	}

	first, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, &InvalidDateError{Input: input, Reason: "unrecognized format"}
	}

	var dayToken, yearToken string
	if first > 31 {
		yearToken, dayToken = parts[0], parts[2]
	} else {
		dayToken, yearToken = parts[0], parts[2]
	}

	month, ok := MonthFromAbbrev(parts[1])
	if !ok {
		return time.Time{}, &InvalidDateError{Input: input, Reason: fmt.Sprintf("unknown month %q", parts[1])}
	}

	day, err := strconv.Atoi(strings.TrimSpace(dayToken))
	if err != nil {
		return time.Time{}, &InvalidDateError{Input: input, Reason: "unrecognized format"}
	}
	year, err := strconv.Atoi(strings.TrimSpace(yearToken))
	if err != nil {
		return time.Time{}, &InvalidDateError{Input: input, Reason: "unrecognized format"}
	}

	if day < 1 || day > daysIn(year, month) {
		return time.Time{}, &InvalidDateError{Input: input, Reason: fmt.Sprintf("day %d out of range for %s", day, month)}
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// daysIn returns the number of days in the given month, accounting for
// leap years.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
