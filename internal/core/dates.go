package core

import (
	"fmt"
	"time"
)

// Date layouts used throughout the engine.
const (
	DateLayout      = "2006-01-02"
	YearMonthLayout = "2006-01"
)

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// YearMonthOf extracts the YYYY-MM prefix from a YYYY-MM-DD date.
func YearMonthOf(date string) string {
	if len(date) < len(YearMonthLayout) {
		return date
	}
	return date[:len(YearMonthLayout)]
}

// CurrentYearMonth returns now's month as YYYY-MM.
func CurrentYearMonth(now time.Time) string {
	return now.Format(YearMonthLayout)
}

// ParseYearMonth validates a YYYY-MM string.
func ParseYearMonth(s string) (time.Time, error) {
	t, err := time.Parse(YearMonthLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse year-month %q: %w", s, ErrInvalidDate)
	}
	return t, nil
}

// DaysInMonth returns the day count of a YYYY-MM month.
func DaysInMonth(yearMonth string) (int, error) {
	t, err := ParseYearMonth(yearMonth)
	if err != nil {
		return 0, err
	}
	// Day 0 of the next month is the last day of this one.
	last := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	return last.Day(), nil
}

// RemainingDays returns how many days of yearMonth remain as of now.
// Today counts as remaining. Months strictly before now's month yield 0,
// months strictly after yield their full day count.
func RemainingDays(yearMonth string, now time.Time) (int, error) {
	days, err := DaysInMonth(yearMonth)
	if err != nil {
		return 0, err
	}
	current := CurrentYearMonth(now)
	switch {
	case yearMonth < current:
		return 0, nil
	case yearMonth > current:
		return days, nil
	default:
		return days - now.Day() + 1, nil
	}
}
