// Package calendar implements ISO-8601 week arithmetic.
//
// Weeks run Monday to Sunday and week 1 is the week containing the first
// Thursday of the year, so the week-year of a date near the new year can
// differ from its calendar year.
package calendar

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidWeekKey reports a week key that does not match the "2026-W08" format.
var ErrInvalidWeekKey = errors.New("invalid week key")

var weekKeyPattern = regexp.MustCompile(`^(\d{4})-W(\d{2})$`)

const daysPerWeek = 7

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MondayOfWeek returns the Monday of the week containing t, at start of day.
// Sunday counts as day 7 and maps to the preceding Monday.
func MondayOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	diff := 1 - int(day.Weekday())
	if day.Weekday() == time.Sunday {
		diff = -(daysPerWeek - 1)
	}
	return day.AddDate(0, 0, diff)
}

// WeekKey returns the ISO week key of the given date, e.g. "2026-W08".
//
// The week's Thursday determines the week-year, which resolves the
// late-December/early-January edge case: Dec 29 can already belong to week 1
// of the following year.
func WeekKey(date time.Time) string {
	day := StartOfDay(date)

	// Walk to the Thursday of the current week, treating Sunday as day 7.
	diff := 4 - int(day.Weekday())
	if day.Weekday() == time.Sunday {
		diff = -3
	}
	thursday := day.AddDate(0, 0, diff)

	week := (thursday.YearDay() + daysPerWeek - 1) / daysPerWeek
	return fmt.Sprintf("%d-W%02d", thursday.Year(), week)
}

// WeekBounds returns the Monday start and Sunday end of the week identified by
// key, both at midnight UTC. It returns an error wrapping [ErrInvalidWeekKey]
// when key does not match the "YYYY-Www" pattern.
func WeekBounds(key string) (time.Time, time.Time, error) {
	match := weekKeyPattern.FindStringSubmatch(key)
	if match == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s", ErrInvalidWeekKey, key)
	}

	year, err := strconv.Atoi(match[1])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse year of week key %s: %w", key, err)
	}
	week, err := strconv.Atoi(match[2])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse week of week key %s: %w", key, err)
	}

	// January 4th is always inside ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	week1Monday := MondayOfWeek(jan4)

	monday := week1Monday.AddDate(0, 0, (week-1)*daysPerWeek)
	sunday := monday.AddDate(0, 0, daysPerWeek-1)
	return monday, sunday, nil
}
