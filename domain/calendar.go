package domain

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar date in ISO YYYY-MM-DD form. The string form sorts
// chronologically, which the repositories rely on for key ordering.
type Day string

func DayOf(t time.Time) Day {
	return Day(t.UTC().Format(dayLayout))
}

func Today() Day {
	return DayOf(time.Now())
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DayOf(t), nil
}

// Midnight returns the day's timestamp at 00:00:00 UTC. Messages sent
// for a past day are stamped with this instant.
func (d Day) Midnight() time.Time {
	t, _ := time.Parse(dayLayout, string(d))
	return t
}

func (d Day) Year() int {
	return d.Midnight().Year()
}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// DatesOfYear lists every day of the year in order, January 1st first.
func DatesOfYear(year int) []Day {
	days := make([]Day, 0, DaysInYear(year))
	for t := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC); t.Year() == year; t = t.AddDate(0, 0, 1) {
		days = append(days, DayOf(t))
	}
	return days
}
