package models

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidSeason is returned for season strings not in the "2025-26" form
var ErrInvalidSeason = errors.New("invalid season")

var seasonPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// ValidateSeason checks the "YYYY-YY" form and that the second year follows the first
func ValidateSeason(season string) error {
	m := seasonPattern.FindStringSubmatch(season)
	if m == nil {
		return fmt.Errorf("%w: %q (expected YYYY-YY)", ErrInvalidSeason, season)
	}

	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if (start+1)%100 != end {
		return fmt.Errorf("%w: %q (years are not consecutive)", ErrInvalidSeason, season)
	}

	return nil
}

// SeasonForDate returns the season a calendar date belongs to. Seasons tip off in October.
func SeasonForDate(t time.Time) string {
	start := t.Year()
	if t.Month() < time.October {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// CalendarDay returns t's date in loc as midnight UTC, the form game dates are stored in
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
