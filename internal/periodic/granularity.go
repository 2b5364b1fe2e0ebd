// Package periodic groups dated amounts into day, ISO week or month periods.
package periodic

import (
	"fmt"
	"strings"
	"time"

	"github.com/paulpark6/salesvision/internal/shared"
)

// Granularity is the length of a reporting period.
type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
)

// ParseGranularity converts a query value into a Granularity. Blank input
// selects Week.
func ParseGranularity(raw string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(raw))); g {
	case "":
		return Week, nil
	case Day, Week, Month:
		return g, nil
	default:
		return "", shared.NewValidationError("granularity", "must be day, week or month")
	}
}

// Bounds returns the first and last calendar day of the period containing t
// and the period label. Weeks start on Monday and are labelled with their ISO
// year and number.
func (g Granularity) Bounds(t time.Time) (start, end time.Time, label string) {
	d := civilDay(t)
	switch g {
	case Month:
		start = time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1), start.Format("2006-01")
	case Week:
		offset := (int(d.Weekday()) + 6) % 7
		start = d.AddDate(0, 0, -offset)
		year, week := start.ISOWeek()
		return start, start.AddDate(0, 0, 6), fmt.Sprintf("%04d-W%02d", year, week)
	default:
		return d, d, d.Format("2006-01-02")
	}
}

func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
