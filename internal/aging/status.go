package aging

import (
	"sort"
	"time"

	"github.com/paulpark6/salesvision/internal/shared"
)

// Status is the three-state due classification.
type Status string

const (
	StatusNearing Status = "nearing"
	StatusDue     Status = "due"
	StatusOverdue Status = "overdue"
)

// StatusPolicy holds the day thresholds of the three-state classification.
// A record is overdue once it is more than OverdueGraceDays past due, and due
// while it falls within DueWindowDays of today.
type StatusPolicy struct {
	OverdueGraceDays int `json:"overdue_grace_days"`
	DueWindowDays    int `json:"due_window_days"`
}

var (
	// DefaultStatusPolicy marks a record overdue from the first day past due.
	DefaultStatusPolicy = StatusPolicy{OverdueGraceDays: 0, DueWindowDays: 14}
	// GraceStatusPolicy tolerates two weeks past due before a record turns
	// overdue.
	GraceStatusPolicy = StatusPolicy{OverdueGraceDays: 14, DueWindowDays: 14}
)

// Classify maps a signed day difference (due minus today) to a Status.
func (p StatusPolicy) Classify(daysUntil int) Status {
	switch {
	case daysUntil < -p.OverdueGraceDays:
		return StatusOverdue
	case daysUntil <= p.DueWindowDays:
		return StatusDue
	default:
		return StatusNearing
	}
}

// DaysUntil returns the signed number of calendar days from today to due.
// Clock time is ignored, each date is read in its own location.
func DaysUntil(due, today time.Time) int {
	return int(civilDay(due).Unix()/secondsPerDay - civilDay(today).Unix()/secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ScheduleEntry is a due record annotated for the due payments table.
type ScheduleEntry struct {
	Record
	DaysUntil int    `json:"days_until"`
	Status    Status `json:"status"`
}

// DueSchedule returns the valid records ordered by due date, earliest first,
// with their status as of today. Ties are ordered by record ID.
func DueSchedule(records []Record, today time.Time, policy StatusPolicy) ([]ScheduleEntry, []shared.RecordError) {
	valid, errs := partition(records)
	out := make([]ScheduleEntry, 0, len(valid))
	for _, r := range valid {
		days := DaysUntil(r.DueDate, today)
		out = append(out, ScheduleEntry{Record: r, DaysUntil: days, Status: policy.Classify(days)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, errs
}

// Overdue keeps the overdue entries of a schedule in their original order.
func Overdue(entries []ScheduleEntry) []ScheduleEntry {
	out := make([]ScheduleEntry, 0)
	for _, e := range entries {
		if e.Status == StatusOverdue {
			out = append(out, e)
		}
	}
	return out
}
