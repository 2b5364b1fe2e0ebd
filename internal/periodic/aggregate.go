package periodic

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paulpark6/salesvision/internal/shared"
)

// DatedAmount is an amount booked on a date. GroupKey names its owner (for
// example the employee) and Source its origin, used to order items within a
// day.
type DatedAmount struct {
	ID       string          `json:"id,omitempty"`
	Date     time.Time       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	GroupKey string          `json:"group_key"`
	Source   string          `json:"source"`
	Memo     string          `json:"memo,omitempty"`
}

// Filter selects the items an aggregation should include.
type Filter func(DatedAmount) bool

// ByGroupKey keeps the items owned by key. An empty key keeps everything.
func ByGroupKey(key string) Filter {
	if key == "" {
		return nil
	}
	return func(item DatedAmount) bool { return item.GroupKey == key }
}

// DayGroup collects the items of one day inside a longer period.
type DayGroup struct {
	Date  time.Time       `json:"date"`
	Label string          `json:"label"`
	Items []DatedAmount   `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Period is one aggregated period.
type Period struct {
	Label      string          `json:"label"`
	Start      time.Time       `json:"start"`
	End        time.Time       `json:"end"`
	Items      []DatedAmount   `json:"items"`
	Days       []DayGroup      `json:"days,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

// Report is the result of Aggregate.
type Report struct {
	Granularity Granularity          `json:"granularity"`
	Periods     []Period             `json:"periods"`
	GrandTotal  decimal.Decimal      `json:"grand_total"`
	Errors      []shared.RecordError `json:"errors,omitempty"`
}

// Aggregate groups items into periods of granularity g, most recent period
// first. Cumulative totals run from the oldest period forward. Items without a
// date are reported and skipped.
func Aggregate(items []DatedAmount, g Granularity, filter Filter) Report {
	report := Report{Granularity: g, Periods: []Period{}, GrandTotal: decimal.Zero}

	index := make(map[string]int)
	for i, item := range items {
		if filter != nil && !filter(item) {
			continue
		}
		if item.Date.IsZero() {
			report.Errors = append(report.Errors, shared.RecordError{
				Index: i,
				Key:   item.ID,
				Err:   shared.NewValidationError("date", "is required"),
			})
			continue
		}
		start, end, label := g.Bounds(item.Date)
		p, ok := index[label]
		if !ok {
			p = len(report.Periods)
			index[label] = p
			report.Periods = append(report.Periods, Period{Label: label, Start: start, End: end, Total: decimal.Zero})
		}
		report.Periods[p].Items = append(report.Periods[p].Items, item)
		report.Periods[p].Total = report.Periods[p].Total.Add(item.Amount)
		report.GrandTotal = report.GrandTotal.Add(item.Amount)
	}

	sort.Slice(report.Periods, func(i, j int) bool {
		return report.Periods[i].Start.Before(report.Periods[j].Start)
	})
	running := decimal.Zero
	for i := range report.Periods {
		p := &report.Periods[i]
		sortItems(p.Items)
		if g != Day {
			p.Days = splitDays(p.Items)
		}
		running = running.Add(p.Total)
		p.Cumulative = running
	}
	for i, j := 0, len(report.Periods)-1; i < j; i, j = i+1, j-1 {
		report.Periods[i], report.Periods[j] = report.Periods[j], report.Periods[i]
	}
	return report
}

// sortItems orders items by day, then source, keeping input order otherwise.
func sortItems(items []DatedAmount) {
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := civilDay(items[i].Date), civilDay(items[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return items[i].Source < items[j].Source
	})
}

// splitDays expects items already ordered by sortItems.
func splitDays(items []DatedAmount) []DayGroup {
	var days []DayGroup
	for _, item := range items {
		d := civilDay(item.Date)
		if n := len(days); n == 0 || !days[n-1].Date.Equal(d) {
			days = append(days, DayGroup{Date: d, Label: d.Format("2006-01-02"), Total: decimal.Zero})
		}
		last := &days[len(days)-1]
		last.Items = append(last.Items, item)
		last.Total = last.Total.Add(item.Amount)
	}
	return days
}
