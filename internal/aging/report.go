package aging

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paulpark6/salesvision/internal/shared"
)

// StatusRow is the three-state breakdown of one customer or employee.
type StatusRow struct {
	Key     string          `json:"key"`
	Name    string          `json:"name"`
	Records int             `json:"records"`
	Nearing decimal.Decimal `json:"nearing"`
	Due     decimal.Decimal `json:"due"`
	Overdue decimal.Decimal `json:"overdue"`
	Total   decimal.Decimal `json:"total"`
}

func (r *StatusRow) add(status Status, amount decimal.Decimal) {
	switch status {
	case StatusOverdue:
		r.Overdue = r.Overdue.Add(amount)
	case StatusDue:
		r.Due = r.Due.Add(amount)
	default:
		r.Nearing = r.Nearing.Add(amount)
	}
	r.Total = r.Total.Add(amount)
	r.Records++
}

// StatusReport summarises records by status per group.
type StatusReport struct {
	AsOf    time.Time            `json:"as_of"`
	GroupBy GroupBy              `json:"group_by"`
	Policy  StatusPolicy         `json:"policy"`
	Rows    []StatusRow          `json:"rows"`
	Totals  StatusRow            `json:"totals"`
	Errors  []shared.RecordError `json:"errors,omitempty"`
}

// SummarizeStatus groups records and totals their amounts per status. Rows are
// ordered by descending total, ties by key. Invalid records are reported and
// left out of every total.
func SummarizeStatus(records []Record, today time.Time, policy StatusPolicy, groupBy GroupBy) StatusReport {
	valid, errs := partition(records)
	report := StatusReport{AsOf: today, GroupBy: groupBy, Policy: policy, Errors: errs}
	report.Totals.Key = "total"

	index := make(map[string]int)
	for _, r := range valid {
		status := policy.Classify(DaysUntil(r.DueDate, today))
		key, name := groupBy.key(r)
		i, ok := index[key]
		if !ok {
			i = len(report.Rows)
			index[key] = i
			report.Rows = append(report.Rows, StatusRow{Key: key, Name: name})
		}
		report.Rows[i].add(status, r.Amount)
		report.Totals.add(status, r.Amount)
	}
	sort.SliceStable(report.Rows, func(i, j int) bool {
		return rowLess(report.Rows[i].Total, report.Rows[j].Total, report.Rows[i].Key, report.Rows[j].Key)
	})
	return report
}

// BucketAmount is the total of one aging bucket.
type BucketAmount struct {
	Bucket Bucket          `json:"bucket"`
	Amount decimal.Decimal `json:"amount"`
}

// BucketRow is the five-bucket breakdown of one customer or employee.
type BucketRow struct {
	Key     string          `json:"key"`
	Name    string          `json:"name"`
	Buckets []BucketAmount  `json:"buckets"`
	Total   decimal.Decimal `json:"total"`
}

// BucketReport summarises records by aging bucket per group.
type BucketReport struct {
	AsOf    time.Time            `json:"as_of"`
	GroupBy GroupBy              `json:"group_by"`
	Buckets []BucketAmount       `json:"buckets"`
	Rows    []BucketRow          `json:"rows"`
	Records []Classification     `json:"records"`
	Total   decimal.Decimal      `json:"total"`
	Errors  []shared.RecordError `json:"errors,omitempty"`
}

func emptyBuckets() []BucketAmount {
	out := make([]BucketAmount, len(BucketOrder))
	for i, b := range BucketOrder {
		out[i] = BucketAmount{Bucket: b, Amount: decimal.Zero}
	}
	return out
}

func bucketIndex(b Bucket) int {
	for i, candidate := range BucketOrder {
		if candidate == b {
			return i
		}
	}
	return len(BucketOrder) - 1
}

// SummarizeBuckets classifies records into the five aging buckets and totals
// them per group and overall. Every bucket is present even when empty.
func SummarizeBuckets(records []Record, today time.Time, groupBy GroupBy) BucketReport {
	classified, errs := Classify(records, today)
	report := BucketReport{
		AsOf:    today,
		GroupBy: groupBy,
		Buckets: emptyBuckets(),
		Records: classified,
		Total:   decimal.Zero,
		Errors:  errs,
	}

	index := make(map[string]int)
	for _, c := range classified {
		key, name := groupBy.key(c.Record)
		i, ok := index[key]
		if !ok {
			i = len(report.Rows)
			index[key] = i
			report.Rows = append(report.Rows, BucketRow{Key: key, Name: name, Buckets: emptyBuckets(), Total: decimal.Zero})
		}
		b := bucketIndex(c.Bucket)
		row := &report.Rows[i]
		row.Buckets[b].Amount = row.Buckets[b].Amount.Add(c.Amount)
		row.Total = row.Total.Add(c.Amount)
		report.Buckets[b].Amount = report.Buckets[b].Amount.Add(c.Amount)
		report.Total = report.Total.Add(c.Amount)
	}
	sort.SliceStable(report.Rows, func(i, j int) bool {
		return rowLess(report.Rows[i].Total, report.Rows[j].Total, report.Rows[i].Key, report.Rows[j].Key)
	})
	return report
}

func rowLess(totalA, totalB decimal.Decimal, keyA, keyB string) bool {
	if cmp := totalA.Cmp(totalB); cmp != 0 {
		return cmp > 0
	}
	return keyA < keyB
}
