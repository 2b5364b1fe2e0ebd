package aging

import (
	"time"

	"github.com/paulpark6/salesvision/internal/shared"
)

// Bucket is one of the five aging ranges.
type Bucket string

const (
	BucketCurrent Bucket = "current"
	Bucket1To30   Bucket = "1-30"
	Bucket31To60  Bucket = "31-60"
	Bucket61To90  Bucket = "61-90"
	BucketOver90  Bucket = ">90"
)

// BucketOrder lists the buckets from least to most overdue.
var BucketOrder = []Bucket{BucketCurrent, Bucket1To30, Bucket31To60, Bucket61To90, BucketOver90}

// BucketFor maps days past due (today minus due date) to its bucket.
func BucketFor(daysOverdue int) Bucket {
	switch {
	case daysOverdue <= 0:
		return BucketCurrent
	case daysOverdue <= 30:
		return Bucket1To30
	case daysOverdue <= 60:
		return Bucket31To60
	case daysOverdue <= 90:
		return Bucket61To90
	default:
		return BucketOver90
	}
}

// Classification is one record with its aging bucket, as exported to CSV.
type Classification struct {
	Record
	Bucket      Bucket `json:"bucket"`
	DaysOverdue int    `json:"days_overdue"`
}

// Classify assigns every valid record to exactly one bucket. DaysOverdue is
// floored at zero.
func Classify(records []Record, today time.Time) ([]Classification, []shared.RecordError) {
	valid, errs := partition(records)
	out := make([]Classification, 0, len(valid))
	for _, r := range valid {
		days := -DaysUntil(r.DueDate, today)
		c := Classification{Record: r, Bucket: BucketFor(days)}
		if days > 0 {
			c.DaysOverdue = days
		}
		out = append(out, c)
	}
	return out, errs
}
