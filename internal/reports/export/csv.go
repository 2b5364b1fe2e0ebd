// Package export renders report data as spreadsheet friendly CSV.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/paulpark6/salesvision/internal/aging"
	"github.com/paulpark6/salesvision/internal/periodic"
)

const dateLayout = "2006-01-02"

// writeWithBOM prefixes the output with a UTF-8 byte order mark so
// spreadsheet tools detect the encoding of non-ASCII customer names.
func writeWithBOM(w io.Writer, rows func(*csv.Writer) error) error {
	bom := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	writer := csv.NewWriter(bom)
	if err := rows(writer); err != nil {
		return err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return bom.Close()
}

// WriteOverdueCSV emits the overdue credit entries.
func WriteOverdueCSV(w io.Writer, entries []aging.ScheduleEntry) error {
	return writeWithBOM(w, func(writer *csv.Writer) error {
		if err := writer.Write([]string{"Due Date", "Salesperson", "Customer", "Amount", "Days Overdue", "Collection Plan"}); err != nil {
			return err
		}
		for _, e := range entries {
			if err := writer.Write([]string{
				formatDate(e.DueDate),
				e.EmployeeKey,
				e.CustomerName,
				formatAmount(e.Amount),
				strconv.Itoa(-e.DaysUntil),
				e.CollectionPlan,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteAgingCSV emits every classified record with its aging bucket.
func WriteAgingCSV(w io.Writer, records []aging.Classification) error {
	return writeWithBOM(w, func(writer *csv.Writer) error {
		if err := writer.Write([]string{"Sales Date", "Salesperson", "Customer", "Amount", "Due Date", "Days Overdue", "Aging Bucket"}); err != nil {
			return err
		}
		for _, c := range records {
			if err := writer.Write([]string{
				formatDate(c.IssueDate),
				c.EmployeeKey,
				c.CustomerName,
				formatAmount(c.Amount),
				formatDate(c.DueDate),
				strconv.Itoa(c.DaysOverdue),
				string(c.Bucket),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteCashCSV emits every receipt of the report labelled with its period,
// most recent period first.
func WriteCashCSV(w io.Writer, report periodic.Report) error {
	return writeWithBOM(w, func(writer *csv.Writer) error {
		if err := writer.Write([]string{"Period", "Date", "Source", "Salesperson", "Memo", "Amount"}); err != nil {
			return err
		}
		for _, p := range report.Periods {
			for _, item := range p.Items {
				if err := writer.Write([]string{
					p.Label,
					formatDate(item.Date),
					item.Source,
					item.GroupKey,
					item.Memo,
					formatAmount(item.Amount),
				}); err != nil {
					return err
				}
			}
		}
		return writer.Write([]string{"Total", "", "", "", "", formatAmount(report.GrandTotal)})
	})
}

func formatAmount(v decimal.Decimal) string {
	return v.StringFixed(2)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
