package reports

import (
	"context"
	"time"

	"github.com/paulpark6/salesvision/internal/aging"
	"github.com/paulpark6/salesvision/internal/commission"
	"github.com/paulpark6/salesvision/internal/periodic"
	"github.com/paulpark6/salesvision/internal/target"
)

// Repository is the read-only data source behind every report. Results are
// snapshots; the service never writes back.
type Repository interface {
	// SaleLines returns the commissionable sale lines of a month ("2006-01").
	// An empty period returns every line.
	SaleLines(ctx context.Context, period string) ([]commission.EmployeeSaleLine, error)
	// DueRecords returns the records of kind still open as of asOf.
	DueRecords(ctx context.Context, kind aging.Kind, asOf time.Time) ([]aging.Record, error)
	// CashReceipts returns the amounts received between from and to, inclusive.
	CashReceipts(ctx context.Context, from, to time.Time) ([]periodic.DatedAmount, error)
	// MonthlyFigures returns the monthly target, actual and prior year sales of
	// year, for one employee or the whole team when employee is empty.
	MonthlyFigures(ctx context.Context, year int, employee string) ([]target.MonthlyFigure, error)
	// PlanLines returns the customer target plan of a month ("2006-01").
	PlanLines(ctx context.Context, period string) ([]target.PlanLine, error)
}
