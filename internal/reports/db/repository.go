// Package reportsdb reads report data from PostgreSQL.
package reportsdb

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/paulpark6/salesvision/internal/aging"
	"github.com/paulpark6/salesvision/internal/commission"
	"github.com/paulpark6/salesvision/internal/periodic"
	"github.com/paulpark6/salesvision/internal/target"
)

//go:embed schema.sql
var schema string

// Repository implements reports.Repository on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New returns a Repository backed by pool.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Migrate creates the report tables when missing.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("reportsdb: migrate: %w", err)
	}
	return nil
}

const saleLinesSQL = `
SELECT employee_id, employee_name, sale_type, sale_price::text, cost_price::text, customer_type
FROM sale_lines
WHERE $1 = '' OR period = $1
ORDER BY id`

// SaleLines returns the sale lines of period, or all of them for "".
func (r *Repository) SaleLines(ctx context.Context, period string) ([]commission.EmployeeSaleLine, error) {
	rows, err := r.pool.Query(ctx, saleLinesSQL, period)
	if err != nil {
		return nil, fmt.Errorf("reportsdb: sale lines: %w", err)
	}
	defer rows.Close()

	out := make([]commission.EmployeeSaleLine, 0)
	for rows.Next() {
		var (
			rec                  commission.EmployeeSaleLine
			saleType, sale, cost string
			customerType         string
		)
		if err := rows.Scan(&rec.EmployeeID, &rec.EmployeeName, &saleType, &sale, &cost, &customerType); err != nil {
			return nil, fmt.Errorf("reportsdb: scan sale line: %w", err)
		}
		rec.Line.Type = commission.ParseSaleType(saleType)
		rec.Line.CustomerType = parseCustomerType(customerType)
		if rec.Line.SalePrice, err = parseNumeric(sale); err != nil {
			return nil, err
		}
		if rec.Line.CostPrice, err = parseNumeric(cost); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

const dueRecordsSQL = `
SELECT id, kind, issue_date, due_date, amount::text, customer_key, customer_name,
       employee_key, reference, collection_plan
FROM due_records
WHERE kind = $1 AND (issue_date IS NULL OR issue_date <= $2)
ORDER BY due_date, id`

// DueRecords returns the records of kind issued on or before asOf.
func (r *Repository) DueRecords(ctx context.Context, kind aging.Kind, asOf time.Time) ([]aging.Record, error) {
	if asOf.IsZero() {
		asOf = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	rows, err := r.pool.Query(ctx, dueRecordsSQL, string(kind), dateParam(asOf))
	if err != nil {
		return nil, fmt.Errorf("reportsdb: due records: %w", err)
	}
	defer rows.Close()

	out := make([]aging.Record, 0)
	for rows.Next() {
		var (
			rec            aging.Record
			kindRaw, value string
			issue, due     pgtype.Date
		)
		if err := rows.Scan(&rec.ID, &kindRaw, &issue, &due, &value, &rec.CustomerKey, &rec.CustomerName,
			&rec.EmployeeKey, &rec.Reference, &rec.CollectionPlan); err != nil {
			return nil, fmt.Errorf("reportsdb: scan due record: %w", err)
		}
		rec.Kind = aging.Kind(kindRaw)
		rec.IssueDate = dateValue(issue)
		rec.DueDate = dateValue(due)
		if rec.Amount, err = parseNumeric(value); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

const cashReceiptsSQL = `
SELECT id, received_on, amount::text, employee_key, source, memo
FROM cash_receipts
WHERE received_on BETWEEN $1 AND $2
ORDER BY received_on, source, id`

// CashReceipts returns the receipts dated between from and to, inclusive.
func (r *Repository) CashReceipts(ctx context.Context, from, to time.Time) ([]periodic.DatedAmount, error) {
	rows, err := r.pool.Query(ctx, cashReceiptsSQL, dateParam(from), dateParam(to))
	if err != nil {
		return nil, fmt.Errorf("reportsdb: cash receipts: %w", err)
	}
	defer rows.Close()

	out := make([]periodic.DatedAmount, 0)
	for rows.Next() {
		var (
			item     periodic.DatedAmount
			received pgtype.Date
			value    string
		)
		if err := rows.Scan(&item.ID, &received, &value, &item.GroupKey, &item.Source, &item.Memo); err != nil {
			return nil, fmt.Errorf("reportsdb: scan cash receipt: %w", err)
		}
		item.Date = dateValue(received)
		if item.Amount, err = parseNumeric(value); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

const monthlyFiguresSQL = `
SELECT month, target::text, actual::text, last_year::text
FROM monthly_figures
WHERE year = $1 AND employee_key = $2
ORDER BY month`

// MonthlyFigures returns the figures of year for employee, or the team
// totals stored under the empty employee key.
func (r *Repository) MonthlyFigures(ctx context.Context, year int, employee string) ([]target.MonthlyFigure, error) {
	rows, err := r.pool.Query(ctx, monthlyFiguresSQL, year, employee)
	if err != nil {
		return nil, fmt.Errorf("reportsdb: monthly figures: %w", err)
	}
	defer rows.Close()

	out := make([]target.MonthlyFigure, 0)
	for rows.Next() {
		var (
			fig                           target.MonthlyFigure
			targetRaw, actualRaw, lastRaw string
		)
		if err := rows.Scan(&fig.Month, &targetRaw, &actualRaw, &lastRaw); err != nil {
			return nil, fmt.Errorf("reportsdb: scan monthly figure: %w", err)
		}
		if fig.Target, err = parseNumeric(targetRaw); err != nil {
			return nil, err
		}
		if fig.Actual, err = parseNumeric(actualRaw); err != nil {
			return nil, err
		}
		if fig.LastYear, err = parseNumeric(lastRaw); err != nil {
			return nil, err
		}
		out = append(out, fig)
	}
	return out, rows.Err()
}

const planLinesSQL = `
SELECT customer_code, customer_name, product_code, product_name, base_price::text, customer_grade, quantity
FROM plan_lines
WHERE period = $1
ORDER BY id`

// PlanLines returns the plan of period.
func (r *Repository) PlanLines(ctx context.Context, period string) ([]target.PlanLine, error) {
	rows, err := r.pool.Query(ctx, planLinesSQL, period)
	if err != nil {
		return nil, fmt.Errorf("reportsdb: plan lines: %w", err)
	}
	defer rows.Close()

	out := make([]target.PlanLine, 0)
	for rows.Next() {
		var (
			line  target.PlanLine
			price string
			qty   int32
		)
		if err := rows.Scan(&line.CustomerCode, &line.CustomerName, &line.ProductCode, &line.ProductName,
			&price, &line.CustomerGrade, &qty); err != nil {
			return nil, fmt.Errorf("reportsdb: scan plan line: %w", err)
		}
		line.Quantity = int(qty)
		if line.BasePrice, err = parseNumeric(price); err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

func parseNumeric(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("reportsdb: parse numeric %q: %w", raw, err)
	}
	return value, nil
}

func parseCustomerType(raw string) commission.CustomerType {
	if commission.CustomerType(raw) == commission.CustomerTransfer {
		return commission.CustomerTransfer
	}
	return commission.CustomerOwn
}

func dateParam(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{Valid: false}
	}
	y, m, d := t.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func dateValue(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}
	return d.Time
}
