package reportsdb

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/paulpark6/salesvision/internal/commission"
	platformdb "github.com/paulpark6/salesvision/internal/platform/db"
	"github.com/paulpark6/salesvision/internal/reports/seed"
)

var truncateSQL = `TRUNCATE sale_lines, due_records, cash_receipts, monthly_figures, plan_lines RESTART IDENTITY`

// Load replaces the report tables with ds in one transaction.
func (r *Repository) Load(ctx context.Context, ds seed.Dataset) error {
	return platformdb.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, truncateSQL); err != nil {
			return fmt.Errorf("reportsdb: truncate: %w", err)
		}
		batch := &pgx.Batch{}
		queueDataset(batch, ds)
		results := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return fmt.Errorf("reportsdb: load row %d: %w", i, err)
			}
		}
		return results.Close()
	})
}

func queueDataset(batch *pgx.Batch, ds seed.Dataset) {
	for period, lines := range ds.Sales {
		for _, rec := range lines {
			batch.Queue(`INSERT INTO sale_lines (period, employee_id, employee_name, sale_type, sale_price, cost_price, customer_type)
VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7)`,
				period, rec.EmployeeID, rec.EmployeeName, string(rec.Line.Type),
				rec.Line.SalePrice.String(), rec.Line.CostPrice.String(), customerType(rec.Line.CustomerType))
		}
	}
	for _, rec := range ds.Records {
		batch.Queue(`INSERT INTO due_records (id, kind, issue_date, due_date, amount, customer_key, customer_name, employee_key, reference, collection_plan)
VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9, $10)`,
			rec.ID, string(rec.Kind), dateParam(rec.IssueDate), dateParam(rec.DueDate), rec.Amount.String(),
			rec.CustomerKey, rec.CustomerName, rec.EmployeeKey, rec.Reference, rec.CollectionPlan)
	}
	for _, item := range ds.Cash {
		batch.Queue(`INSERT INTO cash_receipts (id, received_on, amount, employee_key, source, memo)
VALUES ($1, $2, $3::numeric, $4, $5, $6)`,
			item.ID, dateParam(item.Date), item.Amount.String(), item.GroupKey, item.Source, item.Memo)
	}
	for year, byEmployee := range ds.Monthly {
		for employee, figures := range byEmployee {
			for _, fig := range figures {
				batch.Queue(`INSERT INTO monthly_figures (year, month, employee_key, target, actual, last_year)
VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric)`,
					year, fig.Month, employee, fig.Target.String(), fig.Actual.String(), fig.LastYear.String())
			}
		}
	}
	for period, lines := range ds.Plans {
		for _, line := range lines {
			batch.Queue(`INSERT INTO plan_lines (period, customer_code, customer_name, product_code, product_name, base_price, customer_grade, quantity)
VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8)`,
				period, line.CustomerCode, line.CustomerName, line.ProductCode, line.ProductName,
				line.BasePrice.String(), line.CustomerGrade, line.Quantity)
		}
	}
}

func customerType(t commission.CustomerType) string {
	if t == "" {
		return string(commission.CustomerOwn)
	}
	return string(t)
}
