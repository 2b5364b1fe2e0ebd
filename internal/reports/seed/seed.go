// Package seed provides an in-memory report repository loaded with the demo
// data set used by local development and tests.
package seed

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paulpark6/salesvision/internal/aging"
	"github.com/paulpark6/salesvision/internal/commission"
	"github.com/paulpark6/salesvision/internal/periodic"
	"github.com/paulpark6/salesvision/internal/target"
)

// Repository serves immutable snapshots of the demo data set.
type Repository struct {
	sales   []periodSale
	records []aging.Record
	cash    []periodic.DatedAmount
	monthly map[int]map[string][]target.MonthlyFigure
	plans   map[string][]target.PlanLine
}

type periodSale struct {
	period string
	line   commission.EmployeeSaleLine
}

// New returns a Repository holding the demo data set.
func New() *Repository {
	return &Repository{
		sales:   saleLines(),
		records: dueRecords(),
		cash:    cashReceipts(),
		monthly: monthlyFigures(),
		plans:   planLines(),
	}
}

// SaleLines returns the sale lines of period, or all of them for "".
func (r *Repository) SaleLines(_ context.Context, period string) ([]commission.EmployeeSaleLine, error) {
	out := make([]commission.EmployeeSaleLine, 0, len(r.sales))
	for _, s := range r.sales {
		if period == "" || s.period == period {
			out = append(out, s.line)
		}
	}
	return out, nil
}

// DueRecords returns the records of kind issued on or before asOf.
func (r *Repository) DueRecords(_ context.Context, kind aging.Kind, asOf time.Time) ([]aging.Record, error) {
	out := make([]aging.Record, 0)
	for _, rec := range r.records {
		if rec.Kind != kind {
			continue
		}
		if !asOf.IsZero() && !rec.IssueDate.IsZero() && rec.IssueDate.After(asOf) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// CashReceipts returns the receipts dated between from and to, inclusive.
func (r *Repository) CashReceipts(_ context.Context, from, to time.Time) ([]periodic.DatedAmount, error) {
	lo, hi := day(from), day(to)
	out := make([]periodic.DatedAmount, 0)
	for _, item := range r.cash {
		d := day(item.Date)
		if d.Before(lo) || d.After(hi) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// MonthlyFigures returns the figures of year for employee, or the team totals
// for "".
func (r *Repository) MonthlyFigures(_ context.Context, year int, employee string) ([]target.MonthlyFigure, error) {
	figures := r.monthly[year][employee]
	out := make([]target.MonthlyFigure, len(figures))
	copy(out, figures)
	return out, nil
}

// PlanLines returns the plan of period.
func (r *Repository) PlanLines(_ context.Context, period string) ([]target.PlanLine, error) {
	lines := r.plans[period]
	out := make([]target.PlanLine, len(lines))
	copy(out, lines)
	return out, nil
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func date(raw string) time.Time {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		panic(err)
	}
	return t
}

func amount(raw string) decimal.Decimal {
	return decimal.RequireFromString(raw)
}

// Dataset is the full demo data set, used to load it into another store.
type Dataset struct {
	Sales   map[string][]commission.EmployeeSaleLine
	Records []aging.Record
	Cash    []periodic.DatedAmount
	Monthly map[int]map[string][]target.MonthlyFigure
	Plans   map[string][]target.PlanLine
}

// Dataset returns a copy of the data held by r.
func (r *Repository) Dataset() Dataset {
	ds := Dataset{
		Sales:   make(map[string][]commission.EmployeeSaleLine),
		Records: append([]aging.Record(nil), r.records...),
		Cash:    append([]periodic.DatedAmount(nil), r.cash...),
		Monthly: make(map[int]map[string][]target.MonthlyFigure, len(r.monthly)),
		Plans:   make(map[string][]target.PlanLine, len(r.plans)),
	}
	for _, s := range r.sales {
		ds.Sales[s.period] = append(ds.Sales[s.period], s.line)
	}
	for year, byEmployee := range r.monthly {
		ds.Monthly[year] = make(map[string][]target.MonthlyFigure, len(byEmployee))
		for employee, figures := range byEmployee {
			ds.Monthly[year][employee] = append([]target.MonthlyFigure(nil), figures...)
		}
	}
	for period, lines := range r.plans {
		ds.Plans[period] = append([]target.PlanLine(nil), lines...)
	}
	return ds
}
