// Package reports composes the repository, the calculation packages and the
// report cache into the figures served by the dashboard.
package reports

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/paulpark6/salesvision/internal/aging"
	"github.com/paulpark6/salesvision/internal/commission"
	"github.com/paulpark6/salesvision/internal/periodic"
	"github.com/paulpark6/salesvision/internal/shared"
	"github.com/paulpark6/salesvision/internal/target"
)

// Service coordinates report building with the cache layer.
type Service struct {
	repo   Repository
	cache  *Cache
	policy aging.StatusPolicy
	group  singleflight.Group
}

// NewService wires a Repository with a Cache helper. A nil cache builds every
// report on demand.
func NewService(repo Repository, cache *Cache, policy aging.StatusPolicy) *Service {
	return &Service{repo: repo, cache: cache, policy: policy}
}

// Policy returns the status thresholds used by credit reports.
func (s *Service) Policy() aging.StatusPolicy {
	return s.policy
}

// CommissionReport lists the commission of every employee of a period.
type CommissionReport struct {
	Period    string                          `json:"period"`
	Employees []commission.EmployeeCommission `json:"employees"`
	Totals    commission.Summary              `json:"totals"`
	Errors    []shared.RecordError            `json:"errors,omitempty"`
}

// Commissions computes the commission report of a month.
func (s *Service) Commissions(ctx context.Context, p shared.Principal, period string) (CommissionReport, error) {
	if err := p.Require(shared.CapViewCommissions); err != nil {
		return CommissionReport{}, err
	}
	return cached(ctx, s, keyFor("commissions", period), func(ctx context.Context) (CommissionReport, error) {
		lines, err := s.repo.SaleLines(ctx, period)
		if err != nil {
			return CommissionReport{}, fmt.Errorf("reports: sale lines: %w", err)
		}
		employees, errs := commission.ByEmployee(lines)
		return CommissionReport{
			Period:    period,
			Employees: employees,
			Totals:    commission.Total(employees),
			Errors:    errs,
		}, nil
	})
}

// Calculation is the result of an ad hoc commission calculation.
type Calculation struct {
	commission.Summary
	Errors []shared.RecordError `json:"errors,omitempty"`
}

// CalculateCommission computes the commission of caller supplied lines.
func (s *Service) CalculateCommission(p shared.Principal, lines []commission.SaleLine) (Calculation, error) {
	if err := p.Require(shared.CapViewCommissions); err != nil {
		return Calculation{}, err
	}
	summary, errs := commission.CalculateLines(lines)
	return Calculation{Summary: summary, Errors: errs}, nil
}

// TargetQuote is a priced target input.
type TargetQuote struct {
	target.Input
	Discount  decimal.Decimal `json:"discount"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Target    decimal.Decimal `json:"target"`
}

// CalculateTarget prices a target input for the caller.
func (s *Service) CalculateTarget(p shared.Principal, in target.Input) (TargetQuote, error) {
	if err := p.Require(shared.CapViewTargets); err != nil {
		return TargetQuote{}, err
	}
	amount, err := target.Calculate(in)
	if err != nil {
		return TargetQuote{}, err
	}
	return TargetQuote{
		Input:     in,
		Discount:  target.Discount(in.CustomerGrade),
		UnitPrice: target.UnitPrice(in.BasePrice, in.CustomerGrade),
		Target:    amount,
	}, nil
}

func (s *Service) dueRecords(ctx context.Context, kind aging.Kind, asOf time.Time, employee string) ([]aging.Record, error) {
	records, err := s.repo.DueRecords(ctx, kind, asOf)
	if err != nil {
		return nil, fmt.Errorf("reports: %s records: %w", kind, err)
	}
	return aging.FilterEmployee(records, employee), nil
}

// CreditStatus summarises open credit by status as of asOf.
func (s *Service) CreditStatus(ctx context.Context, p shared.Principal, asOf time.Time, groupBy aging.GroupBy) (aging.StatusReport, error) {
	if err := p.Require(shared.CapViewCredit); err != nil {
		return aging.StatusReport{}, err
	}
	scope := p.ScopeEmployee()
	key := keyFor("credit_status", scopeToken(scope), dateToken(asOf), string(groupBy), s.policyToken())
	return cached(ctx, s, key, func(ctx context.Context) (aging.StatusReport, error) {
		records, err := s.dueRecords(ctx, aging.KindCredit, asOf, scope)
		if err != nil {
			return aging.StatusReport{}, err
		}
		return aging.SummarizeStatus(records, asOf, s.policy, groupBy), nil
	})
}

// DueScheduleReport is the due payments table.
type DueScheduleReport struct {
	AsOf    time.Time             `json:"as_of"`
	Policy  aging.StatusPolicy    `json:"policy"`
	Entries []aging.ScheduleEntry `json:"entries"`
	Errors  []shared.RecordError  `json:"errors,omitempty"`
}

// DueSchedule lists open credit ordered by due date.
func (s *Service) DueSchedule(ctx context.Context, p shared.Principal, asOf time.Time) (DueScheduleReport, error) {
	if err := p.Require(shared.CapViewCredit); err != nil {
		return DueScheduleReport{}, err
	}
	scope := p.ScopeEmployee()
	key := keyFor("credit_due", scopeToken(scope), dateToken(asOf), s.policyToken())
	return cached(ctx, s, key, func(ctx context.Context) (DueScheduleReport, error) {
		records, err := s.dueRecords(ctx, aging.KindCredit, asOf, scope)
		if err != nil {
			return DueScheduleReport{}, err
		}
		entries, errs := aging.DueSchedule(records, asOf, s.policy)
		return DueScheduleReport{AsOf: asOf, Policy: s.policy, Entries: entries, Errors: errs}, nil
	})
}

// OverdueCredits returns the overdue entries of the due schedule.
func (s *Service) OverdueCredits(ctx context.Context, p shared.Principal, asOf time.Time) ([]aging.ScheduleEntry, error) {
	report, err := s.DueSchedule(ctx, p, asOf)
	if err != nil {
		return nil, err
	}
	return aging.Overdue(report.Entries), nil
}

// CreditNoteAging buckets open credit notes as of asOf.
func (s *Service) CreditNoteAging(ctx context.Context, p shared.Principal, asOf time.Time, groupBy aging.GroupBy) (aging.BucketReport, error) {
	if err := p.Require(shared.CapViewCredit); err != nil {
		return aging.BucketReport{}, err
	}
	scope := p.ScopeEmployee()
	key := keyFor("credit_note_aging", scopeToken(scope), dateToken(asOf), string(groupBy))
	return cached(ctx, s, key, func(ctx context.Context) (aging.BucketReport, error) {
		records, err := s.dueRecords(ctx, aging.KindCreditNote, asOf, scope)
		if err != nil {
			return aging.BucketReport{}, err
		}
		return aging.SummarizeBuckets(records, asOf, groupBy), nil
	})
}

// ChecksReport is the post-dated check view.
type ChecksReport struct {
	Status   aging.StatusReport    `json:"status"`
	Schedule []aging.ScheduleEntry `json:"schedule"`
	Errors   []shared.RecordError  `json:"errors,omitempty"`
}

// Checks summarises received checks by deposit date.
func (s *Service) Checks(ctx context.Context, p shared.Principal, asOf time.Time) (ChecksReport, error) {
	if err := p.Require(shared.CapViewChecks); err != nil {
		return ChecksReport{}, err
	}
	scope := p.ScopeEmployee()
	key := keyFor("checks", scopeToken(scope), dateToken(asOf), s.policyToken())
	return cached(ctx, s, key, func(ctx context.Context) (ChecksReport, error) {
		records, err := s.dueRecords(ctx, aging.KindCheck, asOf, scope)
		if err != nil {
			return ChecksReport{}, err
		}
		schedule, errs := aging.DueSchedule(records, asOf, s.policy)
		return ChecksReport{
			Status:   aging.SummarizeStatus(records, asOf, s.policy, aging.GroupByEmployee),
			Schedule: schedule,
			Errors:   errs,
		}, nil
	})
}

// CashReport aggregates cash receipts between from and to.
func (s *Service) CashReport(ctx context.Context, p shared.Principal, from, to time.Time, g periodic.Granularity) (periodic.Report, error) {
	if err := p.Require(shared.CapViewCash); err != nil {
		return periodic.Report{}, err
	}
	if to.Before(from) {
		return periodic.Report{}, shared.NewValidationError("to", "must not be before from")
	}
	scope := p.ScopeEmployee()
	key := keyFor("cash", scopeToken(scope), dateToken(from), dateToken(to), string(g))
	return cached(ctx, s, key, func(ctx context.Context) (periodic.Report, error) {
		items, err := s.repo.CashReceipts(ctx, from, to)
		if err != nil {
			return periodic.Report{}, fmt.Errorf("reports: cash receipts: %w", err)
		}
		return periodic.Aggregate(items, g, periodic.ByGroupKey(scope)), nil
	})
}

// CumulativeReport accumulates the monthly figures of year.
func (s *Service) CumulativeReport(ctx context.Context, p shared.Principal, year int) (target.CumulativeReport, error) {
	if err := p.Require(shared.CapViewTargets); err != nil {
		return target.CumulativeReport{}, err
	}
	scope := p.ScopeEmployee()
	key := keyFor("cumulative", scopeToken(scope), strconv.Itoa(year))
	return cached(ctx, s, key, func(ctx context.Context) (target.CumulativeReport, error) {
		months, err := s.repo.MonthlyFigures(ctx, year, scope)
		if err != nil {
			return target.CumulativeReport{}, fmt.Errorf("reports: monthly figures: %w", err)
		}
		return target.Cumulative(months), nil
	})
}

// TargetPlan builds the customer target plan of a month.
func (s *Service) TargetPlan(ctx context.Context, p shared.Principal, period string) (target.Plan, error) {
	if err := p.Require(shared.CapViewTargets); err != nil {
		return target.Plan{}, err
	}
	return cached(ctx, s, keyFor("target_plan", period), func(ctx context.Context) (target.Plan, error) {
		lines, err := s.repo.PlanLines(ctx, period)
		if err != nil {
			return target.Plan{}, fmt.Errorf("reports: plan lines: %w", err)
		}
		return target.BuildPlan(lines), nil
	})
}

// BumpCache invalidates every cached report and returns the new version.
func (s *Service) BumpCache(ctx context.Context, p shared.Principal) (int64, error) {
	if err := p.Require(shared.CapManageTargets); err != nil {
		return 0, err
	}
	return s.cache.Bump(ctx)
}

func (s *Service) policyToken() string {
	return strconv.Itoa(s.policy.OverdueGraceDays) + "-" + strconv.Itoa(s.policy.DueWindowDays)
}
