package reports

import (
	"context"
	"time"

	"github.com/paulpark6/salesvision/internal/aging"
	"github.com/paulpark6/salesvision/internal/periodic"
	"github.com/paulpark6/salesvision/internal/shared"
)

// SystemPrincipal is the actor used by background jobs.
var SystemPrincipal = shared.Principal{UserID: "system", Name: "system", Role: shared.RoleAdmin}

// CashWindowDays is the span of the default cash report ending on the as-of date.
const CashWindowDays = 28

// WarmupResult reports what a warmup run built.
type WarmupResult struct {
	AsOf    time.Time `json:"as_of"`
	Reports int       `json:"reports"`
}

// Warmup builds the unscoped reports of asOf so the first dashboard request of
// the day is served from cache.
func (s *Service) Warmup(ctx context.Context, asOf time.Time) (WarmupResult, error) {
	p := SystemPrincipal
	period := asOf.Format("2006-01")
	from := asOf.AddDate(0, 0, -(CashWindowDays - 1))
	steps := []func(context.Context) error{
		func(ctx context.Context) error { _, err := s.Commissions(ctx, p, period); return err },
		func(ctx context.Context) error {
			_, err := s.CreditStatus(ctx, p, asOf, aging.GroupByCustomer)
			return err
		},
		func(ctx context.Context) error { _, err := s.DueSchedule(ctx, p, asOf); return err },
		func(ctx context.Context) error {
			_, err := s.CreditNoteAging(ctx, p, asOf, aging.GroupByCustomer)
			return err
		},
		func(ctx context.Context) error { _, err := s.Checks(ctx, p, asOf); return err },
		func(ctx context.Context) error {
			_, err := s.CashReport(ctx, p, from, asOf, periodic.Week)
			return err
		},
		func(ctx context.Context) error { _, err := s.CumulativeReport(ctx, p, asOf.Year()); return err },
		func(ctx context.Context) error { _, err := s.TargetPlan(ctx, p, period); return err },
	}
	result := WarmupResult{AsOf: asOf}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return result, err
		}
		result.Reports++
	}
	return result, nil
}
