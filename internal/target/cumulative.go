package target

import (
	"github.com/shopspring/decimal"
)

// MonthlyFigure holds one month of target, actual and prior year sales.
type MonthlyFigure struct {
	Month    string          `json:"month"`
	Target   decimal.Decimal `json:"target"`
	Actual   decimal.Decimal `json:"actual"`
	LastYear decimal.Decimal `json:"last_year"`
}

// CumulativeRow is a month with its running totals.
type CumulativeRow struct {
	MonthlyFigure
	CumTarget       decimal.Decimal `json:"cum_target"`
	CumActual       decimal.Decimal `json:"cum_actual"`
	CumLastYear     decimal.Decimal `json:"cum_last_year"`
	AchievementRate decimal.Decimal `json:"achievement_rate"`
	YoYGrowth       decimal.Decimal `json:"yoy_growth"`
}

// CumulativeReport is the year to date view of monthly figures.
type CumulativeReport struct {
	Rows            []CumulativeRow `json:"rows"`
	TotalTarget     decimal.Decimal `json:"total_target"`
	TotalActual     decimal.Decimal `json:"total_actual"`
	TotalLastYear   decimal.Decimal `json:"total_last_year"`
	AchievementRate decimal.Decimal `json:"achievement_rate"`
	YoYGrowth       decimal.Decimal `json:"yoy_growth"`
}

// Cumulative accumulates the figures in the given order. Each row carries the
// achievement rate and growth of its running totals.
func Cumulative(months []MonthlyFigure) CumulativeReport {
	report := CumulativeReport{
		Rows:          make([]CumulativeRow, 0, len(months)),
		TotalTarget:   decimal.Zero,
		TotalActual:   decimal.Zero,
		TotalLastYear: decimal.Zero,
	}
	for _, m := range months {
		report.TotalTarget = report.TotalTarget.Add(m.Target)
		report.TotalActual = report.TotalActual.Add(m.Actual)
		report.TotalLastYear = report.TotalLastYear.Add(m.LastYear)
		report.Rows = append(report.Rows, CumulativeRow{
			MonthlyFigure:   m,
			CumTarget:       report.TotalTarget,
			CumActual:       report.TotalActual,
			CumLastYear:     report.TotalLastYear,
			AchievementRate: AchievementRate(report.TotalActual, report.TotalTarget),
			YoYGrowth:       YoYGrowth(report.TotalActual, report.TotalLastYear),
		})
	}
	report.AchievementRate = AchievementRate(report.TotalActual, report.TotalTarget)
	report.YoYGrowth = YoYGrowth(report.TotalActual, report.TotalLastYear)
	return report
}
