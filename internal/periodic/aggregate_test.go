package periodic

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulpark6/salesvision/internal/platform/httpx"
)

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func amt(date time.Time, value, key, source string) DatedAmount {
	return DatedAmount{Date: date, Amount: decimal.RequireFromString(value), GroupKey: key, Source: source}
}

func TestBounds(t *testing.T) {
	start, end, label := Week.Bounds(at(2025, time.January, 1)) // Wednesday
	assert.Equal(t, "2025-W01", label)
	assert.Equal(t, time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), end)

	_, _, label = Week.Bounds(at(2025, time.March, 16)) // Sunday
	assert.Equal(t, "2025-W11", label)

	start, end, label = Month.Bounds(at(2024, time.February, 17))
	assert.Equal(t, "2024-02", label)
	assert.Equal(t, 1, start.Day())
	assert.Equal(t, 29, end.Day())

	_, _, label = Day.Bounds(at(2025, time.March, 3))
	assert.Equal(t, "2025-03-03", label)
}

func TestAggregateConservesTotal(t *testing.T) {
	items := []DatedAmount{
		amt(at(2025, 3, 3), "0.1", "jane", "cash_sale"),
		amt(at(2025, 3, 4), "0.2", "jane", "cash_sale"),
		amt(at(2025, 3, 12), "1000.33", "alex", "credit_collection"),
		amt(at(2025, 4, 1), "99.67", "jane", "cash_sale"),
	}
	input := decimal.Zero
	for _, item := range items {
		input = input.Add(item.Amount)
	}
	for _, g := range []Granularity{Day, Week, Month} {
		report := Aggregate(items, g, nil)
		sum := decimal.Zero
		for _, p := range report.Periods {
			sum = sum.Add(p.Total)
		}
		assert.True(t, sum.Equal(input), "granularity %s", g)
		assert.True(t, report.GrandTotal.Equal(decimal.RequireFromString("1100.3")), "granularity %s", g)
	}
}

func TestAggregateOrderingAndCumulative(t *testing.T) {
	items := []DatedAmount{
		amt(at(2025, 3, 12), "30", "a", "cash_sale"),
		amt(at(2025, 3, 3), "10", "a", "cash_sale"),
		amt(at(2025, 3, 4), "20", "a", "cash_sale"),
	}
	report := Aggregate(items, Week, nil)
	require.Len(t, report.Periods, 2)
	assert.Equal(t, "2025-W11", report.Periods[0].Label)
	assert.Equal(t, "2025-W10", report.Periods[1].Label)
	assert.True(t, report.Periods[1].Total.Equal(decimal.NewFromInt(30)))
	assert.True(t, report.Periods[1].Cumulative.Equal(decimal.NewFromInt(30)))
	assert.True(t, report.Periods[0].Cumulative.Equal(decimal.NewFromInt(60)))
	assert.Len(t, report.Periods[1].Days, 2)
}

func TestAggregateSubgroupsDaysBySource(t *testing.T) {
	items := []DatedAmount{
		amt(at(2025, 3, 5), "1", "a", "credit_collection"),
		amt(at(2025, 3, 3), "2", "a", "credit_collection"),
		amt(at(2025, 3, 5), "3", "a", "cash_sale"),
		amt(at(2025, 3, 3), "4", "a", "cash_sale"),
	}
	report := Aggregate(items, Month, nil)
	require.Len(t, report.Periods, 1)
	days := report.Periods[0].Days
	require.Len(t, days, 2)
	assert.Equal(t, "2025-03-03", days[0].Label)
	assert.Equal(t, "cash_sale", days[0].Items[0].Source)
	assert.Equal(t, "credit_collection", days[0].Items[1].Source)
	assert.True(t, days[0].Total.Equal(decimal.NewFromInt(6)))
	assert.True(t, days[1].Total.Equal(decimal.NewFromInt(4)))
}

func TestAggregateDayHasNoSubgroups(t *testing.T) {
	report := Aggregate([]DatedAmount{amt(at(2025, 3, 5), "1", "a", "x")}, Day, nil)
	require.Len(t, report.Periods, 1)
	assert.Nil(t, report.Periods[0].Days)
}

func TestAggregateFilterAndErrors(t *testing.T) {
	items := []DatedAmount{
		amt(at(2025, 3, 5), "5", "jane", "cash_sale"),
		amt(at(2025, 3, 5), "7", "alex", "cash_sale"),
		{ID: "broken", Amount: decimal.NewFromInt(1), GroupKey: "jane"},
	}
	report := Aggregate(items, Week, ByGroupKey("jane"))
	require.Len(t, report.Periods, 1)
	assert.True(t, report.GrandTotal.Equal(decimal.NewFromInt(5)))
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 2, report.Errors[0].Index)
	assert.ErrorIs(t, report.Errors[0], httpx.ErrValidation)
	assert.Nil(t, ByGroupKey(""))
}

func TestAggregateEmpty(t *testing.T) {
	report := Aggregate(nil, Month, nil)
	assert.Empty(t, report.Periods)
	assert.True(t, report.GrandTotal.IsZero())
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity(" MONTH ")
	require.NoError(t, err)
	assert.Equal(t, Month, g)
	g, err = ParseGranularity("")
	require.NoError(t, err)
	assert.Equal(t, Week, g)
	_, err = ParseGranularity("quarter")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}
