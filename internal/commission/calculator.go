package commission

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/paulpark6/salesvision/internal/shared"
)

var (
	hundred = decimal.NewFromInt(100)

	importThreshold    = decimal.NewFromInt(200000)
	importBaseRate     = decimal.RequireFromString("0.05")
	importExcessRate   = decimal.RequireFromString("0.03")
	transferImportRate = decimal.RequireFromString("0.01")
	transferLocalShare = decimal.RequireFromString("0.5")
	lowestMarginRate   = decimal.RequireFromString("0.03")
)

type marginTier struct {
	floor decimal.Decimal
	rate  decimal.Decimal
}

// Highest floor first; the first tier whose floor is reached wins.
var marginTiers = []marginTier{
	{floor: decimal.NewFromInt(40), rate: decimal.RequireFromString("0.18")},
	{floor: decimal.NewFromInt(30), rate: decimal.RequireFromString("0.15")},
	{floor: decimal.NewFromInt(20), rate: decimal.RequireFromString("0.12")},
	{floor: decimal.NewFromInt(10), rate: decimal.RequireFromString("0.10")},
}

// RateForMargin returns the local commission rate for a margin percentage.
// Lower bounds are inclusive.
func RateForMargin(pct decimal.Decimal) decimal.Decimal {
	for _, tier := range marginTiers {
		if pct.GreaterThanOrEqual(tier.floor) {
			return tier.rate
		}
	}
	return lowestMarginRate
}

// MarginPercent returns (sale-cost)/sale*100, or zero for a zero sale price.
func MarginPercent(salePrice, costPrice decimal.Decimal) decimal.Decimal {
	if !salePrice.IsPositive() {
		return decimal.Zero
	}
	return salePrice.Sub(costPrice).Mul(hundred).Div(salePrice)
}

// ImportedCommission applies the imported tier to the summed imported sales.
func ImportedCommission(importTotal decimal.Decimal) decimal.Decimal {
	if importTotal.GreaterThan(importThreshold) {
		base := importThreshold.Mul(importBaseRate)
		return base.Add(importTotal.Sub(importThreshold).Mul(importExcessRate))
	}
	return importTotal.Mul(importBaseRate)
}

// LocalCommission returns the margin based commission of one local line.
// A negative margin yields a negative commission.
func LocalCommission(line SaleLine) decimal.Decimal {
	margin := line.SalePrice.Sub(line.CostPrice)
	rate := RateForMargin(MarginPercent(line.SalePrice, line.CostPrice))
	if line.CustomerType == CustomerTransfer {
		rate = rate.Mul(transferLocalShare)
	}
	return margin.Mul(rate)
}

// Calculate computes the commission summary of one employee's sale lines.
// Lines are assumed valid; use CalculateLines for unchecked input.
func Calculate(lines []SaleLine) Summary {
	var importTotal, totalSales, totalCommission decimal.Decimal
	for _, line := range lines {
		totalSales = totalSales.Add(line.SalePrice)
		if line.Type != SaleImported {
			totalCommission = totalCommission.Add(LocalCommission(line))
			continue
		}
		if line.CustomerType == CustomerTransfer {
			totalCommission = totalCommission.Add(line.SalePrice.Mul(transferImportRate))
			continue
		}
		importTotal = importTotal.Add(line.SalePrice)
	}
	totalCommission = totalCommission.Add(ImportedCommission(importTotal))
	return summarize(totalSales, totalCommission)
}

// CalculateLines validates each line, excludes the invalid ones and computes
// the summary over the rest.
func CalculateLines(lines []SaleLine) (Summary, []shared.RecordError) {
	valid := make([]SaleLine, 0, len(lines))
	var errs []shared.RecordError
	for i, line := range lines {
		if err := shared.ValidateStruct(line); err != nil {
			errs = append(errs, shared.RecordError{Index: i, Err: err})
			continue
		}
		valid = append(valid, line)
	}
	return Calculate(valid), errs
}

// ByEmployee groups sale lines per employee and computes each summary.
// Results are ordered by employee name, then ID.
func ByEmployee(records []EmployeeSaleLine) ([]EmployeeCommission, []shared.RecordError) {
	type group struct {
		id, name string
		lines    []SaleLine
	}
	groups := make(map[string]*group)
	var errs []shared.RecordError
	for i, rec := range records {
		if rec.EmployeeID == "" {
			errs = append(errs, shared.RecordError{Index: i, Err: shared.NewValidationError("employee_id", "is required")})
			continue
		}
		if err := shared.ValidateStruct(rec.Line); err != nil {
			errs = append(errs, shared.RecordError{Index: i, Key: rec.EmployeeID, Err: err})
			continue
		}
		g, ok := groups[rec.EmployeeID]
		if !ok {
			g = &group{id: rec.EmployeeID, name: rec.EmployeeName}
			groups[rec.EmployeeID] = g
		}
		g.lines = append(g.lines, rec.Line)
	}

	out := make([]EmployeeCommission, 0, len(groups))
	for _, g := range groups {
		out = append(out, EmployeeCommission{
			EmployeeID:   g.id,
			EmployeeName: g.name,
			Lines:        len(g.lines),
			Summary:      Calculate(g.lines),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeName != out[j].EmployeeName {
			return out[i].EmployeeName < out[j].EmployeeName
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, errs
}

func summarize(totalSales, totalCommission decimal.Decimal) Summary {
	rate := decimal.Zero
	if totalSales.IsPositive() {
		rate = totalCommission.Mul(hundred).Div(totalSales)
	}
	return Summary{
		TotalSales:            totalSales,
		TotalCommission:       totalCommission,
		AverageCommissionRate: rate,
	}
}

// Total sums per employee results into a team summary.
func Total(results []EmployeeCommission) Summary {
	var totalSales, totalCommission decimal.Decimal
	for _, r := range results {
		totalSales = totalSales.Add(r.TotalSales)
		totalCommission = totalCommission.Add(r.TotalCommission)
	}
	return summarize(totalSales, totalCommission)
}
