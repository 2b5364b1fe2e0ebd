package commission

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulpark6/salesvision/internal/platform/httpx"
	"github.com/paulpark6/salesvision/internal/shared"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	if !got.Equal(d(want)) {
		t.Fatalf("expected %s, got %s", want, got.String())
	}
}

func imported(price string) SaleLine {
	return SaleLine{Type: SaleImported, SalePrice: d(price), CostPrice: decimal.Zero}
}

func local(price, cost string) SaleLine {
	return SaleLine{Type: SaleLocal, SalePrice: d(price), CostPrice: d(cost)}
}

func TestImportedTierBoundary(t *testing.T) {
	summary := Calculate([]SaleLine{imported("200000")})
	assertDecimal(t, "10000", summary.TotalCommission)
	assertDecimal(t, "200000", summary.TotalSales)
	assertDecimal(t, "5", summary.AverageCommissionRate)

	summary = Calculate([]SaleLine{imported("200001")})
	assertDecimal(t, "10000.03", summary.TotalCommission)
}

func TestImportedTierSumsAcrossLines(t *testing.T) {
	summary := Calculate([]SaleLine{imported("150000"), imported("100000")})
	// 10000 on the first 200000 plus 3% of the 50000 above it.
	assertDecimal(t, "11500", summary.TotalCommission)
	assertDecimal(t, "250000", summary.TotalSales)
}

func TestRateForMarginBoundaries(t *testing.T) {
	cases := []struct {
		pct  string
		rate string
	}{
		{"0", "0.03"},
		{"9.99", "0.03"},
		{"10", "0.10"},
		{"19.999", "0.10"},
		{"20", "0.12"},
		{"30", "0.15"},
		{"39.9", "0.15"},
		{"40", "0.18"},
		{"95", "0.18"},
		{"-12", "0.03"},
	}
	for _, tc := range cases {
		t.Run(tc.pct, func(t *testing.T) {
			assertDecimal(t, tc.rate, RateForMargin(d(tc.pct)))
		})
	}
}

func TestLocalMarginLowerBoundInclusive(t *testing.T) {
	summary := Calculate([]SaleLine{local("1000", "900")})
	// margin 100 at 10% rate
	assertDecimal(t, "10", summary.TotalCommission)
	assertDecimal(t, "1000", summary.TotalSales)
	assertDecimal(t, "1", summary.AverageCommissionRate)
}

func TestZeroSalesIdentity(t *testing.T) {
	for _, lines := range [][]SaleLine{nil, {}} {
		summary := Calculate(lines)
		assert.True(t, summary.TotalSales.IsZero())
		assert.True(t, summary.TotalCommission.IsZero())
		assert.True(t, summary.AverageCommissionRate.IsZero())
	}
}

func TestZeroPriceLocalLine(t *testing.T) {
	summary := Calculate([]SaleLine{local("0", "0")})
	assert.True(t, summary.TotalCommission.IsZero())
	assert.True(t, summary.AverageCommissionRate.IsZero())
	assert.True(t, MarginPercent(decimal.Zero, d("10")).IsZero())
}

func TestNegativeMarginProducesNegativeCommission(t *testing.T) {
	summary := Calculate([]SaleLine{local("1000", "1200")})
	assertDecimal(t, "-6", summary.TotalCommission)
}

func TestUnknownSaleTypeUsesLocalRules(t *testing.T) {
	line := SaleLine{Type: SaleType("consignment"), SalePrice: d("1000"), CostPrice: d("500")}
	summary := Calculate([]SaleLine{line})
	assertDecimal(t, "90", summary.TotalCommission)
	assert.Equal(t, SaleLocal, ParseSaleType("consignment"))
	assert.Equal(t, SaleImported, ParseSaleType(" Imported "))
	assert.Equal(t, SaleImported, ParseSaleType("수입"))
}

func TestTransferCustomers(t *testing.T) {
	lines := []SaleLine{
		{Type: SaleImported, SalePrice: d("50000"), CostPrice: d("30000"), CustomerType: CustomerTransfer},
		{Type: SaleLocal, SalePrice: d("20000"), CostPrice: d("16000"), CustomerType: CustomerTransfer},
	}
	summary := Calculate(lines)
	// 1% of 50000 plus half of 12% on a 4000 margin.
	assertDecimal(t, "740", summary.TotalCommission)
	assertDecimal(t, "70000", summary.TotalSales)
}

func TestMixedEmployeeSales(t *testing.T) {
	lines := []SaleLine{
		{Type: SaleImported, SalePrice: d("210000"), CostPrice: d("150000"), CustomerType: CustomerOwn},
		{Type: SaleLocal, SalePrice: d("5000"), CostPrice: d("4600"), CustomerType: CustomerOwn},
		{Type: SaleLocal, SalePrice: d("10000"), CostPrice: d("8500"), CustomerType: CustomerOwn},
		{Type: SaleImported, SalePrice: d("50000"), CostPrice: d("30000"), CustomerType: CustomerTransfer},
		{Type: SaleLocal, SalePrice: d("20000"), CostPrice: d("16000"), CustomerType: CustomerTransfer},
	}
	summary := Calculate(lines)
	assertDecimal(t, "295000", summary.TotalSales)
	assertDecimal(t, "11202", summary.TotalCommission)
	assert.True(t, summary.AverageCommissionRate.GreaterThan(d("3.79")))
	assert.True(t, summary.AverageCommissionRate.LessThan(d("3.80")))
}

func TestCalculateLinesPartialSuccess(t *testing.T) {
	lines := []SaleLine{
		local("1000", "900"),
		{Type: SaleLocal, SalePrice: d("-5"), CostPrice: d("1")},
		imported("1000"),
		{Type: SaleLocal, SalePrice: d("10"), CostPrice: d("-1")},
	}
	summary, errs := CalculateLines(lines)
	require.Len(t, errs, 2)
	assert.Equal(t, 1, errs[0].Index)
	assert.Equal(t, "sale_price", errs[0].Field())
	assert.Equal(t, 3, errs[1].Index)
	assert.Equal(t, "cost_price", errs[1].Field())
	assert.True(t, errors.Is(errs[0], httpx.ErrValidation))

	assertDecimal(t, "2000", summary.TotalSales)
	assertDecimal(t, "60", summary.TotalCommission)
}

func TestByEmployee(t *testing.T) {
	records := []EmployeeSaleLine{
		{EmployeeID: "emp-02", EmployeeName: "Alex Ray", Line: imported("180000")},
		{EmployeeID: "emp-01", EmployeeName: "Jane Smith", Line: local("1000", "900")},
		{EmployeeID: "emp-02", EmployeeName: "Alex Ray", Line: local("20000", "15000")},
		{EmployeeID: "", EmployeeName: "Nobody", Line: local("1", "1")},
		{EmployeeID: "emp-01", EmployeeName: "Jane Smith", Line: SaleLine{Type: SaleLocal, SalePrice: d("-1")}},
	}
	results, errs := ByEmployee(records)
	require.Len(t, results, 2)
	require.Len(t, errs, 2)

	var verr *shared.ValidationError
	require.True(t, errors.As(errs[0].Err, &verr))
	assert.Equal(t, "employee_id", verr.Field)
	assert.Equal(t, "emp-01", errs[1].Key)

	assert.Equal(t, "Alex Ray", results[0].EmployeeName)
	assert.Equal(t, 2, results[0].Lines)
	// 5% of 180000 plus 12% of a 5000 margin.
	assertDecimal(t, "9600", results[0].TotalCommission)
	assertDecimal(t, "200000", results[0].TotalSales)

	assert.Equal(t, "Jane Smith", results[1].EmployeeName)
	assert.Equal(t, 1, results[1].Lines)
	assertDecimal(t, "10", results[1].TotalCommission)
}

func TestTotal(t *testing.T) {
	results := []EmployeeCommission{
		{EmployeeID: "a", Summary: Summary{TotalSales: d("1000"), TotalCommission: d("10")}},
		{EmployeeID: "b", Summary: Summary{TotalSales: d("3000"), TotalCommission: d("150")}},
	}
	total := Total(results)
	assertDecimal(t, "4000", total.TotalSales)
	assertDecimal(t, "160", total.TotalCommission)
	assertDecimal(t, "4", total.AverageCommissionRate)

	assert.True(t, Total(nil).AverageCommissionRate.IsZero())
}
