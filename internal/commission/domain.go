// Package commission computes employee commissions from sale lines.
package commission

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SaleType distinguishes imported goods from locally sourced goods.
type SaleType string

const (
	SaleImported SaleType = "imported"
	SaleLocal    SaleType = "local"
)

// ParseSaleType normalises the sale type labels used by upstream data feeds.
// Unknown labels map to SaleLocal, the margin based rules.
func ParseSaleType(raw string) SaleType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "imported", "import", "수입":
		return SaleImported
	default:
		return SaleLocal
	}
}

// CustomerType tells whether the customer was acquired by the employee or
// transferred from another account owner.
type CustomerType string

const (
	CustomerOwn      CustomerType = "own"
	CustomerTransfer CustomerType = "transfer"
)

// SaleLine is a single sale counted toward an employee's commission.
type SaleLine struct {
	Type         SaleType        `json:"type"`
	SalePrice    decimal.Decimal `json:"sale_price" validate:"nonneg"`
	CostPrice    decimal.Decimal `json:"cost_price" validate:"nonneg"`
	CustomerType CustomerType    `json:"customer_type,omitempty"`
}

// EmployeeSaleLine attributes a sale line to an employee.
type EmployeeSaleLine struct {
	EmployeeID   string   `json:"employee_id"`
	EmployeeName string   `json:"employee_name"`
	Line         SaleLine `json:"line"`
}

// Summary is the commission outcome for one employee.
type Summary struct {
	TotalSales            decimal.Decimal `json:"total_sales"`
	TotalCommission       decimal.Decimal `json:"total_commission"`
	AverageCommissionRate decimal.Decimal `json:"average_commission_rate"`
}

// EmployeeCommission is a Summary labelled with its employee.
type EmployeeCommission struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Lines        int    `json:"lines"`
	Summary
}
