package target

import (
	"github.com/shopspring/decimal"

	"github.com/paulpark6/salesvision/internal/shared"
)

// PlanLine is the target of one product for one customer.
type PlanLine struct {
	CustomerCode string `json:"customer_code"`
	CustomerName string `json:"customer_name"`
	ProductCode  string `json:"product_code"`
	ProductName  string `json:"product_name"`
	Input
}

// PlanItem is a PlanLine with its computed amounts.
type PlanItem struct {
	PlanLine
	UnitPrice decimal.Decimal `json:"unit_price"`
	Target    decimal.Decimal `json:"target"`
}

// CustomerPlan groups the plan items of a customer.
type CustomerPlan struct {
	CustomerCode string          `json:"customer_code"`
	CustomerName string          `json:"customer_name"`
	Items        []PlanItem      `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// Plan is the customer target plan of a period.
type Plan struct {
	Customers []CustomerPlan       `json:"customers"`
	Total     decimal.Decimal      `json:"total"`
	Errors    []shared.RecordError `json:"errors,omitempty"`
}

// BuildPlan groups lines per customer in first appearance order. Invalid lines
// are reported and left out of the totals.
func BuildPlan(lines []PlanLine) Plan {
	plan := Plan{Customers: []CustomerPlan{}, Total: decimal.Zero}
	index := make(map[string]int)
	for i, line := range lines {
		if line.CustomerCode == "" {
			plan.Errors = append(plan.Errors, shared.RecordError{
				Index: i,
				Key:   line.ProductCode,
				Err:   shared.NewValidationError("customer_code", "is required"),
			})
			continue
		}
		amount, err := Calculate(line.Input)
		if err != nil {
			plan.Errors = append(plan.Errors, shared.RecordError{Index: i, Key: line.CustomerCode, Err: err})
			continue
		}
		c, ok := index[line.CustomerCode]
		if !ok {
			c = len(plan.Customers)
			index[line.CustomerCode] = c
			plan.Customers = append(plan.Customers, CustomerPlan{
				CustomerCode: line.CustomerCode,
				CustomerName: line.CustomerName,
				Subtotal:     decimal.Zero,
			})
		}
		cp := &plan.Customers[c]
		cp.Items = append(cp.Items, PlanItem{
			PlanLine:  line,
			UnitPrice: UnitPrice(line.BasePrice, line.CustomerGrade),
			Target:    amount,
		})
		cp.Subtotal = cp.Subtotal.Add(amount)
		plan.Total = plan.Total.Add(amount)
	}
	return plan
}
