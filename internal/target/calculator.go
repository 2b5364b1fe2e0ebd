// Package target computes sales targets, achievement rates and year over
// year growth.
package target

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/paulpark6/salesvision/internal/shared"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)

	gradeDiscounts = map[string]decimal.Decimal{
		"A": decimal.RequireFromString("0.10"),
		"B": decimal.RequireFromString("0.05"),
	}
)

// Discount returns the price discount of a customer grade. Unknown grades get
// no discount.
func Discount(grade string) decimal.Decimal {
	if d, ok := gradeDiscounts[strings.ToUpper(strings.TrimSpace(grade))]; ok {
		return d
	}
	return decimal.Zero
}

// UnitPrice is the base price after the grade discount.
func UnitPrice(basePrice decimal.Decimal, grade string) decimal.Decimal {
	return basePrice.Mul(one.Sub(Discount(grade)))
}

// NeedsApproval reports whether an offered price undercuts the graded list
// price and so requires manager approval.
func NeedsApproval(listPrice, offered decimal.Decimal) bool {
	return offered.LessThan(listPrice)
}

// Input is the data a target amount is computed from.
type Input struct {
	BasePrice     decimal.Decimal `json:"base_price" validate:"nonneg"`
	CustomerGrade string          `json:"customer_grade"`
	Quantity      int             `json:"quantity" validate:"gte=0"`
}

// Calculate returns basePrice*(1-discount)*quantity. Negative price or
// quantity is rejected with a ValidationError.
func Calculate(in Input) (decimal.Decimal, error) {
	if err := shared.ValidateStruct(in); err != nil {
		return decimal.Zero, err
	}
	return UnitPrice(in.BasePrice, in.CustomerGrade).Mul(decimal.NewFromInt(int64(in.Quantity))), nil
}

// AchievementRate returns actual/target*100. A zero target yields 0 when
// nothing was sold and 100 otherwise.
func AchievementRate(actual, target decimal.Decimal) decimal.Decimal {
	if target.IsPositive() {
		return actual.Mul(hundred).Div(target)
	}
	if actual.IsPositive() {
		return hundred
	}
	return decimal.Zero
}

// YoYGrowth returns the growth of actual over lastYear in percent. Without a
// last year figure growth is 100 when something was sold and 0 otherwise.
func YoYGrowth(actual, lastYear decimal.Decimal) decimal.Decimal {
	if lastYear.IsPositive() {
		return actual.Sub(lastYear).Mul(hundred).Div(lastYear)
	}
	if actual.IsPositive() {
		return hundred
	}
	return decimal.Zero
}
