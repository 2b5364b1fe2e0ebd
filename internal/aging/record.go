// Package aging classifies due records by how close or how far past their due
// date they are, and summarises the amounts per customer or employee.
package aging

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paulpark6/salesvision/internal/shared"
)

// Kind identifies the ledger a due record comes from.
type Kind string

const (
	KindCredit     Kind = "credit"
	KindCreditNote Kind = "credit_note"
	KindCheck      Kind = "check"
)

// ParseKind converts raw input into a Kind.
func ParseKind(raw string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(raw))); k {
	case KindCredit, KindCreditNote, KindCheck:
		return k, nil
	default:
		return "", shared.NewValidationError("kind", fmt.Sprintf("unknown kind %q", raw))
	}
}

// Record is an amount owed with a due date: an open credit sale, a credit
// note or a post-dated check.
type Record struct {
	ID             string          `json:"id"`
	Kind           Kind            `json:"kind"`
	IssueDate      time.Time       `json:"issue_date"`
	DueDate        time.Time       `json:"due_date"`
	Amount         decimal.Decimal `json:"amount" validate:"nonneg"`
	CustomerKey    string          `json:"customer_key"`
	CustomerName   string          `json:"customer_name"`
	EmployeeKey    string          `json:"employee_key"`
	Reference      string          `json:"reference,omitempty"`
	CollectionPlan string          `json:"collection_plan,omitempty"`
}

func validateRecord(r Record) error {
	if r.DueDate.IsZero() {
		return shared.NewValidationError("due_date", "is required")
	}
	return shared.ValidateStruct(r)
}

// partition splits records into valid ones and per-record errors.
func partition(records []Record) ([]Record, []shared.RecordError) {
	valid := make([]Record, 0, len(records))
	var errs []shared.RecordError
	for i, r := range records {
		if err := validateRecord(r); err != nil {
			errs = append(errs, shared.RecordError{Index: i, Key: r.ID, Err: err})
			continue
		}
		valid = append(valid, r)
	}
	return valid, errs
}

// GroupBy selects the dimension records are summarised on.
type GroupBy string

const (
	GroupByCustomer GroupBy = "customer"
	GroupByEmployee GroupBy = "employee"
)

// ParseGroupBy converts a query value into a GroupBy. Blank input selects
// GroupByCustomer.
func ParseGroupBy(raw string) (GroupBy, error) {
	switch g := GroupBy(strings.ToLower(strings.TrimSpace(raw))); g {
	case "":
		return GroupByCustomer, nil
	case GroupByCustomer, GroupByEmployee:
		return g, nil
	default:
		return "", shared.NewValidationError("group_by", "must be customer or employee")
	}
}

func (g GroupBy) key(r Record) (key, name string) {
	if g == GroupByEmployee {
		return r.EmployeeKey, r.EmployeeKey
	}
	if r.CustomerKey == "" {
		return r.CustomerName, r.CustomerName
	}
	return r.CustomerKey, r.CustomerName
}

// FilterEmployee keeps the records owned by employee. An empty employee keeps
// everything.
func FilterEmployee(records []Record, employee string) []Record {
	if employee == "" {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.EmployeeKey == employee {
			out = append(out, r)
		}
	}
	return out
}
