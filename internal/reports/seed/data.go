package seed

import (
	"github.com/paulpark6/salesvision/internal/aging"
	"github.com/paulpark6/salesvision/internal/commission"
	"github.com/paulpark6/salesvision/internal/periodic"
	"github.com/paulpark6/salesvision/internal/target"
)

// DemoPeriod is the month the demo sale lines and target plan belong to.
const DemoPeriod = "2024-09"

// Employee names used across the demo data set.
const (
	JaneSmith = "Jane Smith"
	AlexRay   = "Alex Ray"
	JohnDoe   = "John Doe"
)

func sale(id, name, kind, salePrice, costPrice string, customer commission.CustomerType) periodSale {
	return periodSale{
		period: DemoPeriod,
		line: commission.EmployeeSaleLine{
			EmployeeID:   id,
			EmployeeName: name,
			Line: commission.SaleLine{
				Type:         commission.ParseSaleType(kind),
				SalePrice:    amount(salePrice),
				CostPrice:    amount(costPrice),
				CustomerType: customer,
			},
		},
	}
}

func saleLines() []periodSale {
	own, transfer := commission.CustomerOwn, commission.CustomerTransfer
	return []periodSale{
		sale("emp-01", JaneSmith, "수입", "210000", "150000", own),
		sale("emp-01", JaneSmith, "현지", "5000", "4600", own),
		sale("emp-01", JaneSmith, "현지", "10000", "8500", own),
		sale("emp-01", JaneSmith, "수입", "50000", "30000", transfer),
		sale("emp-01", JaneSmith, "현지", "20000", "16000", transfer),
		sale("emp-02", AlexRay, "수입", "180000", "120000", own),
		sale("emp-02", AlexRay, "현지", "20000", "15000", own),
		sale("emp-02", AlexRay, "현지", "15000", "10000", own),
		sale("emp-03", JohnDoe, "수입", "50000", "30000", own),
		sale("emp-03", JohnDoe, "현지", "30000", "15000", own),
		sale("emp-03", JohnDoe, "현지", "100000", "95000", transfer),
	}
}

func credit(id, customerKey, customer, employee, value, issued, due, plan string) aging.Record {
	return aging.Record{
		ID:             id,
		Kind:           aging.KindCredit,
		IssueDate:      date(issued),
		DueDate:        date(due),
		Amount:         amount(value),
		CustomerKey:    customerKey,
		CustomerName:   customer,
		EmployeeKey:    employee,
		CollectionPlan: plan,
	}
}

func creditNote(id, customerKey, customer, employee, value, issued, due, ref string) aging.Record {
	return aging.Record{
		ID:           id,
		Kind:         aging.KindCreditNote,
		IssueDate:    date(issued),
		DueDate:      date(due),
		Amount:       amount(value),
		CustomerKey:  customerKey,
		CustomerName: customer,
		EmployeeKey:  employee,
		Reference:    ref,
	}
}

func check(id, customerKey, customer, employee, value, received, deposit, ref, notes string) aging.Record {
	return aging.Record{
		ID:             id,
		Kind:           aging.KindCheck,
		IssueDate:      date(received),
		DueDate:        date(deposit),
		Amount:         amount(value),
		CustomerKey:    customerKey,
		CustomerName:   customer,
		EmployeeKey:    employee,
		Reference:      ref,
		CollectionPlan: notes,
	}
}

func dueRecords() []aging.Record {
	return []aging.Record{
		credit("pay-1", "C-106", "Liam Johnson", JaneSmith, "250.00", "2024-06-10", "2024-07-10", "Call this week and request payment by early August."),
		credit("pay-2", "C-108", "Olivia Smith", AlexRay, "150.75", "2024-07-05", "2024-08-05", "Reminder email sent before the due date."),
		credit("pay-3", "C-110", "Noah Williams", JohnDoe, "350.00", "2024-07-25", "2024-08-25", ""),
		credit("pay-4", "C-107", "Emma Brown", JaneSmith, "450.00", "2024-07-01", "2024-08-01", ""),
		credit("pay-5", "C-109", "Ava Jones", AlexRay, "550.00", "2024-07-28", "2024-08-28", "Follow-up call planned next week."),
		credit("pay-6", "C-111", "James Wilson", JohnDoe, "200.00", "2024-06-15", "2024-07-15", ""),

		creditNote("cn-1", "C-106", "Liam Johnson", JaneSmith, "1200.00", "2024-03-20", "2024-04-19", "INV-1003"),
		creditNote("cn-2", "C-107", "Emma Brown", JaneSmith, "3200.00", "2024-05-28", "2024-06-27", "INV-1005"),
		creditNote("cn-3", "C-108", "Olivia Smith", AlexRay, "780.50", "2024-06-15", "2024-07-15", "INV-1007"),
		creditNote("cn-4", "C-109", "Ava Jones", AlexRay, "410.00", "2024-07-10", "2024-08-09", "INV-1010"),
		creditNote("cn-5", "C-110", "Noah Williams", JohnDoe, "5600.00", "2024-07-30", "2024-08-29", "INV-1012"),
		creditNote("cn-6", "C-111", "James Wilson", JohnDoe, "95.00", "2024-08-01", "2024-08-31", "INV-1013"),

		check("chk-1", "C-106", "Liam Johnson", JaneSmith, "1250.00", "2024-07-29", "2024-08-12", "KB-10234", "Deposit on due date."),
		check("chk-2", "C-107", "Emma Brown", JaneSmith, "2400.00", "2024-07-18", "2024-07-31", "SH-55810", ""),
		check("chk-3", "C-108", "Olivia Smith", AlexRay, "780.00", "2024-08-01", "2024-09-02", "WR-77120", "Customer asked to hold until September."),
		check("chk-4", "C-110", "Noah Williams", JohnDoe, "4100.00", "2024-08-02", "2024-08-16", "HN-30091", ""),
		check("chk-5", "C-111", "James Wilson", JohnDoe, "600.00", "2024-07-22", "2024-08-22", "KB-10301", ""),
	}
}

func receipt(id, on, value, employee, source, memo string) periodic.DatedAmount {
	return periodic.DatedAmount{
		ID:       id,
		Date:     date(on),
		Amount:   amount(value),
		GroupKey: employee,
		Source:   source,
		Memo:     memo,
	}
}

func cashReceipts() []periodic.DatedAmount {
	return []periodic.DatedAmount{
		receipt("cash-1", "2024-07-29", "320.00", JaneSmith, "cash_sale", "Liam Johnson"),
		receipt("cash-2", "2024-07-30", "99.00", AlexRay, "cash_sale", "William Kim"),
		receipt("cash-3", "2024-07-30", "39.00", AlexRay, "cash_sale", "Sofia Davis"),
		receipt("cash-4", "2024-07-31", "299.00", JaneSmith, "credit_collection", "Isabella Nguyen"),
		receipt("cash-5", "2024-08-01", "1999.00", JohnDoe, "cash_sale", "Olivia Martin"),
		receipt("cash-6", "2024-08-01", "39.00", JaneSmith, "cash_sale", "Jackson Lee"),
		receipt("cash-7", "2024-08-01", "250.00", JaneSmith, "credit_collection", "Liam Johnson"),
		receipt("cash-8", "2024-08-05", "150.75", AlexRay, "credit_collection", "Olivia Smith"),
		receipt("cash-9", "2024-08-07", "410.25", JohnDoe, "cash_sale", "James Wilson"),
		receipt("cash-10", "2024-08-14", "875.50", JaneSmith, "cash_sale", "Emma Brown"),
		receipt("cash-11", "2024-08-20", "125.00", AlexRay, "cash_sale", "Ava Jones"),
		receipt("cash-12", "2024-09-02", "1320.40", JohnDoe, "credit_collection", "Noah Williams"),
	}
}

func figure(month, targetAmount, actual, lastYear string) target.MonthlyFigure {
	return target.MonthlyFigure{Month: month, Target: amount(targetAmount), Actual: amount(actual), LastYear: amount(lastYear)}
}

func monthlyFigures() map[int]map[string][]target.MonthlyFigure {
	return map[int]map[string][]target.MonthlyFigure{
		2024: {
			"": {
				figure("2024-01", "35000", "32000", "30000"),
				figure("2024-02", "35000", "34000", "31000"),
				figure("2024-03", "38000", "39000", "35000"),
				figure("2024-04", "38000", "37000", "36000"),
				figure("2024-05", "40000", "42000", "38000"),
				figure("2024-06", "40000", "41000", "39000"),
				figure("2024-07", "42000", "43000", "40000"),
				figure("2024-08", "42000", "44000.50", "41000"),
				figure("2024-09", "45000", "45231.89", "42100.50"),
			},
			JaneSmith: {
				figure("2024-07", "9000", "8600", "8100"),
				figure("2024-08", "9000", "9340.50", "8800"),
				figure("2024-09", "9000", "8700", "8600"),
			},
			AlexRay: {
				figure("2024-07", "2800", "2500", "2450"),
				figure("2024-08", "2800", "2310.25", "2400"),
				figure("2024-09", "2800", "2510", "2300"),
			},
			JohnDoe: {
				figure("2024-07", "10000", "9800", "9500"),
				figure("2024-08", "10000", "9890", "9700"),
				figure("2024-09", "10000", "10200", "9900"),
			},
		},
	}
}

func plan(customerCode, customerName, productCode, productName, basePrice, grade string, quantity int) target.PlanLine {
	return target.PlanLine{
		CustomerCode: customerCode,
		CustomerName: customerName,
		ProductCode:  productCode,
		ProductName:  productName,
		Input: target.Input{
			BasePrice:     amount(basePrice),
			CustomerGrade: grade,
			Quantity:      quantity,
		},
	}
}

func planLines() map[string][]target.PlanLine {
	return map[string][]target.PlanLine{
		DemoPeriod: {
			plan("C-106", "Liam Johnson", "e-001", "Laptop", "1250", "B", 2),
			plan("C-106", "Liam Johnson", "c-005", "T-Shirt", "20", "B", 25),
			plan("C-107", "Emma Brown", "c-008", "Jeans", "75", "A", 50),
			plan("C-107", "Emma Brown", "e-004", "Gaming Console", "500", "A", 5),
			plan("C-108", "Olivia Smith", "e-003", "Tablet", "450", "B", 4),
			plan("C-205", "New Customer Inc.", "e-001", "Laptop", "1250", "C", 4),
		},
	}
}
