package models

import "github.com/shopspring/decimal"

// Summary aggregates an owner's debts and payments for the dashboard.
type Summary struct {
	TotalPrincipal  decimal.Decimal `json:"total_principal"`
	TotalBalance    decimal.Decimal `json:"total_balance"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	ProgressPercent float64         `json:"progress_percent"`
	ThisMonthTotal  decimal.Decimal `json:"this_month_total"`
	Debts           []DebtProgress  `json:"debts"`
	Upcoming        []UpcomingDue   `json:"upcoming"`
	Trend           []TrendPoint    `json:"trend"`
}

// DebtProgress is one debt's repayment progress.
type DebtProgress struct {
	DebtID          string          `json:"debt_id"`
	Name            string          `json:"name"`
	Principal       decimal.Decimal `json:"principal"`
	Balance         decimal.Decimal `json:"balance"`
	Paid            decimal.Decimal `json:"paid"`
	ProgressPercent float64         `json:"progress_percent"`
}

// UpcomingDue is the next scheduled payment of a debt.
type UpcomingDue struct {
	DebtID    string          `json:"debt_id"`
	Name      string          `json:"name"`
	DueDate   Date            `json:"due_date"`
	DaysUntil int             `json:"days_until"`
	Balance   decimal.Decimal `json:"balance"`
}

// TrendPoint is the total paid on one calendar date.
type TrendPoint struct {
	Date   Date            `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}
