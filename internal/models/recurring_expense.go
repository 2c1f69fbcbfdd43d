package models

import "github.com/shopspring/decimal"

// RecurringExpense is a template for a monthly obligation. It does not
// represent money owed in any specific month; the aggregator projects it
// into per-month virtual expenses at query time.
type RecurringExpense struct {
	Base
	Description   string          `gorm:"not null" json:"description"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	DayOfMonthDue int             `gorm:"not null" json:"day_of_month_due"`
	Category      ExpenseCategory `gorm:"not null" json:"category"`
	Active        bool            `gorm:"not null;default:true" json:"active"`
}
