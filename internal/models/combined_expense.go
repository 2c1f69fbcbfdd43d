package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VirtualExpense is a computed monthly instance of a recurring-expense
// template. It is never persisted; it is regenerated from the template
// and the ledger on every query, so it cannot drift from ledger truth.
// Its ID is the deterministic composite "{templateID}-{year}-{month}",
// which cannot collide with a transaction UUID.
type VirtualExpense struct {
	ID                 string          `json:"id"`
	RecurringExpenseID string          `json:"recurring_expense_id"`
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	Category           ExpenseCategory `json:"category"`
	DueDate            time.Time       `json:"due_date"`
	Month              int             `json:"month"`
	Year               int             `json:"year"`
	IsPaid             bool            `json:"is_paid"`
	TransactionID      *string         `json:"transaction_id,omitempty"`
}

// CombinedExpenseType tags the origin of a combined expense entry
type CombinedExpenseType string

const (
	CombinedExpenseReal    CombinedExpenseType = "real"
	CombinedExpenseVirtual CombinedExpenseType = "virtual"
)

// CombinedExpense is the normalized union of real ledger entries and
// virtual obligations used by every read-side view.
type CombinedExpense struct {
	ID                 string              `json:"id"`
	Type               CombinedExpenseType `json:"type"`
	Description        string              `json:"description"`
	Amount             decimal.Decimal     `json:"amount"`
	Category           string              `json:"category"`
	DueDate            time.Time           `json:"due_date"`
	Status             TransactionStatus   `json:"status"`
	IsRecurring        bool                `json:"is_recurring"`
	RecurringExpenseID *string             `json:"recurring_expense_id,omitempty"`
	TransactionID      *string             `json:"transaction_id,omitempty"`
	InterestAmount     *decimal.Decimal    `json:"interest_amount,omitempty"`
	CreatedAt          *time.Time          `json:"created_at,omitempty"`
}
