package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus represents the payment status of a ledger entry
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusPaid      TransactionStatus = "paid"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// IsValid reports whether s is a known transaction status.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusPaid, TransactionStatusCancelled:
		return true
	}
	return false
}

// Transaction is a persisted ledger entry representing a real money
// movement. A transaction with RecurringExpenseID set is one month's
// realized payment against that template. RecurringExpenseID carries no
// foreign-key constraint: deleting a template leaves the reference
// dangling on purpose so paid history stays auditable.
type Transaction struct {
	Base
	Category              LegacyCategory    `gorm:"not null" json:"category"`
	Value                 decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"value"`
	Date                  time.Time         `gorm:"not null;index" json:"date"`
	DueDate               *time.Time        `json:"due_date,omitempty"`
	Status                TransactionStatus `gorm:"not null;default:pending" json:"status"`
	IsRecurring           bool              `gorm:"not null;default:false;index" json:"is_recurring"`
	RecurringExpenseID    *string           `gorm:"type:uuid;index" json:"recurring_expense_id,omitempty"`
	RelatedTransactionID  *string           `gorm:"type:uuid;index" json:"related_transaction_id,omitempty"`
	InterestAmount        *decimal.Decimal  `gorm:"type:decimal(15,2)" json:"interest_amount,omitempty"`
	Description           string            `json:"description"`
	NotificationDismissed bool              `gorm:"not null;default:false" json:"notification_dismissed"`
}
