package services

import (
	"time"

	"github.com/shopspring/decimal"

	"contas/internal/models"
	"contas/internal/pagination"
)

// RecurringExpenseServicer defines the contract for recurring-expense
// template management and virtual expense generation.
type RecurringExpenseServicer interface {
	Create(description string, amount decimal.Decimal, dayOfMonthDue int, category models.ExpenseCategory, active bool) (*models.RecurringExpense, error)
	GetByID(id string) (*models.RecurringExpense, error)
	List(activeOnly bool, page pagination.PageRequest) (*pagination.PageResponse[models.RecurringExpense], error)
	ListByCategory(category models.ExpenseCategory) ([]models.RecurringExpense, error)
	Update(id string, description *string, amount *decimal.Decimal, dayOfMonthDue *int, category *models.ExpenseCategory) (*models.RecurringExpense, error)
	Delete(id string) error
	ToggleActive(id string) (*models.RecurringExpense, error)
	GenerateVirtualExpenses(month, year int) ([]models.VirtualExpense, error)
}

// TransactionFilter holds optional filter parameters for listing ledger entries.
type TransactionFilter struct {
	FromDate    *time.Time
	ToDate      *time.Time
	Category    *models.LegacyCategory
	Status      *models.TransactionStatus
	IsRecurring *bool
}

// TransactionServicer defines the contract for the transaction ledger.
type TransactionServicer interface {
	Create(category models.LegacyCategory, value decimal.Decimal, date time.Time, description string, isRecurring bool, dueDate *time.Time) (*models.Transaction, error)
	GetByID(id string) (*models.Transaction, error)
	List(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetByMonth(month, year int) ([]models.Transaction, error)
	GetLinkedToTemplate(recurringExpenseID string) ([]models.Transaction, error)
	GetRelatedPayments(transactionID string) ([]models.Transaction, error)
	CreatePayment(originalTransactionID string, amount decimal.Decimal, interest *decimal.Decimal) (*models.Transaction, error)
	UpdateStatus(id string, status models.TransactionStatus) (*models.Transaction, error)
	DismissNotification(id string) error
}

// MonthlySummary aggregates one month's combined expenses into pending,
// paid, and overdue buckets. The buckets are mutually exclusive and
// exhaustive over the month's entries.
type MonthlySummary struct {
	TotalPending decimal.Decimal `json:"total_pending"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalOverdue decimal.Decimal `json:"total_overdue"`
	CountPending int             `json:"count_pending"`
	CountPaid    int             `json:"count_paid"`
	CountOverdue int             `json:"count_overdue"`
}

// ExpenseAggregatorServicer defines the contract for the combined
// real-plus-virtual expense views and payment reconciliation.
type ExpenseAggregatorServicer interface {
	GetExpensesForMonth(month, year int) ([]models.CombinedExpense, error)
	GetUpcomingExpenses(days int) ([]models.CombinedExpense, error)
	GetOverdueExpenses() ([]models.CombinedExpense, error)
	GetMonthlySummary(month, year int) (*MonthlySummary, error)
	MarkVirtualAsPaid(recurringExpenseID string, month, year int, amount decimal.Decimal, interest *decimal.Decimal) (*models.Transaction, error)
}

// MigrationResult reports the outcome of the legacy recurring-expense
// migration. Errors holds per-transaction failures; the batch itself
// never aborts on them.
type MigrationResult struct {
	Migrated int      `json:"migrated"`
	Errors   []string `json:"errors"`
}

// MigrationStatus reports whether the legacy migration still needs to run.
type MigrationStatus struct {
	NeedsMigration            bool  `json:"needs_migration"`
	RecurringTransactionCount int64 `json:"recurring_transaction_count"`
	RecurringExpenseCount     int64 `json:"recurring_expense_count"`
}

// MigrationServicer defines the contract for the one-time legacy migration.
type MigrationServicer interface {
	Migrate() (*MigrationResult, error)
	CheckStatus() (*MigrationStatus, error)
	Rollback() error
}
