package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"contas/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestRecurringExpense creates an active template due on the 10th.
func CreateTestRecurringExpense(t *testing.T, db *gorm.DB, amount decimal.Decimal) *models.RecurringExpense {
	t.Helper()
	return CreateTestRecurringExpenseFull(t, db, fmt.Sprintf("Test Expense %d", nextID()), amount, 10, models.ExpenseCategoryOthers, true)
}

// CreateTestRecurringExpenseFull creates a template with every field supplied.
func CreateTestRecurringExpenseFull(
	t *testing.T,
	db *gorm.DB,
	description string,
	amount decimal.Decimal,
	dayOfMonthDue int,
	category models.ExpenseCategory,
	active bool,
) *models.RecurringExpense {
	t.Helper()

	expense := &models.RecurringExpense{
		Description:   description,
		Amount:        amount,
		DayOfMonthDue: dayOfMonthDue,
		Category:      category,
		Active:        active,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test recurring expense: %v", err)
	}
	return expense
}

// CreateTestTransaction creates a pending ledger entry on the given date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, value decimal.Decimal, date time.Time) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		Category:    models.LegacyCategoryOthers,
		Value:       value,
		Date:        date,
		Status:      models.TransactionStatusPending,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}

// CreateTestLegacyRecurringTransaction creates an unlinked is_recurring
// ledger entry, the shape the legacy migrator looks for.
func CreateTestLegacyRecurringTransaction(
	t *testing.T,
	db *gorm.DB,
	description string,
	value decimal.Decimal,
	category models.LegacyCategory,
	date time.Time,
	dueDate *time.Time,
) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		Category:    category,
		Value:       value,
		Date:        date,
		DueDate:     dueDate,
		Status:      models.TransactionStatusPending,
		IsRecurring: true,
		Description: description,
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test legacy recurring transaction: %v", err)
	}
	return transaction
}

// CreateTestLinkedPayment creates a paid ledger entry linked to a template,
// dated inside the given month.
func CreateTestLinkedPayment(
	t *testing.T,
	db *gorm.DB,
	recurringExpenseID string,
	value decimal.Decimal,
	year, month, day int,
) *models.Transaction {
	t.Helper()

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	transaction := &models.Transaction{
		Category:           models.LegacyCategoryOthers,
		Value:              value,
		Date:               date,
		DueDate:            &date,
		Status:             models.TransactionStatusPaid,
		IsRecurring:        true,
		RecurringExpenseID: &recurringExpenseID,
		Description:        fmt.Sprintf("Test Payment %d", nextID()),
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test linked payment: %v", err)
	}
	return transaction
}
