package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "contas/internal/errors"
	"contas/internal/models"
	"contas/internal/pagination"
)

// transactionService handles the ledger of real monetary transactions.
type transactionService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db, now: time.Now}
}

// Create appends a new expense entry to the ledger with pending status.
func (s *transactionService) Create(
	category models.LegacyCategory,
	value decimal.Decimal,
	date time.Time,
	description string,
	isRecurring bool,
	dueDate *time.Time,
) (*models.Transaction, error) {
	if !category.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown category")
	}
	if !value.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "value must be greater than zero")
	}
	if date.IsZero() {
		date = s.now()
	}

	transaction := &models.Transaction{
		Category:    category,
		Value:       value,
		Date:        date,
		DueDate:     dueDate,
		Status:      models.TransactionStatusPending,
		IsRecurring: isRecurring,
		Description: strings.TrimSpace(description),
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// GetByID returns a ledger entry by ID.
func (s *transactionService) GetByID(id string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ?", id).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// List returns a paginated, filtered list of ledger entries.
func (s *transactionService) List(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{})
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.IsRecurring != nil {
		q = q.Where("is_recurring = ?", *f.IsRecurring)
	}
	return q
}

// GetByMonth returns the ledger entries for a calendar month. Legacy
// recurring entries (flagged is_recurring but not yet linked to a
// template) that are still pending in an earlier month roll forward: a
// non-persisted projection of the entry appears in the target month with
// a deterministic ID, so re-querying yields identical output. Entries
// already linked to a template never roll forward; their future months
// are covered by virtual expenses instead.
func (s *transactionService) GetByMonth(month, year int) ([]models.Transaction, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	windowStart, windowEnd := monthWindow(year, month)

	var inMonth []models.Transaction
	if err := s.db.Where("date >= ? AND date < ?", windowStart, windowEnd).
		Find(&inMonth).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	var legacy []models.Transaction
	if err := s.db.Where(
		"is_recurring = ? AND recurring_expense_id IS NULL AND status = ? AND date < ?",
		true, models.TransactionStatusPending, windowStart).
		Find(&legacy).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	results := make([]models.Transaction, 0, len(inMonth)+len(legacy))
	results = append(results, inMonth...)
	for _, original := range legacy {
		results = append(results, rollForward(original, month, year))
	}

	sort.SliceStable(results, func(i, j int) bool {
		if !results[i].Date.Equal(results[j].Date) {
			return results[i].Date.Before(results[j].Date)
		}
		return results[i].ID < results[j].ID
	})

	return results, nil
}

// rollForward projects a legacy recurring entry into the target month.
// The projection keeps the original's day of month, clamped to the
// month's length, and is never written back to the ledger.
func rollForward(original models.Transaction, month, year int) models.Transaction {
	projected := original
	projected.ID = fmt.Sprintf("%s-%d-%d", original.ID, year, month)
	date := dueDateFor(year, month, original.Date.Day())
	projected.Date = date
	projected.DueDate = &date
	projected.Status = models.TransactionStatusPending
	return projected
}

// GetLinkedToTemplate returns every ledger entry linked to the given
// recurring-expense template, oldest first.
func (s *transactionService) GetLinkedToTemplate(recurringExpenseID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Where("recurring_expense_id = ?", recurringExpenseID).
		Order("date").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// GetRelatedPayments returns the payment chain recorded against a ledger entry.
func (s *transactionService) GetRelatedPayments(transactionID string) ([]models.Transaction, error) {
	var payments []models.Transaction
	if err := s.db.Where("related_transaction_id = ?", transactionID).
		Order("date").
		Find(&payments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return payments, nil
}

// CreatePayment records a (possibly partial) payment against an existing
// ledger entry. When the chain of payments covers the original value the
// original entry is marked paid.
func (s *transactionService) CreatePayment(
	originalTransactionID string,
	amount decimal.Decimal,
	interest *decimal.Decimal,
) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	original, err := s.GetByID(originalTransactionID)
	if err != nil {
		return nil, err
	}

	var payment *models.Transaction
	err = s.db.Transaction(func(tx *gorm.DB) error {
		payment = &models.Transaction{
			Category:             original.Category,
			Value:                amount,
			Date:                 s.now(),
			Status:               models.TransactionStatusPaid,
			RelatedTransactionID: &original.ID,
			InterestAmount:       interest,
			Description:          original.Description,
		}
		if err := tx.Create(payment).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var prior []models.Transaction
		if err := tx.Where("related_transaction_id = ? AND id <> ?", original.ID, payment.ID).
			Find(&prior).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		totalPaid := amount
		for _, p := range prior {
			totalPaid = totalPaid.Add(p.Value)
		}

		if totalPaid.GreaterThanOrEqual(original.Value) {
			if err := tx.Model(original).Update("status", models.TransactionStatusPaid).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// UpdateStatus sets a ledger entry's status.
func (s *transactionService) UpdateStatus(id string, status models.TransactionStatus) (*models.Transaction, error) {
	if !status.IsValid() {
		return nil, apperrors.ErrInvalidStatus
	}

	transaction, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(transaction).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// DismissNotification marks a ledger entry's due-date reminder as seen.
func (s *transactionService) DismissNotification(id string) error {
	transaction, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.db.Model(transaction).Update("notification_dismissed", true).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
