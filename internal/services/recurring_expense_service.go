package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "contas/internal/errors"
	"contas/internal/models"
	"contas/internal/pagination"
)

// recurringExpenseService handles recurring-expense template management
// and projects templates into per-month virtual expenses.
type recurringExpenseService struct {
	db *gorm.DB
}

// NewRecurringExpenseService creates a new RecurringExpenseServicer.
func NewRecurringExpenseService(db *gorm.DB) RecurringExpenseServicer {
	return &recurringExpenseService{db: db}
}

func validateTemplateFields(description string, amount decimal.Decimal, dayOfMonthDue int, category models.ExpenseCategory) error {
	if strings.TrimSpace(description) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "description must not be empty")
	}
	if !amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if dayOfMonthDue < 1 || dayOfMonthDue > 31 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "day of month due must be between 1 and 31")
	}
	if !category.IsValid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown expense category")
	}
	return nil
}

// Create creates a new recurring-expense template.
func (s *recurringExpenseService) Create(
	description string,
	amount decimal.Decimal,
	dayOfMonthDue int,
	category models.ExpenseCategory,
	active bool,
) (*models.RecurringExpense, error) {
	if err := validateTemplateFields(description, amount, dayOfMonthDue, category); err != nil {
		return nil, err
	}

	expense := &models.RecurringExpense{
		Description:   strings.TrimSpace(description),
		Amount:        amount,
		DayOfMonthDue: dayOfMonthDue,
		Category:      category,
		Active:        active,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// GetByID returns a template by ID.
func (s *recurringExpenseService) GetByID(id string) (*models.RecurringExpense, error) {
	var expense models.RecurringExpense
	if err := s.db.Where("id = ?", id).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecurringExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// List returns a paginated list of templates, optionally only active ones.
func (s *recurringExpenseService) List(activeOnly bool, page pagination.PageRequest) (*pagination.PageResponse[models.RecurringExpense], error) {
	page.Defaults()

	base := s.db.Model(&models.RecurringExpense{})
	if activeOnly {
		base = base.Where("active = ?", true)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.RecurringExpense
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at, id").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListByCategory returns all active templates with the given category.
func (s *recurringExpenseService) ListByCategory(category models.ExpenseCategory) ([]models.RecurringExpense, error) {
	if !category.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown expense category")
	}

	var expenses []models.RecurringExpense
	if err := s.db.Where("category = ? AND active = ?", category, true).
		Order("created_at, id").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// Update updates an existing template's fields. Nil fields are left unchanged.
func (s *recurringExpenseService) Update(
	id string,
	description *string,
	amount *decimal.Decimal,
	dayOfMonthDue *int,
	category *models.ExpenseCategory,
) (*models.RecurringExpense, error) {
	expense, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if description != nil {
		if strings.TrimSpace(*description) == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description must not be empty")
		}
		updates["description"] = strings.TrimSpace(*description)
	}
	if amount != nil {
		if !amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount"] = *amount
	}
	if dayOfMonthDue != nil {
		if *dayOfMonthDue < 1 || *dayOfMonthDue > 31 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "day of month due must be between 1 and 31")
		}
		updates["day_of_month_due"] = *dayOfMonthDue
	}
	if category != nil {
		if !category.IsValid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown expense category")
		}
		updates["category"] = *category
	}

	if len(updates) > 0 {
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return expense, nil
}

// Delete removes a template. Ledger transactions already linked to it keep
// their recurring_expense_id so paid history stays auditable.
func (s *recurringExpenseService) Delete(id string) error {
	expense, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ToggleActive flips a template's active flag. Deactivation stops future
// virtual generation without touching existing ledger history.
func (s *recurringExpenseService) ToggleActive(id string) (*models.RecurringExpense, error) {
	expense, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(expense).Update("active", !expense.Active).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// GenerateVirtualExpenses projects every active template into the target
// month. An obligation is paid when a ledger transaction linked to the
// template is dated inside that month. The result is computed purely from
// the current template and ledger snapshots: calling it twice with
// unchanged data yields identical output.
func (s *recurringExpenseService) GenerateVirtualExpenses(month, year int) ([]models.VirtualExpense, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	var templates []models.RecurringExpense
	if err := s.db.Where("active = ?", true).
		Order("created_at, id").
		Find(&templates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	windowStart, windowEnd := monthWindow(year, month)

	virtuals := make([]models.VirtualExpense, 0, len(templates))
	for _, template := range templates {
		var payment models.Transaction
		var paid bool
		err := s.db.Where("recurring_expense_id = ? AND date >= ? AND date < ?",
			template.ID, windowStart, windowEnd).
			Order("date").
			First(&payment).Error
		switch {
		case err == nil:
			paid = true
		case errors.Is(err, gorm.ErrRecordNotFound):
			paid = false
		default:
			return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
		}

		virtual := models.VirtualExpense{
			ID:                 fmt.Sprintf("%s-%d-%d", template.ID, year, month),
			RecurringExpenseID: template.ID,
			Description:        template.Description,
			Amount:             template.Amount,
			Category:           template.Category,
			DueDate:            dueDateFor(year, month, template.DayOfMonthDue),
			Month:              month,
			Year:               year,
			IsPaid:             paid,
		}
		if paid {
			id := payment.ID
			virtual.TransactionID = &id
		}

		virtuals = append(virtuals, virtual)
	}

	return virtuals, nil
}
