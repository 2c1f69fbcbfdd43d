package services

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "contas/internal/errors"
	"contas/internal/models"
)

// expenseAggregatorService combines real ledger entries and virtual
// obligations into the unified monthly views, and reconciles virtual
// obligations into durable payments. Every read recomputes from the
// store, so the views can never drift from ledger truth and no cache
// invalidation is needed.
type expenseAggregatorService struct {
	db           *gorm.DB
	recurring    RecurringExpenseServicer
	transactions TransactionServicer
	now          func() time.Time
}

// NewExpenseAggregatorService creates a new ExpenseAggregatorServicer.
func NewExpenseAggregatorService(db *gorm.DB, recurring RecurringExpenseServicer, transactions TransactionServicer) ExpenseAggregatorServicer {
	return &expenseAggregatorService{
		db:           db,
		recurring:    recurring,
		transactions: transactions,
		now:          time.Now,
	}
}

// GetExpensesForMonth merges the month's ledger entries with the
// generated virtual obligations, normalized to CombinedExpense and
// sorted ascending by due date. A virtual obligation whose payment is
// present among the month's real entries is dropped in favor of the
// real entry, so a reconciled payment surfaces exactly once.
func (s *expenseAggregatorService) GetExpensesForMonth(month, year int) ([]models.CombinedExpense, error) {
	real, err := s.transactions.GetByMonth(month, year)
	if err != nil {
		return nil, err
	}

	virtual, err := s.recurring.GenerateVirtualExpenses(month, year)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(real)+len(virtual))
	realIDs := make(map[string]bool, len(real))
	for _, t := range real {
		realIDs[t.ID] = true
	}

	combined := make([]models.CombinedExpense, 0, len(real)+len(virtual))
	for _, t := range real {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		combined = append(combined, combineReal(t))
	}
	for _, v := range virtual {
		if seen[v.ID] {
			continue
		}
		// The realized payment already represents this obligation.
		if v.TransactionID != nil && realIDs[*v.TransactionID] {
			continue
		}
		seen[v.ID] = true
		combined = append(combined, combineVirtual(v))
	}

	sort.SliceStable(combined, func(i, j int) bool {
		if !combined[i].DueDate.Equal(combined[j].DueDate) {
			return combined[i].DueDate.Before(combined[j].DueDate)
		}
		return combined[i].ID < combined[j].ID
	})

	return combined, nil
}

func combineReal(t models.Transaction) models.CombinedExpense {
	dueDate := t.Date
	if t.DueDate != nil {
		dueDate = *t.DueDate
	}

	description := t.Description
	if description == "" {
		description = "Untitled Expense"
	}

	id := t.ID
	createdAt := t.CreatedAt
	return models.CombinedExpense{
		ID:                 t.ID,
		Type:               models.CombinedExpenseReal,
		Description:        description,
		Amount:             t.Value,
		Category:           string(t.Category),
		DueDate:            dueDate,
		Status:             t.Status,
		IsRecurring:        t.IsRecurring || t.RecurringExpenseID != nil,
		RecurringExpenseID: t.RecurringExpenseID,
		TransactionID:      &id,
		InterestAmount:     t.InterestAmount,
		CreatedAt:          &createdAt,
	}
}

func combineVirtual(v models.VirtualExpense) models.CombinedExpense {
	status := models.TransactionStatusPending
	if v.IsPaid {
		status = models.TransactionStatusPaid
	}

	recurringID := v.RecurringExpenseID
	return models.CombinedExpense{
		ID:                 v.ID,
		Type:               models.CombinedExpenseVirtual,
		Description:        v.Description,
		Amount:             v.Amount,
		Category:           string(v.Category),
		DueDate:            v.DueDate,
		Status:             status,
		IsRecurring:        true,
		RecurringExpenseID: &recurringID,
		TransactionID:      v.TransactionID,
	}
}

// GetUpcomingExpenses returns pending expenses falling due within the
// next N days, inclusive of both endpoints. The current and next
// calendar months are gathered so obligations crossing the month
// boundary inside the window are not missed.
func (s *expenseAggregatorService) GetUpcomingExpenses(days int) ([]models.CombinedExpense, error) {
	if days < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "days must not be negative")
	}

	today := startOfDay(s.now())
	windowEnd := today.AddDate(0, 0, days)

	currentMonth := int(today.Month())
	currentYear := today.Year()
	nextMonth := currentMonth%12 + 1
	nextYear := currentYear
	if currentMonth == 12 {
		nextYear++
	}

	all, err := s.GetExpensesForMonth(currentMonth, currentYear)
	if err != nil {
		return nil, err
	}
	next, err := s.GetExpensesForMonth(nextMonth, nextYear)
	if err != nil {
		return nil, err
	}
	all = append(all, next...)

	upcoming := make([]models.CombinedExpense, 0)
	for _, expense := range all {
		if expense.Status != models.TransactionStatusPending {
			continue
		}
		due := startOfDay(expense.DueDate)
		if due.Before(today) || due.After(windowEnd) {
			continue
		}
		upcoming = append(upcoming, expense)
	}
	return upcoming, nil
}

// GetOverdueExpenses returns pending expenses whose due date has passed,
// gathered from the current and previous calendar months.
func (s *expenseAggregatorService) GetOverdueExpenses() ([]models.CombinedExpense, error) {
	today := startOfDay(s.now())

	currentMonth := int(today.Month())
	currentYear := today.Year()
	prevMonth := currentMonth - 1
	prevYear := currentYear
	if currentMonth == 1 {
		prevMonth = 12
		prevYear--
	}

	all, err := s.GetExpensesForMonth(currentMonth, currentYear)
	if err != nil {
		return nil, err
	}
	prev, err := s.GetExpensesForMonth(prevMonth, prevYear)
	if err != nil {
		return nil, err
	}
	all = append(all, prev...)

	overdue := make([]models.CombinedExpense, 0)
	for _, expense := range all {
		if expense.Status != models.TransactionStatusPending {
			continue
		}
		if startOfDay(expense.DueDate).Before(today) {
			overdue = append(overdue, expense)
		}
	}
	return overdue, nil
}

// GetMonthlySummary folds one month's combined expenses into pending,
// paid, and overdue buckets in a single pass. Paid totals include any
// interest surcharge.
func (s *expenseAggregatorService) GetMonthlySummary(month, year int) (*MonthlySummary, error) {
	expenses, err := s.GetExpensesForMonth(month, year)
	if err != nil {
		return nil, err
	}

	today := startOfDay(s.now())
	summary := &MonthlySummary{
		TotalPending: decimal.Zero,
		TotalPaid:    decimal.Zero,
		TotalOverdue: decimal.Zero,
	}

	for _, expense := range expenses {
		switch {
		case expense.Status == models.TransactionStatusPaid:
			total := expense.Amount
			if expense.InterestAmount != nil {
				total = total.Add(*expense.InterestAmount)
			}
			summary.TotalPaid = summary.TotalPaid.Add(total)
			summary.CountPaid++
		case expense.Status == models.TransactionStatusPending && startOfDay(expense.DueDate).Before(today):
			summary.TotalOverdue = summary.TotalOverdue.Add(expense.Amount)
			summary.CountOverdue++
		default:
			summary.TotalPending = summary.TotalPending.Add(expense.Amount)
			summary.CountPending++
		}
	}

	return summary, nil
}

// MarkVirtualAsPaid converts a virtual obligation into a durable ledger
// transaction linked to its template. The existing-payment lookup and
// the insert run inside one database transaction, so a second payment
// for the same (template, month, year) fails with ALREADY_PAID instead
// of silently double-writing.
func (s *expenseAggregatorService) MarkVirtualAsPaid(
	recurringExpenseID string,
	month, year int,
	amount decimal.Decimal,
	interest *decimal.Decimal,
) (*models.Transaction, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	template, err := s.recurring.GetByID(recurringExpenseID)
	if err != nil {
		return nil, err
	}

	dueDate := dueDateFor(year, month, template.DayOfMonthDue)
	windowStart, windowEnd := monthWindow(year, month)

	var payment *models.Transaction
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Transaction
		err := tx.Where("recurring_expense_id = ? AND date >= ? AND date < ?",
			template.ID, windowStart, windowEnd).
			First(&existing).Error
		if err == nil {
			return apperrors.ErrObligationAlreadyPaid
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		payment = &models.Transaction{
			Category:           models.LegacyCategoryOthers,
			Value:              amount,
			Date:               dueDate,
			DueDate:            &dueDate,
			Status:             models.TransactionStatusPaid,
			IsRecurring:        true,
			RecurringExpenseID: &template.ID,
			InterestAmount:     interest,
			Description:        template.Description,
		}
		if err := tx.Create(payment).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}
