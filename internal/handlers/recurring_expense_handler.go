package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "contas/internal/errors"
	"contas/internal/models"
	"contas/internal/pagination"
	"contas/internal/services"
)

// RecurringExpenseHandler handles recurring-expense template requests.
type RecurringExpenseHandler struct {
	recurringService services.RecurringExpenseServicer
}

// NewRecurringExpenseHandler creates a new RecurringExpenseHandler.
func NewRecurringExpenseHandler(recurringService services.RecurringExpenseServicer) *RecurringExpenseHandler {
	return &RecurringExpenseHandler{recurringService: recurringService}
}

// CreateRecurringExpenseRequest represents the payload for creating a template.
type CreateRecurringExpenseRequest struct {
	Description   string          `json:"description" binding:"required,min=1,max=255"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	DayOfMonthDue int             `json:"day_of_month_due" binding:"required,min=1,max=31"`
	Category      string          `json:"category" binding:"required,expense_category"`
	Active        *bool           `json:"active"`
}

// UpdateRecurringExpenseRequest represents the payload for updating a template.
type UpdateRecurringExpenseRequest struct {
	Description   *string          `json:"description" binding:"omitempty,min=1,max=255"`
	Amount        *decimal.Decimal `json:"amount"`
	DayOfMonthDue *int             `json:"day_of_month_due" binding:"omitempty,min=1,max=31"`
	Category      *string          `json:"category" binding:"omitempty,expense_category"`
}

// CreateRecurringExpense handles creation of a new template.
func (h *RecurringExpenseHandler) CreateRecurringExpense(c *gin.Context) {
	var req CreateRecurringExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	expense, err := h.recurringService.Create(
		req.Description, req.Amount, req.DayOfMonthDue, models.ExpenseCategory(req.Category), active,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recurring_expense": expense})
}

// GetRecurringExpenses handles listing templates. The active query
// parameter restricts the list to active templates; the category
// parameter filters by specific category.
func (h *RecurringExpenseHandler) GetRecurringExpenses(c *gin.Context) {
	if category := c.Query("category"); category != "" {
		expenses, err := h.recurringService.ListByCategory(models.ExpenseCategory(category))
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"recurring_expenses": expenses})
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	activeOnly := c.Query("active") == "true"

	result, err := h.recurringService.List(activeOnly, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRecurringExpenseByID handles fetching a single template.
func (h *RecurringExpenseHandler) GetRecurringExpenseByID(c *gin.Context) {
	expense, err := h.recurringService.GetByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_expense": expense})
}

// UpdateRecurringExpense handles updating a template's fields.
func (h *RecurringExpenseHandler) UpdateRecurringExpense(c *gin.Context) {
	var req UpdateRecurringExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var category *models.ExpenseCategory
	if req.Category != nil {
		cat := models.ExpenseCategory(*req.Category)
		category = &cat
	}

	expense, err := h.recurringService.Update(
		c.Param("id"), req.Description, req.Amount, req.DayOfMonthDue, category,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_expense": expense})
}

// DeleteRecurringExpense handles removing a template. Ledger history
// linked to the template is left untouched.
func (h *RecurringExpenseHandler) DeleteRecurringExpense(c *gin.Context) {
	if err := h.recurringService.Delete(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recurring expense deleted"})
}

// ToggleRecurringExpense handles flipping a template's active flag.
func (h *RecurringExpenseHandler) ToggleRecurringExpense(c *gin.Context) {
	expense, err := h.recurringService.ToggleActive(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_expense": expense})
}
