package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "contas/internal/errors"
	"contas/internal/services"
)

// ExpenseHandler handles the combined expense views and payment
// reconciliation.
type ExpenseHandler struct {
	aggregatorService services.ExpenseAggregatorServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(aggregatorService services.ExpenseAggregatorServicer) *ExpenseHandler {
	return &ExpenseHandler{aggregatorService: aggregatorService}
}

// PayRecurringExpenseRequest represents the payload for paying one month's
// obligation of a template.
type PayRecurringExpenseRequest struct {
	Month    int              `json:"month" binding:"required,min=1,max=12"`
	Year     int              `json:"year" binding:"required,min=1000,max=9999"`
	Amount   decimal.Decimal  `json:"amount" binding:"required"`
	Interest *decimal.Decimal `json:"interest"`
}

// GetMonthlyExpenses handles the combined real-plus-virtual month view.
func (h *ExpenseHandler) GetMonthlyExpenses(c *gin.Context) {
	month, year, err := parseMonthYear(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenses, err := h.aggregatorService.GetExpensesForMonth(month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// GetUpcomingExpenses handles the pending-within-N-days view.
func (h *ExpenseHandler) GetUpcomingExpenses(c *gin.Context) {
	days := 7
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "days must be a non-negative integer"))
			return
		}
		days = parsed
	}

	expenses, err := h.aggregatorService.GetUpcomingExpenses(days)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// GetOverdueExpenses handles the pending-past-due view.
func (h *ExpenseHandler) GetOverdueExpenses(c *gin.Context) {
	expenses, err := h.aggregatorService.GetOverdueExpenses()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// GetMonthlySummary handles the month's pending/paid/overdue totals.
func (h *ExpenseHandler) GetMonthlySummary(c *gin.Context) {
	month, year, err := parseMonthYear(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.aggregatorService.GetMonthlySummary(month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// PayRecurringExpense handles recording a payment for one month's virtual
// obligation of a template.
func (h *ExpenseHandler) PayRecurringExpense(c *gin.Context) {
	var req PayRecurringExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.aggregatorService.MarkVirtualAsPaid(
		c.Param("id"), req.Month, req.Year, req.Amount, req.Interest,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}
