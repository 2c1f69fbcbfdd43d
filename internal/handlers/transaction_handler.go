package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "contas/internal/errors"
	"contas/internal/models"
	"contas/internal/pagination"
	"contas/internal/services"
)

// TransactionHandler handles ledger transaction requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the payload for a direct expense entry.
type CreateTransactionRequest struct {
	Category    string          `json:"category" binding:"required,legacy_category"`
	Value       decimal.Decimal `json:"value" binding:"required"`
	Date        *time.Time      `json:"date"`
	DueDate     *time.Time      `json:"due_date"`
	Description string          `json:"description" binding:"max=255"`
	IsRecurring bool            `json:"is_recurring"`
}

// CreatePaymentRequest represents the payload for paying against an
// existing ledger entry.
type CreatePaymentRequest struct {
	Amount   decimal.Decimal  `json:"amount" binding:"required"`
	Interest *decimal.Decimal `json:"interest"`
}

// UpdateStatusRequest represents the payload for a status change.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,transaction_status"`
}

// CreateTransaction handles direct expense entry.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}

	transaction, err := h.transactionService.Create(
		models.LegacyCategory(req.Category), req.Value, date, req.Description, req.IsRecurring, req.DueDate,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTransactions handles listing ledger entries with optional filters.
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.TransactionFilter
	if v := c.Query("category"); v != "" {
		category := models.LegacyCategory(v)
		if !category.IsValid() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown category"))
			return
		}
		filter.Category = &category
	}
	if v := c.Query("status"); v != "" {
		status := models.TransactionStatus(v)
		if !status.IsValid() {
			respondWithError(c, apperrors.ErrInvalidStatus)
			return
		}
		filter.Status = &status
	}
	if v := c.Query("is_recurring"); v != "" {
		recurring := v == "true"
		filter.IsRecurring = &recurring
	}

	result, err := h.transactionService.List(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransactionByID handles fetching a single ledger entry.
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	transaction, err := h.transactionService.GetByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransactionStatus handles a status change on a ledger entry.
func (h *TransactionHandler) UpdateTransactionStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.UpdateStatus(c.Param("id"), models.TransactionStatus(req.Status))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// CreatePayment handles recording a payment against an existing entry.
func (h *TransactionHandler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	payment, err := h.transactionService.CreatePayment(c.Param("id"), req.Amount, req.Interest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": payment})
}

// GetRelatedPayments handles listing the payment chain of an entry.
func (h *TransactionHandler) GetRelatedPayments(c *gin.Context) {
	payments, err := h.transactionService.GetRelatedPayments(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": payments})
}

// GetLinkedTransactions handles listing the ledger history of a
// recurring-expense template.
func (h *TransactionHandler) GetLinkedTransactions(c *gin.Context) {
	transactions, err := h.transactionService.GetLinkedToTemplate(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// DismissNotification handles marking an entry's due-date reminder as seen.
func (h *TransactionHandler) DismissNotification(c *gin.Context) {
	if err := h.transactionService.DismissNotification(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification dismissed"})
}
