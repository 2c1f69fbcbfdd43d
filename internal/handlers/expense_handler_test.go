package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "contas/internal/errors"
	"contas/internal/models"
	"contas/internal/services"
	"contas/internal/validator"
)

// --- mock aggregator service ---

type mockAggregatorService struct {
	getExpensesForMonthFn func(month, year int) ([]models.CombinedExpense, error)
	getUpcomingExpensesFn func(days int) ([]models.CombinedExpense, error)
	getOverdueExpensesFn  func() ([]models.CombinedExpense, error)
	getMonthlySummaryFn   func(month, year int) (*services.MonthlySummary, error)
	markVirtualAsPaidFn   func(recurringExpenseID string, month, year int, amount decimal.Decimal, interest *decimal.Decimal) (*models.Transaction, error)
}

func (m *mockAggregatorService) GetExpensesForMonth(month, year int) ([]models.CombinedExpense, error) {
	if m.getExpensesForMonthFn != nil {
		return m.getExpensesForMonthFn(month, year)
	}
	return []models.CombinedExpense{}, nil
}

func (m *mockAggregatorService) GetUpcomingExpenses(days int) ([]models.CombinedExpense, error) {
	if m.getUpcomingExpensesFn != nil {
		return m.getUpcomingExpensesFn(days)
	}
	return []models.CombinedExpense{}, nil
}

func (m *mockAggregatorService) GetOverdueExpenses() ([]models.CombinedExpense, error) {
	if m.getOverdueExpensesFn != nil {
		return m.getOverdueExpensesFn()
	}
	return []models.CombinedExpense{}, nil
}

func (m *mockAggregatorService) GetMonthlySummary(month, year int) (*services.MonthlySummary, error) {
	if m.getMonthlySummaryFn != nil {
		return m.getMonthlySummaryFn(month, year)
	}
	return &services.MonthlySummary{}, nil
}

func (m *mockAggregatorService) MarkVirtualAsPaid(recurringExpenseID string, month, year int, amount decimal.Decimal, interest *decimal.Decimal) (*models.Transaction, error) {
	if m.markVirtualAsPaidFn != nil {
		return m.markVirtualAsPaidFn(recurringExpenseID, month, year, amount, interest)
	}
	return &models.Transaction{}, nil
}

var _ services.ExpenseAggregatorServicer = (*mockAggregatorService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func setupExpenseRouter(handler *ExpenseHandler) *gin.Engine {
	r := gin.New()
	r.GET("/expenses/monthly", handler.GetMonthlyExpenses)
	r.GET("/expenses/upcoming", handler.GetUpcomingExpenses)
	r.GET("/expenses/overdue", handler.GetOverdueExpenses)
	r.GET("/expenses/summary", handler.GetMonthlySummary)
	r.POST("/recurring-expenses/:id/pay", handler.PayRecurringExpense)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- tests ---

func TestExpenseHandler_GetMonthlyExpenses(t *testing.T) {
	t.Run("returns 200 with combined expenses", func(t *testing.T) {
		aggSvc := &mockAggregatorService{
			getExpensesForMonthFn: func(month, year int) ([]models.CombinedExpense, error) {
				return []models.CombinedExpense{
					{ID: "abc", Type: models.CombinedExpenseReal, DueDate: time.Date(year, time.Month(month), 5, 0, 0, 0, 0, time.UTC)},
					{ID: "def-2024-3", Type: models.CombinedExpenseVirtual, DueDate: time.Date(year, time.Month(month), 10, 0, 0, 0, 0, time.UTC)},
				}, nil
			},
		}
		handler := NewExpenseHandler(aggSvc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses/monthly?month=3&year=2024", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		expenses := result["expenses"].([]interface{})
		if len(expenses) != 2 {
			t.Errorf("expected 2 expenses, got %d", len(expenses))
		}
	})

	t.Run("returns 400 on missing month", func(t *testing.T) {
		handler := NewExpenseHandler(&mockAggregatorService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses/monthly?year=2024", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on out-of-range month", func(t *testing.T) {
		handler := NewExpenseHandler(&mockAggregatorService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses/monthly?month=13&year=2024", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 503 when storage is unavailable", func(t *testing.T) {
		aggSvc := &mockAggregatorService{
			getExpensesForMonthFn: func(_, _ int) ([]models.CombinedExpense, error) {
				return nil, apperrors.ErrStorageUnavailable
			},
		}
		handler := NewExpenseHandler(aggSvc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses/monthly?month=3&year=2024", "")

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "STORAGE_UNAVAILABLE")
	})
}

func TestExpenseHandler_GetUpcomingExpenses(t *testing.T) {
	t.Run("defaults to seven days", func(t *testing.T) {
		var capturedDays int
		aggSvc := &mockAggregatorService{
			getUpcomingExpensesFn: func(days int) ([]models.CombinedExpense, error) {
				capturedDays = days
				return []models.CombinedExpense{}, nil
			},
		}
		handler := NewExpenseHandler(aggSvc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses/upcoming", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if capturedDays != 7 {
			t.Errorf("expected default of 7 days, got %d", capturedDays)
		}
	})

	t.Run("passes explicit days", func(t *testing.T) {
		var capturedDays int
		aggSvc := &mockAggregatorService{
			getUpcomingExpensesFn: func(days int) ([]models.CombinedExpense, error) {
				capturedDays = days
				return []models.CombinedExpense{}, nil
			},
		}
		handler := NewExpenseHandler(aggSvc)
		r := setupExpenseRouter(handler)

		doRequest(r, "GET", "/expenses/upcoming?days=30", "")

		if capturedDays != 30 {
			t.Errorf("expected 30 days, got %d", capturedDays)
		}
	})

	t.Run("returns 400 on negative days", func(t *testing.T) {
		handler := NewExpenseHandler(&mockAggregatorService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses/upcoming?days=-1", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_GetMonthlySummary(t *testing.T) {
	t.Run("returns 200 with totals", func(t *testing.T) {
		aggSvc := &mockAggregatorService{
			getMonthlySummaryFn: func(_, _ int) (*services.MonthlySummary, error) {
				return &services.MonthlySummary{
					TotalPending: decimal.NewFromInt(100),
					TotalPaid:    decimal.NewFromInt(210),
					TotalOverdue: decimal.NewFromInt(40),
					CountPending: 1,
					CountPaid:    1,
					CountOverdue: 1,
				}, nil
			},
		}
		handler := NewExpenseHandler(aggSvc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses/summary?month=3&year=2024", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		summary := result["summary"].(map[string]interface{})
		if summary["total_paid"] != "210" {
			t.Errorf("expected total_paid 210, got %v", summary["total_paid"])
		}
	})
}

func TestExpenseHandler_PayRecurringExpense(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var capturedID string
		aggSvc := &mockAggregatorService{
			markVirtualAsPaidFn: func(id string, month, year int, amount decimal.Decimal, _ *decimal.Decimal) (*models.Transaction, error) {
				capturedID = id
				return &models.Transaction{
					Value:  amount,
					Status: models.TransactionStatusPaid,
				}, nil
			},
		}
		handler := NewExpenseHandler(aggSvc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/recurring-expenses/tmpl-1/pay",
			`{"month":3,"year":2024,"amount":"1200"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if capturedID != "tmpl-1" {
			t.Errorf("expected template ID tmpl-1, got %q", capturedID)
		}
	})

	t.Run("returns 400 on missing month", func(t *testing.T) {
		handler := NewExpenseHandler(&mockAggregatorService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/recurring-expenses/tmpl-1/pay", `{"year":2024,"amount":"50"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 when already paid", func(t *testing.T) {
		aggSvc := &mockAggregatorService{
			markVirtualAsPaidFn: func(_ string, _, _ int, _ decimal.Decimal, _ *decimal.Decimal) (*models.Transaction, error) {
				return nil, apperrors.ErrObligationAlreadyPaid
			},
		}
		handler := NewExpenseHandler(aggSvc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/recurring-expenses/tmpl-1/pay",
			`{"month":3,"year":2024,"amount":"50"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ALREADY_PAID")
	})

	t.Run("returns 404 on unknown template", func(t *testing.T) {
		aggSvc := &mockAggregatorService{
			markVirtualAsPaidFn: func(_ string, _, _ int, _ decimal.Decimal, _ *decimal.Decimal) (*models.Transaction, error) {
				return nil, apperrors.ErrRecurringExpenseNotFound
			},
		}
		handler := NewExpenseHandler(aggSvc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/recurring-expenses/missing/pay",
			`{"month":3,"year":2024,"amount":"50"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
