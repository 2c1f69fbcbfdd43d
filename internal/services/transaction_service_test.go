package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"contas/internal/models"
	"contas/internal/pagination"
	"contas/internal/testutil"
)

func TestCreateLedgerTransaction(t *testing.T) {
	t.Run("valid_entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		transaction, err := svc.Create(models.LegacyCategoryServices, decimal.NewFromInt(80), date, "Cleaning", false, nil)
		testutil.AssertNoError(t, err)

		if transaction.ID == "" {
			t.Fatal("expected non-empty transaction ID")
		}
		if transaction.Status != models.TransactionStatusPending {
			t.Errorf("expected pending status, got %s", transaction.Status)
		}
	})

	t.Run("zero_date_defaults_to_now", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		fixed := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
		svc.(*transactionService).now = func() time.Time { return fixed }

		transaction, err := svc.Create(models.LegacyCategoryOthers, decimal.NewFromInt(10), time.Time{}, "", false, nil)
		testutil.AssertNoError(t, err)
		if !transaction.Date.Equal(fixed) {
			t.Errorf("expected date %v, got %v", fixed, transaction.Date)
		}
	})

	t.Run("invalid_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		_, err := svc.Create(models.LegacyCategory("groceries"), decimal.NewFromInt(10), time.Now(), "", false, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("non_positive_value", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		_, err := svc.Create(models.LegacyCategoryOthers, decimal.Zero, time.Now(), "", false, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetTransactionsByMonth(t *testing.T) {
	t.Run("windowing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		inMonth := testutil.CreateTestTransaction(t, db, decimal.NewFromInt(10), time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestTransaction(t, db, decimal.NewFromInt(20), time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))

		results, err := svc.GetByMonth(3, 2024)
		testutil.AssertNoError(t, err)
		if len(results) != 1 || results[0].ID != inMonth.ID {
			t.Fatalf("expected only the March transaction, got %d entries", len(results))
		}
	})

	t.Run("legacy_recurring_rolls_forward", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		legacy := testutil.CreateTestLegacyRecurringTransaction(t, db, "Internet", decimal.NewFromInt(60),
			models.LegacyCategoryServices, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), nil)

		results, err := svc.GetByMonth(3, 2024)
		testutil.AssertNoError(t, err)
		if len(results) != 1 {
			t.Fatalf("expected 1 rolled-forward entry, got %d", len(results))
		}

		projected := results[0]
		wantID := legacy.ID + "-2024-3"
		if projected.ID != wantID {
			t.Errorf("expected deterministic ID %q, got %q", wantID, projected.ID)
		}
		wantDate := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
		if !projected.Date.Equal(wantDate) {
			t.Errorf("expected projected date %v, got %v", wantDate, projected.Date)
		}
		if projected.Status != models.TransactionStatusPending {
			t.Errorf("expected pending status, got %s", projected.Status)
		}

		// The projection is never written back to the ledger.
		var count int64
		db.Model(&models.Transaction{}).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 persisted transaction, got %d", count)
		}
	})

	t.Run("linked_transactions_do_not_roll_forward", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		template := testutil.CreateTestRecurringExpense(t, db, decimal.NewFromInt(60))
		linked := &models.Transaction{
			Category:           models.LegacyCategoryOthers,
			Value:              decimal.NewFromInt(60),
			Date:               time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			Status:             models.TransactionStatusPending,
			IsRecurring:        true,
			RecurringExpenseID: &template.ID,
			Description:        "Linked history",
		}
		if err := db.Create(linked).Error; err != nil {
			t.Fatalf("failed to create linked transaction: %v", err)
		}

		results, err := svc.GetByMonth(3, 2024)
		testutil.AssertNoError(t, err)
		if len(results) != 0 {
			t.Errorf("expected template-linked history to stay in its own month, got %d entries", len(results))
		}
	})

	t.Run("roll_forward_clamps_day", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		testutil.CreateTestLegacyRecurringTransaction(t, db, "Lease", decimal.NewFromInt(900),
			models.LegacyCategoryOthers, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), nil)

		results, err := svc.GetByMonth(2, 2024)
		testutil.AssertNoError(t, err)
		wantDate := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
		if !results[0].Date.Equal(wantDate) {
			t.Errorf("expected clamped date %v, got %v", wantDate, results[0].Date)
		}
	})

	t.Run("deterministic_output", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		testutil.CreateTestTransaction(t, db, decimal.NewFromInt(10), time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestLegacyRecurringTransaction(t, db, "Internet", decimal.NewFromInt(60),
			models.LegacyCategoryServices, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), nil)

		first, err := svc.GetByMonth(3, 2024)
		testutil.AssertNoError(t, err)
		second, err := svc.GetByMonth(3, 2024)
		testutil.AssertNoError(t, err)

		if len(first) != len(second) {
			t.Fatalf("expected identical lengths, got %d and %d", len(first), len(second))
		}
		for i := range first {
			if first[i].ID != second[i].ID {
				t.Errorf("entry %d differs between calls: %q vs %q", i, first[i].ID, second[i].ID)
			}
		}
	})
}

func TestCreatePayment(t *testing.T) {
	t.Run("partial_payment_keeps_original_pending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		original := testutil.CreateTestTransaction(t, db, decimal.NewFromInt(100), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

		payment, err := svc.CreatePayment(original.ID, decimal.NewFromInt(40), nil)
		testutil.AssertNoError(t, err)
		if payment.RelatedTransactionID == nil || *payment.RelatedTransactionID != original.ID {
			t.Error("expected payment linked to the original transaction")
		}

		refreshed, err := svc.GetByID(original.ID)
		testutil.AssertNoError(t, err)
		if refreshed.Status != models.TransactionStatusPending {
			t.Errorf("expected original still pending, got %s", refreshed.Status)
		}
	})

	t.Run("full_chain_marks_original_paid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		original := testutil.CreateTestTransaction(t, db, decimal.NewFromInt(100), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

		_, err := svc.CreatePayment(original.ID, decimal.NewFromInt(40), nil)
		testutil.AssertNoError(t, err)
		_, err = svc.CreatePayment(original.ID, decimal.NewFromInt(60), nil)
		testutil.AssertNoError(t, err)

		refreshed, err := svc.GetByID(original.ID)
		testutil.AssertNoError(t, err)
		if refreshed.Status != models.TransactionStatusPaid {
			t.Errorf("expected original paid after full chain, got %s", refreshed.Status)
		}

		payments, err := svc.GetRelatedPayments(original.ID)
		testutil.AssertNoError(t, err)
		if len(payments) != 2 {
			t.Errorf("expected 2 related payments, got %d", len(payments))
		}
	})

	t.Run("unknown_original", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		_, err := svc.CreatePayment("00000000-0000-0000-0000-000000000000", decimal.NewFromInt(10), nil)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestUpdateTransactionStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db)

	transaction := testutil.CreateTestTransaction(t, db, decimal.NewFromInt(10), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	updated, err := svc.UpdateStatus(transaction.ID, models.TransactionStatusCancelled)
	testutil.AssertNoError(t, err)
	if updated.Status != models.TransactionStatusCancelled {
		t.Errorf("expected cancelled status, got %s", updated.Status)
	}

	_, err = svc.UpdateStatus(transaction.ID, models.TransactionStatus("archived"))
	testutil.AssertAppError(t, err, "INVALID_STATUS")
}

func TestDismissNotification(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db)

	transaction := testutil.CreateTestTransaction(t, db, decimal.NewFromInt(10), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	testutil.AssertNoError(t, svc.DismissNotification(transaction.ID))

	refreshed, err := svc.GetByID(transaction.ID)
	testutil.AssertNoError(t, err)
	if !refreshed.NotificationDismissed {
		t.Error("expected notification_dismissed to be set")
	}
}

func TestGetLinkedToTemplate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db)

	template := testutil.CreateTestRecurringExpense(t, db, decimal.NewFromInt(60))
	older := testutil.CreateTestLinkedPayment(t, db, template.ID, decimal.NewFromInt(60), 2024, 1, 10)
	newer := testutil.CreateTestLinkedPayment(t, db, template.ID, decimal.NewFromInt(60), 2024, 2, 10)
	testutil.CreateTestTransaction(t, db, decimal.NewFromInt(30), time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	linked, err := svc.GetLinkedToTemplate(template.ID)
	testutil.AssertNoError(t, err)
	if len(linked) != 2 {
		t.Fatalf("expected 2 linked entries, got %d", len(linked))
	}
	if linked[0].ID != older.ID || linked[1].ID != newer.ID {
		t.Error("expected linked history ordered oldest first")
	}
}

func TestListTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db)

	testutil.CreateTestTransaction(t, db, decimal.NewFromInt(10), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	testutil.CreateTestLegacyRecurringTransaction(t, db, "Internet", decimal.NewFromInt(60),
		models.LegacyCategoryServices, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), nil)

	recurring := true
	result, err := svc.List(pagination.PageRequest{}, TransactionFilter{IsRecurring: &recurring})
	testutil.AssertNoError(t, err)
	if len(result.Data) != 1 || result.Data[0].Description != "Internet" {
		t.Errorf("expected only the recurring entry, got %d items", len(result.Data))
	}
	if result.TotalItems != 1 {
		t.Errorf("expected total 1, got %d", result.TotalItems)
	}
}
