package services

import (
	"fmt"

	"gorm.io/gorm"

	apperrors "contas/internal/errors"
	"contas/internal/logger"
	"contas/internal/models"
)

// migrationService is the one-time batch job that converts legacy
// is_recurring ledger entries into recurring-expense templates and
// back-links the historical entries to them.
type migrationService struct {
	db *gorm.DB
}

// NewMigrationService creates a new MigrationServicer.
func NewMigrationService(db *gorm.DB) MigrationServicer {
	return &migrationService{db: db}
}

// Migrate scans the ledger for legacy recurring entries, creates one
// template per unique (description, value) pair, and links every entry
// in a group to its template. Per-entry failures are collected without
// aborting the batch. If any template already exists the migration is
// considered done and returns the existing count untouched.
func (s *migrationService) Migrate() (*MigrationResult, error) {
	log := logger.Get()

	var existing int64
	if err := s.db.Model(&models.RecurringExpense{}).Count(&existing).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if existing > 0 {
		log.Infow("recurring expenses already migrated", "count", existing)
		return &MigrationResult{Migrated: int(existing), Errors: []string{}}, nil
	}

	var legacy []models.Transaction
	if err := s.db.Where("is_recurring = ?", true).
		Order("date, id").
		Find(&legacy).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	log.Infow("starting recurring expense migration", "candidates", len(legacy))

	result := &MigrationResult{Errors: []string{}}
	templatesByKey := make(map[string]*models.RecurringExpense)

	for _, transaction := range legacy {
		key := fmt.Sprintf("%s-%s", transaction.Description, transaction.Value.String())

		template, ok := templatesByKey[key]
		if !ok {
			template = templateFromLegacy(transaction)
			if err := s.db.Create(template).Error; err != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("failed to migrate transaction %s: %v", transaction.ID, err))
				continue
			}
			templatesByKey[key] = template
			result.Migrated++
		}

		if err := s.db.Model(&models.Transaction{}).
			Where("id = ?", transaction.ID).
			Update("recurring_expense_id", template.ID).Error; err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("failed to link transaction %s: %v", transaction.ID, err))
		}
	}

	log.Infow("recurring expense migration finished",
		"migrated", result.Migrated, "errors", len(result.Errors))

	return result, nil
}

// templateFromLegacy synthesizes a template from the first transaction of
// a dedup group. The day of month comes from the due date when present,
// defaulting to the 1st.
func templateFromLegacy(transaction models.Transaction) *models.RecurringExpense {
	description := transaction.Description
	if description == "" {
		description = "Untitled Recurring Expense"
	}

	dayOfMonthDue := 1
	if transaction.DueDate != nil {
		dayOfMonthDue = transaction.DueDate.Day()
	}

	return &models.RecurringExpense{
		Description:   description,
		Amount:        transaction.Value,
		DayOfMonthDue: dayOfMonthDue,
		Category:      models.MapLegacyCategory(transaction.Category),
		Active:        true,
	}
}

// CheckStatus reports whether legacy recurring entries exist with no
// templates, meaning the migration still needs to run.
func (s *migrationService) CheckStatus() (*MigrationStatus, error) {
	var transactionCount int64
	if err := s.db.Model(&models.Transaction{}).
		Where("is_recurring = ?", true).
		Count(&transactionCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var templateCount int64
	if err := s.db.Model(&models.RecurringExpense{}).Count(&templateCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &MigrationStatus{
		NeedsMigration:            transactionCount > 0 && templateCount == 0,
		RecurringTransactionCount: transactionCount,
		RecurringExpenseCount:     templateCount,
	}, nil
}

// Rollback strips every recurring_expense_id link from the ledger and
// deletes all templates. This is a full destructive undo with no partial
// granularity.
func (s *migrationService) Rollback() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("recurring_expense_id IS NOT NULL").
			Update("recurring_expense_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Unscoped().
			Where("1 = 1").
			Delete(&models.RecurringExpense{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		logger.Get().Info("recurring expense migration rolled back")
		return nil
	})
}
