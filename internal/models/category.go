package models

// LegacyCategory is the flat category set used by ledger transactions.
// It predates the recurring-expense template model and is kept on the
// ledger for backwards compatibility with historical rows.
type LegacyCategory string

const (
	LegacyCategoryServices LegacyCategory = "services"
	LegacyCategoryConsume  LegacyCategory = "consume"
	LegacyCategoryOthers   LegacyCategory = "others"
)

// LegacyCategories lists every valid legacy category.
var LegacyCategories = []LegacyCategory{
	LegacyCategoryServices,
	LegacyCategoryConsume,
	LegacyCategoryOthers,
}

// IsValid reports whether c is a known legacy category.
func (c LegacyCategory) IsValid() bool {
	switch c {
	case LegacyCategoryServices, LegacyCategoryConsume, LegacyCategoryOthers:
		return true
	}
	return false
}

// ExpenseCategory is the specific category set used by recurring-expense
// templates.
type ExpenseCategory string

const (
	ExpenseCategoryRent      ExpenseCategory = "rent"
	ExpenseCategorySupply    ExpenseCategory = "supply"
	ExpenseCategorySalary    ExpenseCategory = "salary"
	ExpenseCategoryUtilities ExpenseCategory = "utilities"
	ExpenseCategoryOthers    ExpenseCategory = "others"
)

// ExpenseCategories lists every valid specific expense category.
var ExpenseCategories = []ExpenseCategory{
	ExpenseCategoryRent,
	ExpenseCategorySupply,
	ExpenseCategorySalary,
	ExpenseCategoryUtilities,
	ExpenseCategoryOthers,
}

// IsValid reports whether c is a known specific expense category.
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategoryRent, ExpenseCategorySupply, ExpenseCategorySalary,
		ExpenseCategoryUtilities, ExpenseCategoryOthers:
		return true
	}
	return false
}

// MapLegacyCategory converts a legacy flat category to its specific
// counterpart. The mapping is exhaustive over the closed legacy set;
// unknown values fall back to "others".
func MapLegacyCategory(legacy LegacyCategory) ExpenseCategory {
	switch legacy {
	case LegacyCategoryServices:
		return ExpenseCategoryOthers
	case LegacyCategoryConsume:
		return ExpenseCategorySupply
	case LegacyCategoryOthers:
		return ExpenseCategoryOthers
	default:
		return ExpenseCategoryOthers
	}
}
