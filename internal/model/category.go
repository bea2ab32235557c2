package model

// Category is a label from one of the closed, kind-specific category sets.
type Category string

const (
	CategoryFoodDining     Category = "Food & Dining"
	CategoryTransportation Category = "Transportation"
	CategoryShopping       Category = "Shopping"
	CategoryEntertainment  Category = "Entertainment"
	CategoryBillsUtilities Category = "Bills & Utilities"
	CategoryHealthcare     Category = "Healthcare"
	CategorySalary         Category = "Salary"
	CategoryFreelance      Category = "Freelance"
	CategoryInvestments    Category = "Investments"
	CategoryOther          Category = "Other"
)

// Order matters: it is the tie-break order when a free-text answer mentions several labels.
var (
	expenseCategories = []Category{
		CategoryFoodDining,
		CategoryTransportation,
		CategoryShopping,
		CategoryEntertainment,
		CategoryBillsUtilities,
		CategoryHealthcare,
		CategoryOther,
	}
	incomeCategories = []Category{
		CategorySalary,
		CategoryFreelance,
		CategoryInvestments,
		CategoryOther,
	}
)

// CategoriesFor returns a copy of the closed set for kind, or nil for an unknown kind.
func CategoriesFor(kind Kind) []Category {
	var src []Category
	switch kind {
	case KindExpense:
		src = expenseCategories
	case KindIncome:
		src = incomeCategories
	default:
		return nil
	}
	out := make([]Category, len(src))
	copy(out, src)
	return out
}

// IsCategoryOf reports whether c belongs to the closed set of kind.
func IsCategoryOf(kind Kind, c string) bool {
	for _, candidate := range CategoriesFor(kind) {
		if string(candidate) == c {
			return true
		}
	}
	return false
}
