package prompt

// FunctionName identifies one capability the model may request. The catalog
// is closed: these four names are the only values that ever appear.
type FunctionName string

const (
	FunctionGetTransactions    FunctionName = "get_transactions"
	FunctionGetAccounts        FunctionName = "get_accounts"
	FunctionGetBalanceSheet    FunctionName = "get_balance_sheet"
	FunctionGetIncomeStatement FunctionName = "get_income_statement"
)

// FunctionDescriptor describes one callable function exposed to the model.
// Descriptors are data, not live callables; the calling layer resolves a
// name to an implementation when the model requests it.
type FunctionDescriptor struct {
	Name        FunctionName
	Description string
	Parameters  map[string]any
}

// Catalog returns the fixed function catalog, always in the same order.
func Catalog() []FunctionDescriptor {
	return []FunctionDescriptor{
		{
			Name:        FunctionGetTransactions,
			Description: "Search the user's transactions by date range, category, account or merchant.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"start_date": map[string]any{"type": "string", "description": "Inclusive start date (YYYY-MM-DD)"},
					"end_date":   map[string]any{"type": "string", "description": "Inclusive end date (YYYY-MM-DD)"},
					"category":   map[string]any{"type": "string", "description": "Category name filter"},
					"account":    map[string]any{"type": "string", "description": "Account name filter"},
				},
			},
		},
		{
			Name:        FunctionGetAccounts,
			Description: "List the user's accounts with current balances.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        FunctionGetBalanceSheet,
			Description: "Get the user's balance sheet: net worth, assets and liabilities.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        FunctionGetIncomeStatement,
			Description: "Get income and expense totals for a period, broken down by category.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"period": map[string]any{"type": "string", "description": "Period key, e.g. current_month or last_30_days"},
				},
			},
		},
	}
}
