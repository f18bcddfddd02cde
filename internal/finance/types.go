// Package finance defines the financial read models and collaborator
// interfaces the assistant consumes. Computation of these figures (balance
// arithmetic, aggregation, persistence) lives behind the interfaces; this
// package only fixes their contracts.
package finance

import "time"

// Family groups the accounts, budgets and transactions of one household.
type Family struct {
	ID       string
	Currency string
	Country  string

	// EntriesCacheVersion changes whenever any ledger entry of the family
	// changes. It is embedded in cache keys as the data-version token.
	EntriesCacheVersion string
}

// User is the person talking to the assistant.
type User struct {
	ID               string
	FirstName        string
	DateFormat       string
	DefaultPeriodKey string
}

// BalanceSheet summarizes a family's assets and liabilities.
type BalanceSheet struct {
	NetWorth         float64
	TotalAssets      float64
	TotalLiabilities float64
	Currency         string
}

// Account classifications.
const (
	ClassificationAsset     = "asset"
	ClassificationLiability = "liability"
)

// AccountBalance is one account with its balance converted to the family
// currency.
type AccountBalance struct {
	Name           string
	Classification string
	Balance        float64
	Currency       string
}

// CategoryTotal is one category's share of an income statement.
type CategoryTotal struct {
	Name   string
	Total  float64
	Weight float64
	Parent bool // false for subcategories
}

// IncomeStatement holds income and expense totals for one period, with the
// expense breakdown by category.
type IncomeStatement struct {
	TotalIncome  float64
	TotalExpense float64
	Currency     string
	Categories   []CategoryTotal
}

// Budget is one calendar month's plan and actuals.
type Budget struct {
	Month            time.Time
	BudgetedSpending float64
	ActualSpending   float64
	ActualIncome     float64
	Currency         string
}

// Transaction is one visible ledger transaction.
type Transaction struct {
	Date     time.Time
	Name     string
	Amount   float64
	Currency string
	Category string
}
