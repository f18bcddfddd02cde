package finance

import (
	"context"
	"time"
)

// BalanceSheetService reads the current balance sheet of a family.
type BalanceSheetService interface {
	BalanceSheet(ctx context.Context, familyID string) (*BalanceSheet, error)
}

// IncomeStatementService reads income/expense aggregates of a family.
type IncomeStatementService interface {
	// Totals returns the income statement for the given period.
	Totals(ctx context.Context, familyID string, period Period) (*IncomeStatement, error)

	// MedianIncome returns the median income over a monthly interval.
	// Zero means not enough data.
	MedianIncome(ctx context.Context, familyID string) (float64, error)
}

// AccountService lists account balances by classification.
type AccountService interface {
	Balances(ctx context.Context, familyID, classification string) ([]AccountBalance, error)
}

// BudgetService finds or bootstraps the budget for the month containing the
// given date. A nil budget without error means the family has no budget to
// bootstrap from.
type BudgetService interface {
	FindOrBootstrap(ctx context.Context, familyID string, date time.Time) (*Budget, error)
}

// TransactionService queries visible transactions within a period, newest
// first.
type TransactionService interface {
	Recent(ctx context.Context, familyID string, period Period, limit int) ([]Transaction, error)
}
