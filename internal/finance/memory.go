package finance

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of all read services. It backs
// the CLI demo and tests; production deployments wire real data sources
// behind the same interfaces.
type MemoryStore struct {
	mu sync.RWMutex

	balanceSheets map[string]*BalanceSheet
	statements    map[string]*IncomeStatement
	medianIncomes map[string]float64
	accounts      map[string][]AccountBalance
	budgets       map[string]*Budget
	transactions  map[string][]Transaction
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		balanceSheets: make(map[string]*BalanceSheet),
		statements:    make(map[string]*IncomeStatement),
		medianIncomes: make(map[string]float64),
		accounts:      make(map[string][]AccountBalance),
		budgets:       make(map[string]*Budget),
		transactions:  make(map[string][]Transaction),
	}
}

// Seed helpers. Nil or zero values mean "absent" and the corresponding
// snapshot line will be omitted.

func (m *MemoryStore) SetBalanceSheet(familyID string, bs *BalanceSheet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balanceSheets[familyID] = bs
}

func (m *MemoryStore) SetIncomeStatement(familyID string, stmt *IncomeStatement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statements[familyID] = stmt
}

func (m *MemoryStore) SetMedianIncome(familyID string, amount float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.medianIncomes[familyID] = amount
}

func (m *MemoryStore) SetAccounts(familyID string, balances []AccountBalance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[familyID] = balances
}

func (m *MemoryStore) SetBudget(familyID string, b *Budget) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.budgets[familyID] = b
}

func (m *MemoryStore) SetTransactions(familyID string, txns []Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[familyID] = txns
}

// BalanceSheet implements BalanceSheetService.
func (m *MemoryStore) BalanceSheet(ctx context.Context, familyID string) (*BalanceSheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	bs, ok := m.balanceSheets[familyID]
	if !ok {
		return nil, nil
	}
	copied := *bs
	return &copied, nil
}

// Totals implements IncomeStatementService.
func (m *MemoryStore) Totals(ctx context.Context, familyID string, _ Period) (*IncomeStatement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	stmt, ok := m.statements[familyID]
	if !ok {
		return nil, nil
	}
	copied := *stmt
	copied.Categories = append([]CategoryTotal(nil), stmt.Categories...)
	return &copied, nil
}

// MedianIncome implements IncomeStatementService.
func (m *MemoryStore) MedianIncome(ctx context.Context, familyID string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.medianIncomes[familyID], nil
}

// Balances implements AccountService, sorted descending by balance.
func (m *MemoryStore) Balances(ctx context.Context, familyID, classification string) ([]AccountBalance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []AccountBalance
	for _, ab := range m.accounts[familyID] {
		if ab.Classification == classification {
			out = append(out, ab)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Balance > out[j].Balance })
	return out, nil
}

// FindOrBootstrap implements BudgetService.
func (m *MemoryStore) FindOrBootstrap(ctx context.Context, familyID string, date time.Time) (*Budget, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.budgets[familyID]
	if !ok || b == nil {
		return nil, nil
	}
	if b.Month.Year() != date.Year() || b.Month.Month() != date.Month() {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

// Recent implements TransactionService.
func (m *MemoryStore) Recent(ctx context.Context, familyID string, period Period, limit int) ([]Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Transaction
	for _, txn := range m.transactions[familyID] {
		if txn.Date.Before(period.Start) || !txn.Date.Before(period.End) {
			continue
		}
		out = append(out, txn)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
