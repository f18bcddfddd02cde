// Package snapshot assembles the bounded-latency textual summary of a
// family's financial state that is embedded in the assistant's instructions.
//
// Every fetcher is individually time-bounded, individually cached, and fully
// fault-tolerant: any failure collapses to "omit this line". Only the outer
// orchestration substitutes the Unavailable sentinel, and only when the
// whole build fails or overruns its deadline.
package snapshot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Kunal06khurana/Personal-Finance-advisor/internal/cache"
	"github.com/Kunal06khurana/Personal-Finance-advisor/internal/finance"
	"github.com/Kunal06khurana/Personal-Finance-advisor/internal/money"
)

// Unavailable is returned when the whole snapshot cannot be assembled.
const Unavailable = "Unavailable"

// Default deadlines. The fetch deadline nests inside the build deadline.
const (
	DefaultBuildTimeout = 2 * time.Second
	DefaultFetchTimeout = 1 * time.Second
)

// Cache TTLs per source, scaled to how fast each dataset moves. The
// entries-cache-version token in every key already invalidates on writes, so
// these only bound staleness when the version is unchanged.
const (
	balanceSheetTTL    = 12 * time.Hour
	incomeStatementTTL = 12 * time.Hour
	accountsTTL        = 12 * time.Hour
	medianIncomeTTL    = 12 * time.Hour
	budgetTTL          = 5 * time.Minute
	transactionsTTL    = 5 * time.Minute
)

// Fixed line slots, in assembly order.
const (
	slotNetWorth = iota
	slotIncomeExpense
	slotTopAssets
	slotTopLiabilities
	slotMedianIncome
	slotBudget
	slotCategories
	slotTransactions
	slotCount
)

const (
	maxCategoryLines   = 8
	maxAccountLines    = 5
	maxTransactionRows = 10
)

// Services bundles the collaborators the fetchers read from.
type Services struct {
	BalanceSheets   finance.BalanceSheetService
	IncomeStatement finance.IncomeStatementService
	Accounts        finance.AccountService
	Budgets         finance.BudgetService
	Transactions    finance.TransactionService
}

// Builder assembles snapshots. Zero-valued timeouts fall back to the package
// defaults; Now defaults to time.Now.
type Builder struct {
	services Services
	cache    *cache.Store
	log      *zap.Logger

	BuildTimeout time.Duration
	FetchTimeout time.Duration
	Now          func() time.Time
}

// NewBuilder creates a Builder with default deadlines.
func NewBuilder(services Services, store *cache.Store, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	if store == nil {
		store = cache.New(0)
	}
	return &Builder{
		services:     services,
		cache:        store,
		log:          log,
		BuildTimeout: DefaultBuildTimeout,
		FetchTimeout: DefaultFetchTimeout,
		Now:          time.Now,
	}
}

// Build assembles the snapshot for one family. Lines appear in a fixed
// order regardless of fetcher completion order; omitted sources are dropped
// rather than blank-inserted. On whole-build failure or deadline overrun it
// returns Unavailable.
func (b *Builder) Build(ctx context.Context, user finance.User, family finance.Family) string {
	ctx, cancel := context.WithTimeout(ctx, b.buildTimeout())
	defer cancel()

	now := b.now()
	formatter := money.NewFormatter(family.Currency)
	period := finance.ResolvePeriod(user.DefaultPeriodKey, now)

	lines := make([]string, slotCount)
	g := new(errgroup.Group)
	run := func(slot int, name string, fetch func(context.Context) (string, error)) {
		g.Go(func() error {
			lines[slot] = b.fetchLine(ctx, name, fetch)
			return nil
		})
	}

	run(slotNetWorth, "net_worth", func(ctx context.Context) (string, error) {
		return b.netWorthLine(ctx, family, formatter)
	})
	run(slotIncomeExpense, "income_expense", func(ctx context.Context) (string, error) {
		return b.incomeExpenseLine(ctx, family, period, formatter)
	})
	run(slotTopAssets, "top_assets", func(ctx context.Context) (string, error) {
		return b.topAccountsLine(ctx, family, finance.ClassificationAsset, formatter)
	})
	run(slotTopLiabilities, "top_liabilities", func(ctx context.Context) (string, error) {
		return b.topAccountsLine(ctx, family, finance.ClassificationLiability, formatter)
	})
	run(slotMedianIncome, "median_income", func(ctx context.Context) (string, error) {
		return b.medianIncomeLine(ctx, family, formatter)
	})
	run(slotBudget, "budget", func(ctx context.Context) (string, error) {
		return b.budgetLine(ctx, family, now, formatter)
	})
	run(slotCategories, "category_breakdown", func(ctx context.Context) (string, error) {
		return b.categoryBreakdownLine(ctx, family, period, formatter)
	})
	run(slotTransactions, "recent_transactions", func(ctx context.Context) (string, error) {
		return b.recentTransactionsLine(ctx, family, period, formatter)
	})

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		b.log.Warn("snapshot build exceeded deadline", zap.String("family", family.ID))
		return Unavailable
	}

	present := lines[:0]
	for _, line := range lines {
		if line != "" {
			present = append(present, line)
		}
	}
	if len(present) == 0 {
		return Unavailable
	}
	return strings.Join(present, " | ")
}

// fetchLine runs one fetcher under its own deadline. Every failure mode,
// including panics and deadline overruns, collapses to the empty string.
func (b *Builder) fetchLine(ctx context.Context, name string, fetch func(context.Context) (string, error)) string {
	ctx, cancel := context.WithTimeout(ctx, b.fetchTimeout())
	defer cancel()

	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("fetcher panicked: %v", r)}
			}
		}()
		line, err := fetch(ctx)
		ch <- result{line: line, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			b.log.Debug("snapshot fetcher failed",
				zap.String("fetcher", name), zap.Error(res.err))
			return ""
		}
		return strings.TrimSpace(res.line)
	case <-ctx.Done():
		b.log.Debug("snapshot fetcher timed out", zap.String("fetcher", name))
		return ""
	}
}

func (b *Builder) netWorthLine(ctx context.Context, family finance.Family, f *money.Formatter) (string, error) {
	key := cache.Key{Namespace: "balance_sheet", EntityID: family.ID, Version: family.EntriesCacheVersion}
	return cache.FetchOrCompute(b.cache, key, balanceSheetTTL, func() (string, error) {
		bs, err := b.services.BalanceSheets.BalanceSheet(ctx, family.ID)
		if err != nil || bs == nil {
			return "", err
		}
		return fmt.Sprintf("Net worth: %s, total assets: %s, total liabilities: %s",
			f.Format(bs.NetWorth), f.Format(bs.TotalAssets), f.Format(bs.TotalLiabilities)), nil
	})
}

// incomeStatement reads the cached income statement for the period; the
// income/expense line and the category breakdown both derive from it, so
// under caching they always agree.
func (b *Builder) incomeStatement(ctx context.Context, family finance.Family, period finance.Period) (*finance.IncomeStatement, error) {
	key := cache.Key{
		Namespace: "income_statement",
		EntityID:  family.ID + ":" + period.Key,
		Version:   family.EntriesCacheVersion,
	}
	return cache.FetchOrCompute(b.cache, key, incomeStatementTTL, func() (*finance.IncomeStatement, error) {
		return b.services.IncomeStatement.Totals(ctx, family.ID, period)
	})
}

func (b *Builder) incomeExpenseLine(ctx context.Context, family finance.Family, period finance.Period, f *money.Formatter) (string, error) {
	stmt, err := b.incomeStatement(ctx, family, period)
	if err != nil || stmt == nil {
		return "", err
	}
	return fmt.Sprintf("Income for %s: %s, expenses: %s",
		period.Label(), f.Format(stmt.TotalIncome), f.Format(stmt.TotalExpense)), nil
}

func (b *Builder) categoryBreakdownLine(ctx context.Context, family finance.Family, period finance.Period, f *money.Formatter) (string, error) {
	stmt, err := b.incomeStatement(ctx, family, period)
	if err != nil || stmt == nil {
		return "", err
	}

	parents := make([]finance.CategoryTotal, 0, len(stmt.Categories))
	for _, ct := range stmt.Categories {
		if ct.Parent && ct.Total != 0 {
			parents = append(parents, ct)
		}
	}
	if len(parents) == 0 {
		return "", nil
	}
	sortCategoriesByWeight(parents)
	if len(parents) > maxCategoryLines {
		parents = parents[:maxCategoryLines]
	}

	parts := make([]string, 0, len(parents))
	for _, ct := range parents {
		parts = append(parts, fmt.Sprintf("%s: %s", ct.Name, f.Format(ct.Total)))
	}
	return "Top spending categories: " + strings.Join(parts, ", "), nil
}

func (b *Builder) topAccountsLine(ctx context.Context, family finance.Family, classification string, f *money.Formatter) (string, error) {
	key := cache.Key{
		Namespace: "top_accounts:" + classification,
		EntityID:  family.ID,
		Version:   family.EntriesCacheVersion,
	}
	return cache.FetchOrCompute(b.cache, key, accountsTTL, func() (string, error) {
		balances, err := b.services.Accounts.Balances(ctx, family.ID, classification)
		if err != nil || len(balances) == 0 {
			return "", err
		}
		sortBalancesDescending(balances)
		if len(balances) > maxAccountLines {
			balances = balances[:maxAccountLines]
		}

		parts := make([]string, 0, len(balances))
		for _, ab := range balances {
			parts = append(parts, fmt.Sprintf("%s: %s", ab.Name, f.Format(ab.Balance)))
		}
		label := "Top assets: "
		if classification == finance.ClassificationLiability {
			label = "Top liabilities: "
		}
		return label + strings.Join(parts, ", "), nil
	})
}

func (b *Builder) medianIncomeLine(ctx context.Context, family finance.Family, f *money.Formatter) (string, error) {
	key := cache.Key{Namespace: "median_income", EntityID: family.ID, Version: family.EntriesCacheVersion}
	return cache.FetchOrCompute(b.cache, key, medianIncomeTTL, func() (string, error) {
		median, err := b.services.IncomeStatement.MedianIncome(ctx, family.ID)
		if err != nil || median <= 0 {
			return "", err
		}
		return fmt.Sprintf("Median monthly income: %s", f.Format(median)), nil
	})
}

func (b *Builder) budgetLine(ctx context.Context, family finance.Family, now time.Time, f *money.Formatter) (string, error) {
	key := cache.Key{
		Namespace: "budget:" + now.Format("2006-01"),
		EntityID:  family.ID,
		Version:   family.EntriesCacheVersion,
	}
	return cache.FetchOrCompute(b.cache, key, budgetTTL, func() (string, error) {
		budget, err := b.services.Budgets.FindOrBootstrap(ctx, family.ID, now)
		if err != nil || budget == nil {
			return "", err
		}
		return fmt.Sprintf("Budget for %s: planned spending %s, actual spending %s, actual income %s",
			budget.Month.Format("January 2006"),
			f.Format(budget.BudgetedSpending),
			f.Format(budget.ActualSpending),
			f.Format(budget.ActualIncome)), nil
	})
}

func (b *Builder) recentTransactionsLine(ctx context.Context, family finance.Family, period finance.Period, f *money.Formatter) (string, error) {
	key := cache.Key{
		Namespace: "recent_transactions:" + period.Key,
		EntityID:  family.ID,
		Version:   family.EntriesCacheVersion,
	}
	return cache.FetchOrCompute(b.cache, key, transactionsTTL, func() (string, error) {
		txns, err := b.services.Transactions.Recent(ctx, family.ID, period, maxTransactionRows)
		if err != nil || len(txns) == 0 {
			return "", err
		}

		parts := make([]string, 0, len(txns))
		for _, txn := range txns {
			entry := fmt.Sprintf("%s %s: %s", txn.Date.Format("2006-01-02"), txn.Name, f.Format(txn.Amount))
			if txn.Category != "" {
				entry += fmt.Sprintf(" (%s)", txn.Category)
			}
			parts = append(parts, entry)
		}
		return "Recent transactions: " + strings.Join(parts, "; "), nil
	})
}

func (b *Builder) buildTimeout() time.Duration {
	if b.BuildTimeout > 0 {
		return b.BuildTimeout
	}
	return DefaultBuildTimeout
}

func (b *Builder) fetchTimeout() time.Duration {
	if b.FetchTimeout > 0 {
		return b.FetchTimeout
	}
	return DefaultFetchTimeout
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}
