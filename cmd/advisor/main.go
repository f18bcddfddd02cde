package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Kunal06khurana/Personal-Finance-advisor/internal/assistant"
	"github.com/Kunal06khurana/Personal-Finance-advisor/internal/cache"
	"github.com/Kunal06khurana/Personal-Finance-advisor/internal/config"
	"github.com/Kunal06khurana/Personal-Finance-advisor/internal/finance"
	"github.com/Kunal06khurana/Personal-Finance-advisor/internal/logging"
	"github.com/Kunal06khurana/Personal-Finance-advisor/internal/provider"
	"github.com/Kunal06khurana/Personal-Finance-advisor/internal/snapshot"
)

var (
	// Global flags
	verbose    bool
	configPath string
	model      string
	timeout    time.Duration

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Personal finance chat assistant",
	Long: `advisor answers questions about a family's finances.

Each question is grounded in a financial context snapshot (net worth,
income and expenses, budget, top accounts, recent transactions) that is
assembled from cached, deadline-bounded lookups, then answered by the
configured Gemini model.

Set GEMINI_API_KEY or configure gemini.api_key in the config file.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = logging.New(verbose || cfg.Logging.Debug)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// askCmd runs one chat turn and streams the reply to stdout
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the demo family's finances",
	Long: `Assembles the financial snapshot for the demo family, builds the
chat instructions, and streams the model's reply to stdout.

Example:
  advisor ask "how much did we spend on groceries last month?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

// modelsCmd lists the models the provider accepts
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List supported Gemini models",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, m := range provider.SupportedModels() {
			marker := " "
			if m == provider.DefaultModel {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, m)
		}
		return nil
	},
}

// snapshotCmd prints the assembled snapshot without calling the model
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the demo family's financial snapshot",
	RunE:  runSnapshot,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "advisor.yaml", "Path to config file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Operation timeout")

	askCmd.Flags().StringVarP(&model, "model", "m", "", "Model override for this question")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()

	client, err := provider.NewGeminiClient(provider.Config{
		APIKey:  cfg.Gemini.APIKey,
		BaseURL: cfg.Gemini.BaseURL,
		Timeout: cfg.GeminiTimeout(),
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	store := demoStore()
	builder := snapshot.NewBuilder(demoServices(store), cache.New(0), logger)
	adv := assistant.New(client, builder, cfg, logger)

	user, family := demoUser(), demoFamily()
	question := strings.Join(args, " ")

	streamed := false
	resp, err := adv.Respond(ctx, assistant.Request{
		User:   user,
		Family: family,
		Prompt: question,
		Model:  model,
		Streamer: func(chunk provider.StreamChunk) {
			if chunk.Kind == provider.ChunkText {
				fmt.Print(chunk.Text)
				streamed = true
			}
		},
	})
	if err != nil {
		return err
	}
	if !streamed {
		fmt.Print(resp.Text())
	}
	fmt.Println()
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	store := demoStore()
	builder := snapshot.NewBuilder(demoServices(store), cache.New(0), logger)
	snap := builder.Build(ctx, demoUser(), demoFamily())
	for _, line := range strings.Split(snap, " | ") {
		fmt.Println(line)
	}
	return nil
}

func demoServices(store *finance.MemoryStore) snapshot.Services {
	return snapshot.Services{
		BalanceSheets:   store,
		IncomeStatement: store,
		Accounts:        store,
		Budgets:         store,
		Transactions:    store,
	}
}

func demoUser() finance.User {
	return finance.User{
		ID:               "demo-user",
		FirstName:        "Alex",
		DateFormat:       "2006-01-02",
		DefaultPeriodKey: finance.PeriodCurrentMonth,
	}
}

func demoFamily() finance.Family {
	return finance.Family{
		ID:                  "demo-family",
		Currency:            "USD",
		Country:             "US",
		EntriesCacheVersion: "v1",
	}
}

// demoStore seeds an in-memory dataset so the CLI can be exercised without
// a real ledger backend.
func demoStore() *finance.MemoryStore {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	store := finance.NewMemoryStore()
	store.SetBalanceSheet("demo-family", &finance.BalanceSheet{
		NetWorth:         48250.75,
		TotalAssets:      61400.25,
		TotalLiabilities: 13149.50,
	})
	store.SetIncomeStatement("demo-family", &finance.IncomeStatement{
		TotalIncome:  7200,
		TotalExpense: 5325.40,
		Categories: []finance.CategoryTotal{
			{Name: "Housing", Total: 2100, Weight: 39.4, Parent: true},
			{Name: "Groceries", Total: 860.12, Weight: 16.2, Parent: true},
			{Name: "Transport", Total: 420.50, Weight: 7.9, Parent: true},
			{Name: "Dining", Total: 385.90, Weight: 7.2, Parent: true},
			{Name: "Utilities", Total: 310.45, Weight: 5.8, Parent: true},
		},
	})
	store.SetMedianIncome("demo-family", 7050)
	store.SetAccounts("demo-family", []finance.AccountBalance{
		{Name: "Checking", Balance: 8400.25, Classification: finance.ClassificationAsset},
		{Name: "Savings", Balance: 23000, Classification: finance.ClassificationAsset},
		{Name: "Brokerage", Balance: 30000, Classification: finance.ClassificationAsset},
		{Name: "Credit Card", Balance: 1149.50, Classification: finance.ClassificationLiability},
		{Name: "Car Loan", Balance: 12000, Classification: finance.ClassificationLiability},
	})
	store.SetBudget("demo-family", &finance.Budget{
		Month:           monthStart,
		BudgetedSpending: 5500,
		ActualSpending:   5325.40,
		ActualIncome:     7200,
	})
	store.SetTransactions("demo-family", []finance.Transaction{
		{Date: monthStart.AddDate(0, 0, 12), Name: "Whole Foods", Amount: -94.17, Category: "Groceries"},
		{Date: monthStart.AddDate(0, 0, 10), Name: "Shell", Amount: -52.30, Category: "Transport"},
		{Date: monthStart.AddDate(0, 0, 8), Name: "Acme Corp Payroll", Amount: 3600, Category: "Salary"},
		{Date: monthStart.AddDate(0, 0, 5), Name: "City Electric", Amount: -142.88, Category: "Utilities"},
		{Date: monthStart.AddDate(0, 0, 2), Name: "Rent", Amount: -2100, Category: "Housing"},
	})
	return store
}
