package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/vorrawut/poon-sub000/internal/domain"
	"github.com/vorrawut/poon-sub000/internal/store"
	"github.com/vorrawut/poon-sub000/internal/usecase/networth"
	"github.com/vorrawut/poon-sub000/internal/usecase/spending"
	"github.com/vorrawut/poon-sub000/internal/usecase/valuation"
)

// CascadePolicy decides what happens to transactions and assets when their account is removed
type CascadePolicy string

const (
	// CascadeOrphan leaves dependent records in place
	CascadeOrphan CascadePolicy = "orphan"
	// CascadeDelete removes the account's transactions and assets as well
	CascadeDelete CascadePolicy = "cascade"
)

// ParseCascadePolicy converts a config value into a CascadePolicy; empty means orphan
func ParseCascadePolicy(value string) (CascadePolicy, error) {
	switch CascadePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", CascadeOrphan:
		return CascadeOrphan, nil
	case CascadeDelete:
		return CascadeDelete, nil
	default:
		return "", fmt.Errorf("%w: unknown cascade policy %q", domain.ErrInvalidInput, value)
	}
}

// Gateways bundles the external collaborators behind the three stores
type Gateways struct {
	Accounts     domain.AccountGateway
	Transactions domain.TransactionGateway
	Portfolio    domain.PortfolioGateway
}

// SeedData is a complete in-process data set handed to Seed
type SeedData struct {
	Accounts     []domain.Account
	Transactions []domain.Transaction
	Assets       []domain.Asset
	Prices       []domain.PriceData
}

// Snapshot is a consistent read of everything the dashboard shows
type Snapshot struct {
	GeneratedAt       time.Time                  `json:"generated_at"`
	Metrics           domain.DashboardMetrics    `json:"metrics"`
	Accounts          []domain.Account           `json:"accounts"`
	SpendingTrends    []domain.SpendingTrend     `json:"spending_trends"`
	CategoryBreakdown []domain.CategorySpending  `json:"category_breakdown"`
	Portfolios        []domain.Portfolio         `json:"portfolios"`
	Positions         []domain.PortfolioPosition `json:"positions"`
}

// Workspace coordinates the account, transaction and portfolio stores
type Workspace struct {
	Accounts     *store.AccountStore
	Transactions *store.TransactionStore
	Portfolio    *store.PortfolioStore

	policy CascadePolicy
	clock  func() time.Time
	log    zerolog.Logger
}

// NewWorkspace creates a new Workspace instance.
// A nil clock defaults to time.Now.
func NewWorkspace(gateways Gateways, policy CascadePolicy, clock func() time.Time, log zerolog.Logger) *Workspace {
	if clock == nil {
		clock = time.Now
	}
	if policy == "" {
		policy = CascadeOrphan
	}
	return &Workspace{
		Accounts:     store.NewAccountStore(gateways.Accounts, log),
		Transactions: store.NewTransactionStore(gateways.Transactions, clock, log),
		Portfolio:    store.NewPortfolioStore(gateways.Portfolio, log),
		policy:       policy,
		clock:        clock,
		log:          log.With().Str("component", "workspace").Logger(),
	}
}

// Policy returns the configured cascade policy
func (w *Workspace) Policy() CascadePolicy {
	return w.policy
}

// Now returns the workspace clock reading
func (w *Workspace) Now() time.Time {
	return w.clock()
}

// Initialize loads every store from its gateway
// Logic:
//  1. Fetch accounts, transactions and assets (first failure aborts)
//  2. Refresh prices for every held symbol (failure is logged, not returned)
func (w *Workspace) Initialize(ctx context.Context) error {
	if err := w.Accounts.FetchAccounts(ctx); err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	if err := w.Transactions.FetchTransactions(ctx); err != nil {
		return fmt.Errorf("failed to fetch transactions: %w", err)
	}
	if err := w.Portfolio.FetchAssets(ctx); err != nil {
		return fmt.Errorf("failed to fetch assets: %w", err)
	}

	_ = w.Portfolio.RefreshPrices(ctx, w.Portfolio.Symbols())

	state := w.Accounts.State()
	w.log.Info().
		Int("accounts", len(state.Accounts)).
		Int("transactions", len(w.Transactions.State().Transactions)).
		Int("assets", len(w.Portfolio.State().Assets)).
		Msg("Workspace initialized")
	return nil
}

// Seed replaces every store's collection with data and applies its quotes
func (w *Workspace) Seed(data SeedData) {
	w.Accounts.SetAccounts(data.Accounts)
	w.Transactions.SetTransactions(data.Transactions)
	w.Portfolio.SetAssets(data.Assets)
	for _, quote := range data.Prices {
		w.Portfolio.UpdatePriceData(quote.Symbol, quote)
	}
}

// DashboardMetrics merges the account metrics with the cashflow of now's calendar month
func (w *Workspace) DashboardMetrics(now time.Time) domain.DashboardMetrics {
	return MergeMonthlyCashflow(w.Accounts.State().Metrics, w.Transactions.State().Transactions, now)
}

// Snapshot reads all three stores at now
func (w *Workspace) Snapshot(now time.Time) Snapshot {
	accounts := w.Accounts.State()
	transactions := w.Transactions.State()
	portfolio := w.Portfolio.State()

	return Snapshot{
		GeneratedAt:       now,
		Metrics:           w.DashboardMetrics(now),
		Accounts:          accounts.Accounts,
		SpendingTrends:    transactions.SpendingTrends,
		CategoryBreakdown: transactions.CategoryBreakdown,
		Portfolios:        portfolio.Portfolios,
		Positions:         portfolio.Positions,
	}
}

// RemoveAccount deletes an account and applies the cascade policy to its dependents
func (w *Workspace) RemoveAccount(id string) error {
	if !w.hasAccount(id) {
		return fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}

	w.Accounts.DeleteAccount(id)
	if w.policy != CascadeDelete {
		return nil
	}

	removedTransactions := 0
	for _, tx := range w.Transactions.State().Transactions {
		if tx.AccountID == id {
			w.Transactions.DeleteTransaction(tx.ID)
			removedTransactions++
		}
	}

	removedAssets := 0
	for _, asset := range w.Portfolio.State().Assets {
		if asset.AccountID == id {
			w.Portfolio.DeleteAsset(asset.ID)
			removedAssets++
		}
	}

	w.log.Info().
		Str("account_id", id).
		Int("transactions", removedTransactions).
		Int("assets", removedAssets).
		Msg("Account removed with dependents")
	return nil
}

// UpdatePrice applies a manual quote for symbol
func (w *Workspace) UpdatePrice(symbol string, price decimal.Decimal) (domain.PriceData, error) {
	symbol = valuation.NormalizeSymbol(symbol)
	if symbol == "" {
		return domain.PriceData{}, fmt.Errorf("%w: symbol cannot be empty", domain.ErrInvalidInput)
	}
	if price.IsNegative() {
		return domain.PriceData{}, fmt.Errorf("%w: price must be positive", domain.ErrInvalidInput)
	}

	quote := domain.PriceData{
		Symbol: symbol,
		Date:   domain.Day(w.clock()),
		Open:   price,
		High:   price,
		Low:    price,
		Close:  price,
		Source: "manual",
	}
	w.Portfolio.UpdatePriceData(symbol, quote)
	return quote, nil
}

// ComputeMetrics derives the full dashboard snapshot from raw collections
func ComputeMetrics(accounts []domain.Account, transactions []domain.Transaction, now time.Time) domain.DashboardMetrics {
	return MergeMonthlyCashflow(networth.CalculateMetrics(accounts), transactions, now)
}

// MergeMonthlyCashflow fills the transaction-driven fields of metrics
// Logic:
//   - MonthlyIncome / MonthlyExpenses: credits / debits posted in now's month, ignoring user filters
//   - SavingsRate: (income - expenses) / income x 100, 0 when income is 0
//   - NetWorthChange: this month's net; percent relative to the net worth before it
func MergeMonthlyCashflow(metrics domain.DashboardMetrics, transactions []domain.Transaction, now time.Time) domain.DashboardMetrics {
	month := spending.ApplyFilters(transactions, spending.DefaultFilters(now))
	income, expenses := decimal.Zero, decimal.Zero
	for _, trend := range spending.CalculateSpendingTrends(month) {
		income = income.Add(trend.Income)
		expenses = expenses.Add(trend.Expenses)
	}

	net := income.Sub(expenses)
	metrics.MonthlyIncome = income
	metrics.MonthlyExpenses = expenses
	metrics.SavingsRate = domain.Percent(net, income)
	metrics.NetWorthChange = net
	metrics.NetWorthChangePercent = domain.Percent(net, metrics.TotalNetWorth.Sub(net))
	return metrics
}

func (w *Workspace) hasAccount(id string) bool {
	for _, account := range w.Accounts.State().Accounts {
		if account.ID == id {
			return true
		}
	}
	return false
}
