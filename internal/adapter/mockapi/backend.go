package mockapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vorrawut/poon-sub000/internal/domain"
	"github.com/vorrawut/poon-sub000/internal/usecase/dashboard"
	"github.com/vorrawut/poon-sub000/internal/usecase/seeder"
	"github.com/vorrawut/poon-sub000/internal/usecase/valuation"
)

var (
	_ domain.AccountGateway     = (*Backend)(nil)
	_ domain.TransactionGateway = (*Backend)(nil)
	_ domain.PortfolioGateway   = (*Backend)(nil)
)

// Backend is the in-memory server of record behind the mock API.
// It implements the three gateways directly, so it can also feed a workspace in-process.
type Backend struct {
	mu           sync.RWMutex
	userID       string
	accounts     []domain.Account
	transactions []domain.Transaction
	assets       []domain.Asset
	prices       map[string]domain.PriceData

	generator *seeder.Generator
	clock     func() time.Time
}

// NewBackend creates a backend holding data.
// A nil clock defaults to time.Now.
func NewBackend(data dashboard.SeedData, generator *seeder.Generator, clock func() time.Time) *Backend {
	if clock == nil {
		clock = time.Now
	}
	prices := make(map[string]domain.PriceData, len(data.Prices))
	for _, quote := range data.Prices {
		symbol := valuation.NormalizeSymbol(quote.Symbol)
		quote.Symbol = symbol
		prices[symbol] = quote
	}
	return &Backend{
		userID:       seeder.DEMO_USER_ID.String(),
		accounts:     append([]domain.Account{}, data.Accounts...),
		transactions: append([]domain.Transaction{}, data.Transactions...),
		assets:       append([]domain.Asset{}, data.Assets...),
		prices:       prices,
		generator:    generator,
		clock:        clock,
	}
}

// ListAccounts returns every account
func (b *Backend) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]domain.Account{}, b.accounts...), nil
}

// SyncAccount stamps the account as synced; aggregator balances drift by up to 2%
func (b *Backend) SyncAccount(ctx context.Context, id string) (*domain.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.accounts {
		if b.accounts[i].ID != id {
			continue
		}
		now := b.clock().UTC()
		b.accounts[i].LastSyncAt = &now
		if b.accounts[i].Provider == domain.ProviderPlaid || b.accounts[i].Provider == domain.ProviderSaltEdge {
			b.accounts[i].CurrentBalance = b.generator.Jitter(b.accounts[i].CurrentBalance, 0.02)
		}
		account := b.accounts[i]
		return &account, nil
	}
	return nil, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
}

// LinkBankAccount simulates the aggregator flow by opening a checking and a savings account
func (b *Backend) LinkBankAccount(ctx context.Context, req domain.LinkRequest) ([]domain.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clock().UTC()
	templates := []struct {
		kind    domain.AccountType
		name    string
		balance int64
	}{
		{domain.AccountTypeChecking, "Checking", 2500},
		{domain.AccountTypeSavings, "Savings", 9000},
	}

	linked := make([]domain.Account, 0, len(templates))
	for _, tmpl := range templates {
		synced := now
		account := domain.Account{
			ID:             uuid.NewString(),
			UserID:         b.userID,
			Provider:       req.Provider,
			Type:           tmpl.kind,
			Name:           req.InstitutionID + " " + tmpl.name,
			Currency:       "USD",
			CurrentBalance: b.generator.Jitter(decimal.NewFromInt(tmpl.balance), 0.25),
			IsActive:       true,
			LastSyncAt:     &synced,
			Metadata:       map[string]any{"institution_id": req.InstitutionID},
			CreatedAt:      now,
		}
		linked = append(linked, account)
	}

	b.accounts = append(b.accounts, linked...)
	return append([]domain.Account{}, linked...), nil
}

// ListTransactions returns every transaction
func (b *Backend) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]domain.Transaction{}, b.transactions...), nil
}

// ImportTransactions stores new transactions for one account
// Logic:
//  1. The target account must exist
//  2. Each row gets the request's account and source; missing ids are generated
//  3. A row matching an existing one (same account, day, amount, type and description) counts as duplicate and is skipped
//  4. Any invalid row rejects the whole import
func (b *Backend) ImportTransactions(ctx context.Context, req domain.ImportRequest) (*domain.ImportResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.hasAccount(req.AccountID) {
		return nil, fmt.Errorf("account %s: %w", req.AccountID, domain.ErrNotFound)
	}

	source := req.Source
	if source == "" {
		source = domain.ImportSourceCSV
	}

	seen := make(map[string]bool, len(b.transactions))
	for _, tx := range b.transactions {
		seen[dedupeKey(tx)] = true
	}

	accepted := make([]domain.Transaction, 0, len(req.Transactions))
	result := &domain.ImportResult{}
	for _, tx := range req.Transactions {
		if tx.ID == "" {
			tx.ID = uuid.NewString()
		}
		tx.AccountID = req.AccountID
		tx.ImportSource = source
		if tx.UserID == "" {
			tx.UserID = b.userID
		}
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}

		key := dedupeKey(tx)
		if seen[key] {
			result.Duplicates++
			continue
		}
		seen[key] = true
		accepted = append(accepted, tx)
	}

	b.transactions = append(b.transactions, accepted...)
	result.Imported = len(accepted)
	return result, nil
}

// ListAssets returns every holding
func (b *Backend) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]domain.Asset{}, b.assets...), nil
}

// FetchPrices advances each requested symbol one random-walk step.
// Symbols never quoted before start from the average cost of a holding, or 100.
func (b *Backend) FetchPrices(ctx context.Context, symbols []string) ([]domain.PriceData, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clock()
	quotes := make([]domain.PriceData, 0, len(symbols))
	for _, raw := range symbols {
		symbol := valuation.NormalizeSymbol(raw)
		if symbol == "" {
			continue
		}

		prev, ok := b.prices[symbol]
		if !ok {
			prev = domain.PriceData{Symbol: symbol, Close: b.startingPrice(symbol)}
		}
		quote := b.generator.NextQuote(prev, now)
		b.prices[symbol] = quote
		quotes = append(quotes, quote)
	}
	return quotes, nil
}

// CreateAsset records a new holding in the portfolio of an existing account
func (b *Backend) CreateAsset(ctx context.Context, req domain.HoldingRequest) (*domain.Asset, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.hasAccount(req.PortfolioID) {
		return nil, fmt.Errorf("portfolio %s: %w", req.PortfolioID, domain.ErrNotFound)
	}

	symbol := valuation.NormalizeSymbol(req.Symbol)
	asset := domain.Asset{
		ID:        uuid.NewString(),
		UserID:    b.userID,
		AccountID: req.PortfolioID,
		AssetType: domain.AssetTypeStock,
		Symbol:    symbol,
		Name:      symbol,
		Quantity:  req.Quantity,
		AvgPrice:  req.Price,
		CreatedAt: b.clock().UTC(),
	}
	b.assets = append(b.assets, asset)
	return &asset, nil
}

// Portfolios derives portfolios and positions from the stored holdings and quotes
func (b *Backend) Portfolios() valuation.Result {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return valuation.Derive(b.assets, b.prices)
}

// Metrics computes the dashboard metrics at the backend clock
func (b *Backend) Metrics() domain.DashboardMetrics {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return dashboard.ComputeMetrics(b.accounts, b.transactions, b.clock())
}

func (b *Backend) hasAccount(id string) bool {
	for _, account := range b.accounts {
		if account.ID == id {
			return true
		}
	}
	return false
}

// startingPrice must be called with the lock held
func (b *Backend) startingPrice(symbol string) decimal.Decimal {
	for _, asset := range b.assets {
		if valuation.NormalizeSymbol(asset.Symbol) == symbol && asset.AvgPrice.IsPositive() {
			return asset.AvgPrice
		}
	}
	return decimal.NewFromInt(100)
}

func dedupeKey(tx domain.Transaction) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s", tx.AccountID, domain.Day(tx.PostedAt).Format("2006-01-02"), tx.Amount.String(), tx.Type, tx.Description)
}
