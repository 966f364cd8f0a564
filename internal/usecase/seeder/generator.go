package seeder

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vorrawut/poon-sub000/internal/domain"
	"github.com/vorrawut/poon-sub000/internal/usecase/dashboard"
)

// Fixed identities for generated data (stable across runs)
var (
	DEMO_USER_ID   = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	DEMO_NAMESPACE = uuid.MustParse("6f6f6e70-0000-4000-8000-000000000000")
)

// DefaultMonths is the history length used when Options.Months is zero
const DefaultMonths = 6

// accountTemplate defines the structure for an account to be generated
type accountTemplate struct {
	Name     string
	Type     domain.AccountType
	Provider domain.Provider
	Balance  int64
}

var accountTemplates = []accountTemplate{
	{Name: "Everyday Checking", Type: domain.AccountTypeChecking, Provider: domain.ProviderPlaid, Balance: 4200},
	{Name: "High-Yield Savings", Type: domain.AccountTypeSavings, Provider: domain.ProviderPlaid, Balance: 15800},
	{Name: "Brokerage", Type: domain.AccountTypeInvestment, Provider: domain.ProviderManual, Balance: 24500},
	{Name: "Rewards Credit Card", Type: domain.AccountTypeChecking, Provider: domain.ProviderSaltEdge, Balance: -1250},
	{Name: "Provident Fund", Type: domain.AccountTypeProvidentFund, Provider: domain.ProviderManual, Balance: 32000},
	{Name: "Life Insurance", Type: domain.AccountTypeInsurance, Provider: domain.ProviderManual, Balance: 8000},
	{Name: "Studio LLC", Type: domain.AccountTypeCompany, Provider: domain.ProviderCSV, Balance: 5600},
}

// spendTemplate is one kind of everyday expense
type spendTemplate struct {
	Category    string
	Subcategory string
	Merchants   []string
	Min, Max    int64
}

var spendTemplates = []spendTemplate{
	{"Food", "Groceries", []string{"Whole Foods", "Trader Joe's", "Costco"}, 35, 180},
	{"Food", "Restaurants", []string{"Chipotle", "Sushi Bar", "Pizza Place"}, 15, 90},
	{"Food", "Coffee", []string{"Starbucks", "Blue Bottle"}, 4, 12},
	{"Transport", "Fuel", []string{"Shell", "Chevron"}, 30, 70},
	{"Transport", "Rideshare", []string{"Uber", "Lyft"}, 9, 45},
	{"Shopping", "Clothing", []string{"Uniqlo", "Zara"}, 25, 160},
	{"Shopping", "Electronics", []string{"Best Buy", "Apple Store"}, 40, 600},
	{"Entertainment", "Streaming", []string{"Netflix", "Spotify"}, 10, 20},
	{"Entertainment", "Movies", []string{"AMC"}, 12, 40},
	{"Health", "Pharmacy", []string{"CVS", "Walgreens"}, 8, 60},
	{"Health", "", []string{"Gym Membership"}, 30, 60},
}

// holdingTemplate defines the structure for an asset to be generated
type holdingTemplate struct {
	Symbol   string
	Name     string
	Type     domain.AssetType
	Quantity string
	AvgPrice string
}

var holdingTemplates = []holdingTemplate{
	{"AAPL", "Apple Inc.", domain.AssetTypeStock, "25", "150"},
	{"MSFT", "Microsoft Corporation", domain.AssetTypeStock, "12", "310"},
	{"NVDA", "NVIDIA Corporation", domain.AssetTypeStock, "8", "420"},
	{"VTI", "Vanguard Total Stock Market ETF", domain.AssetTypeETF, "30", "210"},
	{"BND", "Vanguard Total Bond Market ETF", domain.AssetTypeBond, "40", "72"},
	{"BTC", "Bitcoin", domain.AssetTypeCrypto, "0.15", "38000"},
}

// Options controls generation
type Options struct {
	Seed   uint64
	Months int
	Now    time.Time
}

// Generator produces a deterministic synthetic data set.
// It is not safe for concurrent use.
type Generator struct {
	rng    *rand.Rand
	months int
	now    time.Time
}

// NewGenerator creates a new Generator instance
func NewGenerator(opts Options) *Generator {
	months := opts.Months
	if months <= 0 {
		months = DefaultMonths
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	return &Generator{
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		months: months,
		now:    now.UTC(),
	}
}

// Generate builds accounts, transactions, holdings and one quote per held symbol
// Logic:
//  1. One account per template, balance jittered by +-10%
//  2. Per month: salary credit on the 1st, rent debit on the 3rd, 18-30 everyday debits
//     (the current month stops at today)
//  3. Holdings all live in the investment account
//  4. Quotes priced between -15% and +35% of the average cost
func (g *Generator) Generate() dashboard.SeedData {
	accounts := g.accounts()
	checking := accounts[0].ID
	brokerage := accounts[2].ID

	assets := g.assets(brokerage)
	return dashboard.SeedData{
		Accounts:     accounts,
		Transactions: g.transactions(checking),
		Assets:       assets,
		Prices:       g.quotes(assets),
	}
}

// NextQuote moves a quote one step along a bounded random walk (at most +-3% per step)
func (g *Generator) NextQuote(prev domain.PriceData, at time.Time) domain.PriceData {
	drift := decimal.NewFromFloat(g.rng.Float64()*0.06 - 0.03).Round(4)
	next := prev.Close.Mul(decimal.NewFromInt(1).Add(drift)).Round(2)
	if next.IsNegative() {
		next = decimal.Zero
	}

	return domain.PriceData{
		Symbol: prev.Symbol,
		Date:   domain.Day(at),
		Open:   prev.Close,
		High:   decimal.Max(prev.Close, next),
		Low:    decimal.Min(prev.Close, next),
		Close:  next,
		Volume: volume(g.rng),
		Source: "mock",
	}
}

// Jitter scales v by a random factor within +-spread (0.1 = 10%), rounded to cents
func (g *Generator) Jitter(v decimal.Decimal, spread float64) decimal.Decimal {
	factor := decimal.NewFromFloat(1 - spread + g.rng.Float64()*2*spread).Round(4)
	return v.Mul(factor).Round(2)
}

func (g *Generator) accounts() []domain.Account {
	syncedAt := g.now.Add(-2 * time.Hour)
	accounts := make([]domain.Account, 0, len(accountTemplates))
	for i, tmpl := range accountTemplates {
		account := domain.Account{
			ID:             ID("account", i),
			UserID:         DEMO_USER_ID.String(),
			Provider:       tmpl.Provider,
			Type:           tmpl.Type,
			Name:           tmpl.Name,
			Currency:       "USD",
			CurrentBalance: g.Jitter(decimal.NewFromInt(tmpl.Balance), 0.1),
			IsActive:       true,
			CreatedAt:      g.monthStart(g.months),
		}
		if tmpl.Provider == domain.ProviderPlaid || tmpl.Provider == domain.ProviderSaltEdge {
			at := syncedAt
			account.LastSyncAt = &at
			account.Metadata = map[string]any{"institution": "Demo Bank"}
		}
		accounts = append(accounts, account)
	}
	return accounts
}

func (g *Generator) transactions(accountID string) []domain.Transaction {
	transactions := make([]domain.Transaction, 0, g.months*32)
	today := domain.Day(g.now)
	n := 0

	next := func(posted time.Time, amount decimal.Decimal, kind domain.EntryType, category, subcategory, merchant string) {
		transactions = append(transactions, domain.Transaction{
			ID:           ID("transaction", n),
			UserID:       DEMO_USER_ID.String(),
			AccountID:    accountID,
			PostedAt:     posted,
			Amount:       amount,
			Type:         kind,
			Category:     category,
			Subcategory:  subcategory,
			Merchant:     merchant,
			Description:  merchant,
			ImportSource: domain.ImportSourcePlaid,
		})
		n++
	}

	for m := g.months - 1; m >= 0; m-- {
		start := g.monthStart(m)
		last := start.AddDate(0, 1, -1)
		if last.After(today) {
			last = today
		}

		next(start, decimal.NewFromInt(5200), domain.EntryTypeCredit, "Income", "Salary", "Employer Payroll")
		if rent := start.AddDate(0, 0, 2); !rent.After(last) {
			next(rent, decimal.NewFromInt(1800), domain.EntryTypeDebit, "Housing", "Rent", "Property Management")
		}

		days := last.Day()
		count := 18 + g.rng.IntN(13)
		for i := 0; i < count; i++ {
			tmpl := spendTemplates[g.rng.IntN(len(spendTemplates))]
			posted := start.AddDate(0, 0, g.rng.IntN(days))
			cents := tmpl.Min*100 + g.rng.Int64N((tmpl.Max-tmpl.Min)*100+1)
			merchant := tmpl.Merchants[g.rng.IntN(len(tmpl.Merchants))]
			next(posted, decimal.New(cents, -2), domain.EntryTypeDebit, tmpl.Category, tmpl.Subcategory, merchant)
		}
	}
	return transactions
}

func (g *Generator) assets(accountID string) []domain.Asset {
	assets := make([]domain.Asset, 0, len(holdingTemplates))
	for i, tmpl := range holdingTemplates {
		assets = append(assets, domain.Asset{
			ID:        ID("asset", i),
			UserID:    DEMO_USER_ID.String(),
			AccountID: accountID,
			AssetType: tmpl.Type,
			Symbol:    tmpl.Symbol,
			Name:      tmpl.Name,
			Quantity:  decimal.RequireFromString(tmpl.Quantity),
			AvgPrice:  decimal.RequireFromString(tmpl.AvgPrice),
			CreatedAt: g.monthStart(g.months),
		})
	}
	return assets
}

func (g *Generator) quotes(assets []domain.Asset) []domain.PriceData {
	quotes := make([]domain.PriceData, 0, len(assets))
	for _, asset := range assets {
		factor := decimal.NewFromFloat(0.85 + g.rng.Float64()*0.5).Round(4)
		price := asset.AvgPrice.Mul(factor).Round(2)
		quotes = append(quotes, domain.PriceData{
			Symbol: asset.Symbol,
			Date:   domain.Day(g.now),
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: volume(g.rng),
			Source: "mock",
		})
	}
	return quotes
}

// monthStart returns the first day of the month offset months before now
func (g *Generator) monthStart(offset int) time.Time {
	y, m, _ := g.now.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -offset, 0)
}

// ID returns the deterministic id of the n-th generated entity of kind
func ID(kind string, n int) string {
	return uuid.NewSHA1(DEMO_NAMESPACE, []byte(fmt.Sprintf("%s/%d", kind, n))).String()
}

func volume(rng *rand.Rand) *decimal.Decimal {
	v := decimal.NewFromInt(100_000 + rng.Int64N(5_000_000))
	return &v
}
