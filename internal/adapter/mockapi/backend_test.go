package mockapi

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vorrawut/poon-sub000/internal/domain"
	"github.com/vorrawut/poon-sub000/internal/usecase/seeder"
)

var now = time.Date(2024, time.March, 20, 15, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func newBackend(t *testing.T) *Backend {
	t.Helper()
	generator := seeder.NewGenerator(seeder.Options{Seed: 42, Months: 3, Now: now})
	return NewBackend(generator.Generate(), generator, clock)
}

func TestBackend_SyncAccount(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	accounts, err := b.ListAccounts(ctx)
	require.NoError(t, err)

	synced, err := b.SyncAccount(ctx, accounts[0].ID)

	require.NoError(t, err)
	require.NotNil(t, synced.LastSyncAt)
	assert.True(t, now.Equal(*synced.LastSyncAt))
}

func TestBackend_SyncAccountNotFound(t *testing.T) {
	_, err := newBackend(t).SyncAccount(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBackend_LinkBankAccount(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	before, _ := b.ListAccounts(ctx)

	linked, err := b.LinkBankAccount(ctx, domain.LinkRequest{Provider: domain.ProviderSaltEdge, InstitutionID: "ins_9"})

	require.NoError(t, err)
	require.Len(t, linked, 2)
	for _, account := range linked {
		assert.Equal(t, domain.ProviderSaltEdge, account.Provider)
		assert.NoError(t, account.Validate())
		assert.Equal(t, "ins_9", account.Metadata["institution_id"])
	}
	after, _ := b.ListAccounts(ctx)
	assert.Len(t, after, len(before)+2)
}

func TestBackend_LinkBankAccountRejectsManualProvider(t *testing.T) {
	_, err := newBackend(t).LinkBankAccount(context.Background(), domain.LinkRequest{Provider: domain.ProviderManual, InstitutionID: "x"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBackend_ImportTransactionsSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	accounts, _ := b.ListAccounts(ctx)
	row := domain.Transaction{
		PostedAt:    time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromFloat(42.5),
		Type:        domain.EntryTypeDebit,
		Category:    "Food",
		Description: "Farmers market",
	}

	result, err := b.ImportTransactions(ctx, domain.ImportRequest{
		AccountID:    accounts[1].ID,
		Source:       domain.ImportSourceCSV,
		Transactions: []domain.Transaction{row, row},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Duplicates)

	again, err := b.ImportTransactions(ctx, domain.ImportRequest{AccountID: accounts[1].ID, Transactions: []domain.Transaction{row}})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Imported)
	assert.Equal(t, 1, again.Duplicates)
}

func TestBackend_ImportTransactionsValidates(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	accounts, _ := b.ListAccounts(ctx)

	_, err := b.ImportTransactions(ctx, domain.ImportRequest{AccountID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = b.ImportTransactions(ctx, domain.ImportRequest{
		AccountID:    accounts[0].ID,
		Transactions: []domain.Transaction{{Amount: decimal.NewFromInt(-5), Type: domain.EntryTypeDebit, PostedAt: now}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBackend_FetchPricesWalksFromLastQuote(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)

	first, err := b.FetchPrices(ctx, []string{"aapl", "ZZZZ", " "})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "AAPL", first[0].Symbol)
	assert.Equal(t, "ZZZZ", first[1].Symbol)
	assert.True(t, first[1].Open.Equal(decimal.NewFromInt(100)))

	second, err := b.FetchPrices(ctx, []string{"AAPL"})
	require.NoError(t, err)
	assert.True(t, second[0].Open.Equal(first[0].Close))
}

func TestBackend_CreateAsset(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	accounts, _ := b.ListAccounts(ctx)

	asset, err := b.CreateAsset(ctx, domain.HoldingRequest{
		PortfolioID: accounts[2].ID,
		Symbol:      "amzn",
		Quantity:    decimal.NewFromInt(4),
		Price:       decimal.NewFromInt(180),
	})

	require.NoError(t, err)
	assert.Equal(t, "AMZN", asset.Symbol)
	assert.NoError(t, asset.Validate())

	_, err = b.CreateAsset(ctx, domain.HoldingRequest{PortfolioID: "missing", Symbol: "X", Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = b.CreateAsset(ctx, domain.HoldingRequest{PortfolioID: accounts[2].ID, Symbol: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBackend_PortfoliosAndMetrics(t *testing.T) {
	b := newBackend(t)

	result := b.Portfolios()
	require.Len(t, result.Portfolios, 1)
	assert.NotEmpty(t, result.Positions)

	metrics := b.Metrics()
	assert.True(t, metrics.MonthlyIncome.Equal(decimal.NewFromInt(5200)))
	assert.True(t, metrics.TotalLiabilities.IsPositive())
}
