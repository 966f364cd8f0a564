package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vorrawut/poon-sub000/internal/adapter/mockapi"
	"github.com/vorrawut/poon-sub000/internal/domain"
	"github.com/vorrawut/poon-sub000/internal/usecase/seeder"
)

var now = time.Date(2024, time.March, 20, 15, 0, 0, 0, time.UTC)

func newMockServer(t *testing.T) *httptest.Server {
	t.Helper()
	generator := seeder.NewGenerator(seeder.Options{Seed: 42, Months: 2, Now: now})
	backend := mockapi.NewBackend(generator.Generate(), generator, func() time.Time { return now })
	server := httptest.NewServer(mockapi.NewServer(backend, 0, zerolog.Nop()))
	t.Cleanup(server.Close)
	return server
}

func TestClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	server := newMockServer(t)
	client := New(server.URL, nil, zerolog.Nop())

	accounts, err := client.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 7)
	assert.False(t, accounts[0].CurrentBalance.IsZero())

	synced, err := client.SyncAccount(ctx, accounts[0].ID)
	require.NoError(t, err)
	assert.NotNil(t, synced.LastSyncAt)

	transactions, err := client.ListTransactions(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, transactions)

	assets, err := client.ListAssets(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, assets)

	quotes, err := client.FetchPrices(ctx, []string{assets[0].Symbol, "msft"})
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "MSFT", quotes[1].Symbol)

	view, err := client.ListPortfolios(ctx)
	require.NoError(t, err)
	assert.Len(t, view.Portfolios, 1)

	metrics, err := client.DashboardMetrics(ctx)
	require.NoError(t, err)
	assert.True(t, metrics.MonthlyIncome.Equal(decimal.NewFromInt(5200)))
}

func TestClient_LinkImportAndCreate(t *testing.T) {
	ctx := context.Background()
	client := New(newMockServer(t).URL, nil, zerolog.Nop())

	linked, err := client.LinkBankAccount(ctx, domain.LinkRequest{Provider: domain.ProviderPlaid, InstitutionID: "ins_3"})
	require.NoError(t, err)
	require.Len(t, linked, 2)

	result, err := client.ImportTransactions(ctx, domain.ImportRequest{
		AccountID: linked[0].ID,
		Source:    domain.ImportSourceCSV,
		Transactions: []domain.Transaction{{
			PostedAt:    time.Date(2024, 3, 19, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString("18.75"),
			Type:        domain.EntryTypeDebit,
			Category:    "Food",
			Description: "Bakery",
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	asset, err := client.CreateAsset(ctx, domain.HoldingRequest{
		PortfolioID: linked[0].ID,
		Symbol:      "tsla",
		Quantity:    decimal.NewFromInt(2),
		Price:       decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	assert.Equal(t, "TSLA", asset.Symbol)
	assert.True(t, decimal.NewFromInt(200).Equal(asset.AvgPrice))
}

func TestClient_ErrorEnvelope(t *testing.T) {
	client := New(newMockServer(t).URL, nil, zerolog.Nop())

	_, err := client.SyncAccount(context.Background(), "missing")

	require.Error(t, err)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Contains(t, apiErr.Message, "not found")
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_SuccessFalseWithOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mockapi.WriteJSON(w, http.StatusOK, mockapi.Envelope{Success: false, Message: "Provider unavailable"})
	}))
	defer server.Close()

	_, err := New(server.URL, nil, zerolog.Nop()).ListAccounts(context.Background())

	require.Error(t, err)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Provider unavailable", apiErr.Message)
}

func TestClient_NonJSONErrorUsesFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := New(server.URL, nil, zerolog.Nop()).ListAssets(context.Background())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "request failed: GET /api/assets", apiErr.Message)
}

func TestClient_TransportFailure(t *testing.T) {
	server := newMockServer(t)
	client := New(server.URL, nil, zerolog.Nop())
	server.Close()

	_, err := client.ListTransactions(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to call GET /api/transactions")
}
