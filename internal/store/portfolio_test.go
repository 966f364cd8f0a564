package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vorrawut/poon-sub000/internal/domain"
)

func asset(id, accountID, symbol string, quantity, avgPrice int64) domain.Asset {
	return domain.Asset{
		ID:        id,
		UserID:    "user-1",
		AccountID: accountID,
		AssetType: domain.AssetTypeStock,
		Symbol:    symbol,
		Name:      symbol + " Inc.",
		Quantity:  decimal.NewFromInt(quantity),
		AvgPrice:  decimal.NewFromInt(avgPrice),
	}
}

func quote(symbol string, close int64) domain.PriceData {
	return domain.PriceData{
		Symbol: symbol,
		Date:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Close:  decimal.NewFromInt(close),
		Source: "test",
	}
}

func TestReducePortfolio_SetAssetsDerivesPortfolios(t *testing.T) {
	state := ReducePortfolio(NewPortfolioState(), SetAssets{Assets: []domain.Asset{
		asset("x1", "acc-1", "AAPL", 10, 100),
		asset("x2", "acc-2", "MSFT", 5, 200),
	}})

	require.Len(t, state.Portfolios, 2)
	assert.Equal(t, "acc-1", state.Portfolios[0].ID)
	assert.True(t, decimal.NewFromInt(1000).Equal(state.Portfolios[0].TotalValue))
	assert.Len(t, state.Positions, 2)
}

func TestReducePortfolio_UpdatePriceDataScenario(t *testing.T) {
	state := ReducePortfolio(NewPortfolioState(), SetAssets{Assets: []domain.Asset{asset("x1", "acc-1", "AAPL", 10, 100)}})

	state = ReducePortfolio(state, UpdatePriceData{Symbol: "aapl", Price: quote("AAPL", 120)})

	require.Len(t, state.Assets, 1)
	a := state.Assets[0]
	require.NotNil(t, a.CurrentPrice)
	assert.True(t, decimal.NewFromInt(120).Equal(*a.CurrentPrice))
	assert.True(t, decimal.NewFromInt(1200).Equal(*a.MarketValue))
	assert.True(t, decimal.NewFromInt(200).Equal(*a.ChangeAmount))
	assert.True(t, decimal.NewFromInt(20).Equal(*a.ChangePercent))

	require.Len(t, state.Portfolios, 1)
	assert.True(t, decimal.NewFromInt(1200).Equal(state.Portfolios[0].TotalValue))
	assert.True(t, decimal.NewFromInt(200).Equal(state.Portfolios[0].TotalGainLoss))

	require.Len(t, state.Positions, 1)
	assert.True(t, decimal.NewFromInt(100).Equal(state.Positions[0].WeightPercent))

	cached, ok := state.Prices["AAPL"]
	require.True(t, ok)
	assert.Equal(t, "AAPL", cached.Symbol)
}

func TestReducePortfolio_UpdatePriceDataLeavesOtherSymbols(t *testing.T) {
	state := ReducePortfolio(NewPortfolioState(), SetAssets{Assets: []domain.Asset{
		asset("x1", "acc-1", "AAPL", 10, 100),
		asset("x2", "acc-1", "MSFT", 1, 300),
	}})

	state = ReducePortfolio(state, UpdatePriceData{Symbol: "AAPL", Price: quote("AAPL", 90)})

	assert.NotNil(t, state.Assets[0].CurrentPrice)
	assert.Nil(t, state.Assets[1].CurrentPrice)
	assert.True(t, decimal.NewFromInt(1200).Equal(state.Portfolios[0].TotalValue))
}

func TestReducePortfolio_PriceMapIsCopiedOnWrite(t *testing.T) {
	before := NewPortfolioState()
	after := ReducePortfolio(before, UpdatePriceData{Symbol: "BTC", Price: quote("BTC", 40000)})

	assert.Empty(t, before.Prices)
	assert.Len(t, after.Prices, 1)
}

func TestReducePortfolio_NewAssetUsesCachedPrice(t *testing.T) {
	state := ReducePortfolio(NewPortfolioState(), UpdatePriceData{Symbol: "AAPL", Price: quote("AAPL", 150)})

	state = ReducePortfolio(state, AddAsset{Asset: asset("x1", "acc-1", "AAPL", 2, 100)})

	require.Len(t, state.Positions, 1)
	assert.True(t, decimal.NewFromInt(150).Equal(state.Positions[0].CurrentPrice))
	assert.True(t, decimal.NewFromInt(300).Equal(state.Portfolios[0].TotalValue))
}

func TestReducePortfolio_UpdateAndDeleteAsset(t *testing.T) {
	state := ReducePortfolio(NewPortfolioState(), SetAssets{Assets: []domain.Asset{
		asset("x1", "acc-1", "AAPL", 10, 100),
		asset("x2", "acc-2", "MSFT", 5, 200),
	}})

	quantity := decimal.NewFromInt(20)
	state = ReducePortfolio(state, UpdateAsset{ID: "x1", Patch: domain.AssetPatch{Quantity: &quantity}})
	assert.True(t, decimal.NewFromInt(2000).Equal(state.Portfolios[0].TotalValue))

	state = ReducePortfolio(state, DeleteAsset{ID: "x2"})
	assert.Len(t, state.Assets, 1)
	require.Len(t, state.Portfolios, 1, "empty groups disappear")
	assert.Equal(t, "acc-1", state.Portfolios[0].ID)
}

func TestPortfolioStore_Symbols(t *testing.T) {
	s := NewPortfolioStore(new(MockPortfolioGateway), zerolog.Nop())
	s.SetAssets([]domain.Asset{
		asset("x1", "acc-1", "aapl", 1, 1),
		asset("x2", "acc-2", "MSFT", 1, 1),
		asset("x3", "acc-2", "AAPL", 1, 1),
	})

	assert.Equal(t, []string{"AAPL", "MSFT"}, s.Symbols())
}

func TestPortfolioStore_FetchAssets(t *testing.T) {
	ctx := context.Background()
	gateway := new(MockPortfolioGateway)
	gateway.On("ListAssets", ctx).Return([]domain.Asset{asset("x1", "acc-1", "AAPL", 10, 100)}, nil)

	s := NewPortfolioStore(gateway, zerolog.Nop())

	require.NoError(t, s.FetchAssets(ctx))
	assert.Len(t, s.State().Portfolios, 1)
	assert.False(t, s.State().IsLoading)
}

func TestPortfolioStore_FetchAssetsFailure(t *testing.T) {
	ctx := context.Background()
	gateway := new(MockPortfolioGateway)
	gateway.On("ListAssets", ctx).Return(nil, errors.New("unavailable"))

	s := NewPortfolioStore(gateway, zerolog.Nop())

	require.Error(t, s.FetchAssets(ctx))
	assert.Equal(t, "unavailable", s.State().Error)
}

func TestPortfolioStore_RefreshPrices(t *testing.T) {
	ctx := context.Background()
	gateway := new(MockPortfolioGateway)
	gateway.On("FetchPrices", ctx, []string{"AAPL"}).Return([]domain.PriceData{quote("AAPL", 120)}, nil)

	s := NewPortfolioStore(gateway, zerolog.Nop())
	s.SetAssets([]domain.Asset{asset("x1", "acc-1", "AAPL", 10, 100)})

	require.NoError(t, s.RefreshPrices(ctx, []string{"AAPL"}))
	assert.True(t, decimal.NewFromInt(1200).Equal(s.State().Portfolios[0].TotalValue))
}

func TestPortfolioStore_RefreshPricesFailureDoesNotSetError(t *testing.T) {
	ctx := context.Background()
	gateway := new(MockPortfolioGateway)
	gateway.On("FetchPrices", ctx, []string{"AAPL"}).Return(nil, errors.New("quote service down"))

	s := NewPortfolioStore(gateway, zerolog.Nop())

	require.Error(t, s.RefreshPrices(ctx, []string{"AAPL"}))
	assert.Empty(t, s.State().Error)
}

func TestPortfolioStore_RefreshPricesNoSymbols(t *testing.T) {
	gateway := new(MockPortfolioGateway)
	s := NewPortfolioStore(gateway, zerolog.Nop())

	require.NoError(t, s.RefreshPrices(context.Background(), nil))
	gateway.AssertNotCalled(t, "FetchPrices", mock.Anything, mock.Anything)
}

func TestPortfolioStore_AddHolding(t *testing.T) {
	ctx := context.Background()
	created := asset("x9", "acc-1", "NVDA", 3, 400)

	gateway := new(MockPortfolioGateway)
	gateway.On("CreateAsset", ctx, mock.MatchedBy(func(req domain.HoldingRequest) bool {
		return req.PortfolioID == "acc-1" && req.Symbol == "NVDA"
	})).Return(&created, nil)
	gateway.On("FetchPrices", ctx, []string{"NVDA"}).Return([]domain.PriceData{quote("NVDA", 500)}, nil)

	s := NewPortfolioStore(gateway, zerolog.Nop())

	result, err := s.AddHolding(ctx, "acc-1", " nvda ", decimal.NewFromInt(3), decimal.NewFromInt(400))

	require.NoError(t, err)
	assert.Equal(t, "x9", result.ID)
	state := s.State()
	require.Len(t, state.Assets, 1)
	assert.True(t, decimal.NewFromInt(1500).Equal(state.Portfolios[0].TotalValue))
	gateway.AssertExpectations(t)
}

func TestPortfolioStore_AddHoldingRejectsInvalidRequest(t *testing.T) {
	gateway := new(MockPortfolioGateway)
	s := NewPortfolioStore(gateway, zerolog.Nop())

	_, err := s.AddHolding(context.Background(), "acc-1", "AAPL", decimal.Zero, decimal.NewFromInt(10))

	require.Error(t, err)
	assert.Equal(t, "quantity must be positive", s.State().Error)
	gateway.AssertNotCalled(t, "CreateAsset", mock.Anything, mock.Anything)
}

func TestPortfolioStore_AddHoldingGatewayFailure(t *testing.T) {
	ctx := context.Background()
	gateway := new(MockPortfolioGateway)
	gateway.On("CreateAsset", ctx, mock.Anything).Return(nil, errors.New("rejected"))

	s := NewPortfolioStore(gateway, zerolog.Nop())

	_, err := s.AddHolding(ctx, "acc-1", "AAPL", decimal.NewFromInt(1), decimal.NewFromInt(10))

	require.Error(t, err)
	assert.Equal(t, "rejected", s.State().Error)
	assert.Empty(t, s.State().Assets)
}

func TestReducePortfolio_UpdateAssetRevaluesPricedAsset(t *testing.T) {
	state := ReducePortfolio(NewPortfolioState(), SetAssets{Assets: []domain.Asset{
		asset("x1", "acc-1", "AAPL", 10, 100),
		asset("x2", "acc-1", "MSFT", 5, 200),
	}})
	state = ReducePortfolio(state, UpdatePriceData{Symbol: "AAPL", Price: quote("AAPL", 120)})

	quantity := decimal.NewFromInt(20)
	state = ReducePortfolio(state, UpdateAsset{ID: "x1", Patch: domain.AssetPatch{Quantity: &quantity}})

	a := state.Assets[0]
	require.NotNil(t, a.MarketValue)
	assert.True(t, decimal.NewFromInt(2400).Equal(*a.MarketValue))
	assert.True(t, decimal.NewFromInt(400).Equal(*a.ChangeAmount))
	assert.True(t, decimal.NewFromInt(20).Equal(*a.ChangePercent))

	require.Len(t, state.Positions, 2)
	assert.Equal(t, "x1", state.Positions[0].AssetID)
	assert.True(t, a.MarketValue.Equal(state.Positions[0].MarketValue), "asset and position agree")

	t.Run("Average price change", func(t *testing.T) {
		avg := decimal.NewFromInt(60)
		next := ReducePortfolio(state, UpdateAsset{ID: "x1", Patch: domain.AssetPatch{AvgPrice: &avg}})
		assert.True(t, decimal.NewFromInt(1200).Equal(*next.Assets[0].ChangeAmount))
		assert.True(t, decimal.NewFromInt(100).Equal(*next.Assets[0].ChangePercent))
	})

	t.Run("Explicit current price", func(t *testing.T) {
		price := decimal.NewFromInt(90)
		next := ReducePortfolio(state, UpdateAsset{ID: "x1", Patch: domain.AssetPatch{CurrentPrice: &price}})
		assert.True(t, decimal.NewFromInt(1800).Equal(*next.Assets[0].MarketValue))
		assert.True(t, decimal.NewFromInt(-200).Equal(*next.Assets[0].ChangeAmount))
	})

	t.Run("Unpriced asset keeps nil valuation", func(t *testing.T) {
		q := decimal.NewFromInt(6)
		next := ReducePortfolio(state, UpdateAsset{ID: "x2", Patch: domain.AssetPatch{Quantity: &q}})
		assert.Nil(t, next.Assets[1].MarketValue)
		assert.Nil(t, next.Assets[1].ChangeAmount)
	})
}

func TestPortfolioStore_StateIsACopy(t *testing.T) {
	s := NewPortfolioStore(new(MockPortfolioGateway), zerolog.Nop())
	s.SetAssets([]domain.Asset{asset("x1", "acc-1", "AAPL", 10, 100)})
	s.UpdatePriceData("AAPL", quote("AAPL", 120))

	state := s.State()
	*state.Assets[0].MarketValue = decimal.NewFromInt(1)
	*state.Assets[0].CurrentPrice = decimal.NewFromInt(1)

	fresh := s.State().Assets[0]
	assert.True(t, decimal.NewFromInt(1200).Equal(*fresh.MarketValue))
	assert.True(t, decimal.NewFromInt(120).Equal(*fresh.CurrentPrice))
}
