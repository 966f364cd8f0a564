package store

import (
	"context"
	"errors"
	"maps"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/vorrawut/poon-sub000/internal/domain"
	"github.com/vorrawut/poon-sub000/internal/usecase/valuation"
)

// PortfolioState is everything the portfolio store holds.
// Portfolios and Positions are always derived from Assets and Prices.
type PortfolioState struct {
	Assets     []domain.Asset
	Portfolios []domain.Portfolio
	Positions  []domain.PortfolioPosition
	Prices     map[string]domain.PriceData
	IsLoading  bool
	Error      string
}

// SetAssets replaces the whole asset collection
type SetAssets struct{ Assets []domain.Asset }

// AddAsset appends one asset
type AddAsset struct{ Asset domain.Asset }

// UpdateAsset merges Patch into the asset with ID; unknown ids are a no-op
type UpdateAsset struct {
	ID    string
	Patch domain.AssetPatch
}

// DeleteAsset removes the asset with ID
type DeleteAsset struct{ ID string }

// UpdatePriceData caches Price under Symbol and revalues every asset holding it
type UpdatePriceData struct {
	Symbol string
	Price  domain.PriceData
}

func (SetAssets) action()       {}
func (AddAsset) action()        {}
func (UpdateAsset) action()     {}
func (DeleteAsset) action()     {}
func (UpdatePriceData) action() {}

// NewPortfolioState returns the empty portfolio state
func NewPortfolioState() PortfolioState {
	return derivePortfolios(PortfolioState{
		Assets: []domain.Asset{},
		Prices: map[string]domain.PriceData{},
	})
}

// ReducePortfolio applies action to state and re-derives portfolios and positions
func ReducePortfolio(state PortfolioState, action Action) PortfolioState {
	switch a := action.(type) {
	case SetAssets:
		state.Assets = append([]domain.Asset{}, a.Assets...)
	case AddAsset:
		state.Assets = append(cloneAssets(state.Assets), a.Asset)
	case UpdateAsset:
		assets := cloneAssets(state.Assets)
		for i := range assets {
			if assets[i].ID == a.ID {
				assets[i] = revalueIfPriced(a.Patch.Apply(assets[i]), state.Prices)
				break
			}
		}
		state.Assets = assets
	case DeleteAsset:
		assets := make([]domain.Asset, 0, len(state.Assets))
		for _, asset := range state.Assets {
			if asset.ID != a.ID {
				assets = append(assets, asset)
			}
		}
		state.Assets = assets
	case UpdatePriceData:
		symbol := valuation.NormalizeSymbol(a.Symbol)
		quote := a.Price
		quote.Symbol = symbol

		prices := maps.Clone(state.Prices)
		if prices == nil {
			prices = map[string]domain.PriceData{}
		}
		prices[symbol] = quote
		state.Prices = prices
		state.Assets = valuation.ApplyPrice(state.Assets, quote)
	case SetLoading:
		state.IsLoading = a.Loading
		if a.Loading {
			state.Error = ""
		}
		return state
	case SetError:
		state.Error = a.Message
		state.IsLoading = false
		return state
	default:
		return state
	}

	return derivePortfolios(state)
}

// revalueIfPriced keeps an asset's derived fields in line with its quantity, cost and price.
// Assets that were never priced keep nil derived fields.
func revalueIfPriced(asset domain.Asset, prices map[string]domain.PriceData) domain.Asset {
	if asset.CurrentPrice == nil && asset.MarketValue == nil {
		return asset
	}
	return valuation.Revalue(asset, valuation.EffectivePrice(asset, prices))
}

// derivePortfolios is the single dependency edge from (assets, prices) to portfolios and positions
func derivePortfolios(state PortfolioState) PortfolioState {
	result := valuation.Derive(state.Assets, state.Prices)
	state.Portfolios = result.Portfolios
	state.Positions = result.Positions
	return state
}

// PortfolioStore owns assets, the price cache and derived portfolio valuation
type PortfolioStore struct {
	*Observable[PortfolioState]
	gateway domain.PortfolioGateway
	log     zerolog.Logger
}

// NewPortfolioStore creates a new PortfolioStore instance
func NewPortfolioStore(gateway domain.PortfolioGateway, log zerolog.Logger) *PortfolioStore {
	return &PortfolioStore{
		Observable: NewObservable(NewPortfolioState(), ReducePortfolio, snapshotPortfolio),
		gateway:    gateway,
		log:        log.With().Str("store", "portfolio").Logger(),
	}
}

// SetAssets replaces the asset collection
func (s *PortfolioStore) SetAssets(assets []domain.Asset) PortfolioState {
	return s.Dispatch(SetAssets{Assets: assets})
}

// AddAsset appends an asset
func (s *PortfolioStore) AddAsset(asset domain.Asset) PortfolioState {
	return s.Dispatch(AddAsset{Asset: asset})
}

// UpdateAsset merges a partial update into the asset with id
func (s *PortfolioStore) UpdateAsset(id string, patch domain.AssetPatch) PortfolioState {
	return s.Dispatch(UpdateAsset{ID: id, Patch: patch})
}

// DeleteAsset removes the asset with id
func (s *PortfolioStore) DeleteAsset(id string) PortfolioState {
	return s.Dispatch(DeleteAsset{ID: id})
}

// UpdatePriceData caches a quote and revalues every asset with that symbol
func (s *PortfolioStore) UpdatePriceData(symbol string, price domain.PriceData) PortfolioState {
	return s.Dispatch(UpdatePriceData{Symbol: symbol, Price: price})
}

// Symbols returns the distinct held symbols in first-appearance order
func (s *PortfolioStore) Symbols() []string {
	seen := make(map[string]bool)
	symbols := make([]string, 0)
	for _, asset := range s.State().Assets {
		symbol := valuation.NormalizeSymbol(asset.Symbol)
		if !seen[symbol] {
			seen[symbol] = true
			symbols = append(symbols, symbol)
		}
	}
	return symbols
}

// FetchAssets loads every holding from the gateway
func (s *PortfolioStore) FetchAssets(ctx context.Context) error {
	s.Dispatch(SetLoading{Loading: true})

	assets, err := s.gateway.ListAssets(ctx)
	if err != nil {
		s.fail(err, "Failed to fetch assets")
		return err
	}

	s.SetAssets(assets)
	s.Dispatch(SetLoading{Loading: false})
	return nil
}

// RefreshPrices fetches quotes for symbols and applies each of them.
// Failures are logged only; price data is not critical to the dashboard.
func (s *PortfolioStore) RefreshPrices(ctx context.Context, symbols []string) error {
	if len(symbols) == 0 {
		return nil
	}

	quotes, err := s.gateway.FetchPrices(ctx, symbols)
	if err != nil {
		s.log.Warn().Err(err).Strs("symbols", symbols).Msg("Failed to refresh prices")
		return err
	}

	for _, quote := range quotes {
		s.UpdatePriceData(quote.Symbol, quote)
	}
	return nil
}

// AddHolding creates a new asset through the gateway, appends it
// and refreshes the price of its symbol
func (s *PortfolioStore) AddHolding(ctx context.Context, portfolioID, symbol string, quantity, price decimal.Decimal) (*domain.Asset, error) {
	req := domain.HoldingRequest{
		PortfolioID: portfolioID,
		Symbol:      valuation.NormalizeSymbol(symbol),
		Quantity:    quantity,
		Price:       price,
	}
	if err := req.Validate(); err != nil {
		s.Dispatch(SetError{Message: err.Error()})
		return nil, err
	}

	s.Dispatch(SetLoading{Loading: true})

	asset, err := s.gateway.CreateAsset(ctx, req)
	if err != nil {
		s.fail(err, "Failed to add holding")
		return nil, err
	}
	if asset == nil {
		err := errors.New("gateway returned no asset")
		s.fail(err, "Failed to add holding")
		return nil, err
	}

	s.AddAsset(*asset)
	s.Dispatch(SetLoading{Loading: false})

	// price refresh failures are logged inside RefreshPrices
	_ = s.RefreshPrices(ctx, []string{req.Symbol})

	return asset, nil
}

func (s *PortfolioStore) fail(err error, fallback string) {
	s.log.Error().Err(err).Msg(fallback)
	s.Dispatch(SetError{Message: errorMessage(err, fallback)})
}

func cloneAssets(assets []domain.Asset) []domain.Asset {
	return append(make([]domain.Asset, 0, len(assets)+1), assets...)
}

func snapshotPortfolio(state PortfolioState) PortfolioState {
	assets := make([]domain.Asset, len(state.Assets))
	for i, asset := range state.Assets {
		assets[i] = copyAsset(asset)
	}
	state.Assets = assets
	state.Portfolios = append([]domain.Portfolio{}, state.Portfolios...)
	state.Positions = append([]domain.PortfolioPosition{}, state.Positions...)
	prices := make(map[string]domain.PriceData, len(state.Prices))
	for symbol, quote := range state.Prices {
		quote.Volume = copyDecimal(quote.Volume)
		prices[symbol] = quote
	}
	state.Prices = prices
	return state
}

// copyAsset detaches the asset's pointer fields from the original
func copyAsset(a domain.Asset) domain.Asset {
	a.CurrentPrice = copyDecimal(a.CurrentPrice)
	a.MarketValue = copyDecimal(a.MarketValue)
	a.ChangeAmount = copyDecimal(a.ChangeAmount)
	a.ChangePercent = copyDecimal(a.ChangePercent)
	return a
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
