package valuation

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vorrawut/poon-sub000/internal/domain"
)

// Result holds everything derived from the asset collection
type Result struct {
	Portfolios []domain.Portfolio
	Positions  []domain.PortfolioPosition
}

// NormalizeSymbol returns the key prices are cached under
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// EffectivePrice picks the price used to value an asset
// Priority: explicit current price -> cached close for the symbol -> average cost
func EffectivePrice(asset domain.Asset, prices map[string]domain.PriceData) decimal.Decimal {
	if asset.CurrentPrice != nil {
		return *asset.CurrentPrice
	}
	if quote, ok := prices[NormalizeSymbol(asset.Symbol)]; ok {
		return quote.Close
	}
	return asset.AvgPrice
}

// Revalue returns a copy of the asset priced at price
// Logic:
//   - MarketValue = Quantity x price
//   - ChangeAmount = MarketValue - Quantity x AvgPrice
//   - ChangePercent = ChangeAmount / cost basis x 100 (0 when cost basis is 0)
func Revalue(asset domain.Asset, price decimal.Decimal) domain.Asset {
	marketValue := asset.Quantity.Mul(price)
	changeAmount := marketValue.Sub(asset.CostBasis())
	changePercent := domain.Percent(changeAmount, asset.CostBasis())

	asset.CurrentPrice = &price
	asset.MarketValue = &marketValue
	asset.ChangeAmount = &changeAmount
	asset.ChangePercent = &changePercent
	return asset
}

// ApplyPrice revalues every asset sharing the quote's symbol at its close
// The asset's own current price is always overwritten. Other assets are copied unchanged.
func ApplyPrice(assets []domain.Asset, quote domain.PriceData) []domain.Asset {
	symbol := NormalizeSymbol(quote.Symbol)
	updated := make([]domain.Asset, len(assets))
	for i, asset := range assets {
		if NormalizeSymbol(asset.Symbol) == symbol {
			asset = Revalue(asset, quote.Close)
		}
		updated[i] = asset
	}
	return updated
}

// group accumulates the assets of one account
type group struct {
	portfolio domain.Portfolio
	positions []domain.PortfolioPosition
}

// Derive recomputes portfolios and positions from assets and cached prices
// Logic:
//  1. Group assets by AccountID (one synthetic portfolio per account, first-appearance order)
//  2. Per group: TotalValue = Sum(quantity x effective price), TotalCost = Sum(quantity x avg price),
//     GainLoss = TotalValue - TotalCost, percent relative to TotalCost (0 when cost is 0)
//  3. One position per asset with WeightPercent = value / group TotalValue x 100 (0 when total is 0)
//  4. Positions sorted by market value desc
func Derive(assets []domain.Asset, prices map[string]domain.PriceData) Result {
	index := make(map[string]int)
	groups := make([]*group, 0)

	for _, asset := range assets {
		i, ok := index[asset.AccountID]
		if !ok {
			i = len(groups)
			index[asset.AccountID] = i
			groups = append(groups, &group{
				portfolio: domain.Portfolio{
					ID:         asset.AccountID,
					UserID:     asset.UserID,
					Name:       "Portfolio " + asset.AccountID,
					TotalValue: decimal.Zero,
					TotalCost:  decimal.Zero,
					CreatedAt:  asset.CreatedAt,
				},
			})
		}
		g := groups[i]

		price := EffectivePrice(asset, prices)
		marketValue := asset.Quantity.Mul(price)
		cost := asset.CostBasis()
		gainLoss := marketValue.Sub(cost)

		g.portfolio.TotalValue = g.portfolio.TotalValue.Add(marketValue)
		g.portfolio.TotalCost = g.portfolio.TotalCost.Add(cost)
		if !asset.CreatedAt.IsZero() && (g.portfolio.CreatedAt.IsZero() || asset.CreatedAt.Before(g.portfolio.CreatedAt)) {
			g.portfolio.CreatedAt = asset.CreatedAt
		}

		g.positions = append(g.positions, domain.PortfolioPosition{
			AssetID:         asset.ID,
			PortfolioID:     asset.AccountID,
			Symbol:          asset.Symbol,
			Name:            asset.Name,
			AssetType:       asset.AssetType,
			Quantity:        asset.Quantity,
			AvgPrice:        asset.AvgPrice,
			CurrentPrice:    price,
			MarketValue:     marketValue,
			GainLoss:        gainLoss,
			GainLossPercent: domain.Percent(gainLoss, cost),
		})
	}

	result := Result{
		Portfolios: make([]domain.Portfolio, 0, len(groups)),
		Positions:  make([]domain.PortfolioPosition, 0, len(assets)),
	}

	for _, g := range groups {
		g.portfolio.TotalGainLoss = g.portfolio.TotalValue.Sub(g.portfolio.TotalCost)
		g.portfolio.TotalGainLossPercent = domain.Percent(g.portfolio.TotalGainLoss, g.portfolio.TotalCost)
		result.Portfolios = append(result.Portfolios, g.portfolio)

		for _, position := range g.positions {
			position.WeightPercent = domain.Percent(position.MarketValue, g.portfolio.TotalValue)
			result.Positions = append(result.Positions, position)
		}
	}

	sort.SliceStable(result.Positions, func(i, j int) bool {
		return result.Positions[i].MarketValue.GreaterThan(result.Positions[j].MarketValue)
	})

	return result
}
