package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AssetType represents the class of a holding
type AssetType string

const (
	AssetTypeStock      AssetType = "stock"
	AssetTypeCrypto     AssetType = "crypto"
	AssetTypeBond       AssetType = "bond"
	AssetTypeMutualFund AssetType = "mutual_fund"
	AssetTypeETF        AssetType = "etf"
)

// Asset represents a holding in the domain layer
// The pointer valuation fields are derived and nil until a price is known.
type Asset struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	AccountID     string           `json:"account_id"`
	AssetType     AssetType        `json:"asset_type"`
	Symbol        string           `json:"symbol"`
	Name          string           `json:"name"`
	Quantity      decimal.Decimal  `json:"quantity"`
	AvgPrice      decimal.Decimal  `json:"avg_price"` // cost basis per unit
	CurrentPrice  *decimal.Decimal `json:"current_price,omitempty"`
	MarketValue   *decimal.Decimal `json:"market_value,omitempty"`
	ChangeAmount  *decimal.Decimal `json:"change_amount,omitempty"`
	ChangePercent *decimal.Decimal `json:"change_percent,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// CostBasis returns quantity x average price
func (a *Asset) CostBasis() decimal.Decimal {
	return a.Quantity.Mul(a.AvgPrice)
}

// Validate ensures the asset adheres to domain rules
func (a *Asset) Validate() error {
	if a.ID == "" {
		return errors.New("asset id cannot be empty")
	}
	if a.AccountID == "" {
		return errors.New("asset must reference an account")
	}
	if strings.TrimSpace(a.Symbol) == "" {
		return errors.New("asset symbol cannot be empty")
	}
	if a.Quantity.IsNegative() {
		return errors.New("asset quantity must be positive")
	}
	if a.AvgPrice.IsNegative() {
		return errors.New("asset average price must be positive")
	}
	return nil
}

// AssetPatch carries a partial asset update. Nil fields are left untouched.
type AssetPatch struct {
	Name         *string          `json:"name,omitempty"`
	Quantity     *decimal.Decimal `json:"quantity,omitempty"`
	AvgPrice     *decimal.Decimal `json:"avg_price,omitempty"`
	CurrentPrice *decimal.Decimal `json:"current_price,omitempty"`
}

// Apply returns a copy of a with the patch merged in
func (p AssetPatch) Apply(a Asset) Asset {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Quantity != nil {
		a.Quantity = *p.Quantity
	}
	if p.AvgPrice != nil {
		a.AvgPrice = *p.AvgPrice
	}
	if p.CurrentPrice != nil {
		price := *p.CurrentPrice
		a.CurrentPrice = &price
	}
	return a
}

// Portfolio is the derived aggregate over all assets of one account
type Portfolio struct {
	ID                   string          `json:"id"` // equal to the account id the assets belong to
	UserID               string          `json:"user_id"`
	Name                 string          `json:"name"`
	TotalValue           decimal.Decimal `json:"total_value"`
	TotalCost            decimal.Decimal `json:"total_cost"`
	TotalGainLoss        decimal.Decimal `json:"total_gain_loss"`
	TotalGainLossPercent decimal.Decimal `json:"total_gain_loss_percent"`
	CreatedAt            time.Time       `json:"created_at"`
}

// PortfolioPosition is the derived valuation of one asset inside its portfolio
type PortfolioPosition struct {
	AssetID         string          `json:"asset_id"`
	PortfolioID     string          `json:"portfolio_id"`
	Symbol          string          `json:"symbol"`
	Name            string          `json:"name"`
	AssetType       AssetType       `json:"asset_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	AvgPrice        decimal.Decimal `json:"avg_price"`
	CurrentPrice    decimal.Decimal `json:"current_price"`
	MarketValue     decimal.Decimal `json:"market_value"`
	GainLoss        decimal.Decimal `json:"gain_loss"`
	GainLossPercent decimal.Decimal `json:"gain_loss_percent"`
	WeightPercent   decimal.Decimal `json:"weight_percent"`
}

// PriceData represents a daily quote for a symbol
type PriceData struct {
	Symbol string           `json:"symbol"`
	Date   time.Time        `json:"date"`
	Open   decimal.Decimal  `json:"open"`
	High   decimal.Decimal  `json:"high"`
	Low    decimal.Decimal  `json:"low"`
	Close  decimal.Decimal  `json:"close"`
	Volume *decimal.Decimal `json:"volume,omitempty"`
	Source string           `json:"source"`
}

// HoldingRequest asks the portfolio collaborator to create a new asset
type HoldingRequest struct {
	PortfolioID string          `json:"portfolio_id"`
	Symbol      string          `json:"symbol"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Validate ensures the holding request is usable
func (r *HoldingRequest) Validate() error {
	if r.PortfolioID == "" {
		return errors.New("portfolio id cannot be empty")
	}
	if strings.TrimSpace(r.Symbol) == "" {
		return errors.New("symbol cannot be empty")
	}
	if r.Quantity.LessThanOrEqual(decimal.Zero) {
		return errors.New("quantity must be positive")
	}
	if r.Price.IsNegative() {
		return errors.New("price must be positive")
	}
	return nil
}
