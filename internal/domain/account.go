package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Provider identifies where an account's data comes from
type Provider string

const (
	ProviderManual   Provider = "manual"
	ProviderPlaid    Provider = "plaid"
	ProviderSaltEdge Provider = "saltedge"
	ProviderCSV      Provider = "csv"
)

// Valid reports whether p is a known provider
func (p Provider) Valid() bool {
	switch p {
	case ProviderManual, ProviderPlaid, ProviderSaltEdge, ProviderCSV:
		return true
	}
	return false
}

// AccountType represents the kind of account held by a user
type AccountType string

const (
	AccountTypeChecking      AccountType = "checking"
	AccountTypeSavings       AccountType = "savings"
	AccountTypeInvestment    AccountType = "investment"
	AccountTypeCompany       AccountType = "company"
	AccountTypeInsurance     AccountType = "insurance"
	AccountTypeProvidentFund AccountType = "provident_fund"
)

// Valid reports whether t is a known account type
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeInvestment,
		AccountTypeCompany, AccountTypeInsurance, AccountTypeProvidentFund:
		return true
	}
	return false
}

// Account represents a financial account in the domain layer
type Account struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Provider       Provider        `json:"provider"`
	Type           AccountType     `json:"type"`
	Name           string          `json:"name"`
	Currency       string          `json:"currency"`
	CurrentBalance decimal.Decimal `json:"current_balance"` // Signed: negative balances are liabilities
	IsActive       bool            `json:"is_active"`
	LastSyncAt     *time.Time      `json:"last_sync_at,omitempty"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// IsLiability reports whether the account counts against net worth
func (a *Account) IsLiability() bool {
	return a.CurrentBalance.IsNegative()
}

// Validate ensures the account adheres to domain rules
func (a *Account) Validate() error {
	if a.ID == "" {
		return errors.New("account id cannot be empty")
	}
	if !a.Provider.Valid() {
		return errors.New("invalid account provider: " + string(a.Provider))
	}
	if !a.Type.Valid() {
		return errors.New("invalid account type: " + string(a.Type))
	}
	if a.Currency == "" {
		return errors.New("account currency cannot be empty")
	}
	return nil
}

// AccountPatch carries a partial account update. Nil fields are left untouched.
type AccountPatch struct {
	Name           *string          `json:"name,omitempty"`
	Type           *AccountType     `json:"type,omitempty"`
	Currency       *string          `json:"currency,omitempty"`
	CurrentBalance *decimal.Decimal `json:"current_balance,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`
	LastSyncAt     *time.Time       `json:"last_sync_at,omitempty"`
	Metadata       map[string]any   `json:"metadata,omitempty"`
}

// Apply returns a copy of a with the patch merged in
func (p AccountPatch) Apply(a Account) Account {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Currency != nil {
		a.Currency = *p.Currency
	}
	if p.CurrentBalance != nil {
		a.CurrentBalance = *p.CurrentBalance
	}
	if p.IsActive != nil {
		a.IsActive = *p.IsActive
	}
	if p.LastSyncAt != nil {
		t := *p.LastSyncAt
		a.LastSyncAt = &t
	}
	if p.Metadata != nil {
		a.Metadata = p.Metadata
	}
	return a
}

// LinkRequest describes a simulated bank-link flow (Plaid or SaltEdge)
type LinkRequest struct {
	Provider      Provider `json:"provider"`
	InstitutionID string   `json:"institution_id"`
	PublicToken   string   `json:"public_token"`
}

// Validate ensures the link request targets an aggregator provider
func (r *LinkRequest) Validate() error {
	if r.Provider != ProviderPlaid && r.Provider != ProviderSaltEdge {
		return errors.New("link provider must be plaid or saltedge")
	}
	if r.InstitutionID == "" {
		return errors.New("institution id cannot be empty")
	}
	return nil
}
