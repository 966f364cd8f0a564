package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType represents the direction of a transaction
type EntryType string

const (
	EntryTypeDebit  EntryType = "debit"
	EntryTypeCredit EntryType = "credit"
)

// ImportSource records how a transaction entered the system
type ImportSource string

const (
	ImportSourceManual   ImportSource = "manual"
	ImportSourcePlaid    ImportSource = "plaid"
	ImportSourceSaltEdge ImportSource = "saltedge"
	ImportSourceCSV      ImportSource = "csv"
)

// DefaultSubcategory is used when a transaction carries no subcategory
const DefaultSubcategory = "Other"

// Transaction represents a posted transaction in the domain layer
type Transaction struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	AccountID    string          `json:"account_id"`
	PostedAt     time.Time       `json:"posted_at"`
	Amount       decimal.Decimal `json:"amount"` // ABSOLUTE VALUE (Always >= 0)
	Type         EntryType       `json:"type"`   // direction lives here, never in the amount sign
	Category     string          `json:"category"`
	Subcategory  string          `json:"subcategory,omitempty"`
	Merchant     string          `json:"merchant,omitempty"`
	Description  string          `json:"description"`
	ImportSource ImportSource    `json:"import_source"`
	Tags         []string        `json:"tags,omitempty"`
	IsDuplicate  bool            `json:"is_duplicate,omitempty"`
}

// Validate ensures the transaction adheres to domain rules
func (t *Transaction) Validate() error {
	if t.ID == "" {
		return errors.New("transaction id cannot be empty")
	}
	if t.AccountID == "" {
		return errors.New("transaction must reference an account")
	}
	if t.Amount.IsNegative() {
		return errors.New("transaction amount must be positive (absolute value)")
	}
	if t.Type != EntryTypeDebit && t.Type != EntryTypeCredit {
		return errors.New("transaction type must be debit or credit")
	}
	if t.PostedAt.IsZero() {
		return errors.New("transaction posted date cannot be empty")
	}
	return nil
}

// Period returns the YYYY-MM bucket the transaction falls into
func (t *Transaction) Period() string {
	return Day(t.PostedAt).Format("2006-01")
}

// SubcategoryOrDefault returns the subcategory, falling back to DefaultSubcategory
func (t *Transaction) SubcategoryOrDefault() string {
	if t.Subcategory == "" {
		return DefaultSubcategory
	}
	return t.Subcategory
}

// TransactionPatch carries a partial transaction update. Nil fields are left untouched.
type TransactionPatch struct {
	AccountID   *string          `json:"account_id,omitempty"`
	PostedAt    *time.Time       `json:"posted_at,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Type        *EntryType       `json:"type,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Subcategory *string          `json:"subcategory,omitempty"`
	Merchant    *string          `json:"merchant,omitempty"`
	Description *string          `json:"description,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	IsDuplicate *bool            `json:"is_duplicate,omitempty"`
}

// Apply returns a copy of t with the patch merged in
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.AccountID != nil {
		t.AccountID = *p.AccountID
	}
	if p.PostedAt != nil {
		t.PostedAt = *p.PostedAt
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Subcategory != nil {
		t.Subcategory = *p.Subcategory
	}
	if p.Merchant != nil {
		t.Merchant = *p.Merchant
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Tags != nil {
		t.Tags = append([]string(nil), p.Tags...)
	}
	if p.IsDuplicate != nil {
		t.IsDuplicate = *p.IsDuplicate
	}
	return t
}

// ImportRequest is a bulk transaction import handed to the import collaborator
type ImportRequest struct {
	AccountID    string        `json:"account_id"`
	Source       ImportSource  `json:"source"`
	Transactions []Transaction `json:"transactions"`
}

// ImportResult summarises a bulk import
type ImportResult struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
}

// Day truncates t to its calendar day in UTC
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
