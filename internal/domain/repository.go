package domain

import (
	"context"
)

// AccountGateway defines the external data-fetch collaborator behind the account store
type AccountGateway interface {
	// ListAccounts retrieves every account visible to the current user
	ListAccounts(ctx context.Context) ([]Account, error)

	// SyncAccount asks the provider to refresh one account and returns its new state
	SyncAccount(ctx context.Context, id string) (*Account, error)

	// LinkBankAccount runs the simulated aggregator link flow
	// and returns the accounts it produced
	LinkBankAccount(ctx context.Context, req LinkRequest) ([]Account, error)
}

// TransactionGateway defines the external collaborator behind the transaction store
type TransactionGateway interface {
	// ListTransactions retrieves all transactions
	ListTransactions(ctx context.Context) ([]Transaction, error)

	// ImportTransactions bulk-imports transactions
	ImportTransactions(ctx context.Context, req ImportRequest) (*ImportResult, error)
}

// PortfolioGateway defines the external collaborator behind the portfolio store
type PortfolioGateway interface {
	// ListAssets retrieves all holdings
	ListAssets(ctx context.Context) ([]Asset, error)

	// FetchPrices retrieves the latest quote for each requested symbol
	FetchPrices(ctx context.Context, symbols []string) ([]PriceData, error)

	// CreateAsset records a new holding and returns it
	CreateAsset(ctx context.Context, req HoldingRequest) (*Asset, error)
}
