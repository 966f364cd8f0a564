package store

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vorrawut/poon-sub000/internal/domain"
)

// MockAccountGateway is a mock implementation of AccountGateway for testing
type MockAccountGateway struct {
	mock.Mock
}

func (m *MockAccountGateway) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountGateway) SyncAccount(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountGateway) LinkBankAccount(ctx context.Context, req domain.LinkRequest) ([]domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// MockTransactionGateway is a mock implementation of TransactionGateway for testing
type MockTransactionGateway struct {
	mock.Mock
}

func (m *MockTransactionGateway) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionGateway) ImportTransactions(ctx context.Context, req domain.ImportRequest) (*domain.ImportResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportResult), args.Error(1)
}

// MockPortfolioGateway is a mock implementation of PortfolioGateway for testing
type MockPortfolioGateway struct {
	mock.Mock
}

func (m *MockPortfolioGateway) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *MockPortfolioGateway) FetchPrices(ctx context.Context, symbols []string) ([]domain.PriceData, error) {
	args := m.Called(ctx, symbols)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PriceData), args.Error(1)
}

func (m *MockPortfolioGateway) CreateAsset(ctx context.Context, req domain.HoldingRequest) (*domain.Asset, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}
