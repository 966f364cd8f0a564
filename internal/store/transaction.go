package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/vorrawut/poon-sub000/internal/domain"
	"github.com/vorrawut/poon-sub000/internal/usecase/spending"
)

// TransactionState is everything the transaction store holds
type TransactionState struct {
	Transactions      []domain.Transaction
	Filters           domain.FilterState
	Filtered          []domain.Transaction
	SpendingTrends    []domain.SpendingTrend
	CategoryBreakdown []domain.CategorySpending
	IsLoading         bool
	Error             string
}

// SetTransactions replaces the whole collection
type SetTransactions struct{ Transactions []domain.Transaction }

// AddTransaction appends one transaction
type AddTransaction struct{ Transaction domain.Transaction }

// UpdateTransaction merges Patch into the transaction with ID; unknown ids are a no-op
type UpdateTransaction struct {
	ID    string
	Patch domain.TransactionPatch
}

// DeleteTransaction removes the transaction with ID
type DeleteTransaction struct{ ID string }

// SetFilters merges Patch shallowly into the active filters.
// Now resolves preset-only date ranges.
type SetFilters struct {
	Patch domain.FilterPatch
	Now   time.Time
}

func (SetTransactions) action()   {}
func (AddTransaction) action()    {}
func (UpdateTransaction) action() {}
func (DeleteTransaction) action() {}
func (SetFilters) action()        {}

// NewTransactionState returns the empty state filtered to the calendar month of now
func NewTransactionState(now time.Time) TransactionState {
	return recomputeTransactions(TransactionState{
		Transactions: []domain.Transaction{},
		Filters:      spending.DefaultFilters(now),
	})
}

// ReduceTransactions applies action to state and re-derives the filtered view and analytics
func ReduceTransactions(state TransactionState, action Action) TransactionState {
	switch a := action.(type) {
	case SetTransactions:
		state.Transactions = append([]domain.Transaction{}, a.Transactions...)
	case AddTransaction:
		state.Transactions = append(cloneTransactions(state.Transactions), a.Transaction)
	case UpdateTransaction:
		transactions := cloneTransactions(state.Transactions)
		for i := range transactions {
			if transactions[i].ID == a.ID {
				transactions[i] = a.Patch.Apply(transactions[i])
				break
			}
		}
		state.Transactions = transactions
	case DeleteTransaction:
		transactions := make([]domain.Transaction, 0, len(state.Transactions))
		for _, tx := range state.Transactions {
			if tx.ID != a.ID {
				transactions = append(transactions, tx)
			}
		}
		state.Transactions = transactions
	case SetFilters:
		filters := a.Patch.Apply(state.Filters)
		filters.DateRange = spending.ResolveDateRange(filters.DateRange, a.Now)
		state.Filters = filters
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

	return recomputeTransactions(state)
}

// recomputeTransactions re-runs filtering and both analytics projections
func recomputeTransactions(state TransactionState) TransactionState {
	state.Filtered = spending.ApplyFilters(state.Transactions, state.Filters)
	state.SpendingTrends = spending.CalculateSpendingTrends(state.Filtered)
	state.CategoryBreakdown = spending.CalculateCategoryBreakdown(state.Filtered)
	return state
}

// TransactionStore owns transactions, the active filters and derived analytics
type TransactionStore struct {
	*Observable[TransactionState]
	gateway domain.TransactionGateway
	clock   func() time.Time
	log     zerolog.Logger
}

// NewTransactionStore creates a new TransactionStore instance.
// A nil clock defaults to time.Now.
func NewTransactionStore(gateway domain.TransactionGateway, clock func() time.Time, log zerolog.Logger) *TransactionStore {
	if clock == nil {
		clock = time.Now
	}
	return &TransactionStore{
		Observable: NewObservable(NewTransactionState(clock()), ReduceTransactions, snapshotTransactions),
		gateway:    gateway,
		clock:      clock,
		log:        log.With().Str("store", "transactions").Logger(),
	}
}

// SetTransactions replaces the collection
func (s *TransactionStore) SetTransactions(transactions []domain.Transaction) TransactionState {
	return s.Dispatch(SetTransactions{Transactions: transactions})
}

// AddTransaction appends a transaction
func (s *TransactionStore) AddTransaction(tx domain.Transaction) TransactionState {
	return s.Dispatch(AddTransaction{Transaction: tx})
}

// UpdateTransaction merges a partial update into the transaction with id
func (s *TransactionStore) UpdateTransaction(id string, patch domain.TransactionPatch) TransactionState {
	return s.Dispatch(UpdateTransaction{ID: id, Patch: patch})
}

// DeleteTransaction removes the transaction with id
func (s *TransactionStore) DeleteTransaction(id string) TransactionState {
	return s.Dispatch(DeleteTransaction{ID: id})
}

// SetFilters merges a partial filter into the active one
func (s *TransactionStore) SetFilters(patch domain.FilterPatch) TransactionState {
	return s.Dispatch(SetFilters{Patch: patch, Now: s.clock()})
}

// FetchTransactions loads every transaction from the gateway
func (s *TransactionStore) FetchTransactions(ctx context.Context) error {
	s.Dispatch(SetLoading{Loading: true})

	transactions, err := s.gateway.ListTransactions(ctx)
	if err != nil {
		s.fail(err, "Failed to fetch transactions")
		return err
	}

	s.SetTransactions(transactions)
	s.Dispatch(SetLoading{Loading: false})
	return nil
}

// ImportTransactions hands a bulk import to the gateway, then refetches everything
func (s *TransactionStore) ImportTransactions(ctx context.Context, req domain.ImportRequest) (*domain.ImportResult, error) {
	s.Dispatch(SetLoading{Loading: true})

	result, err := s.gateway.ImportTransactions(ctx, req)
	if err != nil {
		s.fail(err, "Failed to import transactions")
		return nil, err
	}

	s.log.Info().
		Str("account_id", req.AccountID).
		Int("imported", result.Imported).
		Int("duplicates", result.Duplicates).
		Msg("Transactions imported")

	if err := s.FetchTransactions(ctx); err != nil {
		return result, err
	}
	return result, nil
}

func (s *TransactionStore) fail(err error, fallback string) {
	s.log.Error().Err(err).Msg(fallback)
	s.Dispatch(SetError{Message: errorMessage(err, fallback)})
}

func cloneTransactions(transactions []domain.Transaction) []domain.Transaction {
	return append(make([]domain.Transaction, 0, len(transactions)+1), transactions...)
}

func snapshotTransactions(state TransactionState) TransactionState {
	state.Transactions = copyTransactions(state.Transactions)
	state.Filtered = copyTransactions(state.Filtered)

	trends := make([]domain.SpendingTrend, len(state.SpendingTrends))
	for i, trend := range state.SpendingTrends {
		trend.Categories = copyCategories(trend.Categories)
		trends[i] = trend
	}
	state.SpendingTrends = trends
	state.CategoryBreakdown = copyCategories(state.CategoryBreakdown)

	state.Filters.Accounts = append([]string{}, state.Filters.Accounts...)
	state.Filters.Categories = append([]string{}, state.Filters.Categories...)
	return state
}

// copyTransactions copies the slice and every transaction's tags
func copyTransactions(transactions []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(transactions))
	for i, tx := range transactions {
		if tx.Tags != nil {
			tx.Tags = append([]string{}, tx.Tags...)
		}
		out[i] = tx
	}
	return out
}

// copyCategories copies a category tree down to its subcategories
func copyCategories(categories []domain.CategorySpending) []domain.CategorySpending {
	if categories == nil {
		return []domain.CategorySpending{}
	}
	out := make([]domain.CategorySpending, len(categories))
	for i, c := range categories {
		if c.Subcategories != nil {
			c.Subcategories = copyCategories(c.Subcategories)
		}
		out[i] = c
	}
	return out
}
