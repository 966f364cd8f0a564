package store

import (
	"context"
	"errors"
	"maps"

	"github.com/rs/zerolog"
	"github.com/vorrawut/poon-sub000/internal/domain"
	"github.com/vorrawut/poon-sub000/internal/usecase/networth"
)

// AccountState is everything the account store holds
type AccountState struct {
	Accounts  []domain.Account
	Selected  *domain.Account
	Metrics   domain.DashboardMetrics
	IsLoading bool
	Error     string
}

// SetAccounts replaces the whole collection. Duplicate ids are kept as given.
type SetAccounts struct{ Accounts []domain.Account }

// AddAccount appends one account
type AddAccount struct{ Account domain.Account }

// UpdateAccount merges Patch into the account with ID; unknown ids are a no-op
type UpdateAccount struct {
	ID    string
	Patch domain.AccountPatch
}

// DeleteAccount removes the account with ID and clears the selection if it pointed there
type DeleteAccount struct{ ID string }

// SelectAccount sets UI focus; nil clears it
type SelectAccount struct{ Account *domain.Account }

func (SetAccounts) action()   {}
func (AddAccount) action()    {}
func (UpdateAccount) action() {}
func (DeleteAccount) action() {}
func (SelectAccount) action() {}

// NewAccountState returns the empty account state with zeroed metrics
func NewAccountState() AccountState {
	return AccountState{
		Accounts: []domain.Account{},
		Metrics:  networth.CalculateMetrics(nil),
	}
}

// ReduceAccounts applies action to state and recomputes metrics after structural changes
func ReduceAccounts(state AccountState, action Action) AccountState {
	switch a := action.(type) {
	case SetAccounts:
		state.Accounts = append([]domain.Account{}, a.Accounts...)
	case AddAccount:
		state.Accounts = append(cloneAccounts(state.Accounts), a.Account)
	case UpdateAccount:
		accounts := cloneAccounts(state.Accounts)
		for i := range accounts {
			if accounts[i].ID == a.ID {
				accounts[i] = a.Patch.Apply(accounts[i])
				if state.Selected != nil && state.Selected.ID == a.ID {
					selected := accounts[i]
					state.Selected = &selected
				}
				break
			}
		}
		state.Accounts = accounts
	case DeleteAccount:
		accounts := make([]domain.Account, 0, len(state.Accounts))
		for _, account := range state.Accounts {
			if account.ID != a.ID {
				accounts = append(accounts, account)
			}
		}
		state.Accounts = accounts
		if state.Selected != nil && state.Selected.ID == a.ID {
			state.Selected = nil
		}
	case SelectAccount:
		if a.Account == nil {
			state.Selected = nil
		} else {
			selected := *a.Account
			state.Selected = &selected
		}
		return state
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

	state.Metrics = networth.CalculateMetrics(state.Accounts)
	return state
}

// AccountStore owns the account collection and its metrics snapshot
type AccountStore struct {
	*Observable[AccountState]
	gateway domain.AccountGateway
	log     zerolog.Logger
}

// NewAccountStore creates a new AccountStore instance
func NewAccountStore(gateway domain.AccountGateway, log zerolog.Logger) *AccountStore {
	return &AccountStore{
		Observable: NewObservable(NewAccountState(), ReduceAccounts, snapshotAccounts),
		gateway:    gateway,
		log:        log.With().Str("store", "accounts").Logger(),
	}
}

// SetAccounts replaces the collection
func (s *AccountStore) SetAccounts(accounts []domain.Account) AccountState {
	return s.Dispatch(SetAccounts{Accounts: accounts})
}

// AddAccount appends an account
func (s *AccountStore) AddAccount(account domain.Account) AccountState {
	return s.Dispatch(AddAccount{Account: account})
}

// UpdateAccount merges a partial update into the account with id
func (s *AccountStore) UpdateAccount(id string, patch domain.AccountPatch) AccountState {
	return s.Dispatch(UpdateAccount{ID: id, Patch: patch})
}

// DeleteAccount removes the account with id
func (s *AccountStore) DeleteAccount(id string) AccountState {
	return s.Dispatch(DeleteAccount{ID: id})
}

// SelectAccount focuses an account; nil clears the focus
func (s *AccountStore) SelectAccount(account *domain.Account) AccountState {
	return s.Dispatch(SelectAccount{Account: account})
}

// FetchAccounts loads the full account list from the gateway
func (s *AccountStore) FetchAccounts(ctx context.Context) error {
	s.Dispatch(SetLoading{Loading: true})

	accounts, err := s.gateway.ListAccounts(ctx)
	if err != nil {
		s.fail(err, "Failed to fetch accounts")
		return err
	}

	s.SetAccounts(accounts)
	s.Dispatch(SetLoading{Loading: false})
	return nil
}

// SyncAccount refreshes one account through its provider
func (s *AccountStore) SyncAccount(ctx context.Context, id string) error {
	s.Dispatch(SetLoading{Loading: true})

	account, err := s.gateway.SyncAccount(ctx, id)
	if err != nil {
		s.fail(err, "Failed to sync account")
		return err
	}
	if account == nil {
		err := errors.New("gateway returned no account")
		s.fail(err, "Failed to sync account")
		return err
	}

	s.UpdateAccount(id, patchFromAccount(*account))
	s.Dispatch(SetLoading{Loading: false})
	return nil
}

// LinkBankAccount runs the simulated aggregator link flow and appends the new accounts
func (s *AccountStore) LinkBankAccount(ctx context.Context, req domain.LinkRequest) error {
	s.Dispatch(SetLoading{Loading: true})

	accounts, err := s.gateway.LinkBankAccount(ctx, req)
	if err != nil {
		s.fail(err, "Failed to link bank account")
		return err
	}

	for _, account := range accounts {
		s.AddAccount(account)
	}
	s.Dispatch(SetLoading{Loading: false})
	return nil
}

func (s *AccountStore) fail(err error, fallback string) {
	message := errorMessage(err, fallback)
	s.log.Error().Err(err).Msg(fallback)
	s.Dispatch(SetError{Message: message})
}

// patchFromAccount turns a refreshed account into an update of its mutable fields
func patchFromAccount(a domain.Account) domain.AccountPatch {
	patch := domain.AccountPatch{
		Name:           &a.Name,
		Type:           &a.Type,
		Currency:       &a.Currency,
		CurrentBalance: &a.CurrentBalance,
		IsActive:       &a.IsActive,
		LastSyncAt:     a.LastSyncAt,
		Metadata:       a.Metadata,
	}
	return patch
}

func cloneAccounts(accounts []domain.Account) []domain.Account {
	return append(make([]domain.Account, 0, len(accounts)+1), accounts...)
}

func snapshotAccounts(state AccountState) AccountState {
	accounts := make([]domain.Account, len(state.Accounts))
	for i, account := range state.Accounts {
		accounts[i] = copyAccount(account)
	}
	state.Accounts = accounts
	if state.Selected != nil {
		selected := copyAccount(*state.Selected)
		state.Selected = &selected
	}
	return state
}

// copyAccount detaches the account's sync time and top-level metadata from the original
func copyAccount(a domain.Account) domain.Account {
	if a.LastSyncAt != nil {
		t := *a.LastSyncAt
		a.LastSyncAt = &t
	}
	if a.Metadata != nil {
		a.Metadata = maps.Clone(a.Metadata)
	}
	return a
}
