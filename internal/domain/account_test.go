package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		wantErr bool
		errMsg  string
	}{
		{
			name: "Manual checking account should pass",
			account: Account{
				ID:             "acc-1",
				Provider:       ProviderManual,
				Type:           AccountTypeChecking,
				Currency:       "THB",
				CurrentBalance: decimal.NewFromInt(500),
			},
			wantErr: false,
		},
		{
			name: "Unknown provider should fail",
			account: Account{
				ID:       "acc-2",
				Provider: Provider("yodlee"),
				Type:     AccountTypeSavings,
				Currency: "USD",
			},
			wantErr: true,
			errMsg:  "invalid account provider: yodlee",
		},
		{
			name: "Unknown type should fail",
			account: Account{
				ID:       "acc-3",
				Provider: ProviderPlaid,
				Type:     AccountType("brokerage"),
				Currency: "USD",
			},
			wantErr: true,
			errMsg:  "invalid account type: brokerage",
		},
		{
			name: "Missing currency should fail",
			account: Account{
				ID:       "acc-4",
				Provider: ProviderCSV,
				Type:     AccountTypeProvidentFund,
			},
			wantErr: true,
			errMsg:  "account currency cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAccount_IsLiability(t *testing.T) {
	credit := Account{CurrentBalance: decimal.NewFromInt(-200)}
	savings := Account{CurrentBalance: decimal.NewFromInt(500)}
	empty := Account{CurrentBalance: decimal.Zero}

	assert.True(t, credit.IsLiability())
	assert.False(t, savings.IsLiability())
	assert.False(t, empty.IsLiability())
}

func TestAccountPatch_Apply(t *testing.T) {
	original := Account{ID: "acc-1", Name: "Main", CurrentBalance: decimal.NewFromInt(100), IsActive: true}

	balance := decimal.NewFromInt(250)
	inactive := false
	updated := AccountPatch{CurrentBalance: &balance, IsActive: &inactive}.Apply(original)

	assert.True(t, updated.CurrentBalance.Equal(balance))
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Main", updated.Name)
	assert.True(t, original.IsActive, "original should not be mutated")
}

func TestLinkRequest_Validate(t *testing.T) {
	valid := LinkRequest{Provider: ProviderPlaid, InstitutionID: "ins_1"}
	assert.NoError(t, valid.Validate())

	manual := LinkRequest{Provider: ProviderManual, InstitutionID: "ins_1"}
	assert.EqualError(t, manual.Validate(), "link provider must be plaid or saltedge")

	missing := LinkRequest{Provider: ProviderSaltEdge}
	assert.EqualError(t, missing.Validate(), "institution id cannot be empty")
}
