package networth

import (
	"github.com/shopspring/decimal"
	"github.com/vorrawut/poon-sub000/internal/domain"
)

// CalculateMetrics derives the dashboard snapshot from the account list
// Logic:
//   - TotalAssets: Sum of balances strictly above zero
//   - TotalLiabilities: Sum of |balance| for balances strictly below zero
//   - TotalNetWorth: TotalAssets - TotalLiabilities
//
// Income, expense, change and savings-rate fields are left at zero here;
// they are filled from transactions by the dashboard workspace.
func CalculateMetrics(accounts []domain.Account) domain.DashboardMetrics {
	totalAssets := decimal.Zero
	totalLiabilities := decimal.Zero

	for _, account := range accounts {
		switch {
		case account.CurrentBalance.IsPositive():
			totalAssets = totalAssets.Add(account.CurrentBalance)
		case account.CurrentBalance.IsNegative():
			totalLiabilities = totalLiabilities.Add(account.CurrentBalance.Abs())
		}
	}

	return domain.DashboardMetrics{
		TotalNetWorth:         totalAssets.Sub(totalLiabilities),
		NetWorthChange:        decimal.Zero,
		NetWorthChangePercent: decimal.Zero,
		TotalAssets:           totalAssets,
		TotalLiabilities:      totalLiabilities,
		MonthlyIncome:         decimal.Zero,
		MonthlyExpenses:       decimal.Zero,
		SavingsRate:           decimal.Zero,
	}
}
